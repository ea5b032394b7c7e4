package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abduldattijo/investment-data-app/internal/filter"
	"github.com/abduldattijo/investment-data-app/internal/model"
	"github.com/abduldattijo/investment-data-app/internal/report"
)

var (
	filterData  string
	filterOpts  filter.Filter
	filterLimit int
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "List investors matching sector, stage, check size, geography or text",
	Long: "Lists enriched investors. --check takes one of the check-size buckets " +
		"($0-100k, $100-250k, $250-500k, $500k-1M, $1-5M, $5M+) or an exact range label.",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := loadProfiles(filterData)
		if err != nil {
			return err
		}
		runFilter(os.Stdout, profiles, filterOpts, filterLimit)
		return nil
	},
}

func runFilter(w io.Writer, profiles []model.VCProfile, f filter.Filter, limit int) {
	shown, total := filter.Page(f.Apply(profiles), limit)
	report.ProfileTable(w, shown, total)
}

func init() {
	filterCmd.Flags().StringVar(&filterData, "data", defaultDataPath, "enriched profiles JSON")
	filterCmd.Flags().StringVar(&filterOpts.Sector, "sector", "", "sector focus")
	filterCmd.Flags().StringVar(&filterOpts.Stage, "stage", "", "preferred stage")
	filterCmd.Flags().StringVar(&filterOpts.CheckRange, "check", "", "check-size bucket or range label")
	filterCmd.Flags().StringVar(&filterOpts.Geo, "geo", "", "geographic focus")
	filterCmd.Flags().StringVar(&filterOpts.Query, "query", "", "text in name, about or thesis")
	filterCmd.Flags().IntVar(&filterLimit, "limit", filter.DefaultPageSize, "rows to show")
	rootCmd.AddCommand(filterCmd)
}
