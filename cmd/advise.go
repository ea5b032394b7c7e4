package main

import (
	"context"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/abduldattijo/investment-data-app/internal/match"
	"github.com/abduldattijo/investment-data-app/internal/model"
	"github.com/abduldattijo/investment-data-app/internal/report"
)

var (
	adviseData       string
	adviseStartup    string
	adviseSector     string
	adviseStage      string
	adviseGeo        string
	adviseLeadFollow string
	adviseOut        string
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Match investors and write an outreach brief in Markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := criteriaFromFlags(adviseSector, adviseStage, adviseGeo, adviseLeadFollow)
		if err != nil {
			return err
		}
		profiles, err := loadProfiles(adviseData)
		if err != nil {
			return err
		}
		engine, err := newEngine(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if adviseOut != "" {
			f, err := os.Create(adviseOut)
			if err != nil {
				return eris.Wrap(err, "create advice file")
			}
			defer f.Close() //nolint:errcheck
			w = f
		}
		return runAdvise(cmd.Context(), w, engine, profiles, adviseStartup, cfg.Match.Limit, criteria)
	},
}

func runAdvise(ctx context.Context, w io.Writer, engine *match.Engine, profiles []model.VCProfile, startup string, limit int, criteria *model.Criteria) error {
	matches := engine.Match(ctx, startup, profiles, limit, criteria)
	attrs := engine.ExtractAttributes(ctx, startup)
	advice := engine.Advise(ctx, startup, matches)
	return report.AdviceMarkdown(w, startup, attrs, matches, advice)
}

func init() {
	adviseCmd.Flags().StringVar(&adviseData, "data", defaultDataPath, "enriched profiles JSON")
	adviseCmd.Flags().StringVar(&adviseStartup, "startup", "", "startup description")
	adviseCmd.Flags().StringVar(&adviseSector, "sector", "", "only investors focused on this sector")
	adviseCmd.Flags().StringVar(&adviseStage, "stage", "", "only investors backing this stage")
	adviseCmd.Flags().StringVar(&adviseGeo, "geo", "", "only investors whose geography contains this")
	adviseCmd.Flags().StringVar(&adviseLeadFollow, "lead-follow", "", "lead, follow or both")
	adviseCmd.Flags().StringVar(&adviseOut, "out", "", "write the brief to this file instead of stdout")
	_ = adviseCmd.MarkFlagRequired("startup")
	rootCmd.AddCommand(adviseCmd)
}
