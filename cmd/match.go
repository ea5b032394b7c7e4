package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/abduldattijo/investment-data-app/internal/model"
	"github.com/abduldattijo/investment-data-app/internal/report"
)

var (
	matchData       string
	matchStartup    string
	matchSector     string
	matchStage      string
	matchGeo        string
	matchLeadFollow string
	matchLimit      int
	matchJSON       bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank investors for a startup description",
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := criteriaFromFlags(matchSector, matchStage, matchGeo, matchLeadFollow)
		if err != nil {
			return err
		}
		profiles, err := loadProfiles(matchData)
		if err != nil {
			return err
		}
		engine, err := newEngine(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		limit := matchLimit
		if limit <= 0 {
			limit = cfg.Match.Limit
		}
		matches := engine.Match(cmd.Context(), matchStartup, profiles, limit, criteria)
		return writeMatches(os.Stdout, matches, matchJSON)
	},
}

func criteriaFromFlags(sector, stage, geo, leadFollow string) (*model.Criteria, error) {
	lf, err := parseLeadFollow(leadFollow)
	if err != nil {
		return nil, err
	}
	c := model.Criteria{
		Sector:     strings.TrimSpace(sector),
		Stage:      strings.TrimSpace(stage),
		Geography:  strings.TrimSpace(geo),
		LeadFollow: lf,
	}
	if c.IsZero() {
		return nil, nil
	}
	return &c, nil
}

func writeMatches(w io.Writer, matches []model.Match, asJSON bool) error {
	if !asJSON {
		report.MatchTable(w, matches)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(matches); err != nil {
		return eris.Wrap(err, "encode matches")
	}
	return nil
}

func init() {
	matchCmd.Flags().StringVar(&matchData, "data", defaultDataPath, "enriched profiles JSON")
	matchCmd.Flags().StringVar(&matchStartup, "startup", "", "startup description")
	matchCmd.Flags().StringVar(&matchSector, "sector", "", "only investors focused on this sector")
	matchCmd.Flags().StringVar(&matchStage, "stage", "", "only investors backing this stage")
	matchCmd.Flags().StringVar(&matchGeo, "geo", "", "only investors whose geography contains this")
	matchCmd.Flags().StringVar(&matchLeadFollow, "lead-follow", "", "lead, follow or both")
	matchCmd.Flags().IntVar(&matchLimit, "limit", 0, "number of matches (default from config)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "print matches as JSON")
	_ = matchCmd.MarkFlagRequired("startup")
	rootCmd.AddCommand(matchCmd)
}
