package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abduldattijo/investment-data-app/internal/config"
	"github.com/abduldattijo/investment-data-app/internal/crawler"
	"github.com/abduldattijo/investment-data-app/internal/dataset"
	"github.com/abduldattijo/investment-data-app/internal/enrich"
	"github.com/abduldattijo/investment-data-app/internal/fetcher"
	"github.com/abduldattijo/investment-data-app/internal/provider"
	"github.com/abduldattijo/investment-data-app/internal/session"
)

var (
	enrichInput       string
	enrichOut         string
	enrichMode        string
	enrichConcurrency int
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Build investor profiles from a firm list",
	Long:  "Reads firms from a .csv or .xlsx file (name, website), crawls their websites and/or queries the data providers, and writes the profiles as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mode, err := enrich.ParseMode(enrichMode)
		if err != nil {
			return err
		}
		if enrichConcurrency > 0 {
			cfg.Crawl.Concurrency = enrichConcurrency
		}

		firms, err := fetcher.ReadFirms(ctx, enrichInput)
		if err != nil {
			return err
		}

		e, err := newEnricher(cfg, mode)
		if err != nil {
			return err
		}
		profiles := e.Run(ctx, firms)

		if err := dataset.Save(enrichOut, profiles); err != nil {
			return err
		}
		zap.L().Info("enrichment written",
			zap.String("path", enrichOut),
			zap.Int("firms", len(firms)),
			zap.Int("profiles", len(profiles)),
		)
		return nil
	},
}

// newEnricher wires the crawler and provider sources for mode.
func newEnricher(c *config.Config, mode enrich.Mode) (*enrich.Enricher, error) {
	e := &enrich.Enricher{Mode: mode, Cache: session.New()}

	if mode == enrich.ModeCrawl || mode == enrich.ModeBoth {
		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgents:  c.Crawl.UserAgents,
			Delay:       time.Duration(c.Crawl.DelaySecs * float64(time.Second)),
			Timeout:     time.Duration(c.Crawl.TimeoutSecs) * time.Second,
			MaxAttempts: c.Crawl.MaxAttempts,
		})
		e.Crawler = crawler.New(f, c.Crawl.Concurrency)
	}

	if mode == enrich.ModeProviders || mode == enrich.ModeBoth {
		reg, err := provider.Build(c.Providers)
		if err != nil {
			return nil, eris.Wrap(err, "build providers")
		}
		e.Sources = provider.Sources(reg.Select(c.Providers.Enabled), e.Cache, c.Providers.TripThreshold)
	}
	return e, nil
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "firm list (.csv or .xlsx)")
	enrichCmd.Flags().StringVar(&enrichOut, "out", defaultDataPath, "output JSON path")
	enrichCmd.Flags().StringVar(&enrichMode, "mode", string(enrich.ModeBoth), "data source: crawl, providers or both")
	enrichCmd.Flags().IntVar(&enrichConcurrency, "concurrency", 0, "crawl concurrency (default from config)")
	_ = enrichCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(enrichCmd)
}
