package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abduldattijo/investment-data-app/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "vcmatch",
	Short:        "Investor profile enrichment and startup matching",
	Long:         "Builds enriched venture investor profiles from firm websites and data providers, then ranks investors for a startup description.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := c.Validate(cmd.Name()); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	_ = godotenv.Load() // optional .env

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
