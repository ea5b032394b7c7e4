package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abduldattijo/investment-data-app/internal/api"
	"github.com/abduldattijo/investment-data-app/internal/match"
)

var (
	serveData string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the investor profiles and matcher over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		profiles, err := loadProfiles(serveData)
		if err != nil {
			return err
		}

		metrics := api.NewMetrics()
		engine, err := newEngine(ctx, cfg, match.WithObserver(metrics.ObserveMatch))
		if err != nil {
			return err
		}
		server := api.NewServer(profiles, engine, metrics,
			api.WithAllowedOrigins(cfg.Server.AllowedOrigins),
			api.WithMatchLimit(cfg.Match.Limit),
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("profiles", len(profiles)),
			zap.Bool("reasoner", engine.HasReasoner()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveData, "data", defaultDataPath, "enriched profiles JSON")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
