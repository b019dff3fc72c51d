package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	httpapi "github.com/MondainMessiah/daily-boss-checker/internal/http"
	"github.com/MondainMessiah/daily-boss-checker/internal/metrics"
	"github.com/MondainMessiah/daily-boss-checker/internal/notify"
	"github.com/MondainMessiah/daily-boss-checker/internal/scraper"
	"github.com/MondainMessiah/daily-boss-checker/internal/service"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the daily scheduler with an HTTP API for previews, manual runs and metrics.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(true)
		if err != nil {
			fatal("fatal error", err)
		}
		ctx := cmd.Context()

		m := metrics.New()
		fetcher := scraper.New(cfg).WithObserver(m)
		svc := service.New(fetcher, notify.NewDiscord(cfg.WebhookURL), cfg, m)
		go svc.StartScheduler(ctx)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           httpapi.NewRouter(svc, m),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		slog.Info("boss-poster listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", err)
		}
	},
}
