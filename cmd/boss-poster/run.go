package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/MondainMessiah/daily-boss-checker/internal/metrics"
	"github.com/MondainMessiah/daily-boss-checker/internal/notify"
	"github.com/MondainMessiah/daily-boss-checker/internal/scraper"
	"github.com/MondainMessiah/daily-boss-checker/internal/service"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetches the tracker once and posts the result. Meant for cron or CI schedules.",
	Run: func(cmd *cobra.Command, args []string) {
		out, err := runOnce(cmd.Context(), runDeps{})
		if err != nil {
			fatal("run failed", err)
		}
		// a reported pipeline failure is still a successful run
		slog.Info("run finished", "state", out.State)
	},
}

// runDeps overrides the outbound clients; zero values use the real ones.
type runDeps struct {
	fetchClient *http.Client
	notifier    service.Notifier
}

// runOnce loads configuration and performs one reported run. Configuration
// errors, a missing webhook included, return before any request is made.
func runOnce(ctx context.Context, deps runDeps) (service.Outcome, error) {
	cfg, err := loadConfig(true)
	if err != nil {
		return service.Outcome{}, err
	}

	var m *metrics.Metrics
	fetcher := scraper.New(cfg)
	if cfg.PushgatewayURL != "" {
		m = metrics.New()
		fetcher.WithObserver(m)
	}
	if deps.fetchClient != nil {
		fetcher.WithClient(deps.fetchClient)
	}

	var n service.Notifier = notify.NewDiscord(cfg.WebhookURL)
	if deps.notifier != nil {
		n = deps.notifier
	}

	out, err := service.New(fetcher, n, cfg, m).Run(ctx)
	if err != nil {
		return out, err
	}
	if m != nil {
		if err := m.Push(ctx, cfg.PushgatewayURL, "boss_poster"); err != nil {
			slog.WarnContext(ctx, "failed to push metrics", "err", err)
		}
	}
	return out, nil
}
