package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/MondainMessiah/daily-boss-checker/internal/config"
	"github.com/MondainMessiah/daily-boss-checker/internal/extract"
	"github.com/MondainMessiah/daily-boss-checker/internal/metrics"
	"github.com/MondainMessiah/daily-boss-checker/internal/models"
	"github.com/MondainMessiah/daily-boss-checker/internal/notify"
	"github.com/MondainMessiah/daily-boss-checker/internal/scraper"
)

type Notifier interface {
	Notify(ctx context.Context, msg notify.Message) error
}

// State is the terminal state of one run.
type State string

const (
	StateReported      State = "reported"
	StateReportedEmpty State = "reported_empty"
	StateFailed        State = "failed"
)

// Outcome describes a finished run. Err is set only for StateFailed and
// holds the pipeline failure that was reported, not a delivery error.
type Outcome struct {
	State   State
	Ranking models.Ranking
	Err     error
}

var errNoNotifier = errors.New("no notifier configured")

type Service struct {
	fetcher   scraper.Fetcher
	extractor *extract.Extractor
	notifier  Notifier
	cfg       config.Config
	metrics   *metrics.Metrics
	now       func() time.Time
}

func New(f scraper.Fetcher, n Notifier, cfg config.Config, m *metrics.Metrics) *Service {
	return &Service{
		fetcher:   f,
		extractor: extract.New(cfg),
		notifier:  n,
		cfg:       cfg,
		metrics:   m,
		now:       time.Now,
	}
}

// Preview fetches and ranks without notifying anyone.
func (s *Service) Preview(ctx context.Context) (models.Ranking, error) {
	doc, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return models.Ranking{}, err
	}
	return s.extractor.Extract(doc)
}

// Run executes one full pipeline run and sends exactly one notification:
// the ranking, the empty outcome, or the failure. The returned error is
// non-nil only when that notification could not be delivered.
func (s *Service) Run(ctx context.Context) (Outcome, error) {
	if s.notifier == nil {
		return Outcome{}, errNoNotifier
	}

	slog.InfoContext(ctx, "run: starting", "url", s.cfg.TargetURL)
	ranking, err := s.Preview(ctx)
	at := s.now()

	var out Outcome
	var msg notify.Message
	switch {
	case err != nil:
		out = Outcome{State: StateFailed, Err: err}
		msg = notify.FailureMessage(err)
		errType := ErrorType(err)
		s.metrics.IncError(errType)
		slog.ErrorContext(ctx, "run: pipeline failed", "error_type", errType, "err", err)
	case ranking.Empty():
		out = Outcome{State: StateReportedEmpty, Ranking: ranking}
		msg = notify.ReportMessage(ranking, s.cfg.TargetURL, at)
		slog.InfoContext(ctx, "run: no bosses with a spawn chance", "context", ranking.Context)
	default:
		out = Outcome{State: StateReported, Ranking: ranking}
		msg = notify.ReportMessage(ranking, s.cfg.TargetURL, at)
		slog.InfoContext(ctx, "run: ranking ready", "context", ranking.Context, "count", len(ranking.Bosses))
	}

	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.metrics.IncError("delivery")
		return out, err
	}
	s.metrics.ObserveRun(string(out.State), len(out.Ranking.Bosses), at)
	return out, nil
}

// ErrorType labels any pipeline failure for logs and metrics.
func ErrorType(err error) string {
	if t := scraper.ErrorType(err); t != "" {
		return t
	}
	if t := extract.ErrorType(err); t != "" {
		return t
	}
	return "other"
}
