package service

import (
	"context"
	"log/slog"
	"time"
)

// StartScheduler performs a daily run at the configured time until ctx is
// cancelled. A run in progress is allowed to finish.
func (s *Service) StartScheduler(ctx context.Context) {
	slog.Info("scheduler: started", "next", s.nextRun(s.now()))
	for {
		next := s.nextRun(s.now())
		d := time.Until(next)
		slog.Info("scheduler: sleeping", "until", next, "in", d)

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("scheduler: stopped")
			return
		case <-timer.C:
		}

		outcome, err := s.Run(ctx)
		if err != nil {
			slog.Error("scheduler: run could not be reported", "err", err)
			continue
		}
		slog.Info("scheduler: run complete", "state", outcome.State)
	}
}

func (s *Service) nextRun(from time.Time) time.Time {
	tz, err := time.LoadLocation(s.cfg.TZ)
	if err != nil {
		tz = time.Local
	}
	now := from.In(tz)
	hour, min := 9, 30
	if v, err := time.Parse("15:04", s.cfg.RefreshAt); err == nil {
		hour, min = v.Hour(), v.Minute()
	}
	run := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, tz)
	if !run.After(now) {
		run = run.AddDate(0, 0, 1)
	}
	return run
}
