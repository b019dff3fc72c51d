package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/MondainMessiah/daily-boss-checker/internal/config"
	"github.com/MondainMessiah/daily-boss-checker/internal/extract"
	"github.com/MondainMessiah/daily-boss-checker/internal/metrics"
	"github.com/MondainMessiah/daily-boss-checker/internal/models"
	"github.com/MondainMessiah/daily-boss-checker/internal/notify"
	"github.com/MondainMessiah/daily-boss-checker/internal/scraper"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	doc models.RawDocument
	err error
}

func (f stubFetcher) Fetch(context.Context) (models.RawDocument, error) { return f.doc, f.err }

type recordingNotifier struct {
	sent []notify.Message
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.sent = append(n.sent, msg)
	return n.err
}

func trackerPage(bosses ...string) models.RawDocument {
	body := `<html><body><script id="__NEXT_DATA__" type="application/json">` +
		`{"props":{"pageProps":{"server":"Antica","bosses":[` + strings.Join(bosses, ",") + `]}}}` +
		`</script></body></html>`
	return models.RawDocument{URL: config.DefaultTargetURL, ContentType: "text/html", Body: []byte(body)}
}

func newTestService(f scraper.Fetcher, n Notifier) (*Service, *metrics.Metrics) {
	m := metrics.New()
	s := New(f, n, config.Default(), m)
	s.now = func() time.Time { return time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC) }
	return s, m
}

func TestRunHappyPath(t *testing.T) {
	var bosses []string
	for i, c := range []int{5, 80, 12, 45, 45, 3, 60, 7} {
		bosses = append(bosses, fmt.Sprintf(`{"name":"Boss %d","chance":%d}`, i, c))
	}
	n := &recordingNotifier{}
	s, m := newTestService(stubFetcher{doc: trackerPage(bosses...)}, n)

	out, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateReported, out.State)
	require.NoError(t, out.Err)
	require.Equal(t, []models.BossRecord{
		{Name: "Boss 1", Chance: 80},
		{Name: "Boss 6", Chance: 60},
		{Name: "Boss 3", Chance: 45},
		{Name: "Boss 4", Chance: 45},
		{Name: "Boss 2", Chance: 12},
	}, out.Ranking.Bosses)

	require.Len(t, n.sent, 1)
	require.Len(t, n.sent[0].Embeds, 1)
	require.Equal(t, "Top 5 Boss Spawn Chances", n.sent[0].Embeds[0].Title)
	require.Contains(t, n.sent[0].Embeds[0].Description, "1. **Boss 1** - 80%")
	require.Contains(t, n.sent[0].Embeds[0].Description, "5. **Boss 2** - 12%")
	require.Equal(t, "2026-10-19T07:00:00Z", n.sent[0].Embeds[0].Timestamp)
	require.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("reported")))
	require.Equal(t, 5.0, testutil.ToFloat64(m.BossesReported))
}

func TestRunEmptyOutcome(t *testing.T) {
	n := &recordingNotifier{}
	s, m := newTestService(stubFetcher{doc: trackerPage(`{"name":"Ghazbaran","chance":0}`)}, n)

	out, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateReportedEmpty, out.State)
	require.Len(t, n.sent, 1)
	require.Equal(t, notify.ColorEmpty, n.sent[0].Embeds[0].Color)
	require.Contains(t, n.sent[0].Embeds[0].Description, notify.EmptyText)
	require.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("reported_empty")))
}

func TestRunFailuresAreReported(t *testing.T) {
	tests := []struct {
		name    string
		fetcher stubFetcher
		errType string
	}{
		{"http status", stubFetcher{err: scraper.ErrHTTPStatus{URL: "x", StatusCode: 503}}, "http_status"},
		{"timeout", stubFetcher{err: scraper.ErrTimeout{URL: "x", Err: context.DeadlineExceeded}}, "timeout"},
		{"anchor", stubFetcher{doc: models.RawDocument{Body: []byte("<html></html>")}}, "anchor_not_found"},
		{"path", stubFetcher{doc: models.RawDocument{Body: []byte(`<script id="__NEXT_DATA__">{"props":{}}</script>`)}}, "path_missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &recordingNotifier{}
			s, m := newTestService(tt.fetcher, n)

			out, err := s.Run(context.Background())
			require.NoError(t, err)
			require.Equal(t, StateFailed, out.State)
			require.Equal(t, tt.errType, ErrorType(out.Err))
			require.Len(t, n.sent, 1)
			require.True(t, strings.HasPrefix(n.sent[0].Content, "Bot Error: "))
			require.Empty(t, n.sent[0].Embeds)
			require.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues(tt.errType)))
			require.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failed")))
		})
	}
}

func TestRunDeliveryFailure(t *testing.T) {
	n := &recordingNotifier{err: notify.ErrDelivery{StatusCode: 404}}
	s, _ := newTestService(stubFetcher{doc: trackerPage(`{"name":"A","chance":1}`)}, n)

	out, err := s.Run(context.Background())
	var delivery notify.ErrDelivery
	require.ErrorAs(t, err, &delivery)
	require.Equal(t, StateReported, out.State)
	require.Len(t, n.sent, 1)
}

func TestRunWithoutNotifier(t *testing.T) {
	s, _ := newTestService(stubFetcher{}, nil)
	_, err := s.Run(context.Background())
	require.Error(t, err)
}

func TestPreviewDoesNotNotify(t *testing.T) {
	s, _ := newTestService(stubFetcher{doc: trackerPage(`{"name":"A","chance":1}`)}, nil)

	r, err := s.Preview(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Antica", r.Context)
	require.Len(t, r.Bosses, 1)
}

func TestErrorType(t *testing.T) {
	require.Equal(t, "unreachable", ErrorType(scraper.ErrUnreachable{Err: errors.New("refused")}))
	require.Equal(t, "payload_malformed", ErrorType(extract.ErrPayloadMalformed{}))
	require.Equal(t, "path_type_mismatch", ErrorType(fmt.Errorf("wrapped: %w", extract.ErrPathTypeMismatch{})))
	require.Equal(t, "other", ErrorType(errors.New("x")))
}

func TestNextRun(t *testing.T) {
	cfg := config.Default()
	cfg.TZ = "UTC"
	cfg.RefreshAt = "9:30"
	s := New(stubFetcher{}, nil, cfg, nil)

	before := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC), s.nextRun(before).UTC())

	exact := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 10, 20, 9, 30, 0, 0, time.UTC), s.nextRun(exact).UTC())

	s.cfg.RefreshAt = "garbage"
	require.Equal(t, time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC), s.nextRun(before).UTC())
}

func TestStartSchedulerStopsOnCancel(t *testing.T) {
	s, _ := newTestService(stubFetcher{}, &recordingNotifier{})
	s.now = time.Now
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.StartScheduler(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
