package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MondainMessiah/daily-boss-checker/internal/config"
	"github.com/MondainMessiah/daily-boss-checker/internal/models"
)

// maxBodySize caps how much of the tracker page is read into memory.
var maxBodySize int64 = 16 << 20

type Fetcher interface {
	Fetch(ctx context.Context) (models.RawDocument, error)
}

// Observer receives fetch latency, it is satisfied by *metrics.Metrics.
type Observer interface {
	ObserveFetch(d time.Duration)
}

type WebScraper struct {
	cfg      config.Config
	client   *http.Client
	observer Observer
}

func New(cfg config.Config) *WebScraper {
	return &WebScraper{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// WithClient swaps the HTTP client, keeping the configured timeout.
func (w *WebScraper) WithClient(c *http.Client) *WebScraper {
	if c.Timeout == 0 {
		c.Timeout = w.cfg.FetchTimeout
	}
	w.client = c
	return w
}

func (w *WebScraper) WithObserver(o Observer) *WebScraper {
	w.observer = o
	return w
}

// Client exposes the underlying HTTP client so tests can mock its transport.
func (w *WebScraper) Client() *http.Client { return w.client }

// Fetch performs a single GET of the configured target. There are no retries.
func (w *WebScraper) Fetch(ctx context.Context) (models.RawDocument, error) {
	url := w.cfg.TargetURL

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.RawDocument{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", w.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := w.client.Do(req)
	if w.observer != nil {
		w.observer.ObserveFetch(time.Since(start))
	}
	if err != nil {
		slog.WarnContext(ctx, "scraper: fetch failed", "url", url, "err", err)
		return models.RawDocument{}, classifyError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.WarnContext(ctx, "scraper: unexpected status", "url", url, "status", resp.StatusCode)
		return models.RawDocument{}, ErrHTTPStatus{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return models.RawDocument{}, classifyError(url, err)
	}
	if int64(len(body)) > maxBodySize {
		slog.WarnContext(ctx, "scraper: body over limit", "url", url, "limit", maxBodySize)
		return models.RawDocument{}, ErrBodyTooLarge{URL: url, Limit: maxBodySize}
	}

	slog.DebugContext(ctx, "scraper: fetched document", "url", url, "bytes", len(body))
	return models.RawDocument{
		URL:         url,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
