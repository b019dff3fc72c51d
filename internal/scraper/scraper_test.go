package scraper

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/MondainMessiah/daily-boss-checker/internal/config"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

const testURL = "http://tracker.test/bosses"

func newTestScraper(t *testing.T) (*WebScraper, *httpmock.MockTransport) {
	t.Helper()
	cfg := config.Default()
	cfg.TargetURL = testURL

	transport := httpmock.NewMockTransport()
	s := New(cfg).WithClient(&http.Client{Transport: transport})
	return s, transport
}

type durationRecorder struct{ calls int }

func (d *durationRecorder) ObserveFetch(time.Duration) { d.calls++ }

func TestFetchSuccess(t *testing.T) {
	s, transport := newTestScraper(t)
	rec := &durationRecorder{}
	s.WithObserver(rec)

	var gotUA, gotLang string
	transport.RegisterResponder(http.MethodGet, testURL, func(req *http.Request) (*http.Response, error) {
		gotUA = req.Header.Get("User-Agent")
		gotLang = req.Header.Get("Accept-Language")
		resp := httpmock.NewStringResponse(http.StatusOK, "<html>ok</html>")
		resp.Header.Set("Content-Type", "text/html; charset=utf-8")
		return resp, nil
	})

	doc, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, testURL, doc.URL)
	require.Equal(t, "text/html; charset=utf-8", doc.ContentType)
	require.Equal(t, "<html>ok</html>", string(doc.Body))
	require.Equal(t, config.DefaultUserAgent, gotUA)
	require.Equal(t, "en-US,en;q=0.9", gotLang)
	require.Equal(t, 1, transport.GetTotalCallCount())
	require.Equal(t, 1, rec.calls)
}

func TestFetchHTTPStatus(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusServiceUnavailable} {
		s, transport := newTestScraper(t)
		transport.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(status, "nope"))

		_, err := s.Fetch(context.Background())
		var statusErr ErrHTTPStatus
		require.ErrorAs(t, err, &statusErr)
		require.Equal(t, status, statusErr.StatusCode)
		require.Equal(t, "http_status", ErrorType(err))
	}
}

func TestFetchTimeout(t *testing.T) {
	s, transport := newTestScraper(t)
	transport.RegisterResponder(http.MethodGet, testURL, httpmock.NewErrorResponder(context.DeadlineExceeded))

	_, err := s.Fetch(context.Background())
	var timeout ErrTimeout
	require.ErrorAs(t, err, &timeout)
	require.Equal(t, "timeout", ErrorType(err))
}

func TestFetchNetTimeout(t *testing.T) {
	s, transport := newTestScraper(t)
	transport.RegisterResponder(http.MethodGet, testURL, httpmock.NewErrorResponder(&net.DNSError{IsTimeout: true}))

	_, err := s.Fetch(context.Background())
	require.Equal(t, "timeout", ErrorType(err))
}

func TestFetchUnreachable(t *testing.T) {
	s, transport := newTestScraper(t)
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	transport.RegisterResponder(http.MethodGet, testURL, httpmock.NewErrorResponder(dialErr))

	_, err := s.Fetch(context.Background())
	var unreachable ErrUnreachable
	require.ErrorAs(t, err, &unreachable)
	require.Equal(t, testURL, unreachable.URL)
	require.Equal(t, "unreachable", ErrorType(err))
}

func TestFetchBodyTooLarge(t *testing.T) {
	prev := maxBodySize
	maxBodySize = 8
	defer func() { maxBodySize = prev }()

	s, transport := newTestScraper(t)
	transport.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(http.StatusOK, "<html>too long</html>"))

	_, err := s.Fetch(context.Background())
	var tooLarge ErrBodyTooLarge
	require.ErrorAs(t, err, &tooLarge)
	require.Equal(t, int64(8), tooLarge.Limit)
	require.Equal(t, "body_too_large", ErrorType(err))
}

func TestFetchBodyAtLimit(t *testing.T) {
	prev := maxBodySize
	maxBodySize = 8
	defer func() { maxBodySize = prev }()

	s, transport := newTestScraper(t)
	transport.RegisterResponder(http.MethodGet, testURL, httpmock.NewStringResponder(http.StatusOK, "12345678"))

	doc, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "12345678", string(doc.Body))
}

func TestErrorTypeUnknown(t *testing.T) {
	require.Equal(t, "", ErrorType(errors.New("other")))
	require.Equal(t, "", ErrorType(nil))
}

func TestWithClientKeepsTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.FetchTimeout = 3 * time.Second
	s := New(cfg).WithClient(&http.Client{})
	require.Equal(t, 3*time.Second, s.Client().Timeout)
}
