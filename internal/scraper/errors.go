package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrUnreachable indicates the target could not be contacted at all.
type ErrUnreachable struct {
	URL string
	Err error
}

func (e ErrUnreachable) Error() string {
	return fmt.Sprintf("could not reach %s: %v", e.URL, e.Err)
}

func (e ErrUnreachable) Unwrap() error {
	return e.Err
}

// ErrHTTPStatus indicates the target answered with a non-200 status.
type ErrHTTPStatus struct {
	URL        string
	StatusCode int
}

func (e ErrHTTPStatus) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// ErrBodyTooLarge indicates the page exceeded the read limit and was not
// handed to the extractor in truncated form.
type ErrBodyTooLarge struct {
	URL   string
	Limit int64
}

func (e ErrBodyTooLarge) Error() string {
	return fmt.Sprintf("response from %s exceeds %d bytes", e.URL, e.Limit)
}

// ErrTimeout indicates the fetch exceeded its deadline.
type ErrTimeout struct {
	URL string
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Sprintf("timed out fetching %s: %v", e.URL, e.Err)
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

func classifyError(url string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{URL: url, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{URL: url, Err: err}
	}
	return ErrUnreachable{URL: url, Err: err}
}

// ErrorType returns a stable label for a fetch error, or "" when err is not
// one of the fetch failure classes.
func ErrorType(err error) string {
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var status ErrHTTPStatus
	if errors.As(err, &status) {
		return "http_status"
	}
	var tooLarge ErrBodyTooLarge
	if errors.As(err, &tooLarge) {
		return "body_too_large"
	}
	var unreachable ErrUnreachable
	if errors.As(err, &unreachable) {
		return "unreachable"
	}
	return ""
}
