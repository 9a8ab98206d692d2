package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ligawatch/go-scrape-standings/leagues"
	"github.com/ligawatch/go-scrape-standings/schema"
)

// ErrMissingCredential reports that no API credential is configured. It is
// raised before any network activity happens.
var ErrMissingCredential = errors.New("OPENAI_API_KEY is not set")

// ErrNoData reports that an attempt produced no payload at all.
var ErrNoData = errors.New("no data extracted")

// FetchError wraps a failure to retrieve page content for a league.
type FetchError struct {
	URL string
	Err error
}

func (e FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e FetchError) Unwrap() error {
	return e.Err
}

// ExhaustedError reports that a league used up its attempt budget without a
// valid table. It carries the error from the last attempt.
type ExhaustedError struct {
	League   string
	Attempts int
	LastErr  error
}

func (e ExhaustedError) Error() string {
	msg := fmt.Sprintf("all %d attempts for %s failed", e.Attempts, e.League)
	if e.Attempts == 0 {
		msg = fmt.Sprintf("no attempts were made for %s (retries set to 0)", e.League)
	}
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

func (e ExhaustedError) Unwrap() error {
	return e.LastErr
}

// ErrorTypeLabel maps an error to the label used in run summaries and
// metrics. Exhaustion reports the label of its underlying cause.
func ErrorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}

	var exhausted ExhaustedError
	if errors.As(err, &exhausted) && exhausted.LastErr != nil {
		return ErrorTypeLabel(exhausted.LastErr)
	}

	if errors.Is(err, ErrMissingCredential) {
		return "missing_credential"
	}
	var unresolved *leagues.UnresolvedError
	if errors.As(err, &unresolved) {
		return "unconfigured"
	}
	var invalid *schema.ValidationError
	if errors.As(err, &invalid) {
		return "validation_error"
	}
	if errors.Is(err, ErrNoData) {
		return "no_data"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var fetch FetchError
	if errors.As(err, &fetch) {
		return "fetch_error"
	}
	if errors.As(err, &exhausted) {
		return "exhausted"
	}
	return "other"
}
