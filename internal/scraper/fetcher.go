package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/chapter-events/internal/event"
)

const (
	DefaultTimeout = 15 * time.Second
	// MinBodyBytes is the smallest body treated as a real page. Shorter bodies
	// are usually bot blocks or login redirects.
	MinBodyBytes = 512
	maxBodyBytes = 5 << 20

	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// FetchErrorKind classifies fetch failures
type FetchErrorKind string

const (
	FetchTimeout    FetchErrorKind = "timeout"
	FetchHTTPStatus FetchErrorKind = "http_status"
	FetchEmptyBody  FetchErrorKind = "empty_body"
	FetchNetwork    FetchErrorKind = "network"
)

// FetchError is returned by Fetcher.Fetch
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int // set for FetchHTTPStatus
	BodyBytes  int // set for FetchEmptyBody
	Timeout    time.Duration
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchTimeout:
		return fmt.Sprintf("timed out after %s fetching %s", e.Timeout, e.URL)
	case FetchHTTPStatus:
		return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
	case FetchEmptyBody:
		return fmt.Sprintf("page at %s returned only %d bytes (blocked or login page?)", e.URL, e.BodyBytes)
	default:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher downloads and parses third-party event pages
type Fetcher struct {
	client          *http.Client
	timeout         time.Duration
	minBody         int
	defaultTimezone string
}

// NewFetcher creates a Fetcher bounded by timeout (DefaultTimeout when zero).
func NewFetcher(timeout time.Duration, defaultTimezone string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if defaultTimezone == "" {
		defaultTimezone = event.DefaultTimezone
	}
	return &Fetcher{
		client:          &http.Client{},
		timeout:         timeout,
		minBody:         MinBodyBytes,
		defaultTimezone: defaultTimezone,
	}
}

// Fetch requests the canonical form of rawURL and parses the returned page.
// Redirects are followed. The whole exchange, body included, must finish
// within the fetcher's timeout.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*EventData, error) {
	target := CanonicalURL(rawURL)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchNetwork, URL: target, Err: fmt.Errorf("creating request: %w", err)}
	}
	setBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classify(ctx, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: FetchHTTPStatus, URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, f.classify(ctx, target, err)
	}

	if len(body) < f.minBody {
		return nil, &FetchError{Kind: FetchEmptyBody, URL: target, BodyBytes: len(body)}
	}

	return Parse(string(body), target, f.defaultTimezone), nil
}

func (f *Fetcher) classify(ctx context.Context, target string, err error) *FetchError {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{Kind: FetchTimeout, URL: target, Timeout: f.timeout, Err: err}
	}
	return &FetchError{Kind: FetchNetwork, URL: target, Err: err}
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", "https://www.google.com/")
}

// CanonicalURL rewrites known alias hosts (lu.ma → luma.com) and drops the
// fragment. Unparseable input is returned trimmed.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Host = event.CanonicalHost(u.Host)
	u.Fragment = ""
	return u.String()
}
