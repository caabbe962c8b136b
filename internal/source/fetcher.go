package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultHTTPTimeout bounds one fetch attempt, not the whole retry loop
	DefaultHTTPTimeout = 15 * time.Second

	// maxBodyBytes caps index and page downloads; the sources are small
	// markdown documents, anything larger is a misconfigured URL
	maxBodyBytes = 8 << 20
)

var (
	// ErrSourceUnavailable wraps fetch failures after retries are exhausted
	ErrSourceUnavailable = errors.New("source unavailable")
)

// Fetched is the body and caching metadata of one successful HTTP fetch.
type Fetched struct {
	Body []byte
	ETag string
}

// Fetcher retrieves remote markdown over HTTP with retry.
type Fetcher struct {
	client *http.Client
	retry  RetryConfig
}

// NewFetcher creates a Fetcher with the given per-attempt timeout. A zero
// timeout uses DefaultHTTPTimeout. MaxRetries below 1 is clamped to a single
// attempt; zero attempts would make every fetch return nothing at all.
func NewFetcher(timeout time.Duration, retry RetryConfig) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	if retry.MaxRetries < 1 {
		retry.MaxRetries = 1
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		retry:  retry,
	}
}

// Fetch GETs url, retrying transient failures with exponential backoff.
// Non-2xx responses are errors; 4xx responses other than 429 are not retried
// since repeating them cannot help.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Fetched, error) {
	result, err := retryWithBackoff(ctx, f.retry, func() (*Fetched, error) {
		fetched, retryable, err := f.fetchOnce(ctx, url)
		if err != nil && !retryable {
			return nil, &permanentError{err: err}
		}
		return fetched, err
	})
	if err != nil {
		var perm *permanentError
		if errors.As(err, &perm) {
			err = perm.err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, url, err)
	}
	return result, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (fetched *Fetched, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "text/markdown, text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, err
	}

	return &Fetched{
		Body: body,
		ETag: resp.Header.Get("ETag"),
	}, false, nil
}
