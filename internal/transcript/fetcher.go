package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"earnings-insight/internal/logger"
)

// ErrContentTooShort marks a response body below the minimum usable length.
// It is retried exactly like a transport failure.
var ErrContentTooShort = errors.New("fetched content below minimum length")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher performs single HTTP GETs against transcript pages with a fixed
// header set, a timeout, and a bounded retry budget with linearly increasing
// backoff.
type Fetcher struct {
	client     *http.Client
	minLength  int
	maxRetries int
	backoff    time.Duration
}

// NewFetcher creates a fetcher. A zero timeout defaults to 30s.
func NewFetcher(timeout time.Duration, minLength, maxRetries int, backoff time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		minLength:  minLength,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// Fetch retrieves the raw markup at url, retrying transient failures. After
// the retry budget is exhausted the last error is returned and the caller
// skips the candidate.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff: attempt 1 waits 1x, attempt 2 waits 2x.
			wait := time.Duration(attempt) * f.backoff
			logger.Debug(ctx, "Retrying fetch", "url", url, "attempt", attempt, "wait", wait.String())
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
	}

	return "", fmt.Errorf("fetch %s failed after %d attempts: %w", url, f.maxRetries+1, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("http %d from %s", resp.StatusCode, url)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if len(raw) < f.minLength {
		return "", fmt.Errorf("%w: got %d bytes from %s", ErrContentTooShort, len(raw), url)
	}

	return string(raw), nil
}
