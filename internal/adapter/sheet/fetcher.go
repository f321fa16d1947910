// Package sheet fetches the published sentence sheet, either a CSV export
// served over HTTP(S) or a local CSV file.
package sheet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"
)

const retryDelay = 500 * time.Millisecond

// Fetcher opens sheet sources.
type Fetcher struct {
	httpClient *http.Client
	log        *slog.Logger
}

// NewFetcher creates a Fetcher whose HTTP requests time out after timeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "sheet"),
	}
}

// Open returns the CSV content of source, an http(s) URL or a file path.
// The caller closes the returned reader.
func (f *Fetcher) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if source == "" {
		return nil, fmt.Errorf("sheet: empty source")
	}

	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return f.fetch(ctx, u.String())
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("sheet: open file: %w", err)
	}
	return file, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	f.log.DebugContext(ctx, "sheet request", slog.String("url", rawURL))

	resp, err := f.doWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("sheet: request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("sheet: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// doWithRetry performs a GET with a single retry on 5xx or network errors.
func (f *Fetcher) doWithRetry(ctx context.Context, rawURL string) (*http.Response, error) {
	resp, err := f.get(ctx, rawURL)

	shouldRetry := err != nil || resp.StatusCode >= 500
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	f.log.WarnContext(ctx, "sheet retry", slog.String("reason", reason))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryDelay):
	}

	return f.get(ctx, rawURL)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	return f.httpClient.Do(req)
}
