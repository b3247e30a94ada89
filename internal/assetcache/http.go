package assetcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single asset download
const DefaultTimeout = 30 * time.Second

// HTTPFetcher downloads assets over HTTP. Relative keys are resolved
// against BaseURL.
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL string
	MaxSize int64
}

// NewHTTPFetcher creates a fetcher with a bounded client
func NewHTTPFetcher(baseURL string, maxSize int64) *HTTPFetcher {
	return &HTTPFetcher{
		Client:  &http.Client{Timeout: DefaultTimeout},
		BaseURL: baseURL,
		MaxSize: maxSize,
	}
}

func (f *HTTPFetcher) resolve(key string) (string, error) {
	ref, err := url.Parse(key)
	if err != nil {
		return "", fmt.Errorf("invalid asset key %q: %w", key, err)
	}
	if ref.IsAbs() || f.BaseURL == "" {
		return ref.String(), nil
	}
	base, err := url.Parse(f.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", f.BaseURL, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Fetch downloads key
func (f *HTTPFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	target, err := f.resolve(key)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body := io.Reader(resp.Body)
	if f.MaxSize > 0 {
		body = io.LimitReader(resp.Body, f.MaxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if f.MaxSize > 0 && int64(len(data)) > f.MaxSize {
		return nil, fmt.Errorf("asset too large: more than %d bytes", f.MaxSize)
	}
	return data, nil
}
