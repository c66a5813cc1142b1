package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// httpSource fetches seed documents from a static file server.
type httpSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates a SeedSource that GETs baseURL/name.
// A nil client falls back to http.DefaultClient.
func NewHTTPSource(baseURL string, client *http.Client) SeedSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpSource{baseURL: baseURL, client: client}
}

func (s *httpSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target, err := url.JoinPath(s.baseURL, name)
	if err != nil {
		return nil, fmt.Errorf("build seed url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeedUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrSeedNotFound, target)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s returned %d", ErrSeedUnavailable, target, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxSeedSize))
}
