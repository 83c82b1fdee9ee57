// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RemoteStore fetches documents by remote identifier when the local cache
// misses. Implementations must be safe for concurrent use.
type RemoteStore interface {
	Fetch(ctx context.Context, remoteID string) ([]byte, error)
}

// HTTPRemoteStore fetches documents from an HTTP document store at
// BaseURL/<remoteID>.
type HTTPRemoteStore struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// Fetch downloads the document for remoteID.
func (s *HTTPRemoteStore) Fetch(ctx context.Context, remoteID string) ([]byte, error) {
	reqURL := strings.TrimSuffix(s.BaseURL, "/") + "/" + remoteID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote store returned HTTP %d for %s", resp.StatusCode, remoteID)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote document: %w", err)
	}
	return data, nil
}
