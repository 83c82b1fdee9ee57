// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

// stubRemote is a scriptable RemoteStore.
type stubRemote struct {
	fetch func(ctx context.Context, remoteID string) ([]byte, error)
}

func (s *stubRemote) Fetch(ctx context.Context, remoteID string) ([]byte, error) {
	return s.fetch(ctx, remoteID)
}

func newTestManager(t *testing.T, remote RemoteStore) *Manager {
	t.Helper()
	m, err := NewManager(types.CacheConfig{CacheDir: t.TempDir()}, remote)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestSaveAndGetCachedFile(t *testing.T) {
	m := newTestManager(t, nil)
	pdf := []byte("%PDF-1.7 test document")

	assert.False(t, m.IsCached("p1"))

	path, err := m.SaveToCache("p1", pdf)
	require.NoError(t, err)

	assert.True(t, m.IsCached("p1"))
	got, ok := m.GetCachedFile("p1")
	require.True(t, ok)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

func TestSaveToCacheSanitizesDOIs(t *testing.T) {
	m := newTestManager(t, nil)

	path, err := m.SaveToCache("10.1145/3292500.3330701", []byte("%PDF-"))
	require.NoError(t, err)
	assert.NotContains(t, path[len(m.dir):], "/3292500")

	_, ok := m.GetCachedFile("10.1145/3292500.3330701")
	assert.True(t, ok, "sanitized id should look up the same file")
}

func TestGetCachedFileMissingOnDisk(t *testing.T) {
	m := newTestManager(t, nil)

	path, err := m.SaveToCache("p1", []byte("%PDF-"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	// Index row without its file counts as absent.
	_, ok := m.GetCachedFile("p1")
	assert.False(t, ok)
	assert.False(t, m.IsCached("p1"))
}

func TestGetPDFForAnalysisLocalHit(t *testing.T) {
	remote := &stubRemote{fetch: func(ctx context.Context, remoteID string) ([]byte, error) {
		t.Fatal("remote store consulted on a local hit")
		return nil, nil
	}}
	m := newTestManager(t, remote)

	saved, err := m.SaveToCache("p1", []byte("%PDF-"))
	require.NoError(t, err)

	path, ok, err := m.GetPDFForAnalysis(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, path)
}

func TestGetPDFForAnalysisRemoteFill(t *testing.T) {
	pdf := []byte("%PDF-1.7 remote copy")
	remote := &stubRemote{fetch: func(ctx context.Context, remoteID string) ([]byte, error) {
		assert.Equal(t, "store-key-1", remoteID)
		return pdf, nil
	}}
	m := newTestManager(t, remote)

	require.NoError(t, m.RegisterRemote("p1", "store-key-1", "NeurIPS", map[string]any{"year": 2017}))

	path, ok, err := m.GetPDFForAnalysis(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)

	// The fill is persistent: the next call is a local hit.
	assert.True(t, m.IsCached("p1"))
}

func TestGetPDFForAnalysisAbsent(t *testing.T) {
	m := newTestManager(t, nil)

	_, ok, err := m.GetPDFForAnalysis(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, ok)

	// No side effects: still no entry.
	stats, err := m.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestGetPDFForAnalysisRemoteError(t *testing.T) {
	remote := &stubRemote{fetch: func(ctx context.Context, remoteID string) ([]byte, error) {
		return nil, fmt.Errorf("store unreachable")
	}}
	m := newTestManager(t, remote)
	require.NoError(t, m.RegisterRemote("p1", "k1", "", nil))

	_, ok, err := m.GetPDFForAnalysis(context.Background(), "p1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHTTPRemoteStore(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docs/store-key-1", r.URL.Path)
		fmt.Fprint(w, "%PDF-1.7 from store")
	}))
	defer ts.Close()

	store := &HTTPRemoteStore{Client: ts.Client(), BaseURL: ts.URL + "/docs/", UserAgent: "pdf-pipeline/test"}
	data, err := store.Fetch(context.Background(), "store-key-1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 from store", string(data))
}

func TestCleanupCache(t *testing.T) {
	m := newTestManager(t, nil)
	_, err := m.SaveToCache("p1", []byte("%PDF- one"))
	require.NoError(t, err)
	require.NoError(t, m.RegisterRemote("p1", "store-key-1", "", nil))

	// Entries younger than the TTL survive.
	removed, err := m.CleanupCache(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.True(t, m.IsCached("p1"))

	// A zero TTL evicts everything cached before now.
	removed, err = m.CleanupCache(0)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, m.IsCached("p1"))

	// Remote metadata survives eviction, so the entry can be re-filled.
	stats, err := m.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, 0, stats.Files)
}

func TestCleanupThenRemoteRefill(t *testing.T) {
	pdf := []byte("%PDF-1.7 refill")
	remote := &stubRemote{fetch: func(ctx context.Context, remoteID string) ([]byte, error) {
		return pdf, nil
	}}
	m := newTestManager(t, remote)

	_, err := m.SaveToCache("p1", []byte("%PDF- original"))
	require.NoError(t, err)
	require.NoError(t, m.RegisterRemote("p1", "k1", "", nil))

	_, err = m.CleanupCache(0)
	require.NoError(t, err)

	path, ok, err := m.GetPDFForAnalysis(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, ok)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pdf, data)
}

func TestDelete(t *testing.T) {
	m := newTestManager(t, nil)
	path, err := m.SaveToCache("p1", []byte("%PDF-"))
	require.NoError(t, err)

	require.NoError(t, m.Delete("p1"))
	assert.False(t, m.IsCached("p1"))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Deleting an unknown paper is a no-op.
	require.NoError(t, m.Delete("never-seen"))
}

func TestStatistics(t *testing.T) {
	m := newTestManager(t, nil)
	_, err := m.SaveToCache("p1", []byte("%PDF- 1234"))
	require.NoError(t, err)
	_, err = m.SaveToCache("p2", []byte("%PDF- 12345678"))
	require.NoError(t, err)
	require.NoError(t, m.RegisterRemote("p3", "k3", "", nil))

	stats, err := m.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, int64(10+14), stats.TotalBytes)
}
