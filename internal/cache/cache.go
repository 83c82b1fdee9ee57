// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists retrieved PDFs keyed by paper identifier, with a
// SQLite metadata index, optional remote-store fallback, TTL-based
// eviction, and usage statistics.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-pipeline/pkg/types"
)

const indexFile = "index.db"

// Manager owns the cache directory and its metadata index. Reads take a
// shared lock; writers hold the exclusive lock for the whole update so
// concurrent callers cannot corrupt the index.
type Manager struct {
	mu     sync.RWMutex
	db     *sql.DB
	dir    string
	remote RemoteStore
}

// Entry is one row of the metadata index.
type Entry struct {
	PaperID  string
	Path     string
	RemoteID string
	CachedAt time.Time
	Venue    string
	Metadata map[string]any
}

// Stats summarizes cache usage.
type Stats struct {
	Entries    int
	Files      int
	TotalBytes int64
}

// NewManager opens or creates the cache at cfg.CacheDir. The metadata
// index lives alongside the PDFs in index.db; remote may be nil to disable
// the remote-store fallback.
func NewManager(cfg types.CacheConfig, remote RemoteStore) (*Manager, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CacheDir, indexFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache index: %w", err)
	}

	m := &Manager{db: db, dir: cfg.CacheDir, remote: remote}
	if err := m.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return m, nil
}

// Close releases the index database connection.
func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) createSchema() error {
	_, err := m.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		paper_id  TEXT PRIMARY KEY,
		file_name TEXT,
		remote_id TEXT,
		cached_at TEXT,
		venue     TEXT,
		metadata  TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// filePath returns the local path for a paper's PDF. Identifiers are
// sanitized the same way on save and lookup.
func (m *Manager) filePath(paperID string) string {
	return filepath.Join(m.dir, sanitizeID(paperID)+".pdf")
}

// sanitizeID makes a paper identifier filesystem-safe (DOIs contain slashes).
func sanitizeID(id string) string {
	return strings.NewReplacer("/", "-", ":", "-", " ", "_").Replace(id)
}

// IsCached reports whether the paper has an index entry with its file
// present on disk.
func (m *Manager) IsCached(paperID string) bool {
	_, ok := m.GetCachedFile(paperID)
	return ok
}

// GetCachedFile returns the local path of the cached PDF, or ok=false when
// the paper is not cached. An index row whose file has gone missing is
// treated as absent.
func (m *Manager) GetCachedFile(paperID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var fileName sql.NullString
	err := m.db.QueryRow(`SELECT file_name FROM entries WHERE paper_id = ?`, paperID).Scan(&fileName)
	if err != nil || !fileName.Valid || fileName.String == "" {
		return "", false
	}

	path := filepath.Join(m.dir, fileName.String)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// SaveToCache writes the PDF bytes for the paper and records it in the
// index. The file is written to a temp path and renamed so a crash never
// leaves a half-written PDF behind. Remote-store metadata already recorded
// for the paper is preserved.
func (m *Manager) SaveToCache(paperID string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.filePath(paperID)

	tmp, err := os.CreateTemp(m.dir, ".cache-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing cache file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = m.db.Exec(
		`INSERT INTO entries (paper_id, file_name, cached_at) VALUES (?, ?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET
			file_name = excluded.file_name,
			cached_at = excluded.cached_at`,
		paperID, filepath.Base(path), now,
	)
	if err != nil {
		return "", fmt.Errorf("updating cache index: %w", err)
	}
	return path, nil
}

// RegisterRemote records remote-store metadata for a paper so that
// GetPDFForAnalysis can re-fill the local cache after eviction. Only the
// rewritten entry is touched; other rows are undisturbed.
func (m *Manager) RegisterRemote(paperID, remoteID, venue string, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	metaJSON := ""
	if len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshaling cache metadata: %w", err)
		}
		metaJSON = string(data)
	}

	_, err := m.db.Exec(
		`INSERT INTO entries (paper_id, remote_id, venue, metadata) VALUES (?, ?, ?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET
			remote_id = excluded.remote_id,
			venue     = excluded.venue,
			metadata  = excluded.metadata`,
		paperID, remoteID, venue, metaJSON,
	)
	if err != nil {
		return fmt.Errorf("updating cache index: %w", err)
	}
	return nil
}

// GetPDFForAnalysis returns a local path for the paper's PDF, checking the
// local cache first and falling back to the remote store when remote-store
// metadata exists for the id. A miss with no remote metadata returns
// ok=false without side effects.
func (m *Manager) GetPDFForAnalysis(ctx context.Context, paperID string) (string, bool, error) {
	if path, ok := m.GetCachedFile(paperID); ok {
		return path, true, nil
	}

	m.mu.RLock()
	var remoteID sql.NullString
	err := m.db.QueryRow(`SELECT remote_id FROM entries WHERE paper_id = ?`, paperID).Scan(&remoteID)
	m.mu.RUnlock()

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying cache index: %w", err)
	}
	if !remoteID.Valid || remoteID.String == "" {
		return "", false, nil
	}
	if m.remote == nil {
		return "", false, nil
	}

	data, err := m.remote.Fetch(ctx, remoteID.String)
	if err != nil {
		return "", false, fmt.Errorf("fetching %s from remote store: %w", paperID, err)
	}

	path, err := m.SaveToCache(paperID, data)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// CleanupCache removes local files whose cached time exceeds the TTL and
// returns the count removed. Remote-store metadata survives eviction so
// the cache can be re-filled later.
func (m *Manager) CleanupCache(ttl time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-ttl)

	rows, err := m.db.Query(`SELECT paper_id, file_name, cached_at FROM entries WHERE file_name IS NOT NULL AND file_name != ''`)
	if err != nil {
		return 0, fmt.Errorf("querying cache index: %w", err)
	}
	defer rows.Close()

	type victim struct {
		paperID  string
		fileName string
	}
	var victims []victim
	for rows.Next() {
		var id, fileName, cachedAt string
		if err := rows.Scan(&id, &fileName, &cachedAt); err != nil {
			return 0, fmt.Errorf("scanning cache row: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, cachedAt)
		if err != nil {
			continue
		}
		if t.Before(cutoff) {
			victims = append(victims, victim{paperID: id, fileName: fileName})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterating cache rows: %w", err)
	}

	removed := 0
	for _, v := range victims {
		if err := os.Remove(filepath.Join(m.dir, v.fileName)); err != nil && !os.IsNotExist(err) {
			continue
		}
		_, err := m.db.Exec(
			`UPDATE entries SET file_name = NULL, cached_at = NULL WHERE paper_id = ?`,
			v.paperID,
		)
		if err != nil {
			return removed, fmt.Errorf("updating cache index: %w", err)
		}
		removed++
	}
	return removed, nil
}

// Delete removes a paper's cached file and its index entry.
func (m *Manager) Delete(paperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fileName sql.NullString
	err := m.db.QueryRow(`SELECT file_name FROM entries WHERE paper_id = ?`, paperID).Scan(&fileName)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("querying cache index: %w", err)
	}

	if fileName.Valid && fileName.String != "" {
		if err := os.Remove(filepath.Join(m.dir, fileName.String)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing cache file: %w", err)
		}
	}
	if _, err := m.db.Exec(`DELETE FROM entries WHERE paper_id = ?`, paperID); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Statistics returns total index entries, on-disk file count, and
// aggregate byte size.
func (m *Manager) Statistics() (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats Stats
	if err := m.db.QueryRow(`SELECT count(*) FROM entries`).Scan(&stats.Entries); err != nil {
		return Stats{}, fmt.Errorf("counting cache entries: %w", err)
	}

	dirEntries, err := os.ReadDir(m.dir)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Files++
		stats.TotalBytes += info.Size()
	}
	return stats, nil
}
