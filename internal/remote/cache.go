package remote

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"scpane/internal/domain"
	"scpane/internal/logging"
)

const snapshotVersion = 1
const maxSnapshotBytes = 4 * 1024 * 1024

// Lister is the read side of the transport the panels consume.
type Lister interface {
	List(remotePath string) []domain.FileEntry
	FileSize(remotePath string) (int64, bool)
}

// ListingCache memoizes remote directory listings so revisiting a
// directory does not shell out again. Listing commands run on their own
// goroutines, hence the lock. Empty results are never cached: an empty
// listing may be a transport failure and must stay retryable.
type ListingCache struct {
	inner Lister

	mu       sync.RWMutex
	listings map[string][]domain.FileEntry
}

func NewListingCache(inner Lister) *ListingCache {
	return &ListingCache{
		inner:    inner,
		listings: map[string][]domain.FileEntry{},
	}
}

func (cache *ListingCache) List(remotePath string) []domain.FileEntry {
	cache.mu.RLock()
	cached, ok := cache.listings[remotePath]
	cache.mu.RUnlock()
	if ok {
		return cached
	}

	entries := cache.inner.List(remotePath)
	if len(entries) == 0 {
		return nil
	}
	cache.mu.Lock()
	cache.listings[remotePath] = entries
	cache.mu.Unlock()
	return entries
}

func (cache *ListingCache) FileSize(remotePath string) (int64, bool) {
	return cache.inner.FileSize(remotePath)
}

// Invalidate drops one directory's cached listing.
func (cache *ListingCache) Invalidate(remotePath string) {
	cache.mu.Lock()
	delete(cache.listings, remotePath)
	cache.mu.Unlock()
}

func (cache *ListingCache) InvalidateAll() {
	cache.mu.Lock()
	cache.listings = map[string][]domain.FileEntry{}
	cache.mu.Unlock()
}

type snapshotFile struct {
	Version  int                           `json:"version"`
	Target   string                        `json:"target"`
	Listings map[string][]domain.FileEntry `json:"listings"`
}

// DefaultSnapshotPath returns where listings persist between sessions.
func DefaultSnapshotPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "scpane", "listings.json")
}

// LoadSnapshot seeds the cache from a previous session. A snapshot for a
// different target, a stale version, or an oversized file is ignored.
func (cache *ListingCache) LoadSnapshot(path, target string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxSnapshotBytes {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var stored snapshotFile
	if err := json.Unmarshal(data, &stored); err != nil {
		logging.Debugf("listing snapshot unreadable: %v", err)
		return
	}
	if stored.Version != snapshotVersion || stored.Target != target || stored.Listings == nil {
		return
	}
	cache.mu.Lock()
	cache.listings = stored.Listings
	cache.mu.Unlock()
}

// SaveSnapshot persists the cached listings for the next session.
func (cache *ListingCache) SaveSnapshot(path, target string) error {
	if path == "" {
		return nil
	}
	cache.mu.RLock()
	stored := snapshotFile{
		Version:  snapshotVersion,
		Target:   target,
		Listings: cache.listings,
	}
	data, err := json.Marshal(stored)
	cache.mu.RUnlock()
	if err != nil || len(data) > maxSnapshotBytes {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
