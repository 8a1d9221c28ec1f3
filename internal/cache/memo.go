package cache

import (
	"fmt"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
)

// memoEntry is a parsed marker plus the mtime it was parsed at, so a stale
// cache line (the file changed since) is detected rather than trusted.
type memoEntry struct {
	mtime time.Time
	key   *cachekey.CacheKey
}

// MarkerCache memoises parsed marker JSON keyed by path, invalidated by
// mtime. It never substitutes for the marker file as source of truth —
// it only spares diagnostics from re-parsing the same marker bytes twice
// within one process lifetime, the same two-tier (memory then disk) shape
// the cache middleware in the repo this module is patterned after uses for
// its own response cache.
type MarkerCache struct {
	memo *lru.Cache[string, memoEntry]
}

// NewMarkerCache creates a MarkerCache holding up to size entries.
func NewMarkerCache(size int) (*MarkerCache, error) {
	if size <= 0 {
		size = 256
	}
	memo, err := lru.New[string, memoEntry](size)
	if err != nil {
		return nil, fmt.Errorf("cache: creating marker memo: %w", err)
	}
	return &MarkerCache{memo: memo}, nil
}

// Parse reads and parses the marker at path, serving a memoised result if
// the file's mtime matches what was cached.
func (c *MarkerCache) Parse(path string) (*cachekey.CacheKey, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cache: stat marker %s: %w", path, err)
	}

	if c.memo != nil {
		if entry, ok := c.memo.Get(path); ok && entry.mtime.Equal(info.ModTime()) {
			return entry.key, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cache: reading marker %s: %w", path, err)
	}
	key, err := cachekey.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("cache: decoding marker %s: %w", path, err)
	}

	if c.memo != nil {
		c.memo.Add(path, memoEntry{mtime: info.ModTime(), key: key})
	}
	return key, nil
}
