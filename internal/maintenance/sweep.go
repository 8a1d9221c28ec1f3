package maintenance

import (
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

// sweep runs the unconditional cleanup body: age-based expiry first, then
// size-capped eviction, both logged and neither ever retried — a per-file
// delete failure is logged and the file simply stays.
func sweep(home *store.Home, cfg Config, now time.Time) (Stats, error) {
	var stats Stats

	entries, err := store.ScanIntermediateResults(home)
	if err != nil {
		return stats, err
	}
	stats.FilesScanned = len(entries)

	remaining := expirePhase(entries, cfg, now, &stats)

	var totalSize int64
	for _, e := range remaining {
		totalSize += e.Size
	}

	if totalSize > cfg.MaxSizeBytes {
		evictPhase(remaining, totalSize, cfg.MaxSizeBytes, &stats)
	}

	stats.Ran = true
	return stats, nil
}

// expirePhase deletes every entry whose cache key belongs to an expired
// marker (age > max_age), returning the entries that remain on disk.
func expirePhase(entries []store.Entry, cfg Config, now time.Time, stats *Stats) (remaining []store.Entry) {
	expiredKeys := make(map[string]bool)
	for _, e := range entries {
		if e.IsMarker && now.Sub(e.LastModified) > cfg.MaxAge() {
			expiredKeys[e.CacheKey] = true
		}
	}
	stats.ExpiredKeys = len(expiredKeys)

	remaining = make([]store.Entry, 0, len(entries))
	for _, e := range entries {
		if !expiredKeys[e.CacheKey] {
			remaining = append(remaining, e)
			continue
		}
		if err := os.Remove(e.Path); err != nil {
			log.Warn().Err(err).Str("file", e.Filename).Msg("maintenance: failed to delete expired entry")
			remaining = append(remaining, e)
			continue
		}
		stats.EntriesDeleted++
		stats.BytesFreed += e.Size
	}
	return remaining
}

// evictPhase groups the surviving entries by cache key, sorts groups by
// total size descending, and evicts whole groups — largest first — until
// totalSize drops to maxSize or no groups remain. A group, once started,
// is committed in full: every file in it is attempted before moving on.
func evictPhase(remaining []store.Entry, totalSize, maxSize int64, stats *Stats) {
	groups := make(map[string][]store.Entry)
	groupSize := make(map[string]int64)
	for _, e := range remaining {
		groups[e.CacheKey] = append(groups[e.CacheKey], e)
		groupSize[e.CacheKey] += e.Size
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if groupSize[keys[i]] != groupSize[keys[j]] {
			return groupSize[keys[i]] > groupSize[keys[j]]
		}
		return keys[i] < keys[j] // stable tie-break
	})

	for _, k := range keys {
		if totalSize <= maxSize {
			return
		}
		for _, e := range groups[k] {
			if err := os.Remove(e.Path); err != nil {
				log.Warn().Err(err).Str("file", e.Filename).Msg("maintenance: failed to delete entry during size eviction")
				continue
			}
			stats.EntriesDeleted++
			stats.BytesFreed += e.Size
			totalSize -= e.Size
		}
	}
}
