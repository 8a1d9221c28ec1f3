package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
)

// Entry is one regular file inside intermediate_results/ whose name
// matches the cache-key filename grammar.
type Entry struct {
	Path         string
	Filename     string
	CacheKey     string // the "<type>_<hash>" prefix
	IsMarker     bool
	LastModified time.Time
	Size         int64
}

// ScanIntermediateResults lists intermediate_results/ non-recursively and
// returns one Entry per regular file whose name matches the filename-prefix
// grammar. Files that don't match are logged at warn level and excluded
// from the result entirely — they are neither evicted nor counted toward
// total size, per the store's documented handling of unrecognised files.
func ScanIntermediateResults(h *Home) ([]Entry, error) {
	dir := h.IntermediateResultsDir()
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: reading %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		filename := de.Name()
		prefix, ok := cachekey.ParsePrefix(filename)
		if !ok {
			log.Warn().Str("file", filename).Msg("unrecognised file in cache")
			continue
		}

		info, err := de.Info()
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Msg("stat failed during scan")
			continue
		}

		entries = append(entries, Entry{
			Path:         filepath.Join(dir, filename),
			Filename:     filename,
			CacheKey:     prefix,
			IsMarker:     IsMarkerFilename(filename, prefix),
			LastModified: info.ModTime(),
			Size:         info.Size(),
		})
	}

	return entries, nil
}
