package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

// Restore tests the marker for key, and on a positive test materialises
// every declared output path, touching the marker's mtime on full success.
//
// A malformed marker is NOT parsed here at all — marker presence is a pure
// regular-file test. JSON decoding only happens where a value is actually
// needed (diagnostics), so a marker that exists but fails to parse still
// yields Hit if its outputs are present.
//
// onMiss, if non-nil, is invoked exactly when the result is Miss (no
// marker at all) — never on MissIncomplete. Callers wire this to
// diagnostics.ExplainMiss when analysis is enabled.
func Restore(home *store.Home, node Node, key *cachekey.CacheKey, onMiss func(*cachekey.CacheKey)) (map[string]string, Result, error) {
	if err := home.EnsureIntermediateResultsDir(); err != nil {
		return nil, Miss, err
	}

	markerPath := filepath.Join(home.IntermediateResultsDir(), store.MarkerFilename(key))
	info, err := os.Stat(markerPath)
	if err != nil || info.IsDir() {
		if onMiss != nil {
			onMiss(key)
		}
		return nil, Miss, nil
	}

	out := make(map[string]string)
	for _, decl := range node.Outputs() {
		path := filepath.Join(home.IntermediateResultsDir(), store.OutputFilename(key, decl.Name, decl.Spec.Extension()))
		outInfo, statErr := os.Stat(path)
		if statErr != nil || outInfo.IsDir() {
			log.Warn().Str("node", node.ID()).Str("output", decl.Name).Str("path", path).Msg("missing output for marked cache key")
			return nil, MissIncomplete, nil
		}
		out[decl.Name] = path
	}

	now := time.Now()
	if err := os.Chtimes(markerPath, now, now); err != nil {
		return nil, Miss, fmt.Errorf("cache: touching marker %s: %w", markerPath, err)
	}

	return out, Hit, nil
}
