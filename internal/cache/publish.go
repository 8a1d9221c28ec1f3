package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

// Publish atomically moves every produced output into place before the
// marker is written, so a crash mid-publish leaves no marker and the
// partial state reads back as a miss.
//
// produced maps declared output name to a temporary file holding its
// freshly computed contents; on success the same map is mutated in place
// to hold the final published paths.
func Publish(home *store.Home, node Node, key *cachekey.CacheKey, produced map[string]string) error {
	if err := home.EnsureIntermediateResultsDir(); err != nil {
		return err
	}

	for name, tempPath := range produced {
		ext, ok := extensionFor(node, name)
		if !ok {
			return fmt.Errorf("cache: node %s has no declared output %q", node.ID(), name)
		}
		finalPath := filepath.Join(home.IntermediateResultsDir(), store.OutputFilename(key, name, ext))
		if err := atomicMove(tempPath, finalPath); err != nil {
			return fmt.Errorf("cache: publishing output %q: %w", name, err)
		}
		produced[name] = finalPath
	}

	return writeMarker(home, key)
}

// writeMarker serialises key and commits it to the marker path via
// write-to-temp + rename, overwriting any prior marker atomically. This is
// the publish barrier: callers must not consider outputs published until
// this returns successfully.
func writeMarker(home *store.Home, key *cachekey.CacheKey) error {
	data, err := cachekey.Marshal(key)
	if err != nil {
		return fmt.Errorf("cache: marshalling marker for %s: %w", key.String(), err)
	}

	dir := home.IntermediateResultsDir()
	markerPath := filepath.Join(dir, store.MarkerFilename(key))
	tempPath := filepath.Join(dir, "."+uuid.NewString()+".marker.tmp")

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("cache: writing marker scratch file: %w", err)
	}
	if err := os.Rename(tempPath, markerPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("cache: committing marker %s: %w", markerPath, err)
	}
	return nil
}
