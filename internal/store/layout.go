// Package store implements the on-disk layout of the NeoForm Runtime cache
// home directory: the fixed subdirectories, the marker/output filename
// grammar, and the non-recursive scan maintenance sweeps over.
package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	artifactsDirName           = "artifacts"
	intermediateResultsDirName = "intermediate_results"
	assetsDirName              = "assets"
	cleanupStateFilename       = "nfrt_cache_cleanup.state"
)

// Home is the cache's home directory. It owns three fixed subdirectories;
// only IntermediateResults is governed by this module — Artifacts and
// Assets are external collaborators' namespaces that happen to share the
// same root.
type Home struct {
	Root string
}

// NewHome wraps a home directory path. It does not touch the filesystem;
// call EnsureIntermediateResultsDir before first use.
func NewHome(root string) *Home {
	return &Home{Root: root}
}

// ArtifactsDir returns H/artifacts.
func (h *Home) ArtifactsDir() string {
	return filepath.Join(h.Root, artifactsDirName)
}

// IntermediateResultsDir returns H/intermediate_results, the only
// subdirectory this module manages.
func (h *Home) IntermediateResultsDir() string {
	return filepath.Join(h.Root, intermediateResultsDirName)
}

// AssetsDir returns H/assets.
func (h *Home) AssetsDir() string {
	return filepath.Join(h.Root, assetsDirName)
}

// CleanupStatePath returns the path of the maintenance coordination file,
// H/nfrt_cache_cleanup.state.
func (h *Home) CleanupStatePath() string {
	return filepath.Join(h.Root, cleanupStateFilename)
}

// EnsureIntermediateResultsDir creates H/intermediate_results (and H
// itself) if they do not already exist.
func (h *Home) EnsureIntermediateResultsDir() error {
	dir := h.IntermediateResultsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: creating intermediate results directory %s: %w", dir, err)
	}
	return nil
}
