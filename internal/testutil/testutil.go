package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

// NewTestHome creates a cache home directory rooted at a fresh temp dir,
// with intermediate_results/ already present.
func NewTestHome(t *testing.T) *store.Home {
	t.Helper()
	home := store.NewHome(t.TempDir())
	if err := home.EnsureIntermediateResultsDir(); err != nil {
		t.Fatalf("failed to create test home: %v", err)
	}
	return home
}

// TempDir creates a temporary directory for test data.
func TempDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// WriteFile writes content to a file in the given directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

// Backdate sets path's mtime to age before now, for exercising age-based
// eviction without waiting on the clock.
func Backdate(t *testing.T, path string, age time.Duration) {
	t.Helper()
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("failed to backdate %s: %v", path, err)
	}
}
