package maintenance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

// writeEntry drops a marker file of the given size under home's
// intermediate_results/ and backdates it by age, returning its cache key.
func writeEntry(t *testing.T, home *store.Home, typ string, seed string, size int, age time.Duration) *cachekey.CacheKey {
	t.Helper()

	key, err := cachekey.New(typ, map[string]cachekey.AnnotatedValue{
		"seed": cachekey.NewAnnotatedValue(seed),
	})
	if err != nil {
		t.Fatalf("cachekey.New: %v", err)
	}

	if err := home.EnsureIntermediateResultsDir(); err != nil {
		t.Fatalf("EnsureIntermediateResultsDir: %v", err)
	}

	path := filepath.Join(home.IntermediateResultsDir(), store.MarkerFilename(key))
	// Sweep decisions never parse marker content — only filename, size and
	// mtime metadata from the directory scan — so the payload here is
	// filler sized exactly to what each test wants to exercise.
	data := make([]byte, size)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	return key
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func newTestHome(t *testing.T) *store.Home {
	t.Helper()
	return store.NewHome(t.TempDir())
}
