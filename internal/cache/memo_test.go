package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
)

func TestMarkerCacheReparsesAfterMtimeChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marker.txt")

	k1, _ := cachekey.New("build", map[string]cachekey.AnnotatedValue{"a": cachekey.NewAnnotatedValue("1")})
	data1, _ := cachekey.Marshal(k1)
	if err := os.WriteFile(path, data1, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	mc, err := NewMarkerCache(16)
	if err != nil {
		t.Fatalf("NewMarkerCache: %v", err)
	}

	got, err := mc.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.HashValue != k1.HashValue {
		t.Fatalf("Parse() hash = %s, want %s", got.HashValue, k1.HashValue)
	}

	k2, _ := cachekey.New("build", map[string]cachekey.AnnotatedValue{"a": cachekey.NewAnnotatedValue("2")})
	data2, _ := cachekey.Marshal(k2)
	future := time.Now().Add(time.Second)
	if err := os.WriteFile(path, data2, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	got, err = mc.Parse(path)
	if err != nil {
		t.Fatalf("Parse after update: %v", err)
	}
	if got.HashValue != k2.HashValue {
		t.Errorf("Parse() after mtime change hash = %s, want %s (stale cache)", got.HashValue, k2.HashValue)
	}
}
