package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

func TestPublishThenRestoreHit(t *testing.T) {
	// S3: publish + restore hit.
	home := store.NewHome(t.TempDir())
	node := newFakeNode("N", "out")
	key := mustKey(t)

	scratch := scratchDir(t)
	produced := map[string]string{"out": writeTemp(t, scratch, "P")}

	if err := Publish(home, node, key, produced); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := readFile(t, produced["out"]); got != "P" {
		t.Fatalf("published output contents = %q, want P", got)
	}

	markerPath := filepath.Join(home.IntermediateResultsDir(), store.MarkerFilename(key))
	before, err := os.Stat(markerPath)
	if err != nil {
		t.Fatalf("stat marker: %v", err)
	}
	// Force the initial mtime far enough in the past that Chtimes will
	// observably advance it.
	past := before.ModTime().Add(-time.Hour)
	if err := os.Chtimes(markerPath, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	paths, result, err := Restore(home, node, key, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result != Hit {
		t.Fatalf("Restore result = %v, want Hit", result)
	}
	if got := readFile(t, paths["out"]); got != "P" {
		t.Errorf("restored output contents = %q, want P", got)
	}

	after, err := os.Stat(markerPath)
	if err != nil {
		t.Fatalf("stat marker after restore: %v", err)
	}
	if !after.ModTime().After(past) {
		t.Errorf("marker mtime did not advance on hit: before=%v after=%v", past, after.ModTime())
	}
}

func TestRestoreMissWhenNoMarker(t *testing.T) {
	home := store.NewHome(t.TempDir())
	node := newFakeNode("N", "out")
	key := mustKey(t)

	var onMissCalled bool
	paths, result, err := Restore(home, node, key, func(k *cachekey.CacheKey) {
		onMissCalled = true
		if k.String() != key.String() {
			t.Errorf("onMiss called with wrong key: %v", k)
		}
	})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result != Miss {
		t.Errorf("Restore result = %v, want Miss", result)
	}
	if paths != nil {
		t.Errorf("expected nil paths on miss, got %v", paths)
	}
	if !onMissCalled {
		t.Errorf("onMiss callback was not invoked")
	}
}

func TestRestoreIncompleteMissWhenOutputMissing(t *testing.T) {
	// S4: incomplete miss.
	home := store.NewHome(t.TempDir())
	node := newFakeNode("N", "out")
	key := mustKey(t)

	scratch := scratchDir(t)
	produced := map[string]string{"out": writeTemp(t, scratch, "P")}
	if err := Publish(home, node, key, produced); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if err := os.Remove(produced["out"]); err != nil {
		t.Fatalf("removing output: %v", err)
	}

	paths, result, err := Restore(home, node, key, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result != MissIncomplete {
		t.Errorf("Restore result = %v, want MissIncomplete", result)
	}
	if paths != nil {
		t.Errorf("expected nil paths on incomplete miss, got %v", paths)
	}
}

func TestPublishOverwritesPriorMarker(t *testing.T) {
	home := store.NewHome(t.TempDir())
	node := newFakeNode("N", "out")
	key := mustKey(t)

	scratch := scratchDir(t)
	if err := Publish(home, node, key, map[string]string{"out": writeTemp(t, scratch, "first")}); err != nil {
		t.Fatalf("Publish 1: %v", err)
	}
	if err := Publish(home, node, key, map[string]string{"out": writeTemp(t, scratch, "second")}); err != nil {
		t.Fatalf("Publish 2: %v", err)
	}

	paths, result, err := Restore(home, node, key, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result != Hit {
		t.Fatalf("Restore result = %v, want Hit", result)
	}
	if got := readFile(t, paths["out"]); got != "second" {
		t.Errorf("output contents = %q, want second", got)
	}
}
