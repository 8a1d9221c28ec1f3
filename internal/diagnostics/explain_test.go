package diagnostics

import (
	"os"
	"strings"
	"testing"

	"github.com/allaspectsdev/nfrt-cache/internal/cache"
	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

func writeMarker(t *testing.T, home *store.Home, key *cachekey.CacheKey) {
	t.Helper()
	if err := home.EnsureIntermediateResultsDir(); err != nil {
		t.Fatalf("EnsureIntermediateResultsDir: %v", err)
	}
	data, err := cachekey.Marshal(key)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := home.IntermediateResultsDir() + "/" + store.MarkerFilename(key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func av(v string) cachekey.AnnotatedValue { return cachekey.NewAnnotatedValue(v) }

func TestExplainMissRanksClosestFirst(t *testing.T) {
	home := store.NewHome(t.TempDir())

	miss, err := cachekey.New("compile", map[string]cachekey.AnnotatedValue{
		"a": av("1"), "b": av("2"), "c": av("3"), "d": av("4"),
	})
	if err != nil {
		t.Fatalf("cachekey.New miss: %v", err)
	}

	candidateA, _ := cachekey.New("compile", map[string]cachekey.AnnotatedValue{
		"a": av("1"), "b": av("x"), "c": av("y"), "d": av("z"),
	})
	candidateB, _ := cachekey.New("compile", map[string]cachekey.AnnotatedValue{
		"a": av("1"), "b": av("2"), "c": av("y"), "d": av("z"),
	})
	candidateC, _ := cachekey.New("compile", map[string]cachekey.AnnotatedValue{
		"a": av("p"), "b": av("q"), "c": av("r"), "d": av("s"),
	})
	other, _ := cachekey.New("assemble", map[string]cachekey.AnnotatedValue{
		"a": av("1"),
	})

	for _, k := range []*cachekey.CacheKey{candidateA, candidateB, candidateC, other} {
		writeMarker(t, home, k)
	}

	memo, err := cache.NewMarkerCache(16)
	if err != nil {
		t.Fatalf("NewMarkerCache: %v", err)
	}

	ranked, err := ExplainMiss(home, memo, miss)
	if err != nil {
		t.Fatalf("ExplainMiss: %v", err)
	}

	if len(ranked) != 3 {
		t.Fatalf("len(ranked) = %d, want 3 (different-type marker excluded)", len(ranked))
	}

	best, ok := Best(ranked)
	if !ok {
		t.Fatal("Best() ok = false")
	}
	if best.Filename != store.MarkerFilename(candidateB) {
		t.Errorf("closest candidate = %s, want %s", best.Filename, store.MarkerFilename(candidateB))
	}
	if best.DeltaCount() != 2 {
		t.Errorf("best.DeltaCount() = %d, want 2", best.DeltaCount())
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].DeltaCount() > ranked[i].DeltaCount() {
			t.Errorf("ranked list not sorted ascending by delta count: %+v", ranked)
		}
	}
}

func TestExplainMissEmptyWhenNoSameTypeMarker(t *testing.T) {
	home := store.NewHome(t.TempDir())
	miss, _ := cachekey.New("compile", map[string]cachekey.AnnotatedValue{"a": av("1")})

	memo, err := cache.NewMarkerCache(16)
	if err != nil {
		t.Fatalf("NewMarkerCache: %v", err)
	}

	ranked, err := ExplainMiss(home, memo, miss)
	if err != nil {
		t.Fatalf("ExplainMiss: %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("len(ranked) = %d, want 0", len(ranked))
	}
	if _, ok := Best(ranked); ok {
		t.Error("Best() ok = true on empty ranking")
	}
}

func TestRenderRankedAndDelta(t *testing.T) {
	home := store.NewHome(t.TempDir())
	miss, _ := cachekey.New("compile", map[string]cachekey.AnnotatedValue{"a": av("1"), "b": av("2")})
	candidate, _ := cachekey.New("compile", map[string]cachekey.AnnotatedValue{"a": av("1"), "b": av("x")})
	writeMarker(t, home, candidate)

	memo, err := cache.NewMarkerCache(16)
	if err != nil {
		t.Fatalf("NewMarkerCache: %v", err)
	}
	ranked, err := ExplainMiss(home, memo, miss)
	if err != nil {
		t.Fatalf("ExplainMiss: %v", err)
	}

	var sb strings.Builder
	if err := RenderRanked(&sb, ranked); err != nil {
		t.Fatalf("RenderRanked: %v", err)
	}
	if !strings.Contains(sb.String(), "delta_count=1") {
		t.Errorf("RenderRanked output = %q, want it to mention delta_count=1", sb.String())
	}

	sb.Reset()
	if err := RenderDelta(&sb, ranked[0]); err != nil {
		t.Fatalf("RenderDelta: %v", err)
	}
	if !strings.Contains(sb.String(), "b:") {
		t.Errorf("RenderDelta output = %q, want it to mention component b", sb.String())
	}
}
