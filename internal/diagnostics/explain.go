// Package diagnostics implements miss diagnosis (C5): given a fingerprint
// that missed, find the closest surviving marker of the same type and
// explain exactly which components differ.
package diagnostics

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/nfrt-cache/internal/cache"
	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

// Candidate is one same-type marker ranked against the miss, closest first.
type Candidate struct {
	Filename     string
	LastModified time.Time
	Key          *cachekey.CacheKey
	Delta        []cachekey.Delta
}

// DeltaCount is the ranking criterion: fewer differing components means a
// closer candidate.
func (c Candidate) DeltaCount() int {
	return len(c.Delta)
}

// ExplainMiss scans home's intermediate_results/ for markers sharing key's
// type, ranks them by ascending delta-component count against key (stable
// on ties), and returns the full ranked list. An empty result means no
// same-type marker exists at all — not even a distant one.
func ExplainMiss(home *store.Home, memo *cache.MarkerCache, key *cachekey.CacheKey) ([]Candidate, error) {
	entries, err := store.ScanIntermediateResults(home)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		if !e.IsMarker {
			continue
		}
		parsed, err := memo.Parse(e.Path)
		if err != nil {
			log.Warn().Err(err).Str("file", e.Filename).Msg("diagnostics: skipping unparseable marker")
			continue
		}
		if parsed.Type != key.Type {
			continue
		}
		candidates = append(candidates, Candidate{
			Filename:     e.Filename,
			LastModified: e.LastModified,
			Key:          parsed,
			Delta:        key.Diff(parsed),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DeltaCount() < candidates[j].DeltaCount()
	})

	return candidates, nil
}

// Best returns the closest candidate, or ok=false if ranked is empty.
func Best(ranked []Candidate) (best Candidate, ok bool) {
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	return ranked[0], true
}
