package main

import (
	"fmt"
	"os"

	"github.com/allaspectsdev/nfrt-cache/internal/cache"
	"github.com/allaspectsdev/nfrt-cache/internal/cachekey"
	"github.com/allaspectsdev/nfrt-cache/internal/config"
	"github.com/allaspectsdev/nfrt-cache/internal/diagnostics"
	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

// cmdDiff loads the fingerprint in the given key.json, ranks every
// same-type marker in the store against it, and prints the ranked list
// plus the closest candidate's full delta — the same explanation C3 wires
// into a live miss when diagnostics are enabled, run standalone.
func cmdDiff(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: nfrt-cache diff <key.json>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading key file: %v\n", err)
		os.Exit(1)
	}

	key, err := cachekey.Unmarshal(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing key file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	home := store.NewHome(cfg.Store.Home)

	memo, err := cache.NewMarkerCache(256)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ranked, err := diagnostics.ExplainMiss(home, memo, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error ranking candidates: %v\n", err)
		os.Exit(1)
	}

	if len(ranked) == 0 {
		fmt.Println("no same-type markers found")
		return
	}

	if err := diagnostics.RenderRanked(os.Stdout, ranked); err != nil {
		fmt.Fprintf(os.Stderr, "error rendering ranked list: %v\n", err)
		os.Exit(1)
	}

	best, ok := diagnostics.Best(ranked)
	if !ok {
		return
	}
	fmt.Printf("\nclosest candidate: %s\n", best.Filename)
	if err := diagnostics.RenderDelta(os.Stdout, best); err != nil {
		fmt.Fprintf(os.Stderr, "error rendering delta: %v\n", err)
		os.Exit(1)
	}
}
