package main

import (
	"fmt"
	"os"

	"github.com/allaspectsdev/nfrt-cache/internal/config"
	"github.com/allaspectsdev/nfrt-cache/internal/maintenance"
	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

// cmdMaintain runs one rate-gated maintenance sweep and exits, without
// starting the daemon. Useful for driving cleanup from an external
// scheduler (cron, a CI step) instead of the long-running process.
func cmdMaintain() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	home := store.NewHome(cfg.Store.Home)
	stats, err := maintenance.PerformMaintenance(home, cfg.Maintenance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running maintenance: %v\n", err)
		os.Exit(1)
	}

	printMaintenanceStats(stats)
}

// cmdGC runs an unconditional maintenance sweep, bypassing the 24h rate
// gate, still behind the same process-exclusion lock.
func cmdGC() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	home := store.NewHome(cfg.Store.Home)
	stats, err := maintenance.CleanUpAll(home, cfg.Maintenance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running cleanup: %v\n", err)
		os.Exit(1)
	}

	printMaintenanceStats(stats)
}

func printMaintenanceStats(stats maintenance.Stats) {
	switch stats.Reason {
	case maintenance.ReasonDisabled:
		fmt.Println("maintenance is disabled")
	case maintenance.ReasonRateGated:
		fmt.Println("skipped: last run was within the rate-gate window")
	case maintenance.ReasonLockBusy:
		fmt.Println("skipped: another process is running maintenance")
	default:
		fmt.Printf("files scanned:   %d\n", stats.FilesScanned)
		fmt.Printf("expired keys:    %d\n", stats.ExpiredKeys)
		fmt.Printf("entries deleted: %d\n", stats.EntriesDeleted)
		fmt.Printf("bytes freed:     %d\n", stats.BytesFreed)
	}
}
