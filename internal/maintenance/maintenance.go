package maintenance

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/nfrt-cache/internal/store"
)

// reasons a run did not sweep, reported on Stats.Reason.
const (
	ReasonDisabled  = "disabled"
	ReasonRateGated = "rate-gated"
	ReasonLockBusy  = "lock-busy"
	ReasonCompleted = "completed"
)

// PerformMaintenance is the rate-gated entry point: it runs the cleanup
// sweep at most once per rateGateInterval, and only if it wins the
// advisory lock on home's coordination file. Skipped runs are not errors.
//
// Per spec §4.4, the lock is acquired first and the rate gate is read
// only once it is held — the lock's sole job is process exclusion, and
// the mtime gate is checked under that exclusion so two concurrent
// callers can never both observe a stale mtime and both run the sweep.
func PerformMaintenance(home *store.Home, cfg Config) (Stats, error) {
	if cfg.Disabled {
		return Stats{Reason: ReasonDisabled}, nil
	}

	return runLocked(home, home.CleanupStatePath(), cfg, time.Now(), true)
}

// CleanUpAll runs the cleanup sweep unconditionally, bypassing the
// rate gate — still behind the same advisory lock, so it never races a
// concurrent periodic run.
func CleanUpAll(home *store.Home, cfg Config) (Stats, error) {
	return runLocked(home, home.CleanupStatePath(), cfg, time.Now(), false)
}

// runLocked acquires the advisory lock on statePath, then — only if
// checkGate is set — re-reads the state file's mtime while holding that
// lock before deciding whether to run the sweep body. checkGate is false
// for CleanUpAll, which always sweeps once it has the lock.
//
// acquireLock creates the state file when it is absent, so an empty state
// file means no run has ever completed and the gate is not consulted; a
// completed run writes a line into the file before touching its mtime.
func runLocked(home *store.Home, statePath string, cfg Config, now time.Time, checkGate bool) (Stats, error) {
	lockFile, ok, err := acquireLock(statePath)
	if err != nil {
		return Stats{}, err
	}
	if !ok {
		log.Debug().Msg("maintenance: skipped, lock held by another process")
		return Stats{Reason: ReasonLockBusy}, nil
	}
	defer releaseLock(lockFile)

	if checkGate {
		info, err := lockFile.Stat()
		if err != nil {
			return Stats{}, err
		}
		if info.Size() > 0 {
			gated, err := rateGated(statePath, now)
			if err != nil {
				return Stats{}, err
			}
			if gated {
				log.Debug().Msg("maintenance: skipped, within rate-gate window")
				return Stats{Reason: ReasonRateGated}, nil
			}
		}
	}

	stats, err := sweep(home, cfg, now)
	if err != nil {
		return stats, err
	}
	stats.Reason = ReasonCompleted

	if _, err := lockFile.WriteAt([]byte("completed\n"), 0); err != nil {
		return stats, err
	}
	if err := touchState(statePath, now); err != nil {
		return stats, err
	}

	log.Info().
		Int("files_scanned", stats.FilesScanned).
		Int("expired_keys", stats.ExpiredKeys).
		Int("entries_deleted", stats.EntriesDeleted).
		Int64("bytes_freed", stats.BytesFreed).
		Msg("maintenance: cleanup complete")

	return stats, nil
}
