package maintenance

import (
	"os"
	"time"
)

// rateGated reports whether a cleanup run should be skipped because the
// state file's mtime shows a completed run inside rateGateInterval. A
// missing state file never gates — the first run always proceeds.
func rateGated(statePath string, now time.Time) (bool, error) {
	info, err := os.Stat(statePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return now.Sub(info.ModTime()) < rateGateInterval, nil
}

// touchState records a completed run by updating (or creating) the state
// file's mtime. Only a run that actually executed the sweep body touches
// this file — a gated or lock-contended run must not reset the window.
func touchState(statePath string, now time.Time) error {
	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		f, createErr := os.OpenFile(statePath, os.O_CREATE|os.O_RDWR, 0o644)
		if createErr != nil {
			return createErr
		}
		return f.Close()
	}
	return os.Chtimes(statePath, now, now)
}
