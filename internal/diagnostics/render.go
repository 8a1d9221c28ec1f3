package diagnostics

import (
	"fmt"
	"io"
	"time"
)

// RenderRanked writes one "filename mtime delta_count" line per candidate,
// in the order given (closest first).
func RenderRanked(w io.Writer, ranked []Candidate) error {
	for _, c := range ranked {
		if _, err := fmt.Fprintf(w, "%s %s delta_count=%d\n", c.Filename, c.LastModified.Format(time.RFC3339), c.DeltaCount()); err != nil {
			return err
		}
	}
	return nil
}

// RenderDelta writes the full per-component breakdown for one candidate:
// one line per differing component, showing the New (ours) and Old
// (theirs) values — or "<absent>" when a component exists on only one
// side — matching spec §4.5 step 6's naming.
func RenderDelta(w io.Writer, c Candidate) error {
	if len(c.Delta) == 0 {
		_, err := fmt.Fprintf(w, "%s: no differing components\n", c.Filename)
		return err
	}
	for _, d := range c.Delta {
		newVal, oldVal := "<absent>", "<absent>"
		if d.Ours != nil {
			newVal = d.Ours.Value
		}
		if d.Theirs != nil {
			oldVal = d.Theirs.Value
		}
		if _, err := fmt.Fprintf(w, "  %s: New=%q Old=%q\n", d.Key, newVal, oldVal); err != nil {
			return err
		}
	}
	return nil
}
