package cache

// Result is the outcome of a restore attempt.
type Result int

const (
	// Miss means no marker exists for the key.
	Miss Result = iota
	// Hit means every declared output exists on disk and the paths are
	// ready for the caller to use.
	Hit
	// MissIncomplete means a marker exists but at least one declared
	// output is missing; the caller must treat this exactly like Miss.
	MissIncomplete
)

func (r Result) String() string {
	switch r {
	case Hit:
		return "hit"
	case MissIncomplete:
		return "miss-incomplete"
	default:
		return "miss"
	}
}
