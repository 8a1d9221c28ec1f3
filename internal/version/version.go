package version

import "fmt"

// Name identifies this binary in version output and log lines.
const Name = "nfrt-cache"

// Set via ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// String renders the full version line printed by the "version" CLI
// command.
func String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", Name, Version, GitCommit, BuildDate)
}
