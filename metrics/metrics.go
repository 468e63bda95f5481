package metrics

import (
	"time"
)

// Collector receives launcher events worth counting.
type Collector interface {
	// LaunchAttempt records one strategy attempt and its outcome ("running", "exited", "error").
	LaunchAttempt(strategy string, outcome string, duration time.Duration)

	// FilesRepaired records how many files a repair or resync pass restored in a folder.
	FilesRepaired(folder string, count int)

	// UpdateResult records the result of an update run ("updated", "current", "demo", "failed").
	UpdateResult(result string)

	// Downloaded records bytes received for a remote file.
	Downloaded(bytes int64)
}

type noopCollector struct{}

func (noopCollector) LaunchAttempt(strategy string, outcome string, duration time.Duration) {}
func (noopCollector) FilesRepaired(folder string, count int)                                {}
func (noopCollector) UpdateResult(result string)                                            {}
func (noopCollector) Downloaded(bytes int64)                                                {}

// Noop returns a Collector that discards everything.
func Noop() Collector {
	return noopCollector{}
}
