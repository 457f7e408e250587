// FILE: lixenwraith/flags/timing.go
package flags

import "time"

// Timing of the option-file watcher.
const (
	SpinWaitInterval = 5 * time.Millisecond   // busy-wait quantum while stopping
	MinDebounce      = 10 * time.Millisecond  // floor for WatchOptions.Debounce
	ShutdownTimeout  = 100 * time.Millisecond // wait for the event loop to exit
	DefaultDebounce  = 200 * time.Millisecond // coalesce bursts of file events
)

// shutdownPollCycles is how many spin-wait quanta fit in ShutdownTimeout.
const shutdownPollCycles = int(ShutdownTimeout / SpinWaitInterval)
