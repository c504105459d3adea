package spritefield

import (
	"fmt"
	"os"
)

// frameStats accumulates batch-task metrics for one Update call.
// Only reported when Field debug mode is on.
type frameStats struct {
	tasksRun int
	advanced int
	deferred int
	yields   int
}

// debugLog prints per-frame task stats to stderr.
func (f *Field) debugLog() {
	if f.stats.tasksRun == 0 {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[spritefield] tasks: %d | advanced: %d | deferred: %d | budget yields: %d | live: %d/%d\n",
		f.stats.tasksRun, f.stats.advanced, f.stats.deferred, f.stats.yields,
		f.pool.liveCount(), f.pool.capacity())
}
