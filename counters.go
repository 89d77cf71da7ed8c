package gosearch

import "sync/atomic"

// Counters are the four run-wide totals sampled by progress reporting.
// All fields are updated atomically and safe to read concurrently with
// writers.
type Counters struct {
	total   atomic.Int64
	done    atomic.Int64
	failed  atomic.Int64
	skipped atomic.Int64
}

// CounterSnapshot is a point-in-time copy of Counters, safe to pass by
// value to observers.
type CounterSnapshot struct {
	Total   int64
	Done    int64
	Failed  int64
	Skipped int64
}

func (c *Counters) snapshot() CounterSnapshot {
	return CounterSnapshot{
		Total:   c.total.Load(),
		Done:    c.done.Load(),
		Failed:  c.failed.Load(),
		Skipped: c.skipped.Load(),
	}
}

func (c *Counters) reset() {
	c.total.Store(0)
	c.done.Store(0)
	c.failed.Store(0)
	c.skipped.Store(0)
}

// resetForFallback zeroes done/failed/skipped only, leaving total
// untouched: spec.md §4.5 step 1 lists only those three counters for the
// parallel-to-sequential fallback transition, since total reflects the
// counter task's independent enumeration pass, not the aborted scan.
func (c *Counters) resetForFallback() {
	c.done.Store(0)
	c.failed.Store(0)
	c.skipped.Store(0)
}
