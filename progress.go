package gosearch

import (
	"context"
	"time"
)

// progressInterval is how often ProgressChanged samples the counters.
const progressInterval = 100 * time.Millisecond

// progressTask samples c.counters on a fixed tick for the duration of a
// run, dispatching ProgressChanged to every subscribed Observer. It exits
// (after one final sample) when searchDone closes, or immediately,
// without a final sample, on cancellation.
func (c *Coordinator) progressTask(ctx context.Context, searchDone <-chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.events.progressChanged(c.counters.snapshot())
		case <-ctx.Done():
			return
		case <-searchDone:
			c.events.progressChanged(c.counters.snapshot())
			return
		}
	}
}
