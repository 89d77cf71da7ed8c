package gosearch

import "time"

// Observer receives search lifecycle events. Dispatch is synchronous on
// the goroutine that produced the event (a worker for MatchFound/Error,
// the progress task for ProgressChanged, the coordinator's run loop for
// Reset/Completed) — an Observer that blocks stalls that producer.
// Implementations that need UI-thread affinity must marshal the call
// themselves.
type Observer interface {
	// ProgressChanged is fired roughly every 100ms while a search runs.
	ProgressChanged(counts CounterSnapshot)
	// MatchFound is fired once per source that produced at least one match.
	MatchFound(sourceID string, matches []SearchMatch)
	// Error is fired once per source that failed, and once with the
	// identifier "(general error)" when the fallback path triggers.
	Error(sourceID string, cause error)
	// Reset is fired iff the fallback path triggered, strictly before
	// any events from the sequential re-run.
	Reset()
	// Completed is fired exactly once per successful Begin, even after
	// a fallback. err is non-nil if the run was cancelled (the context's
	// error) or if the sequential re-run after a fallback also hit an
	// enumeration failure; otherwise it is nil.
	Completed(elapsed time.Duration, final CounterSnapshot, err error)
}

// eventRegistry holds subscribed observers and dispatches to all of them.
type eventRegistry struct {
	observers []Observer
}

func (r *eventRegistry) subscribe(obs Observer) {
	r.observers = append(r.observers, obs)
}

func (r *eventRegistry) progressChanged(counts CounterSnapshot) {
	for _, o := range r.observers {
		o.ProgressChanged(counts)
	}
}

func (r *eventRegistry) matchFound(sourceID string, matches []SearchMatch) {
	for _, o := range r.observers {
		o.MatchFound(sourceID, matches)
	}
}

func (r *eventRegistry) error(sourceID string, cause error) {
	for _, o := range r.observers {
		o.Error(sourceID, cause)
	}
}

func (r *eventRegistry) reset() {
	for _, o := range r.observers {
		o.Reset()
	}
}

func (r *eventRegistry) completed(elapsed time.Duration, final CounterSnapshot, err error) {
	for _, o := range r.observers {
		o.Completed(elapsed, final, err)
	}
}
