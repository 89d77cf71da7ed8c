// Package gosearch implements a concurrent, cancellable recursive text
// search: a SearchCoordinator drives a worker pool over a lazy sequence
// of data sources, dispatching progress and match events to subscribed
// observers as it goes.
package gosearch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dl/gosearch/internal/binaryheur"
	"github.com/dl/gosearch/internal/pattern"
	"github.com/dl/gosearch/internal/scanner"
	"github.com/dl/gosearch/internal/source"
)

// State is the coordinator's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

// ErrInvalidState is returned by Begin when a prior search is still running.
var ErrInvalidState = errors.New("gosearch: search already running")

// Coordinator drives one search at a time over a Sources sequence,
// dispatching match, error, and progress events to its observers.
//
// A Coordinator is reusable across successive Begin calls. Begin, Cancel
// and Wait may be called from different goroutines; Subscribe must not be
// called while a search is running.
type Coordinator struct {
	pat     pattern.Pattern
	sources source.Sources
	opts    Options
	logger  *log.Logger

	mu       sync.Mutex
	state    State
	counters Counters
	cancelFn context.CancelFunc
	doneCh   chan struct{}

	events eventRegistry
}

// New constructs a Coordinator that will search sources with pat. opts
// is validated and normalized (see Options.Validate).
func New(pat pattern.Pattern, sources source.Sources, opts Options) (*Coordinator, error) {
	if pat == nil {
		return nil, fmt.Errorf("gosearch: pattern must not be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{
		pat:     pat,
		sources: sources,
		opts:    opts,
		logger:  log.Default().With("component", "coordinator"),
	}, nil
}

// Subscribe registers obs to receive events from every future Begin call.
// Call before Begin; Subscribe is not safe to call concurrently with a
// running search.
func (c *Coordinator) Subscribe(obs Observer) {
	c.events.subscribe(obs)
}

// Begin starts a search. It returns ErrInvalidState if a prior search
// started by this Coordinator is still running.
func (c *Coordinator) Begin() error {
	c.mu.Lock()
	if c.state == StateRunning {
		c.mu.Unlock()
		return ErrInvalidState
	}
	c.state = StateRunning
	c.counters.reset()
	c.doneCh = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelFn = cancel
	c.mu.Unlock()

	go c.run(ctx)
	return nil
}

// Cancel requests cancellation and blocks until the search and progress
// reporter have both terminated. Calling Cancel more than once, or after
// the search has already finished, is a safe no-op.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	cancel := c.cancelFn
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.Wait()
}

// Wait blocks until the search and progress reporter have both terminated.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	ch := c.doneCh
	c.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (c *Coordinator) run(ctx context.Context) {
	runID := uuid.NewString()
	logger := c.logger.With("run_id", runID)
	logger.Info("search started")
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.counterTask(ctx)
	}()

	searchDone := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.progressTask(ctx, searchDone)
	}()

	err := c.runSearch(ctx, c.workerCount(true))
	if err != nil && ctx.Err() == nil {
		logger.Warn("aggregate I/O failure during parallel search, falling back to sequential", "cause", err)
		c.counters.resetForFallback()
		c.events.reset()
		c.events.error("(general error)", err)
		err = c.runSearch(ctx, c.workerCount(false))
	}

	close(searchDone)
	wg.Wait()

	elapsed := time.Since(start)
	final := c.counters.snapshot()

	var completedErr error
	if ctx.Err() != nil {
		completedErr = ctx.Err()
	} else {
		completedErr = err
	}
	c.events.completed(elapsed, final, completedErr)
	logger.Info("search completed", "elapsed", elapsed, "done", final.Done, "failed", final.Failed, "skipped", final.Skipped)

	c.mu.Lock()
	if ctx.Err() != nil {
		c.state = StateCancelled
	} else {
		c.state = StateCompleted
	}
	close(c.doneCh)
	c.mu.Unlock()
}

func (c *Coordinator) workerCount(parallel bool) int {
	if !parallel {
		return 1
	}
	if c.opts.Workers > 0 {
		return c.opts.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// counterTask walks c.sources a second, independent time purely to count
// elements, storing the running total. Because Sources is a function,
// this re-invokes whatever produces it — a second directory walk, for
// Walk-backed sequences. Errors (including the aggregate-failure signal)
// are swallowed; total is a best-effort estimate, not a commitment.
func (c *Coordinator) counterTask(ctx context.Context) {
	var n int64
	c.sources(func(_ source.DataSource, err error) bool {
		if ctx.Err() != nil {
			return false
		}
		if err != nil {
			return true
		}
		n++
		c.counters.total.Store(n)
		return true
	})
}

// runSearch dispatches c.sources across a pool of workers goroutines,
// each scanning one source at a time. It returns non-nil only when
// Sources itself yielded an aggregate failure — per-source errors are
// reported via the Error event from inside scanOne and never returned.
func (c *Coordinator) runSearch(ctx context.Context, workers int) error {
	workCh := make(chan source.DataSource, workers*2)
	var aggErr error

	dispatchDone := make(chan struct{})
	go func() {
		defer close(workCh)
		defer close(dispatchDone)
		c.sources(func(ds source.DataSource, err error) bool {
			if ctx.Err() != nil {
				return false
			}
			if err != nil {
				aggErr = err
				return false
			}
			select {
			case workCh <- ds:
			case <-ctx.Done():
				return false
			}
			return true
		})
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			classifier := binaryheur.NewMIMEClassifier()
			defer classifier.Close()
			pat := c.pat.Clone()
			defer pat.Close()

			for ds := range workCh {
				if ctx.Err() != nil {
					continue
				}
				c.scanOne(ctx, ds, pat, classifier)
			}
		}()
	}
	wg.Wait()
	<-dispatchDone

	return aggErr
}

func (c *Coordinator) scanOne(ctx context.Context, ds source.DataSource, pat pattern.Pattern, classifier binaryheur.MIMEClassifier) {
	out, err := scanner.Scan(ctx, ds, pat, classifier, scanner.Options{
		SkipBinaryFiles:  c.opts.SkipBinaryFiles,
		ContextLines:     c.opts.ContextLines,
		MaxContextLength: c.opts.MaxContextLength,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.counters.failed.Add(1)
		c.counters.done.Add(1)
		c.events.error(ds.Identifier(), err)
		return
	}

	c.counters.done.Add(1)
	if out.Skipped {
		c.counters.skipped.Add(1)
		return
	}
	if len(out.Matches) > 0 {
		c.events.matchFound(ds.Identifier(), out.Matches)
	}
}
