package gosearch

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dl/gosearch/internal/pattern"
	"github.com/dl/gosearch/internal/source"
)

// memSource is an in-memory source.DataSource for coordinator tests,
// avoiding any dependency on the filesystem walker.
type memSource struct {
	id      string
	content []byte
}

func (m *memSource) Identifier() string { return m.id }

func (m *memSource) Open() (source.SourceStream, error) {
	return &memStreamTest{data: m.content}, nil
}

type memStreamTest struct {
	data []byte
	pos  int
}

func (s *memStreamTest) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

func (s *memStreamTest) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(s.pos)
	case io.SeekEnd:
		base = int64(len(s.data))
	}
	s.pos = int(base + offset)
	return int64(s.pos), nil
}

func (s *memStreamTest) Close() error { return nil }
func (s *memStreamTest) Size() int64  { return int64(len(s.data)) }

// fixedSources returns a Sources that yields srcs in order every time it
// is invoked, with no error.
func fixedSources(srcs ...source.DataSource) source.Sources {
	return func(yield func(source.DataSource, error) bool) {
		for _, s := range srcs {
			if !yield(s, nil) {
				return
			}
		}
	}
}

// failFirstNSources yields only an aggregate failure (nil, failErr) on its
// first n invocations; on every invocation after that it yields every source in
// srcs with no error. This is deterministic under concurrent callers:
// whichever two tasks race for invocations 1 and 2 both see the failure,
// and the guaranteed-sequential third invocation always succeeds.
func failFirstNSources(n int, failErr error, srcs ...source.DataSource) source.Sources {
	var count int32
	return func(yield func(source.DataSource, error) bool) {
		call := atomic.AddInt32(&count, 1)
		if int(call) <= n {
			yield(nil, failErr)
			return
		}
		for _, s := range srcs {
			if !yield(s, nil) {
				return
			}
		}
	}
}

type recordingObserver struct {
	mu          sync.Mutex
	progresses  []CounterSnapshot
	matches     map[string][]SearchMatch
	errors      []string
	resetCount  int
	completions []struct {
		elapsed time.Duration
		final   CounterSnapshot
		err     error
	}
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{matches: make(map[string][]SearchMatch)}
}

func (r *recordingObserver) ProgressChanged(counts CounterSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progresses = append(r.progresses, counts)
}

func (r *recordingObserver) MatchFound(sourceID string, matches []SearchMatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[sourceID] = append(r.matches[sourceID], matches...)
}

func (r *recordingObserver) Error(sourceID string, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, sourceID)
}

func (r *recordingObserver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetCount++
}

func (r *recordingObserver) Completed(elapsed time.Duration, final CounterSnapshot, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, struct {
		elapsed time.Duration
		final   CounterSnapshot
		err     error
	}{elapsed, final, err})
}

func mustBoyerMoorePattern(t *testing.T, pat string) pattern.Pattern {
	t.Helper()
	p, err := pattern.New([]string{pat}, pattern.Options{})
	if err != nil {
		t.Fatalf("pattern.New: %v", err)
	}
	return p
}

func TestCoordinator_SingleSourceMatchReported(t *testing.T) {
	pat := mustBoyerMoorePattern(t, "needle")
	src := &memSource{id: "file1.txt", content: []byte("hay needle stack\n")}

	c, err := New(pat, fixedSources(src), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	obs := newRecordingObserver()
	c.Subscribe(obs)

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	c.Wait()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.completions) != 1 {
		t.Fatalf("expected exactly one Completed, got %d", len(obs.completions))
	}
	if obs.completions[0].err != nil {
		t.Fatalf("expected nil completion error, got %v", obs.completions[0].err)
	}
	if obs.completions[0].final.Done != 1 {
		t.Errorf("expected Done=1, got %d", obs.completions[0].final.Done)
	}
	if len(obs.matches["file1.txt"]) != 1 {
		t.Fatalf("expected 1 match for file1.txt, got %d", len(obs.matches["file1.txt"]))
	}
}

func TestCoordinator_BeginWhileRunningReturnsErrInvalidState(t *testing.T) {
	pat := mustBoyerMoorePattern(t, "needle")
	block := make(chan struct{})
	src := &blockingSource{id: "slow", unblock: block}

	c, err := New(pat, fixedSources(src), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Begin(); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	if err := c.Begin(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	close(block)
	c.Wait()
}

type blockingSource struct {
	id      string
	unblock chan struct{}
}

func (b *blockingSource) Identifier() string { return b.id }

func (b *blockingSource) Open() (source.SourceStream, error) {
	<-b.unblock
	return &memStreamTest{data: nil}, nil
}

func TestCoordinator_CancelStopsRunningSearch(t *testing.T) {
	pat := mustBoyerMoorePattern(t, "needle")
	block := make(chan struct{})
	src := &blockingSource{id: "slow", unblock: block}

	c, err := New(pat, fixedSources(src), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	obs := newRecordingObserver()
	c.Subscribe(obs)

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	close(block)
	c.Cancel()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.completions) != 1 {
		t.Fatalf("expected exactly one Completed after cancel, got %d", len(obs.completions))
	}
	if obs.completions[0].err == nil {
		t.Fatalf("expected non-nil completion error after cancel")
	}
}

// TestCoordinator_AggregateFailureTriggersSequentialFallback exercises the
// fallback path: the source sequence raises an aggregate failure during
// parallel iteration. Expect Reset, an Error identified "(general error)",
// a sequential re-run that finds both sources, and exactly one Completed.
func TestCoordinator_AggregateFailureTriggersSequentialFallback(t *testing.T) {
	pat := mustBoyerMoorePattern(t, "needle")
	src1 := &memSource{id: "one.txt", content: []byte("needle in one\n")}
	src2 := &memSource{id: "two.txt", content: []byte("needle in two\n")}

	boom := fmt.Errorf("synthetic enumeration failure")
	sources := failFirstNSources(2, boom, src1, src2)

	c, err := New(pat, sources, Options{Workers: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	obs := newRecordingObserver()
	c.Subscribe(obs)

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	c.Wait()

	obs.mu.Lock()
	defer obs.mu.Unlock()

	if obs.resetCount != 1 {
		t.Fatalf("expected exactly one Reset, got %d", obs.resetCount)
	}
	foundGeneralError := false
	for _, id := range obs.errors {
		if id == "(general error)" {
			foundGeneralError = true
		}
	}
	if !foundGeneralError {
		t.Fatalf("expected an Error event identified \"(general error)\", got %v", obs.errors)
	}
	if len(obs.completions) != 1 {
		t.Fatalf("expected exactly one Completed, got %d", len(obs.completions))
	}
	if obs.completions[0].err != nil {
		t.Fatalf("expected nil completion error after successful fallback, got %v", obs.completions[0].err)
	}
	if len(obs.matches["one.txt"]) != 1 || len(obs.matches["two.txt"]) != 1 {
		t.Fatalf("expected both sources matched after fallback, got %v", obs.matches)
	}
	if obs.completions[0].final.Done != 2 {
		t.Errorf("expected final Done=2 after fallback, got %d", obs.completions[0].final.Done)
	}
}

func TestCoordinator_PerSourceErrorDoesNotAbortRun(t *testing.T) {
	pat := mustBoyerMoorePattern(t, "needle")
	good := &memSource{id: "good.txt", content: []byte("needle here\n")}
	bad := &failingOpenSource{id: "bad.txt"}

	c, err := New(pat, fixedSources(bad, good), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	obs := newRecordingObserver()
	c.Subscribe(obs)

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	c.Wait()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.completions) != 1 {
		t.Fatalf("expected exactly one Completed, got %d", len(obs.completions))
	}
	found := false
	for _, id := range obs.errors {
		if id == "bad.txt" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an Error event for bad.txt, got %v", obs.errors)
	}
	if len(obs.matches["good.txt"]) != 1 {
		t.Errorf("expected good.txt to still be matched, got %v", obs.matches)
	}
	if obs.completions[0].final.Failed != 1 {
		t.Errorf("expected Failed=1, got %d", obs.completions[0].final.Failed)
	}
}

type failingOpenSource struct{ id string }

func (f *failingOpenSource) Identifier() string { return f.id }
func (f *failingOpenSource) Open() (source.SourceStream, error) {
	return nil, fmt.Errorf("synthetic open failure")
}

func TestCoordinator_EmptySourcesCompletesImmediately(t *testing.T) {
	pat := mustBoyerMoorePattern(t, "needle")
	c, err := New(pat, fixedSources(), Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	obs := newRecordingObserver()
	c.Subscribe(obs)

	if err := c.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	c.Wait()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if len(obs.completions) != 1 {
		t.Fatalf("expected exactly one Completed, got %d", len(obs.completions))
	}
	if obs.completions[0].final.Done != 0 {
		t.Errorf("expected Done=0, got %d", obs.completions[0].final.Done)
	}
}
