package gosearch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dl/gosearch/internal/output"
)

// OutputSink is an Observer that renders MatchFound events through a
// Formatter as they arrive and prints a final summary line on Completed.
// Construct one per Coordinator run; OutputSink is not safe for use by
// more than one Coordinator concurrently, since MatchFound dispatch is
// synchronous on the producing worker and OutputSink serializes its own
// writes with an internal lock.
type OutputSink struct {
	formatter   output.Formatter
	writer      *output.Writer
	multiSource bool
	quiet       bool

	mu  sync.Mutex
	buf []byte
}

// NewOutputSink constructs an OutputSink. multiSource should be true
// whenever the search covers more than one data source, so formatters
// that prefix the source identifier know to do so. quiet suppresses the
// final summary line written on Completed.
func NewOutputSink(formatter output.Formatter, multiSource, quiet bool) *OutputSink {
	return &OutputSink{
		formatter:   formatter,
		writer:      output.NewWriter(),
		multiSource: multiSource,
		quiet:       quiet,
	}
}

func (s *OutputSink) ProgressChanged(CounterSnapshot) {}

func (s *OutputSink) MatchFound(sourceID string, matches []SearchMatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = s.formatter.Format(s.buf[:0], sourceID, matches, s.multiSource)
	if err := s.writer.Write(s.buf); err != nil {
		fmt.Fprintf(os.Stderr, "gosearch: write error: %v\n", err)
	}
}

func (s *OutputSink) Error(sourceID string, cause error) {
	fmt.Fprintf(os.Stderr, "gosearch: %s: %v\n", sourceID, cause)
}

func (s *OutputSink) Reset() {
	fmt.Fprintln(os.Stderr, "gosearch: parallel enumeration failed, retrying sequentially")
}

func (s *OutputSink) Completed(elapsed time.Duration, final CounterSnapshot, err error) {
	if s.quiet {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gosearch: search ended early after %s: %v\n", elapsed.Round(time.Millisecond), err)
		return
	}
	fmt.Fprintf(os.Stderr, "gosearch: %d scanned, %d failed, %d skipped in %s\n",
		final.Done, final.Failed, final.Skipped, elapsed.Round(time.Millisecond))
}

var _ Observer = (*OutputSink)(nil)
