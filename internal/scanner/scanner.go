// Package scanner implements the per-source line-by-line search: open,
// size-gate, binary-sniff, then scan with a sliding context window,
// producing SearchMatch records for a single data source.
package scanner

import (
	"context"
	"fmt"
	"io"

	"github.com/dl/gosearch/internal/binaryheur"
	"github.com/dl/gosearch/internal/contextwin"
	"github.com/dl/gosearch/internal/pattern"
	"github.com/dl/gosearch/internal/ringbuffer"
	"github.com/dl/gosearch/internal/source"
)

// MaxFileSize is the largest source a scan will read. Larger sources are
// skipped silently (counted in done, not in skipped).
const MaxFileSize = 256 * 1 << 20

// Options configures a single scan.
type Options struct {
	SkipBinaryFiles  bool
	ContextLines     int
	MaxContextLength int
}

// SearchMatch is an immutable record of one matched line and its
// surrounding context, bounded by Options.MaxContextLength.
type SearchMatch struct {
	LineNumber  int
	Context     string
	MatchIndex  int
	MatchLength int
	PreContext  []string
	PostContext []string
}

// Outcome reports what a single Scan call produced.
type Outcome struct {
	Matches []SearchMatch
	// Skipped is true iff the binary heuristic rejected this source. It
	// is the only outcome that should increment a skipped counter; a
	// size-gated source reports Skipped=false.
	Skipped bool
}

// Scan opens ds, decides whether to search it, and if so runs pat over
// every line, building SearchMatch records via the sliding context
// window. classifier is consulted only when the NUL-run fast path is
// inconclusive.
//
// When cancellation is observed Scan returns an error for which
// errors.Is(err, ctx.Err()) holds: ctx.Err() itself before line scanning
// starts, wrapped with the source identifier once it has begun. The
// caller must not count that outcome toward done/failed/skipped. Any
// other non-nil error should count toward both done and failed.
func Scan(ctx context.Context, ds source.DataSource, pat pattern.Pattern, classifier binaryheur.MIMEClassifier, opts Options) (Outcome, error) {
	stream, err := ds.Open()
	if err != nil {
		return Outcome{}, fmt.Errorf("open %s: %w", ds.Identifier(), err)
	}
	defer stream.Close()

	size := stream.Size()
	if size == 0 || size > MaxFileSize {
		return Outcome{}, nil
	}

	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	if opts.SkipBinaryFiles {
		prefix := make([]byte, binaryheur.PrefixSize)
		n, rerr := io.ReadFull(stream, prefix)
		if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
			return Outcome{}, fmt.Errorf("read %s: %w", ds.Identifier(), rerr)
		}
		if binaryheur.IsBinary(prefix[:n], classifier) {
			return Outcome{Skipped: true}, nil
		}
		if _, err := stream.Seek(0, io.SeekStart); err != nil {
			return Outcome{}, fmt.Errorf("seek %s: %w", ds.Identifier(), err)
		}
	}

	matches, err := scanLines(ctx, stream, pat, opts)
	if err != nil {
		return Outcome{}, fmt.Errorf("scan %s: %w", ds.Identifier(), err)
	}
	return Outcome{Matches: matches}, nil
}

func scanLines(ctx context.Context, stream source.SourceStream, pat pattern.Pattern, opts Options) ([]SearchMatch, error) {
	sc := newLineScanner(stream)

	capacity := 2*opts.ContextLines + 1
	window := ringbuffer.New[[]byte](capacity)
	for i := 0; i < opts.ContextLines; i++ {
		window.PushNil()
	}

	readLine := func() ([]byte, bool) {
		if !sc.Scan() {
			return nil, false
		}
		line := sc.Bytes()
		cp := make([]byte, len(line))
		copy(cp, line)
		return cp, true
	}

	readLineCount := 0
	postMatchLineCount := 0
	for i := 0; i <= opts.ContextLines; i++ {
		line, ok := readLine()
		if !ok {
			break
		}
		readLineCount++
		if i > 0 {
			postMatchLineCount++
		}
		window.PushBack(line)
	}
	for window.Len() < capacity {
		window.PushNil()
	}

	var matches []SearchMatch
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, ok := window.Get(opts.ContextLines)
		if !ok {
			break
		}

		lineNum := readLineCount - postMatchLineCount
		for _, loc := range pat.FindAllIndex(current) {
			res := contextwin.Extract(current, loc[0], loc[1]-loc[0], window, opts.ContextLines, opts.MaxContextLength)
			matches = append(matches, SearchMatch{
				LineNumber:  lineNum,
				Context:     res.Context,
				MatchIndex:  res.MatchIndex,
				MatchLength: res.MatchLength,
				PreContext:  res.PreContext,
				PostContext: res.PostContext,
			})
		}

		next, ok := readLine()
		if ok {
			readLineCount++
		} else if postMatchLineCount > 0 {
			postMatchLineCount--
		}
		if ok {
			window.PushBack(next)
		} else {
			window.PushNil()
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
