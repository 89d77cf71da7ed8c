// Package contextwin builds the one-line, length-bounded match context
// (and surrounding pre/post line lists) that makes up the bulk of a
// SearchMatch. It is the Go realization of the expand-and-clamp algorithm
// the scanner runs once per match.
package contextwin

import "github.com/dl/gosearch/internal/ringbuffer"

// Result holds everything Extract computes for a single match.
type Result struct {
	Context     string
	MatchIndex  int
	MatchLength int
	PreContext  []string
	PostContext []string
}

// Extract builds the context for a match of length matchLen starting at
// matchIndex within line. window is the primed CircularLineBuffer of
// surrounding lines, with the current line living at logical index
// contextLines; maxContextLength bounds both the returned context string
// and every pre/post context line.
func Extract(line []byte, matchIndex, matchLen int, window *ringbuffer.Buffer[[]byte], contextLines, maxContextLength int) Result {
	ctx, adjIndex := expandAndClamp(line, matchIndex, matchLen, maxContextLength)

	return Result{
		Context:     ctx,
		MatchIndex:  adjIndex,
		MatchLength: matchLen,
		PreContext:  collect(window, 0, contextLines, maxContextLength),
		PostContext: collect(window, contextLines+1, window.Len(), maxContextLength),
	}
}

// expandAndClamp implements spec.md's ContextExtractor window-building
// steps: extend the end by half the remaining budget first, then the
// start by whatever is left, then give any still-unspent budget back to
// the end.
func expandAndClamp(line []byte, matchIndex, matchLen, maxContextLength int) (string, int) {
	remaining := maxContextLength - matchLen
	if remaining <= 0 {
		return string(line[matchIndex : matchIndex+matchLen]), 0
	}

	lineLen := len(line)
	start := matchIndex
	end := matchIndex + matchLen

	wantEnd := remaining / 2
	newEnd := end + wantEnd
	if newEnd > lineLen {
		newEnd = lineLen
	}
	remaining -= newEnd - end
	end = newEnd

	newStart := start - remaining
	if newStart < 0 {
		newStart = 0
	}
	remaining -= start - newStart
	start = newStart

	if remaining > 0 {
		newEnd = end + remaining
		if newEnd > lineLen {
			newEnd = lineLen
		}
		end = newEnd
	}

	if start == 0 && end == lineLen {
		return string(line), matchIndex
	}
	return string(line[start:end]), matchIndex - start
}

// collect truncates each surviving, non-nil line in window[from:to) to
// maxLen and returns the resulting list. It never returns nil.
func collect(window *ringbuffer.Buffer[[]byte], from, to, maxLen int) []string {
	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		v, ok := window.Get(i)
		if !ok {
			continue
		}
		if len(v) > maxLen {
			v = v[:maxLen]
		}
		lines = append(lines, string(v))
	}
	return lines
}
