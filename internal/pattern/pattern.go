// Package pattern implements the search engines a scanner worker runs a
// line through. Every engine implements Pattern; New selects among them
// the way a hand-tuned grep would, preferring the cheapest algorithm the
// input patterns allow.
package pattern

// Options configures pattern compilation.
type Options struct {
	// IgnoreCase folds ASCII case during matching.
	IgnoreCase bool
	// FixedStrings treats every pattern as a literal string rather than
	// a regular expression, skipping literal-detection entirely.
	FixedStrings bool
	// UsePCRE compiles patterns with the PCRE2-compatible engine instead
	// of RE2, trading throughput for lookaround/backreference support.
	UsePCRE bool
}

// Pattern finds all non-overlapping matches of a compiled pattern set
// within a single line.
//
// A Pattern is used by exactly one worker goroutine at a time. Workers
// that need their own copy call Clone; engines whose underlying handle
// is not safe to share across goroutines (PCRE2's match-time scratch
// state) recompile from scratch on Clone rather than share anything.
type Pattern interface {
	// FindAllIndex returns the start/end byte offset pairs of every
	// match in line, in left-to-right order.
	FindAllIndex(line []byte) [][2]int

	// Clone returns an independent Pattern usable concurrently with the
	// original and with any other clone.
	Clone() Pattern

	// Close releases any resources held by the pattern. Safe to call on
	// every clone; safe to call more than once.
	Close()
}
