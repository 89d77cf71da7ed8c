package pattern

import (
	"bytes"

	"github.com/dl/gosearch/internal/simd"
)

// boyerMoorePattern matches a single fixed string per line using the
// internal/simd substring search (repeated bytes.Index, or an ASCII
// case-folding scan when ignoreCase is set).
type boyerMoorePattern struct {
	pattern    []byte
	patternLow []byte
	ignoreCase bool
}

func newBoyerMoore(literal string, ignoreCase bool) *boyerMoorePattern {
	p := []byte(literal)
	pLow := p
	if ignoreCase {
		pLow = bytes.ToLower(p)
	}
	return &boyerMoorePattern{pattern: p, patternLow: pLow, ignoreCase: ignoreCase}
}

func (m *boyerMoorePattern) FindAllIndex(line []byte) [][2]int {
	var offsets []int
	if m.ignoreCase {
		offsets = simd.IndexAllCaseInsensitive(line, m.patternLow)
	} else {
		offsets = simd.IndexAll(line, m.patternLow)
	}
	if len(offsets) == 0 {
		return nil
	}
	plen := len(m.patternLow)
	locs := make([][2]int, len(offsets))
	for i, off := range offsets {
		locs[i] = [2]int{off, off + plen}
	}
	return locs
}

func (m *boyerMoorePattern) Clone() Pattern {
	// The matcher holds no per-search mutable state; it's already safe
	// to share across goroutines, but every engine returns an
	// independently closeable handle so callers never need to special-case one.
	return &boyerMoorePattern{pattern: m.pattern, patternLow: m.patternLow, ignoreCase: m.ignoreCase}
}

func (m *boyerMoorePattern) Close() {}
