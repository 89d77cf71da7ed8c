package pattern

import (
	"regexp"

	"github.com/dl/gosearch/internal/simd"
)

// regexPattern matches using Go's RE2 regexp engine, optionally rejecting a
// line outright via a required-literal prefilter before invoking the
// engine at all.
type regexPattern struct {
	re         *regexp.Regexp
	prefilt    literalInfo
	hasPrefilt bool
}

func newRegexPattern(combined string, ignoreCase bool) (*regexPattern, error) {
	src := combined
	if ignoreCase {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}

	p := &regexPattern{re: re}
	if lit, ok := extractLiteral(combined, ignoreCase); ok {
		p.prefilt = lit
		p.hasPrefilt = true
	}
	return p, nil
}

func (m *regexPattern) rejectedByPrefilter(line []byte) bool {
	if !m.hasPrefilt {
		return false
	}
	lit := []byte(m.prefilt.literal)
	if m.prefilt.ignoreCase {
		return simd.IndexCaseInsensitive(line, lit) < 0
	}
	return simd.Index(line, lit) < 0
}

func (m *regexPattern) FindAllIndex(line []byte) [][2]int {
	if m.rejectedByPrefilter(line) {
		return nil
	}
	raw := m.re.FindAllIndex(line, -1)
	if raw == nil {
		return nil
	}
	out := make([][2]int, len(raw))
	for i, pair := range raw {
		out[i] = [2]int{pair[0], pair[1]}
	}
	return out
}

// Clone returns a Pattern backed by an independent *regexp.Regexp copy,
// safe to run concurrently with the original — regexp.Regexp keeps
// per-call scratch state internally but Copy gives each clone its own so
// no external locking is required.
func (m *regexPattern) Clone() Pattern {
	return &regexPattern{re: m.re.Copy(), prefilt: m.prefilt, hasPrefilt: m.hasPrefilt}
}

func (m *regexPattern) Close() {}
