package pattern

import "go.elara.ws/pcre"

// pcrePattern matches using PCRE2-compatible regexes, supporting
// lookaround and backreferences that RE2 cannot express.
//
// go.elara.ws/pcre.Regexp holds match-time scratch state that is not safe
// for concurrent use, so unlike regexPattern this engine recompiles from
// source on every Clone rather than sharing or copying the compiled
// handle.
type pcrePattern struct {
	re     *pcre.Regexp
	source string
	opts   pcre.CompileOption
}

func newPCREPattern(combined string, ignoreCase bool) (*pcrePattern, error) {
	var opts pcre.CompileOption
	if ignoreCase {
		opts |= pcre.Caseless
	}
	re, err := pcre.CompileOpts(combined, opts)
	if err != nil {
		return nil, err
	}
	return &pcrePattern{re: re, source: combined, opts: opts}, nil
}

func (m *pcrePattern) FindAllIndex(line []byte) [][2]int {
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

func (m *pcrePattern) Clone() Pattern {
	re, err := pcre.CompileOpts(m.source, m.opts)
	if err != nil {
		// The source already compiled once in New; a second compile of
		// the identical source/options cannot fail.
		panic("pattern: PCRE re-compile failed on clone: " + err.Error())
	}
	return &pcrePattern{re: re, source: m.source, opts: m.opts}
}

func (m *pcrePattern) Close() {
	if m.re != nil {
		m.re.Close()
	}
}
