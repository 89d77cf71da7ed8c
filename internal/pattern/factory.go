package pattern

import "fmt"

// New selects and compiles the appropriate Pattern for the given literal
// pattern strings. Selection order:
//
//   - UsePCRE            -> PCRE2 engine (combined with |)
//   - FixedStrings, N==1 -> single-literal substring search (boyerMoorePattern)
//   - FixedStrings, N>1  -> Aho-Corasick
//   - all patterns literal (no regex metacharacters), N==1 -> single-literal substring search
//   - all patterns literal, N>1                            -> Aho-Corasick
//   - otherwise          -> RE2, with a required-literal prefilter when one
//     can be extracted from the pattern's AST
func New(patterns []string, opts Options) (Pattern, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("pattern: no patterns provided")
	}

	if opts.UsePCRE {
		return newPCREPattern(combine(patterns), opts.IgnoreCase)
	}

	if opts.FixedStrings {
		if len(patterns) == 1 {
			return newBoyerMoore(patterns[0], opts.IgnoreCase), nil
		}
		return newAhoCorasick(patterns, opts.IgnoreCase), nil
	}

	allLiteral := true
	for _, p := range patterns {
		if !isLiteral(p) {
			allLiteral = false
			break
		}
	}
	if allLiteral {
		if len(patterns) == 1 {
			return newBoyerMoore(patterns[0], opts.IgnoreCase), nil
		}
		return newAhoCorasick(patterns, opts.IgnoreCase), nil
	}

	return newRegexPattern(combine(patterns), opts.IgnoreCase)
}

// combine joins multiple patterns into a single alternation.
func combine(patterns []string) string {
	if len(patterns) == 1 {
		return patterns[0]
	}
	combined := ""
	for i, p := range patterns {
		if i > 0 {
			combined += "|"
		}
		combined += "(?:" + p + ")"
	}
	return combined
}
