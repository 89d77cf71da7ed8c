package pattern

import (
	"regexp/syntax"
	"strings"
	"unicode"
)

const minPrefilterLen = 3

// literalInfo holds a literal substring extracted from a regex AST that is
// guaranteed to appear in any match of the regex, used to reject a line
// with a fast substring search before invoking the full engine.
type literalInfo struct {
	literal    string
	ignoreCase bool
}

// isLiteral reports whether pattern contains no regex metacharacters and
// can be treated as a fixed string outright.
func isLiteral(pat string) bool {
	return !strings.ContainsAny(pat, `\.+*?()|[]{}^$`)
}

// extractLiteral parses a regex pattern and extracts the longest required
// literal substring that must appear in any match. Returns the literal
// info and true if a usable literal was found (length >= minPrefilterLen).
func extractLiteral(pat string, ignoreCase bool) (literalInfo, bool) {
	flags := syntax.Perl
	if ignoreCase {
		flags |= syntax.FoldCase
	}

	re, err := syntax.Parse(pat, flags)
	if err != nil {
		return literalInfo{}, false
	}
	re = re.Simplify()

	if hasDotNL(re) {
		return literalInfo{}, false
	}

	candidates := extractFromNode(re)
	if len(candidates) == 0 {
		return literalInfo{}, false
	}

	var best candidate
	for _, c := range candidates {
		if len(c.runes) > len(best.runes) && isASCIIRunes(c.runes) {
			best = c
		}
	}

	lit := string(best.runes)
	if len(lit) < minPrefilterLen {
		return literalInfo{}, false
	}

	ci := best.foldCase || ignoreCase
	if ci {
		lit = strings.ToLower(lit)
	}

	return literalInfo{literal: lit, ignoreCase: ci}, true
}

type candidate struct {
	runes    []rune
	foldCase bool
}

func extractFromNode(re *syntax.Regexp) []candidate {
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return nil
		}
		return []candidate{{
			runes:    re.Rune,
			foldCase: re.Flags&syntax.FoldCase != 0,
		}}

	case syntax.OpConcat:
		return extractFromConcat(re.Sub)

	case syntax.OpCapture:
		if len(re.Sub) > 0 {
			return extractFromNode(re.Sub[0])
		}
		return nil

	case syntax.OpPlus:
		if len(re.Sub) > 0 {
			return extractFromNode(re.Sub[0])
		}
		return nil

	case syntax.OpRepeat:
		if re.Min >= 1 && len(re.Sub) > 0 {
			return extractFromNode(re.Sub[0])
		}
		return nil

	case syntax.OpStar, syntax.OpQuest:
		return nil

	case syntax.OpAlternate:
		return nil

	default:
		return nil
	}
}

func extractFromConcat(subs []*syntax.Regexp) []candidate {
	var results []candidate

	var currentRunes []rune
	var currentFold bool
	flushMerged := func() {
		if len(currentRunes) > 0 {
			results = append(results, candidate{
				runes:    currentRunes,
				foldCase: currentFold,
			})
			currentRunes = nil
		}
	}

	for _, sub := range subs {
		if sub.Op == syntax.OpLiteral && len(sub.Rune) > 0 {
			fc := sub.Flags&syntax.FoldCase != 0
			if len(currentRunes) > 0 && fc != currentFold {
				flushMerged()
			}
			currentFold = fc
			currentRunes = append(currentRunes, sub.Rune...)
		} else {
			flushMerged()
			results = append(results, extractFromNode(sub)...)
		}
	}
	flushMerged()

	return results
}

func hasDotNL(re *syntax.Regexp) bool {
	if re.Op == syntax.OpAnyChar {
		return true
	}
	for _, sub := range re.Sub {
		if hasDotNL(sub) {
			return true
		}
	}
	return false
}

func isASCIIRunes(runes []rune) bool {
	for _, r := range runes {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
