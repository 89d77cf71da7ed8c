package gosearch

import "github.com/dl/gosearch/internal/scanner"

// SearchMatch is an immutable record of one matched line and its
// surrounding context. It satisfies:
//
//	0 <= MatchIndex
//	MatchIndex + MatchLength <= len(Context)
//	LineNumber >= 1
//	len(Context) <= Options.MaxContextLength, unless the match span
//	itself exceeds that bound (in which case Context == the match
//	substring)
//
// PreContext and PostContext are never nil; a match with no surrounding
// lines gets empty (not nil) slices.
type SearchMatch = scanner.SearchMatch
