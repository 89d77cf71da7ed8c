package output

import (
	"strconv"

	"github.com/dl/gosearch/internal/scanner"
)

// TextFormatter formats matches as human-readable text, grep-style:
// "file:line:content" for a matched line, "file-line-content" for
// surrounding context, and a bare "--" between consecutive matches whenever
// either of them carries context lines. Adjacency is not checked and nearby
// matches are not merged, so context lines they share are printed once per
// match.
type TextFormatter struct {
	lineNumbers bool
	countOnly   bool
	filesOnly   bool
	useColor    bool
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(lineNumbers, countOnly, filesOnly, useColor bool) *TextFormatter {
	return &TextFormatter{
		lineNumbers: lineNumbers,
		countOnly:   countOnly,
		filesOnly:   filesOnly,
		useColor:    useColor,
	}
}

func (f *TextFormatter) Format(buf []byte, sourceID string, matches []scanner.SearchMatch, multiSource bool) []byte {
	if len(matches) == 0 {
		return buf
	}

	if f.filesOnly {
		buf = append(buf, sourceID...)
		buf = append(buf, '\n')
		return buf
	}

	if f.countOnly {
		if multiSource {
			buf = append(buf, sourceID...)
			buf = append(buf, ':')
		}
		buf = strconv.AppendInt(buf, int64(len(matches)), 10)
		buf = append(buf, '\n')
		return buf
	}

	for i, m := range matches {
		if i > 0 && (len(m.PreContext) > 0 || len(matches[i-1].PostContext) > 0) {
			buf = append(buf, "--\n"...)
		}
		for j, ctx := range m.PreContext {
			lineNum := m.LineNumber - len(m.PreContext) + j
			buf = f.formatLine(buf, sourceID, ctx, lineNum, '-', nil, multiSource)
		}
		buf = f.formatLine(buf, sourceID, m.Context, m.LineNumber, ':', [][2]int{{m.MatchIndex, m.MatchIndex + m.MatchLength}}, multiSource)
		for j, ctx := range m.PostContext {
			lineNum := m.LineNumber + j + 1
			buf = f.formatLine(buf, sourceID, ctx, lineNum, '-', nil, multiSource)
		}
	}
	return buf
}

func (f *TextFormatter) formatLine(buf []byte, sourceID, content string, lineNum int, sep byte, positions [][2]int, multiSource bool) []byte {
	if multiSource {
		if f.useColor {
			buf = append(buf, ansiMagenta...)
			buf = append(buf, sourceID...)
			buf = append(buf, ansiReset...)
			buf = append(buf, ansiCyan...)
			buf = append(buf, sep)
			buf = append(buf, ansiReset...)
		} else {
			buf = append(buf, sourceID...)
			buf = append(buf, sep)
		}
	}

	if f.lineNumbers {
		if f.useColor {
			buf = append(buf, ansiGreen...)
			buf = strconv.AppendInt(buf, int64(lineNum), 10)
			buf = append(buf, ansiReset...)
			buf = append(buf, ansiCyan...)
			buf = append(buf, sep)
			buf = append(buf, ansiReset...)
		} else {
			buf = strconv.AppendInt(buf, int64(lineNum), 10)
			buf = append(buf, sep)
		}
	}

	if f.useColor && len(positions) > 0 {
		buf = f.highlightMatches(buf, content, positions)
	} else {
		buf = append(buf, content...)
	}

	buf = append(buf, '\n')
	return buf
}

func (f *TextFormatter) highlightMatches(buf []byte, line string, positions [][2]int) []byte {
	prev := 0
	for _, pos := range positions {
		start, end := pos[0], pos[1]
		if start > len(line) {
			break
		}
		if end > len(line) {
			end = len(line)
		}
		if start > prev {
			buf = append(buf, line[prev:start]...)
		}
		buf = append(buf, ansiBoldRed...)
		buf = append(buf, line[start:end]...)
		buf = append(buf, ansiReset...)
		prev = end
	}
	if prev < len(line) {
		buf = append(buf, line[prev:]...)
	}
	return buf
}

// Ensure TextFormatter implements Formatter.
var _ Formatter = (*TextFormatter)(nil)
