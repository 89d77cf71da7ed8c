package output

import (
	"encoding/json"

	"github.com/dl/gosearch/internal/scanner"
)

// JSONFormatter formats matches as JSON Lines, one object per match (two
// matches on the same line give two objects).
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonMatch struct {
	Type        string    `json:"type"`
	File        string    `json:"file,omitempty"`
	LineNumber  int       `json:"line_number"`
	Context     string    `json:"text"`
	MatchIndex  int       `json:"match_index"`
	MatchLength int       `json:"match_length"`
	PreContext  []string  `json:"pre_context,omitempty"`
	PostContext []string  `json:"post_context,omitempty"`
	Matches     []jsonPos `json:"matches,omitempty"`
}

type jsonPos struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (f *JSONFormatter) Format(buf []byte, sourceID string, matches []scanner.SearchMatch, multiSource bool) []byte {
	for _, m := range matches {
		jm := jsonMatch{
			Type:        "match",
			File:        sourceID,
			LineNumber:  m.LineNumber,
			Context:     m.Context,
			MatchIndex:  m.MatchIndex,
			MatchLength: m.MatchLength,
			PreContext:  m.PreContext,
			PostContext: m.PostContext,
			Matches:     []jsonPos{{Start: m.MatchIndex, End: m.MatchIndex + m.MatchLength}},
		}
		data, err := json.Marshal(jm)
		if err != nil {
			continue
		}
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}
	return buf
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
