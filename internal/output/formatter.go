// Package output renders SearchMatch events as they arrive: one formatter
// per output mode, writing through a writev-batched stdout writer.
package output

import "github.com/dl/gosearch/internal/scanner"

// Formatter renders the matches found in one source into buf and returns
// the extended slice. multiSource controls whether the source identifier
// is prefixed to each line, matching grep's behavior with more than one
// file on the command line.
type Formatter interface {
	Format(buf []byte, sourceID string, matches []scanner.SearchMatch, multiSource bool) []byte
}
