package gosearch

import "fmt"

// DefaultMaxContextLength is used by Options.Validate when MaxContextLength
// is left at its zero value.
const DefaultMaxContextLength = 512

// Options configures a search run.
type Options struct {
	// SkipBinaryFiles rejects sources whose content is classified binary
	// before scanning them for matches.
	SkipBinaryFiles bool
	// ContextLines is the number of lines of context captured before and
	// after each match. Must be >= 0.
	ContextLines int
	// MaxContextLength bounds the length of the match context string and
	// every pre/post context line. Zero is replaced with
	// DefaultMaxContextLength by Validate.
	MaxContextLength int
	// Workers is the size of the worker pool for a parallel run. Zero
	// means runtime.GOMAXPROCS(0).
	Workers int
}

// Validate normalizes and checks o, returning an error if any field is
// out of range.
func (o *Options) Validate() error {
	if o.ContextLines < 0 {
		return fmt.Errorf("gosearch: ContextLines must be >= 0, got %d", o.ContextLines)
	}
	if o.MaxContextLength == 0 {
		o.MaxContextLength = DefaultMaxContextLength
	}
	if o.MaxContextLength < 0 {
		return fmt.Errorf("gosearch: MaxContextLength must be > 0, got %d", o.MaxContextLength)
	}
	if o.Workers < 0 {
		return fmt.Errorf("gosearch: Workers must be >= 0, got %d", o.Workers)
	}
	return nil
}
