// Package source discovers and opens the data sources a search scans:
// files on disk reached by a parallel, gitignore-aware directory walk.
package source

import "io"

// SourceStream is an open, seekable handle on a data source's bytes.
type SourceStream interface {
	io.Reader
	io.Seeker
	io.Closer
	// Size returns the stream's total length in bytes.
	Size() int64
}

// DataSource identifies a unit of searchable content and opens it on demand.
type DataSource interface {
	// Identifier returns a stable, human-readable name for the source
	// (its filesystem path), used in events and output.
	Identifier() string
	// Open returns a fresh stream positioned at offset 0. Each call
	// produces an independent handle; callers must Close what they open.
	Open() (SourceStream, error)
}

// Sources is a lazy, possibly non-idempotent sequence of data sources.
// Ranging over it twice re-runs whatever produces it — walking the
// filesystem again, in the case of Walk.
//
// A yielded (nil, err) pair is distinct from a later per-source Open or
// read error: it signals that the enumeration itself — the walk, not any
// one file — could not be trusted to have found everything, which is the
// SearchCoordinator's trigger to fall back to a sequential re-run.
type Sources func(yield func(DataSource, error) bool)
