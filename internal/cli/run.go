package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dl/gosearch"
	"github.com/dl/gosearch/internal/output"
	"github.com/dl/gosearch/internal/pattern"
	"github.com/dl/gosearch/internal/source"
)

// Run executes the search described by cfg.
// Returns exit code: 0 = match found, 1 = no match, 2 = error.
func Run(cfg Config) int {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level: log.WarnLevel,
	})

	pat, err := pattern.New(cfg.Patterns, pattern.Options{
		IgnoreCase:   cfg.IgnoreCase,
		FixedStrings: cfg.Fixed,
		UsePCRE:      cfg.PCRE,
	})
	if err != nil {
		logger.Error("invalid pattern", "err", err)
		return 2
	}
	defer pat.Close()

	useColor := false
	switch cfg.Color {
	case ColorAlways:
		useColor = true
	case ColorNever:
		useColor = false
	case ColorAuto:
		useColor = output.StdoutIsTerminal()
	}

	var formatter output.Formatter
	if cfg.JSONOutput {
		formatter = output.NewJSONFormatter()
	} else {
		formatter = output.NewTextFormatter(cfg.LineNumbers, cfg.CountOnly, cfg.FileNamesOnly, useColor)
	}

	sources := source.Walk(cfg.Paths, source.WalkOptions{
		Recursive: cfg.Recursive,
		NoIgnore:  cfg.NoIgnore,
		Hidden:    cfg.Hidden,
	})

	coord, err := gosearch.New(pat, sources, gosearch.Options{
		SkipBinaryFiles:  cfg.SkipBinaryFiles,
		ContextLines:     cfg.ContextLines,
		MaxContextLength: cfg.MaxContextLen,
		Workers:          cfg.Workers,
	})
	if err != nil {
		logger.Error("invalid options", "err", err)
		return 2
	}

	multiSource := len(cfg.Paths) != 1 || cfg.Recursive
	sink := gosearch.NewOutputSink(formatter, multiSource, cfg.Quiet)
	matchTracker := &matchSeen{}
	coord.Subscribe(sink)
	coord.Subscribe(matchTracker)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			coord.Cancel()
		}
	}()

	if err := coord.Begin(); err != nil {
		logger.Error("failed to start search", "err", err)
		return 2
	}
	coord.Wait()

	if matchTracker.seen() {
		return 0
	}
	return 1
}

// matchSeen is a minimal Observer that only tracks whether any match was
// reported, for the process exit code.
type matchSeen struct {
	found bool
}

func (m *matchSeen) ProgressChanged(gosearch.CounterSnapshot)          {}
func (m *matchSeen) MatchFound(string, []gosearch.SearchMatch)        { m.found = true }
func (m *matchSeen) Error(string, error)                              {}
func (m *matchSeen) Reset()                                           {}
func (m *matchSeen) Completed(time.Duration, gosearch.CounterSnapshot, error) {}

func (m *matchSeen) seen() bool { return m.found }

var _ gosearch.Observer = (*matchSeen)(nil)
