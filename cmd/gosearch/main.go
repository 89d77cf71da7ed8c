// Command gosearch is a thin demo front end over the gosearch library:
// it wires pattern compilation, the filesystem walker, the coordinator,
// and output formatting behind a small set of grep-like flags.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dl/gosearch/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := cli.Config{}
	var colorFlag string
	exitCode := 0

	root := &cobra.Command{
		Use:   "gosearch [flags] PATTERN [PATH...]",
		Short: "Concurrent recursive text search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Patterns = []string{args[0]}
			cfg.Paths = args[1:]
			if len(cfg.Paths) == 0 {
				cfg.Paths = []string{"."}
			}

			switch colorFlag {
			case "always":
				cfg.Color = cli.ColorAlways
			case "never":
				cfg.Color = cli.ColorNever
			case "auto", "":
				cfg.Color = cli.ColorAuto
			default:
				return fmt.Errorf("invalid --color value %q (want always, never, or auto)", colorFlag)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			exitCode = cli.Run(cfg)
			return nil
		},
	}

	flags := root.Flags()
	flags.BoolVarP(&cfg.Fixed, "fixed-strings", "F", false, "treat pattern as a literal string, not a regular expression")
	flags.BoolVarP(&cfg.PCRE, "pcre", "P", false, "use the PCRE2-compatible engine instead of RE2")
	flags.BoolVarP(&cfg.IgnoreCase, "ignore-case", "i", false, "fold case during matching")
	flags.BoolVarP(&cfg.Recursive, "recursive", "r", true, "recurse into directories")
	flags.BoolVarP(&cfg.LineNumbers, "line-number", "n", true, "prefix each match with its line number")
	flags.BoolVarP(&cfg.CountOnly, "count", "c", false, "print only a count of matches per source")
	flags.BoolVarP(&cfg.FileNamesOnly, "files-with-matches", "l", false, "print only the names of sources with a match")
	flags.IntVarP(&cfg.ContextLines, "context", "C", 0, "lines of context before and after each match")
	flags.IntVar(&cfg.MaxContextLen, "max-context-length", 0, "bound the length of a match's context string (0 = library default)")
	flags.BoolVar(&cfg.SkipBinaryFiles, "skip-binary", true, "skip sources the binary heuristic rejects")
	flags.BoolVar(&cfg.JSONOutput, "json", false, "emit matches as JSON Lines instead of text")
	flags.StringVar(&colorFlag, "color", "auto", "when to colorize output: always, never, or auto")
	flags.IntVarP(&cfg.Workers, "workers", "j", 0, "worker pool size (0 = GOMAXPROCS)")
	flags.BoolVar(&cfg.NoIgnore, "no-ignore", false, "do not respect .gitignore files")
	flags.BoolVar(&cfg.Hidden, "hidden", false, "search hidden files and directories")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "suppress the summary line on exit")

	if configArgs := cli.LoadConfigArgs(); len(configArgs) > 0 {
		root.SetArgs(append(configArgs, os.Args[1:]...))
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gosearch:", err)
		return 2
	}
	return exitCode
}
