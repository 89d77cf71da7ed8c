package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"
)

// Raw ANSI escapes used by TextFormatter's buffer-append hot path. lipgloss
// is reserved for anything rendered off that path (see Styles below); SGR
// codes written directly into an append-only []byte avoid an allocation
// per matched line that lipgloss.Style.Render would otherwise cost.
const (
	ansiReset   = "\x1b[0m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
	ansiGreen   = "\x1b[32m"
	ansiBoldRed = "\x1b[1;31m"
)

// Styles holds lipgloss styles for rendering off the formatter hot path.
// No code in this module uses them; the summary line and CLI diagnostics
// are printed as plain text.
type Styles struct {
	Filename  lipgloss.Style
	LineNum   lipgloss.Style
	Separator lipgloss.Style
	Match     lipgloss.Style
	Context   lipgloss.Style
}

// NewStyles creates the default color styles.
func NewStyles() Styles {
	return Styles{
		Filename:  lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		LineNum:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Match:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Context:   lipgloss.NewStyle(),
	}
}

// NoStyles returns styles with no coloring.
func NoStyles() Styles {
	return Styles{
		Filename:  lipgloss.NewStyle(),
		LineNum:   lipgloss.NewStyle(),
		Separator: lipgloss.NewStyle(),
		Match:     lipgloss.NewStyle(),
		Context:   lipgloss.NewStyle(),
	}
}

// IsTerminal checks if the given file descriptor is a terminal using ioctl.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// StdoutIsTerminal returns true if stdout is a terminal.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}
