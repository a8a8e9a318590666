package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	shellquote "github.com/kballard/go-shellquote"
)

// User-facing output functions with status prefixes.
// These write to stdout/stderr directly for CLI output,
// separate from the structured debug logging.

var (
	// Stdout receives info and success messages.
	Stdout io.Writer = os.Stdout
	// Stderr receives warnings, errors and command headers.
	Stderr io.Writer = os.Stderr
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle  = lipgloss.NewStyle().Italic(true)
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const ruleWidth = 60

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...interface{}) {
	fmt.Fprintln(Stdout, infoStyle.Render("ℹ "+fmt.Sprintf(format, args...)))
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Stdout, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	fmt.Fprintln(Stderr, warningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	fmt.Fprintln(Stderr, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// CommandHeader announces an external command before it takes over the terminal.
func CommandHeader(program string, args []string) {
	line := "> " + headerStyle.Render(shellquote.Join(append([]string{program}, args...)...))
	fmt.Fprintln(Stderr)
	fmt.Fprintln(Stderr, line)
	fmt.Fprintln(Stderr, ruleStyle.Render(strings.Repeat("─", ruleWidth)))
}
