package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the colored schedloom banner to stderr.
func PrintLogo() {
	w := os.Stderr
	frame := color.New(color.FgCyan)
	bars := color.New(color.FgYellow)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +---------------------------+")
	bars.Fprintln(w, "   |  ===--                    |")
	bars.Fprintln(w, "   |     ====-----             |")
	bars.Fprintln(w, "   |          =========--      |")
	brand.Fprintln(w, "   |  S C H E D L O O M       |")
	frame.Fprintln(w, "   +---------------------------+")
	tag.Fprintln(w, "   Critical path scheduling")
	fmt.Fprintln(w)
}

// CriticalMark returns the marker appended to critical path tasks.
func CriticalMark(critical bool) string {
	if critical {
		return " " + BoldYellow("⚡")
	}
	return ""
}

// SlackLabel colors a slack value: red for none, yellow for tight, dim
// otherwise.
func SlackLabel(days int) string {
	switch {
	case days <= 0:
		return BoldRed(fmt.Sprintf("%dd", days))
	case days <= 2:
		return Yellow(fmt.Sprintf("%dd", days))
	default:
		return Dim(fmt.Sprintf("%dd", days))
	}
}

// ModeIcon marks manually pinned tasks in table output.
func ModeIcon(manual bool) string {
	if manual {
		return Magenta("✎")
	}
	return " "
}
