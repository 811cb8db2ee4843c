package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nimgraph/pkg/deps"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printSummary prints the outcome of a scan on one line, e.g.
// "✓ 12 dependencies from 2 lockfiles · 1 degraded".
func printSummary(w io.Writer, res *deps.Result, output string) {
	s := res.Stats
	if s.Mode == deps.ModeNone {
		printWarning(w, "No dependencies found")
		return
	}

	line := StyleNumber.Render(fmt.Sprint(res.Root.Len())) + " " + plural(res.Root.Len(), "dependency", "dependencies")

	var sources []string
	if s.Lockfiles > 0 {
		sources = append(sources, fmt.Sprintf("%d %s", s.Lockfiles, plural(s.Lockfiles, "lockfile", "lockfiles")))
	}
	if s.Manifests > 0 {
		sources = append(sources, fmt.Sprintf("%d %s", s.Manifests, plural(s.Manifests, "manifest", "manifests")))
	}
	if len(sources) > 0 {
		line += " from " + strings.Join(sources, " and ")
	}

	var notes []string
	if s.Degraded > 0 {
		notes = append(notes, fmt.Sprintf("%d degraded", s.Degraded))
	}
	if s.SkippedManifests > 0 {
		notes = append(notes, fmt.Sprintf("%d %s skipped", s.SkippedManifests, plural(s.SkippedManifests, "manifest", "manifests")))
	}
	for _, n := range notes {
		line += StyleDim.Render(" · ") + StyleWarning.Render(n)
	}

	printSuccess(w, "%s", line)
	if output != "" {
		printFile(w, output)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
