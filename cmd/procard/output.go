package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/kalambet/procard/internal/alert"
)

// stderr is where status lines go. Tests swap it for a buffer.
var stderr io.Writer = os.Stderr

type palette struct {
	ok    lipgloss.Style
	fail  lipgloss.Style
	warn  lipgloss.Style
	step  lipgloss.Style
	label lipgloss.Style
	hint  lipgloss.Style
	alert lipgloss.Style
}

// paletteFor returns styles suited to w. With noColor every style is plain.
func paletteFor(w io.Writer) palette {
	if noColor {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain, plain, plain, plain}
	}
	re := lipgloss.NewRenderer(w)
	return palette{
		ok:    re.NewStyle().Foreground(lipgloss.Color("2")),
		fail:  re.NewStyle().Foreground(lipgloss.Color("1")),
		warn:  re.NewStyle().Foreground(lipgloss.Color("3")),
		step:  re.NewStyle().Foreground(lipgloss.Color("6")),
		label: re.NewStyle().Bold(true),
		hint:  re.NewStyle().Foreground(lipgloss.Color("8")),
		alert: re.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	}
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stderr, paletteFor(stderr).ok.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stderr, paletteFor(stderr).fail.Render("✗ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stderr, paletteFor(stderr).warn.Render("⚠ "+fmt.Sprintf(format, args...)))
}

func printStatus(label string, format string, args ...any) {
	fmt.Fprintf(stderr, "  %s %s\n", paletteFor(stderr).label.Render(label+":"), fmt.Sprintf(format, args...))
}

func printStep(format string, args ...any) {
	fmt.Fprintln(stderr, paletteFor(stderr).step.Render("→ "+fmt.Sprintf(format, args...)))
}

// printAlerts shows alerts raised by the editor the way a dialog would:
// bold title, then the message.
func printAlerts(alerts []alert.Alert) {
	p := paletteFor(stderr)
	for _, a := range alerts {
		fmt.Fprintf(stderr, "%s %s\n", p.alert.Render("["+a.Title+"]"), a.Message)
	}
}
