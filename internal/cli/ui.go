package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/porelab/porenet/pkg/topo"
)

// Terminal palette. ANSI-256 values picked to stay readable on both dark
// and light backgrounds.
var (
	colorAccent = lipgloss.Color("39")  // blue, primary accent
	colorGreen  = lipgloss.Color("42")  // success
	colorYellow = lipgloss.Color("214") // warnings
	colorRed    = lipgloss.Color("203") // errors
	colorBlue   = lipgloss.Color("81")  // commands and links
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

// fg is shorthand for a foreground-only style.
func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Styles shared across commands. StyleTitle and StyleDim are also used by
// the project picker and the inspect tables.
var (
	StyleTitle   = fg(colorAccent).Bold(true)
	StyleDim     = fg(colorDim)
	StyleValue   = fg(colorWhite)
	StyleWarning = fg(colorYellow)
)

var (
	styleIconSpinner = fg(colorAccent)
	styleCommand     = fg(colorBlue)
	styleKey         = fg(colorGray).Width(14)
)

// printSuccess prints a checkmarked status line.
func printSuccess(format string, args ...any) {
	fmt.Println(fg(colorGreen).Render("✓") + " " + fmt.Sprintf(format, args...))
}

// printError prints an error line.
func printError(format string, args ...any) {
	fmt.Println(fg(colorRed).Render("✗") + " " + fmt.Sprintf(format, args...))
}

// printWarning prints a warning line.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(fg(colorYellow).Render("!") + " " + StyleWarning.Render(msg))
}

// printInfo prints a status line.
func printInfo(format string, args ...any) {
	fmt.Println(fg(colorGray).Render("›") + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted detail line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value in aligned columns.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints pore and throat counts with the cache status on one
// muted line.
func printStats(poreCount, throatCount int, cached bool) {
	var parts []string
	if poreCount > 0 {
		parts = append(parts, fmt.Sprintf("%d pores", poreCount))
	}
	if throatCount > 0 {
		parts = append(parts, fmt.Sprintf("%d throats", throatCount))
	}

	badge := fg(colorGray).Render("fresh")
	if cached {
		badge = fg(colorGreen).Render("cached")
	}
	parts = append(parts, badge)

	sep := StyleDim.Render(" · ")
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	fmt.Println("  " + strings.Join(parts, sep))
}

// printHealth prints a connectivity summary line.
func printHealth(h topo.Health) {
	if h.OK() {
		printDetail("healthy · 1 cluster · 0 isolated pores")
		return
	}
	printWarning("unhealthy network: %d clusters, %d isolated pores", len(h.Clusters), len(h.IsolatedPores))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printInline prints a muted message without a trailing newline.
func printInline(format string, args ...any) {
	fmt.Print(StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printNewline separates output sections with a blank line.
func printNewline() {
	fmt.Println()
}
