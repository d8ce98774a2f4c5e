// Package output provides terminal output formatting utilities for the claude-config CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	headerFmt   = color.New(color.FgBlue).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
	checkFmt    = color.New(color.FgGreen).SprintFunc()
	dimFmt      = color.New(color.Faint).SprintFunc()
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintHeader prints a blue section header (e.g., "Available configurations:").
func PrintHeader(out io.Writer, text string) {
	fmt.Fprintln(out, headerFmt(text))
}

// PrintCategory prints a yellow category line at the given indent.
func PrintCategory(out io.Writer, indent, text string) {
	fmt.Fprintf(out, "%s%s\n", indent, categoryFmt(text))
}

// PrintCategoryItems prints "  name: a, b, c" with a yellow label.
func PrintCategoryItems(out io.Writer, category string, names []string) {
	fmt.Fprintf(out, "  %s %s\n", categoryFmt(category+":"), strings.Join(names, ", "))
}

// PrintCheckItem prints a green check followed by the item name and an
// optional dim note.
func PrintCheckItem(out io.Writer, name, note string) {
	if note == "" {
		fmt.Fprintf(out, "  %s %s\n", checkFmt("✓"), name)
		return
	}
	fmt.Fprintf(out, "  %s %s %s\n", checkFmt("✓"), name, dimFmt(note))
}

// PrintSeparator prints a dim rule with a centered label, spanning the terminal.
func PrintSeparator(out io.Writer, label string) {
	termWidth := GetTerminalWidth()
	label = " " + label + " "
	lineLen := (termWidth - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "\n%s%s%s\n", dimFmt(line), dimFmt(label), dimFmt(line))
}
