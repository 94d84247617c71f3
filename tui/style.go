package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTitle = lipgloss.NewStyle().
			Bold(true)

	styleChoice = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleDelta = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleSetback = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindTitle
	kindChoice
	kindDelta
	kindSystem
	kindSetback
)

// classifyLine determines what kind of output line this is. Event output
// follows fixed shapes: numbered choices and delta lines are indented two
// spaces, titles are the first unindented line of a presentation block.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case isChoiceLine(line):
		return kindChoice
	case strings.HasPrefix(line, "  "):
		return kindDelta
	case strings.HasPrefix(line, "It doesn't go"):
		return kindSetback
	case looksLikeTitle(line):
		return kindTitle
	default:
		return kindNarrative
	}
}

// isChoiceLine matches "  3. Do the thing".
func isChoiceLine(line string) bool {
	if !strings.HasPrefix(line, "  ") {
		return false
	}
	rest := line[2:]
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(rest) && rest[i] == '.' && rest[i+1] == ' '
}

// looksLikeTitle treats short lines with no terminal punctuation as event
// titles. Descriptions end in a period; titles don't.
func looksLikeTitle(line string) bool {
	if len(line) == 0 || len(line) > 60 {
		return false
	}
	last := line[len(line)-1]
	return last != '.' && last != '!' && last != '?' && last != ','
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
