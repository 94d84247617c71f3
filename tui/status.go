package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/streetcore/types"
)

// renderStatusBar produces a full-width inverted status line showing the
// date, weather, location, core stats, and money.
func (m Model) renderStatusBar() string {
	p := m.session.Player

	where := m.world.HereName()
	if where == "" {
		where = "on the move"
	}

	left := fmt.Sprintf(" Day %d, %s, %s | %s", m.world.Day(), m.world.Period(), m.world.Weather(), where)
	right := fmt.Sprintf("HP:%.0f Sat:%.0f En:%.0f Mn:%.0f Hy:%.0f $%.0f ",
		p.Stat(types.Health), p.Stat(types.Satiety), p.Stat(types.Energy),
		p.Stat(types.Mental), p.Stat(types.Hygiene), p.Money)

	// Drop the stat block when the terminal is too narrow for both halves.
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		right = fmt.Sprintf("$%.0f ", p.Money)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
