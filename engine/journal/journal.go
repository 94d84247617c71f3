// Package journal keeps the append-only record of resolved events and
// derives insight lines from short-term stat trends. It only consumes
// applier summaries; it never touches player state.
package journal

import (
	"fmt"

	"github.com/nathoo/streetcore/types"
)

// trendWindow is how many recent entries trend detection inspects.
const trendWindow = 3

// Entry is one resolved (event, choice, outcome) record.
type Entry struct {
	Day        int
	EventID    string
	EventTitle string
	Choice     string
	Summary    types.Summary
}

// Journal is the append-only session log.
type Journal struct {
	entries []Entry
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{}
}

// Append records a resolved event. Entries are never removed or edited.
func (j *Journal) Append(e Entry) {
	j.entries = append(j.entries, e)
}

// Len reports the number of entries.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Recent returns up to n of the latest entries, oldest first.
func (j *Journal) Recent(n int) []Entry {
	start := len(j.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]Entry, len(j.entries)-start)
	copy(out, j.entries[start:])
	return out
}

var trendLines = map[types.Stat]struct{ down, up string }{
	types.Health:  {"Your health keeps slipping. You need rest or a clinic.", "You're on the mend."},
	types.Satiety: {"The hunger is getting harder to ignore.", "You've been eating better lately."},
	types.Energy:  {"You're running on fumes.", "You're feeling more rested."},
	types.Mental:  {"The weight of it all is grinding you down.", "Your spirits have been lifting."},
	types.Hygiene: {"People have started keeping their distance.", "Cleaning up has been paying off."},
}

// Insights derives trend messages from the most recent entries: a stat that
// moved the same direction in each of the last trendWindow entries earns a
// line. Read-only over the log.
func (j *Journal) Insights() []string {
	if len(j.entries) < trendWindow {
		return nil
	}
	recent := j.entries[len(j.entries)-trendWindow:]

	var out []string
	for _, stat := range types.CoreStats {
		dir := 0
		consistent := true
		for _, e := range recent {
			delta := deltaFor(e.Summary, string(stat))
			if delta == 0 {
				consistent = false
				break
			}
			d := 1
			if delta < 0 {
				d = -1
			}
			if dir == 0 {
				dir = d
			} else if dir != d {
				consistent = false
				break
			}
		}
		if !consistent || dir == 0 {
			continue
		}
		lines := trendLines[stat]
		if dir < 0 {
			out = append(out, lines.down)
		} else {
			out = append(out, lines.up)
		}
	}
	return out
}

func deltaFor(s types.Summary, field string) float64 {
	for _, c := range s.Changes {
		if c.Field == field {
			return c.After - c.Before
		}
	}
	return 0
}

// Render formats an entry as display lines.
func Render(e Entry) []string {
	lines := []string{fmt.Sprintf("Day %d — %s: %s", e.Day, e.EventTitle, e.Choice)}
	for _, c := range e.Summary.Changes {
		lines = append(lines, fmt.Sprintf("  %s: %.0f → %.0f", c.Field, c.Before, c.After))
	}
	return lines
}
