// Package reputation implements faction standing. Deltas are nonlinear:
// gains flatten near a faction's bounds, and changes ripple to allied and
// rival factions at half strength. Callers treat the realized delta as
// opaque — the outcome applier never writes standings directly.
package reputation

import (
	"fmt"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/state"
)

// Interaction kinds and their magnitude multipliers. Unknown kinds pass
// magnitude through unchanged.
var kindScale = map[string]float64{
	"help":    1.0,
	"trade":   0.5,
	"favor":   1.5,
	"slight":  1.0,
	"betray":  2.0,
	"rumor":   0.5,
	"outcome": 1.0,
}

// Book adjusts player standings against the authored faction set.
type Book struct {
	cat *catalog.Catalog
}

// NewBook creates a reputation book over the loaded catalog.
func NewBook(cat *catalog.Catalog) *Book {
	return &Book{cat: cat}
}

// Adjust applies an interaction to a faction standing and ripples to its
// allies and rivals. It returns the realized delta for the primary faction
// and human-readable notification lines for every standing that moved.
func (b *Book) Adjust(p *state.Player, faction, kind string, magnitude int, ctxTag string) (int, []string) {
	if magnitude == 0 {
		return 0, nil
	}
	scale := 1.0
	if s, ok := kindScale[kind]; ok {
		scale = s
	}
	realized := b.shift(p, faction, int(float64(magnitude)*scale))

	var notes []string
	if realized != 0 {
		notes = append(notes, standingNote(b.name(faction), realized, ctxTag))
	}

	// Ripple at half strength, one hop only.
	if f, ok := b.cat.Factions[faction]; ok {
		half := realized / 2
		if half != 0 {
			for _, ally := range f.Allies {
				if d := b.shift(p, ally, half); d != 0 {
					notes = append(notes, standingNote(b.name(ally), d, ""))
				}
			}
			for _, rival := range f.Rivals {
				if d := b.shift(p, rival, -half); d != 0 {
					notes = append(notes, standingNote(b.name(rival), d, ""))
				}
			}
		}
	}
	return realized, notes
}

// shift moves one standing with diminishing returns near its bounds and
// clamps the result. It returns the delta actually applied.
func (b *Book) shift(p *state.Player, faction string, delta int) int {
	if delta == 0 {
		return 0
	}
	min, max := b.cat.FactionBounds(faction)
	current := p.Reputation[faction]

	// Flatten gains in the top third and losses in the bottom third.
	if delta > 0 && max > 0 && current > max*2/3 {
		delta = (delta + 1) / 2
	}
	if delta < 0 && min < 0 && current < min*2/3 {
		delta = delta / 2
		if delta == 0 {
			delta = -1
		}
	}

	next := current + delta
	if next > max {
		next = max
	}
	if next < min {
		next = min
	}
	if next == current {
		return 0
	}
	p.Reputation[faction] = next
	return next - current
}

func (b *Book) name(faction string) string {
	if f, ok := b.cat.Factions[faction]; ok && f.Name != "" {
		return f.Name
	}
	return faction
}

func standingNote(name string, delta int, ctxTag string) string {
	verb := "improves"
	if delta < 0 {
		verb = "worsens"
	}
	if ctxTag != "" {
		return fmt.Sprintf("Your standing with %s %s (%+d, %s).", name, verb, delta, ctxTag)
	}
	return fmt.Sprintf("Your standing with %s %s (%+d).", name, verb, delta)
}
