// Package catalog holds the immutable compiled game content: events,
// quests, factions, items, and locations. Events keep their authored order
// so selection tie-breaks stay stable across runs.
package catalog

import "github.com/nathoo/streetcore/types"

// Catalog is the full set of loaded definitions. It is built once by the
// loader and never mutated afterward.
type Catalog struct {
	Game      types.GameDef
	Events    []*types.Event // authored order
	Quests    map[string]*types.QuestDef
	Factions  map[string]*types.Faction
	Items     map[string]*types.ItemDef
	Locations map[string]*types.LocationDef

	byID map[string]*types.Event
}

// New builds a catalog from compiled definitions, indexing events by id.
func New(game types.GameDef, events []*types.Event) *Catalog {
	c := &Catalog{
		Game:      game,
		Events:    events,
		Quests:    map[string]*types.QuestDef{},
		Factions:  map[string]*types.Faction{},
		Items:     map[string]*types.ItemDef{},
		Locations: map[string]*types.LocationDef{},
		byID:      make(map[string]*types.Event, len(events)),
	}
	for _, ev := range events {
		c.byID[ev.ID] = ev
	}
	return c
}

// Event looks up an event template by id.
func (c *Catalog) Event(id string) (*types.Event, bool) {
	ev, ok := c.byID[id]
	return ev, ok
}

// ByType returns the events carrying the given type tag, in authored order.
func (c *Catalog) ByType(t types.EventType) []*types.Event {
	var out []*types.Event
	for _, ev := range c.Events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// ItemWeight returns the unit weight for an item id. Items the catalog does
// not know weigh nothing, so unauthored grants still succeed.
func (c *Catalog) ItemWeight(item string) float64 {
	if def, ok := c.Items[item]; ok {
		return def.Weight
	}
	return 0
}

// FactionBounds returns the standing bounds for a faction, defaulting to
// [-100, 100] for unknown factions.
func (c *Catalog) FactionBounds(id string) (min, max int) {
	if f, ok := c.Factions[id]; ok {
		return f.Min, f.Max
	}
	return -100, 100
}
