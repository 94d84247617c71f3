// Package world implements the clock and location providers the engine
// reads through its Clock and Site interfaces. The engine never advances
// time or moves the player; the game loop does both here, between turns.
package world

import (
	"sort"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/save"
	"github.com/nathoo/streetcore/types"
)

// Dice is the random source the world rolls for weather transitions.
// *engine.RNG satisfies it.
type Dice interface {
	Roll(sides int) int
}

// Place adapts a catalog location to the engine's Site interface.
type Place struct {
	def *types.LocationDef
}

func (p *Place) DangerLevel() int { return p.def.DangerLevel }
func (p *Place) Kind() string     { return p.def.Kind }
func (p *Place) ID() string       { return p.def.ID }
func (p *Place) Name() string     { return p.def.Name }

var periodOrder = []types.TimePeriod{
	types.Morning, types.Afternoon, types.Evening, types.Night,
}

// weatherShifts lists, per condition, the candidates the next day rolls
// among. Repetition weights the draw; every condition can persist.
var weatherShifts = map[types.Weather][]types.Weather{
	types.Clear:    {types.Clear, types.Clear, types.Overcast, types.Heatwave},
	types.Overcast: {types.Overcast, types.Clear, types.Rain, types.Rain, types.ColdSnap},
	types.Rain:     {types.Rain, types.Overcast, types.Storm, types.Clear},
	types.Storm:    {types.Rain, types.Rain, types.Overcast, types.Storm},
	types.Snow:     {types.Snow, types.ColdSnap, types.Overcast},
	types.Heatwave: {types.Heatwave, types.Clear, types.Clear},
	types.ColdSnap: {types.ColdSnap, types.Snow, types.Overcast, types.Clear},
}

// World tracks day, time of day, weather, and the player's location.
// It satisfies types.Clock; Here() provides the types.Site.
type World struct {
	cat  *catalog.Catalog
	dice Dice

	day     int
	period  types.TimePeriod
	weather types.Weather
	here    *Place
}

// New creates a world on day 1, morning, clear skies, located at startLoc.
// An unknown or empty startLoc falls back to the first location by id, or
// to no location at all when the catalog has none.
func New(cat *catalog.Catalog, dice Dice, startLoc string) *World {
	w := &World{
		cat:     cat,
		dice:    dice,
		day:     1,
		period:  types.Morning,
		weather: types.Clear,
	}
	w.MoveTo(startLoc)
	if w.here == nil {
		for _, id := range w.LocationIDs() {
			w.MoveTo(id)
			break
		}
	}
	return w
}

// Day implements types.Clock.
func (w *World) Day() int { return w.day }

// Period implements types.Clock.
func (w *World) Period() types.TimePeriod { return w.period }

// Weather implements types.Clock.
func (w *World) Weather() types.Weather { return w.weather }

// HarshWeather implements types.Clock. Rain is miserable but routine;
// storms, snow, and temperature extremes are harsh.
func (w *World) HarshWeather() bool {
	switch w.weather {
	case types.Storm, types.Snow, types.Heatwave, types.ColdSnap:
		return true
	}
	return false
}

// Here returns the current location as a Site. Nil when the player is in
// transit or the catalog defines no locations.
func (w *World) Here() types.Site {
	if w.here == nil {
		return nil
	}
	return w.here
}

// HereName returns the current location's display name, or "" in transit.
func (w *World) HereName() string {
	if w.here == nil {
		return ""
	}
	return w.here.Name()
}

// MoveTo relocates the player. Unknown ids are ignored and reported false.
func (w *World) MoveTo(locID string) bool {
	def, ok := w.cat.Locations[locID]
	if !ok {
		return false
	}
	w.here = &Place{def: def}
	return true
}

// Depart clears the location for travel turns (nil Site).
func (w *World) Depart() {
	w.here = nil
}

// LocationIDs lists known location ids in stable order.
func (w *World) LocationIDs() []string {
	ids := make([]string, 0, len(w.cat.Locations))
	for id := range w.cat.Locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Advance steps to the next time period. Crossing night into morning
// starts a new day and rerolls the weather. Returns true on a new day.
func (w *World) Advance() bool {
	for i, p := range periodOrder {
		if p != w.period {
			continue
		}
		if i+1 < len(periodOrder) {
			w.period = periodOrder[i+1]
			return false
		}
		w.period = periodOrder[0]
		w.day++
		w.rollWeather()
		return true
	}
	w.period = types.Morning
	return false
}

func (w *World) rollWeather() {
	shifts, ok := weatherShifts[w.weather]
	if !ok || len(shifts) == 0 {
		w.weather = types.Clear
		return
	}
	w.weather = shifts[w.dice.Roll(len(shifts))-1]
}

// State captures the world for a save snapshot.
func (w *World) State() save.WorldState {
	ws := save.WorldState{Day: w.day, Period: w.period, Weather: w.weather}
	if w.here != nil {
		ws.Location = w.here.ID()
	}
	return ws
}

// SetState restores the world from a save snapshot, repairing out-of-range
// fields to playable defaults.
func (w *World) SetState(ws save.WorldState) {
	w.day = ws.Day
	if w.day < 1 {
		w.day = 1
	}
	w.period = ws.Period
	if _, ok := periodIndex(ws.Period); !ok {
		w.period = types.Morning
	}
	w.weather = ws.Weather
	if _, ok := weatherShifts[ws.Weather]; !ok {
		w.weather = types.Clear
	}
	w.here = nil
	if ws.Location != "" {
		w.MoveTo(ws.Location)
	}
}

func periodIndex(p types.TimePeriod) (int, bool) {
	for i, q := range periodOrder {
		if q == p {
			return i, true
		}
	}
	return 0, false
}
