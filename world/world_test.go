package world

import (
	"testing"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/save"
	"github.com/nathoo/streetcore/types"
)

// fixedDice always rolls the same face (1-based).
type fixedDice struct {
	face int
}

func (d fixedDice) Roll(sides int) int {
	if d.face > sides {
		return sides
	}
	return d.face
}

func testCatalog() *catalog.Catalog {
	cat := catalog.New(types.GameDef{Title: "t"}, nil)
	cat.Locations["bus_station"] = &types.LocationDef{
		ID: "bus_station", Name: "Bus Station", Kind: "transit", DangerLevel: 3,
	}
	cat.Locations["old_docks"] = &types.LocationDef{
		ID: "old_docks", Name: "Old Docks", Kind: "industrial", DangerLevel: 8,
	}
	return cat
}

func TestNew_Defaults(t *testing.T) {
	w := New(testCatalog(), fixedDice{face: 1}, "old_docks")
	if w.Day() != 1 || w.Period() != types.Morning || w.Weather() != types.Clear {
		t.Errorf("start = day %d, %s, %s", w.Day(), w.Period(), w.Weather())
	}
	if w.HereName() != "Old Docks" {
		t.Errorf("HereName = %q, want Old Docks", w.HereName())
	}
}

func TestNew_UnknownStartFallsBackToFirstByID(t *testing.T) {
	w := New(testCatalog(), fixedDice{face: 1}, "nowhere")
	if w.HereName() != "Bus Station" {
		t.Errorf("HereName = %q, want Bus Station (first by id)", w.HereName())
	}
}

func TestAdvance_PeriodCycleAndDayTurn(t *testing.T) {
	w := New(testCatalog(), fixedDice{face: 1}, "bus_station")

	want := []struct {
		period types.TimePeriod
		newDay bool
	}{
		{types.Afternoon, false},
		{types.Evening, false},
		{types.Night, false},
		{types.Morning, true},
	}
	for i, step := range want {
		newDay := w.Advance()
		if w.Period() != step.period || newDay != step.newDay {
			t.Fatalf("advance %d: period %s newDay %v, want %s %v",
				i, w.Period(), newDay, step.period, step.newDay)
		}
	}
	if w.Day() != 2 {
		t.Errorf("Day = %d, want 2", w.Day())
	}
}

func TestAdvance_RerollsWeatherOnNewDay(t *testing.T) {
	// Clear's shift table is [clear, clear, overcast, heatwave];
	// forcing face 4 lands on heatwave.
	w := New(testCatalog(), fixedDice{face: 4}, "bus_station")
	for i := 0; i < 4; i++ {
		w.Advance()
	}
	if w.Weather() != types.Heatwave {
		t.Errorf("Weather = %s, want heatwave", w.Weather())
	}
	if !w.HarshWeather() {
		t.Error("heatwave should be harsh")
	}
}

func TestHarshWeather_RainIsRoutine(t *testing.T) {
	w := New(testCatalog(), fixedDice{face: 1}, "bus_station")
	w.SetState(save.WorldState{Day: 1, Period: types.Morning, Weather: types.Rain, Location: "bus_station"})
	if w.HarshWeather() {
		t.Error("rain should not count as harsh")
	}
	w.SetState(save.WorldState{Day: 1, Period: types.Morning, Weather: types.Storm, Location: "bus_station"})
	if !w.HarshWeather() {
		t.Error("storm should count as harsh")
	}
}

func TestMoveToAndDepart(t *testing.T) {
	w := New(testCatalog(), fixedDice{face: 1}, "bus_station")

	if w.MoveTo("nowhere") {
		t.Error("unknown location should be rejected")
	}
	if !w.MoveTo("old_docks") {
		t.Fatal("known location should be accepted")
	}
	site := w.Here()
	if site == nil || site.DangerLevel() != 8 || site.Kind() != "industrial" {
		t.Errorf("site = %v", site)
	}

	w.Depart()
	if w.Here() != nil {
		t.Error("Depart should leave no site")
	}
	if w.HereName() != "" {
		t.Errorf("HereName in transit = %q, want empty", w.HereName())
	}
}

func TestLocationIDs_SortedStable(t *testing.T) {
	w := New(testCatalog(), fixedDice{face: 1}, "bus_station")
	ids := w.LocationIDs()
	if len(ids) != 2 || ids[0] != "bus_station" || ids[1] != "old_docks" {
		t.Errorf("ids = %v", ids)
	}
}

func TestStateRoundTrip(t *testing.T) {
	w := New(testCatalog(), fixedDice{face: 1}, "old_docks")
	w.Advance()
	w.Advance() // evening, day 1

	st := w.State()
	if st.Day != 1 || st.Period != types.Evening || st.Location != "old_docks" {
		t.Errorf("state = %+v", st)
	}

	w2 := New(testCatalog(), fixedDice{face: 1}, "bus_station")
	w2.SetState(st)
	if w2.Day() != 1 || w2.Period() != types.Evening || w2.HereName() != "Old Docks" {
		t.Errorf("restored: day %d, %s, %q", w2.Day(), w2.Period(), w2.HereName())
	}
}

func TestSetState_RepairsBadFields(t *testing.T) {
	w := New(testCatalog(), fixedDice{face: 1}, "bus_station")
	w.SetState(save.WorldState{
		Day:      0,
		Period:   "brunch",
		Weather:  "sleet",
		Location: "nowhere",
	})
	if w.Day() != 1 {
		t.Errorf("Day = %d, want repaired 1", w.Day())
	}
	if w.Period() != types.Morning {
		t.Errorf("Period = %s, want morning", w.Period())
	}
	if w.Weather() != types.Clear {
		t.Errorf("Weather = %s, want clear", w.Weather())
	}
	if w.Here() != nil {
		t.Error("unknown location should restore as no site")
	}
}
