package selector

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/state"
	"github.com/nathoo/streetcore/types"
)

type fakeClock struct {
	day     int
	period  types.TimePeriod
	weather types.Weather
	harsh   bool
}

func (c fakeClock) Day() int                 { return c.day }
func (c fakeClock) Period() types.TimePeriod { return c.period }
func (c fakeClock) Weather() types.Weather   { return c.weather }
func (c fakeClock) HarshWeather() bool       { return c.harsh }

type fakeSite struct {
	danger int
}

func (s fakeSite) DangerLevel() int { return s.danger }
func (s fakeSite) Kind() string     { return "test" }

// testRand draws weighted indexes from a seeded source using the same
// cumulative walk as the engine RNG.
type testRand struct {
	r *rand.Rand
}

func newTestRand(seed int64) *testRand {
	return &testRand{r: rand.New(rand.NewSource(seed))}
}

func (t *testRand) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	draw := t.r.Float64() * total
	var cum float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		if draw < cum {
			return i
		}
	}
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}

func event(id string, t types.EventType) *types.Event {
	return &types.Event{
		ID:    id,
		Title: id,
		Type:  t,
		Choices: []types.Choice{
			{Text: "Go", Outcome: types.Outcome{}},
		},
	}
}

func newSelector(events ...*types.Event) *Selector {
	cat := catalog.New(types.GameDef{Title: "t"}, events)
	return New(cat, newTestRand(42), DefaultWeights())
}

func TestSelect_EmptyCatalogFallsBack(t *testing.T) {
	s := newSelector()
	p := state.NewPlayer()
	clock := fakeClock{period: types.Morning, weather: types.Clear}

	ev := s.Select(p, clock, nil)
	if ev == nil {
		t.Fatal("Select returned nil")
	}
	if !strings.HasPrefix(ev.ID, "fallback_") {
		t.Errorf("expected synthesized fallback, got %q", ev.ID)
	}
	if len(ev.Choices) == 0 {
		t.Error("fallback event has no choices")
	}
}

func TestSelect_RecordsHistory(t *testing.T) {
	s := newSelector(event("a", types.General))
	p := state.NewPlayer()
	clock := fakeClock{period: types.Morning, weather: types.Clear}

	ev := s.Select(p, clock, nil)
	if len(p.EventHistory) != 1 || p.EventHistory[0] != ev.ID {
		t.Errorf("history = %v, want [%s]", p.EventHistory, ev.ID)
	}
}

func TestSelect_ExcludesQuestEvents(t *testing.T) {
	s := newSelector(event("step", types.QuestEvent))
	p := state.NewPlayer()
	clock := fakeClock{period: types.Morning, weather: types.Clear}

	for i := 0; i < 20; i++ {
		if ev := s.Select(p, clock, nil); ev.ID == "step" {
			t.Fatal("quest event leaked into general selection")
		}
	}
}

func TestSelect_ExcludesLockedUntilUnlocked(t *testing.T) {
	locked := event("secret", types.General)
	locked.Locked = true
	s := newSelector(locked)
	p := state.NewPlayer()
	clock := fakeClock{period: types.Morning, weather: types.Clear}

	if ev := s.Select(p, clock, nil); ev.ID == "secret" {
		t.Fatal("locked event selected without unlock")
	}

	p.UnlockedEvents["secret"] = true
	found := false
	for i := 0; i < 20; i++ {
		if ev := s.Select(p, clock, nil); ev.ID == "secret" {
			found = true
			break
		}
	}
	if !found {
		t.Error("unlocked event never selected")
	}
}

func TestSelect_FiltersByRequirement(t *testing.T) {
	night := event("night_only", types.General)
	night.Requires = types.Requirement{Periods: []types.TimePeriod{types.Night}}
	s := newSelector(night)
	p := state.NewPlayer()
	morning := fakeClock{period: types.Morning, weather: types.Clear}

	if ev := s.Select(p, morning, nil); ev.ID == "night_only" {
		t.Fatal("requirement-gated event selected out of period")
	}
}

func TestSelectTyped_FiltersAndFallsBack(t *testing.T) {
	s := newSelector(event("walk", types.Travel), event("bed", types.Shelter))
	p := state.NewPlayer()
	clock := fakeClock{period: types.Morning, weather: types.Clear}

	if ev := s.SelectTravel(p, clock); ev.ID != "walk" {
		t.Errorf("SelectTravel = %q, want walk", ev.ID)
	}
	if ev := s.SelectShelter(p, clock, nil, "poor"); ev.ID != "bed" {
		t.Errorf("SelectShelter = %q, want bed", ev.ID)
	}
	if ev := s.SelectDanger(p, clock, nil); !strings.HasPrefix(ev.ID, "fallback_") {
		t.Errorf("SelectDanger with no danger events should fall back, got %q", ev.ID)
	}
	if ev := s.SelectJob(p, clock, nil, "cans"); !strings.HasPrefix(ev.ID, "fallback_") {
		t.Errorf("SelectJob with no job events should fall back, got %q", ev.ID)
	}
}

func TestWeigh_RecentPenalty(t *testing.T) {
	ev := event("seen", types.General)
	s := newSelector(ev)
	p := state.NewPlayer()
	clock := fakeClock{period: types.Morning, weather: types.Clear}

	fresh := s.weigh(ev, p, clock, nil)
	p.RecordEvent("seen")
	penalized := s.weigh(ev, p, clock, nil)

	want := fresh * s.weights.RecentPenalty
	if penalized != want {
		t.Errorf("penalized weight = %v, want %v", penalized, want)
	}
}

func TestWeigh_HarshWeatherBoost(t *testing.T) {
	ev := event("storm", types.WeatherKind)
	s := newSelector(ev)
	p := state.NewPlayer()

	calm := s.weigh(ev, p, fakeClock{period: types.Morning, weather: types.Clear}, nil)
	harsh := s.weigh(ev, p, fakeClock{period: types.Morning, weather: types.Storm, harsh: true}, nil)

	if harsh != calm*s.weights.HarshWeatherBoost {
		t.Errorf("harsh weight = %v, want %v", harsh, calm*s.weights.HarshWeatherBoost)
	}
}

func TestWeigh_SiteTierBoosts(t *testing.T) {
	danger := event("mugging", types.Danger)
	opp := event("handout", types.Opportunity)
	s := newSelector(danger, opp)
	p := state.NewPlayer()
	clock := fakeClock{period: types.Morning, weather: types.Clear}

	base := s.weights.Base
	if got := s.weigh(danger, p, clock, fakeSite{danger: 8}); got != base*s.weights.DangerHighBoost {
		t.Errorf("danger event at high site = %v, want %v", got, base*s.weights.DangerHighBoost)
	}
	if got := s.weigh(opp, p, clock, fakeSite{danger: 2}); got != base*s.weights.OpportunityLowBoost {
		t.Errorf("opportunity at low site = %v, want %v", got, base*s.weights.OpportunityLowBoost)
	}
	if got := s.weigh(danger, p, clock, fakeSite{danger: 2}); got != base {
		t.Errorf("danger event at low site = %v, want base %v", got, base)
	}
}

func TestSelect_AntiRepetitionStatistical(t *testing.T) {
	a := event("a", types.General)
	b := event("b", types.General)
	cat := catalog.New(types.GameDef{Title: "t"}, []*types.Event{a, b})
	s := New(cat, newTestRand(7), DefaultWeights())
	clock := fakeClock{period: types.Morning, weather: types.Clear}

	counts := map[string]int{}
	const trials = 1000
	for i := 0; i < trials; i++ {
		// Fresh player each draw, with "a" already in recent history.
		p := state.NewPlayer()
		p.RecordEvent("a")
		ev := s.Select(p, clock, nil)
		counts[ev.ID]++
	}

	// Weights 0.3 vs 1.0: "b" should win roughly 77% of draws.
	if counts["b"] < 650 {
		t.Errorf("penalized event chosen too often: a=%d b=%d", counts["a"], counts["b"])
	}
	if counts["a"] == 0 {
		t.Error("penalized event should still be selectable")
	}
}

func TestScaleFor(t *testing.T) {
	s := newSelector()

	if got := s.ScaleFor(nil); got != 1 {
		t.Errorf("nil site scale = %v, want 1", got)
	}
	if got := s.ScaleFor(fakeSite{danger: 3}); got != 1 {
		t.Errorf("danger 3 scale = %v, want 1", got)
	}
	want := 1 + 5*s.weights.DangerScaleStep
	if got := s.ScaleFor(fakeSite{danger: 8}); got != want {
		t.Errorf("danger 8 scale = %v, want %v", got, want)
	}
}

func TestDefaultWeights_Embedded(t *testing.T) {
	w := DefaultWeights()
	if w.Base != 1.0 {
		t.Errorf("Base = %v, want 1.0", w.Base)
	}
	if w.HarshWeatherBoost != 2.0 {
		t.Errorf("HarshWeatherBoost = %v, want 2.0", w.HarshWeatherBoost)
	}
	if w.DangerHighBoost != 1.5 {
		t.Errorf("DangerHighBoost = %v, want 1.5", w.DangerHighBoost)
	}
	if w.OpportunityLowBoost != 1.3 {
		t.Errorf("OpportunityLowBoost = %v, want 1.3", w.OpportunityLowBoost)
	}
	if w.RecentPenalty != 0.3 {
		t.Errorf("RecentPenalty = %v, want 0.3", w.RecentPenalty)
	}
	if w.RecentWindow != 5 {
		t.Errorf("RecentWindow = %v, want 5", w.RecentWindow)
	}
}

func TestLoadWeights_MissingFileUsesDefaults(t *testing.T) {
	w, err := LoadWeights("testdata/does_not_exist.yaml")
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if w != DefaultWeights() {
		t.Errorf("weights = %+v, want defaults", w)
	}
}

func TestFallbackDanger_RetreatShape(t *testing.T) {
	ev := FallbackDanger(types.DangerHigh)
	if len(ev.Choices) == 0 {
		t.Fatal("fallback danger event has no choices")
	}

	var retreat *types.Choice
	for i := range ev.Choices {
		if strings.Contains(strings.ToLower(ev.Choices[i].Text), "retreat") {
			retreat = &ev.Choices[i]
		}
	}
	if retreat == nil {
		t.Fatal("no retreat choice in fallback danger event")
	}
	if retreat.SuccessChance != 0.7 {
		t.Errorf("retreat SuccessChance = %v, want 0.7", retreat.SuccessChance)
	}
	if retreat.FailOutcome.Stats[types.Health] != -15 {
		t.Errorf("fail health delta = %v, want -15", retreat.FailOutcome.Stats[types.Health])
	}
	if retreat.FailOutcome.Stats[types.Mental] != -10 {
		t.Errorf("fail mental delta = %v, want -10", retreat.FailOutcome.Stats[types.Mental])
	}
	if retreat.FailOutcome.Heat != 15 {
		t.Errorf("fail heat = %v, want 15 for a high-tier site", retreat.FailOutcome.Heat)
	}
}
