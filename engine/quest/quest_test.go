package quest

import (
	"strings"
	"testing"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/outcome"
	"github.com/nathoo/streetcore/engine/reputation"
	"github.com/nathoo/streetcore/engine/state"
	"github.com/nathoo/streetcore/types"
)

type fakeClock struct {
	day int
}

func (c fakeClock) Day() int                 { return c.day }
func (c fakeClock) Period() types.TimePeriod { return types.Morning }
func (c fakeClock) Weather() types.Weather   { return types.Clear }
func (c fakeClock) HarshWeather() bool       { return false }

func newGraph(day int, events []*types.Event, quests ...*types.QuestDef) (*Graph, *catalog.Catalog) {
	cat := catalog.New(types.GameDef{Title: "t"}, events)
	for _, q := range quests {
		cat.Quests[q.ID] = q
	}
	deps := outcome.Deps{
		Cat:   cat,
		Rep:   reputation.NewBook(cat),
		Clock: fakeClock{day: day},
	}
	return NewGraph(cat, deps), cat
}

func stepEvent(id string) *types.Event {
	return &types.Event{ID: id, Title: id, Type: types.QuestEvent, Choices: []types.Choice{{Text: "Go"}}}
}

func twoStep(id string) *types.QuestDef {
	return &types.QuestDef{
		ID:    id,
		Title: id,
		Steps: []string{id + "_s0", id + "_s1"},
	}
}

func TestStart_IdempotentAndStampsDay(t *testing.T) {
	g, _ := newGraph(4, []*types.Event{stepEvent("q_s0"), stepEvent("q_s1")}, twoStep("q"))
	p := state.NewPlayer()

	if !g.Start(p, "q") {
		t.Fatal("first start should succeed")
	}
	if g.Start(p, "q") {
		t.Error("second start should be a no-op")
	}
	if p.QuestStatus("q") != types.QuestActive {
		t.Errorf("status = %v, want active", p.QuestStatus("q"))
	}
	if day, ok := p.FlagDay("q_started"); !ok || day != 4 {
		t.Errorf("start flag day = %d, %v; want 4, true", day, ok)
	}
	if len(p.ActiveQuests) != 1 {
		t.Errorf("active quests = %v, want one entry", p.ActiveQuests)
	}
}

func TestStart_UnknownQuestIgnored(t *testing.T) {
	g, _ := newGraph(1, nil)
	p := state.NewPlayer()
	if g.Start(p, "ghost") {
		t.Error("unknown quest should not start")
	}
	if len(p.ActiveQuests) != 0 {
		t.Errorf("active quests = %v, want none", p.ActiveQuests)
	}
}

func TestAdvance_MonotonicProgress(t *testing.T) {
	g, _ := newGraph(1, []*types.Event{stepEvent("q_s0"), stepEvent("q_s1")}, twoStep("q"))
	p := state.NewPlayer()
	g.Start(p, "q")

	next, _ := g.Advance(p, "q", 1)
	if next == nil || next.ID != "q_s1" {
		t.Fatalf("next = %v, want q_s1", next)
	}
	if p.QuestProgress["q"] != 1 {
		t.Errorf("progress = %d, want 1", p.QuestProgress["q"])
	}

	// Negative amounts never lower the counter.
	g.Advance(p, "q", -5)
	if p.QuestProgress["q"] != 1 {
		t.Errorf("progress after negative advance = %d, want 1", p.QuestProgress["q"])
	}
}

func TestAdvance_InactiveQuestIgnored(t *testing.T) {
	g, _ := newGraph(1, []*types.Event{stepEvent("q_s0"), stepEvent("q_s1")}, twoStep("q"))
	p := state.NewPlayer()

	if next, notes := g.Advance(p, "q", 1); next != nil || notes != nil {
		t.Errorf("advance before start: got %v, %v", next, notes)
	}
	if _, ok := p.QuestProgress["q"]; ok {
		t.Error("progress counter created for unstarted quest")
	}
}

func TestComplete_EffectsApplyExactlyOnce(t *testing.T) {
	def := twoStep("id_papers")
	def.OnComplete = types.Outcome{
		Flags:            []string{"has_id"},
		HousingProspects: 10,
	}
	g, _ := newGraph(3, []*types.Event{stepEvent("id_papers_s0"), stepEvent("id_papers_s1")}, def)
	p := state.NewPlayer()
	g.Start(p, "id_papers")

	next, notes := g.Advance(p, "id_papers", 2)
	if next != nil {
		t.Fatalf("completion should return nil step, got %q", next.ID)
	}
	if p.QuestStatus("id_papers") != types.QuestCompleted {
		t.Fatalf("status = %v, want completed", p.QuestStatus("id_papers"))
	}
	if !p.StoryFlags["has_id"] {
		t.Error("completion flag not applied")
	}
	if p.HousingProspects != 10 {
		t.Errorf("HousingProspects = %v, want 10", p.HousingProspects)
	}
	if len(notes) == 0 || !strings.Contains(notes[0], "Quest complete") {
		t.Errorf("notes = %v, want completion line first", notes)
	}

	// Further advances are no-ops against a terminal quest.
	g.Advance(p, "id_papers", 1)
	if p.HousingProspects != 10 {
		t.Errorf("completion effects applied twice: HousingProspects = %v", p.HousingProspects)
	}
}

func TestComplete_FollowUpQuestAutoStarts(t *testing.T) {
	first := twoStep("housing_list")
	first.Follows = "paper_trail"
	second := twoStep("paper_trail")
	g, _ := newGraph(1, []*types.Event{
		stepEvent("housing_list_s0"), stepEvent("housing_list_s1"),
		stepEvent("paper_trail_s0"), stepEvent("paper_trail_s1"),
	}, first, second)
	p := state.NewPlayer()
	g.Start(p, "housing_list")

	_, notes := g.Advance(p, "housing_list", 2)
	if p.QuestStatus("paper_trail") != types.QuestActive {
		t.Fatal("follow-up quest should auto-start on completion")
	}
	found := false
	for _, n := range notes {
		if strings.Contains(n, "New quest") {
			found = true
		}
	}
	if !found {
		t.Errorf("notes = %v, want a new-quest line", notes)
	}
}

func TestExpireOverdue_FailsPastTimeLimit(t *testing.T) {
	def := twoStep("paper_trail")
	def.TimeLimit = 14
	def.OnFail = types.Outcome{Stats: map[types.Stat]float64{types.Mental: -5}}
	g, _ := newGraph(1, []*types.Event{stepEvent("paper_trail_s0"), stepEvent("paper_trail_s1")}, def)
	p := state.NewPlayer()
	g.Start(p, "paper_trail") // started day 1

	// Day 15: exactly at the limit, still alive.
	g.deps.Clock = fakeClock{day: 15}
	if notes := g.ExpireOverdue(p); notes != nil {
		t.Fatalf("day 15 is within the limit, got %v", notes)
	}

	// Day 16: one past the limit.
	g.deps.Clock = fakeClock{day: 16}
	notes := g.ExpireOverdue(p)
	if p.QuestStatus("paper_trail") != types.QuestFailed {
		t.Fatalf("status = %v, want failed", p.QuestStatus("paper_trail"))
	}
	if len(notes) == 0 || !strings.Contains(notes[0], "Quest failed") {
		t.Errorf("notes = %v, want failure line", notes)
	}
	if p.Mental != 55 {
		t.Errorf("Mental = %v, want 55 (fail penalty applied once)", p.Mental)
	}

	// A failed quest never expires again.
	if notes := g.ExpireOverdue(p); notes != nil {
		t.Errorf("second expiry pass produced %v", notes)
	}
	if p.Mental != 55 {
		t.Errorf("fail penalty applied twice: Mental = %v", p.Mental)
	}
}

func TestExpireOverdue_NoLimitNeverExpires(t *testing.T) {
	g, _ := newGraph(1, []*types.Event{stepEvent("q_s0"), stepEvent("q_s1")}, twoStep("q"))
	p := state.NewPlayer()
	g.Start(p, "q")

	g.deps.Clock = fakeClock{day: 500}
	if notes := g.ExpireOverdue(p); notes != nil {
		t.Errorf("limitless quest expired: %v", notes)
	}
	if p.QuestStatus("q") != types.QuestActive {
		t.Errorf("status = %v, want active", p.QuestStatus("q"))
	}
}

func TestCurrentStep_BranchRedirects(t *testing.T) {
	def := twoStep("steady_nights")
	def.Branches = []types.QuestBranch{{
		AtStep:  1,
		Faction: "dock_workers",
		MinRep:  10,
		Target:  "dock_inside_track",
	}}
	g, _ := newGraph(1, []*types.Event{
		stepEvent("steady_nights_s0"),
		stepEvent("steady_nights_s1"),
		stepEvent("dock_inside_track"),
	}, def)
	p := state.NewPlayer()
	g.Start(p, "steady_nights")
	g.Advance(p, "steady_nights", 1)

	if step := g.CurrentStep(p, "steady_nights"); step == nil || step.ID != "steady_nights_s1" {
		t.Fatalf("below threshold: step = %v, want nominal path", step)
	}

	p.Reputation["dock_workers"] = 10
	if step := g.CurrentStep(p, "steady_nights"); step == nil || step.ID != "dock_inside_track" {
		t.Fatalf("at threshold: step = %v, want branch target", step)
	}
}

func TestCurrentStep_FlagBranch(t *testing.T) {
	def := twoStep("q")
	def.Branches = []types.QuestBranch{{AtStep: 0, Flag: "crossed_crew", Target: "q_alt"}}
	g, _ := newGraph(1, []*types.Event{
		stepEvent("q_s0"), stepEvent("q_s1"), stepEvent("q_alt"),
	}, def)
	p := state.NewPlayer()
	g.Start(p, "q")

	if step := g.CurrentStep(p, "q"); step.ID != "q_s0" {
		t.Fatalf("flag unset: step = %q, want q_s0", step.ID)
	}
	p.SetFlag("crossed_crew", 1)
	if step := g.CurrentStep(p, "q"); step.ID != "q_alt" {
		t.Fatalf("flag set: step = %q, want q_alt", step.ID)
	}
}
