package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/selector"
	"github.com/nathoo/streetcore/types"
)

type fakeClock struct {
	day int
}

func (c fakeClock) Day() int                 { return c.day }
func (c fakeClock) Period() types.TimePeriod { return types.Morning }
func (c fakeClock) Weather() types.Weather   { return types.Clear }
func (c fakeClock) HarshWeather() bool       { return false }

func weightsForTest() selector.Weights {
	return selector.DefaultWeights()
}

func TestChoose_FailedRollAppliesFailOutcome(t *testing.T) {
	ev := &types.Event{
		ID:    "dumpster_find",
		Title: "Dumpster Find",
		Choices: []types.Choice{{
			Text:          "Dig through it",
			SuccessChance: 0.55,
			Outcome:       types.Outcome{Stats: map[types.Stat]float64{types.Satiety: 15}},
			FailOutcome:   types.Outcome{Stats: map[types.Stat]float64{types.Hygiene: -10}},
		}},
	}
	cat := catalog.New(types.GameDef{Title: "t"}, []*types.Event{ev})
	s := New(cat, weightsForTest(), 1, &bytes.Buffer{})
	s.Bind(fakeClock{day: 1})

	// Seed 1's first unit draw is above 0.55, so this roll fails.
	clock := fakeClock{day: 1}
	pres := s.present(ev, clock, nil, 0)
	res, err := s.Choose(pres, 0, clock, nil)
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if !res.Summary.Failed {
		t.Fatal("expected the success roll to fail")
	}
	if s.Player.Satiety != 60 {
		t.Errorf("Satiety = %v, want unchanged 60", s.Player.Satiety)
	}
	if s.Player.Hygiene != 40 {
		t.Errorf("Hygiene = %v, want 40 (fail penalty)", s.Player.Hygiene)
	}
	if s.Journal.Len() != 1 {
		t.Errorf("journal entries = %d, want 1", s.Journal.Len())
	}
}

func TestChoose_CertainChoiceSkipsRoll(t *testing.T) {
	ev := &types.Event{
		ID:    "soup_kitchen",
		Title: "Soup Kitchen",
		Choices: []types.Choice{{
			Text:    "Wait in line",
			Outcome: types.Outcome{Stats: map[types.Stat]float64{types.Satiety: 20}},
		}},
	}
	cat := catalog.New(types.GameDef{Title: "t"}, []*types.Event{ev})
	s := New(cat, weightsForTest(), 1, &bytes.Buffer{})
	s.Bind(fakeClock{day: 1})

	clock := fakeClock{day: 1}
	res, err := s.Choose(s.present(ev, clock, nil, 0), 0, clock, nil)
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if res.Summary.Failed {
		t.Error("zero SuccessChance must always succeed")
	}
	if s.RNG.Position() != 0 {
		t.Errorf("rng position = %d, want 0 (no roll consumed)", s.RNG.Position())
	}
	if s.Player.Satiety != 80 {
		t.Errorf("Satiety = %v, want 80", s.Player.Satiety)
	}
}

func TestPresent_SynthesizesWalkAway(t *testing.T) {
	ev := &types.Event{
		ID:    "locked_door",
		Title: "Locked Door",
		Choices: []types.Choice{{
			Text:     "Pick the lock",
			Requires: types.Requirement{Items: []types.ItemReq{{Item: "pick", Qty: 1}}},
		}},
	}
	cat := catalog.New(types.GameDef{Title: "t"}, []*types.Event{ev})
	s := New(cat, weightsForTest(), 1, &bytes.Buffer{})
	s.Bind(fakeClock{day: 1})
	clock := fakeClock{day: 1}

	pres := s.present(ev, clock, nil, 0)
	if len(pres.Options) != 2 {
		t.Fatalf("options = %d, want gated choice plus walk-away", len(pres.Options))
	}
	if pres.Options[0].Enabled {
		t.Error("unmet choice should be disabled")
	}
	if pres.Options[0].Reason == "" {
		t.Error("disabled choice should carry a reason")
	}
	if !pres.Options[1].Enabled || pres.Options[1].Text != "Walk away" {
		t.Errorf("synthetic option = %+v", pres.Options[1])
	}

	if _, err := s.Choose(pres, 0, clock, nil); !errors.Is(err, ErrChoiceLocked) {
		t.Errorf("choosing a disabled option: err = %v, want ErrChoiceLocked", err)
	}

	res, err := s.Choose(pres, 1, clock, nil)
	if err != nil {
		t.Fatalf("walk away: %v", err)
	}
	if res.Summary.Message != "You continue on your way." {
		t.Errorf("message = %q", res.Summary.Message)
	}
	if res.Next != nil {
		t.Error("walk-away must not chain")
	}
	if s.Journal.Len() != 0 {
		t.Error("walk-away must not be journaled")
	}
}

func TestChoose_InvalidIndex(t *testing.T) {
	ev := &types.Event{ID: "e", Title: "E", Choices: []types.Choice{{Text: "Go"}}}
	cat := catalog.New(types.GameDef{Title: "t"}, []*types.Event{ev})
	s := New(cat, weightsForTest(), 1, &bytes.Buffer{})
	s.Bind(fakeClock{day: 1})
	clock := fakeClock{day: 1}
	pres := s.present(ev, clock, nil, 0)

	if _, err := s.Choose(pres, -1, clock, nil); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("index -1: err = %v, want ErrInvalidChoice", err)
	}
	if _, err := s.Choose(pres, 5, clock, nil); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("index 5: err = %v, want ErrInvalidChoice", err)
	}
}

func TestChoose_ChainHopBound(t *testing.T) {
	loop := &types.Event{
		ID:      "loop",
		Title:   "Loop",
		Choices: []types.Choice{{Text: "Try again"}},
		Chains:  []types.ChainLink{{Match: "again", Next: "loop"}},
	}
	cat := catalog.New(types.GameDef{Title: "t"}, []*types.Event{loop})
	var warn bytes.Buffer
	s := New(cat, weightsForTest(), 1, &warn)
	s.Bind(fakeClock{day: 1})
	clock := fakeClock{day: 1}

	pres := s.present(loop, clock, nil, 0)
	hops := 0
	for pres != nil {
		res, err := s.Choose(pres, 0, clock, nil)
		if err != nil {
			t.Fatalf("hop %d: %v", hops, err)
		}
		pres = res.Next
		hops++
		if hops > MaxChainHops+5 {
			t.Fatal("chain did not terminate")
		}
	}
	if hops != MaxChainHops+1 {
		t.Errorf("resolved %d hops, want %d", hops, MaxChainHops+1)
	}
	if !strings.Contains(warn.String(), "exceeded") {
		t.Errorf("warn sink = %q, want hop-bound warning", warn.String())
	}
}

func TestChoose_ChainTransitionPresentsNext(t *testing.T) {
	job := &types.Event{ID: "boxes_job", Title: "Boxes", Choices: []types.Choice{{Text: "Stack them"}}}
	offer := &types.Event{
		ID:      "stranger_offer",
		Title:   "An Offer",
		Choices: []types.Choice{{Text: "Accept"}, {Text: "Decline"}},
		Chains:  []types.ChainLink{{Match: "accept", Next: "boxes_job"}},
	}
	cat := catalog.New(types.GameDef{Title: "t"}, []*types.Event{offer, job})
	s := New(cat, weightsForTest(), 1, &bytes.Buffer{})
	s.Bind(fakeClock{day: 1})
	clock := fakeClock{day: 1}

	res, err := s.Choose(s.present(offer, clock, nil, 0), 0, clock, nil)
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if res.Next == nil || res.Next.Event.ID != "boxes_job" {
		t.Fatalf("Next = %v, want boxes_job presentation", res.Next)
	}

	res, err = s.Choose(s.present(offer, clock, nil, 0), 1, clock, nil)
	if err != nil {
		t.Fatalf("Choose decline: %v", err)
	}
	if res.Next != nil {
		t.Errorf("decline should not chain, got %q", res.Next.Event.ID)
	}
}

func TestSession_QuestLifecycleThroughSession(t *testing.T) {
	step := &types.Event{
		ID: "caseworker_meet", Title: "Caseworker", Type: types.QuestEvent,
		Choices: []types.Choice{{Text: "Talk"}},
	}
	cat := catalog.New(types.GameDef{Title: "t"}, []*types.Event{step})
	cat.Quests["paper_trail"] = &types.QuestDef{
		ID: "paper_trail", Title: "Paper Trail",
		Steps: []string{"caseworker_meet"}, TimeLimit: 2,
	}
	s := New(cat, weightsForTest(), 1, &bytes.Buffer{})
	s.Bind(fakeClock{day: 1})

	if !s.StartQuest("paper_trail") {
		t.Fatal("StartQuest failed")
	}
	pres := s.EncounterQuest(fakeClock{day: 1}, nil, "paper_trail")
	if pres == nil || pres.Event.ID != "caseworker_meet" {
		t.Fatalf("EncounterQuest = %v, want caseworker_meet", pres)
	}

	// Past the time limit the quest fails on expiry.
	s.Bind(fakeClock{day: 5})
	notes := s.ExpireQuests()
	if len(notes) == 0 || !strings.Contains(notes[0], "failed") {
		t.Errorf("expiry notes = %v", notes)
	}
	if s.EncounterQuest(fakeClock{day: 5}, nil, "paper_trail") != nil {
		t.Error("failed quest should present no step")
	}
}

func TestSession_RestoreRNGReplays(t *testing.T) {
	cat := catalog.New(types.GameDef{Title: "t"}, nil)
	s := New(cat, weightsForTest(), 9, &bytes.Buffer{})
	for i := 0; i < 6; i++ {
		s.RNG.Roll(6)
	}
	pos := s.RNG.Position()
	want := []int{s.RNG.Roll(6), s.RNG.Roll(6), s.RNG.Roll(6)}

	s.RestoreRNG(9, pos)
	for i, w := range want {
		if got := s.RNG.Roll(6); got != w {
			t.Fatalf("replayed roll %d = %d, want %d", i, got, w)
		}
	}
}
