// Package quest tracks multi-step quest instances over the player state.
// Each quest moves not_started → active → {completed, failed}; completed is
// terminal and append-only, and transition effects apply exactly once.
package quest

import (
	"fmt"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/outcome"
	"github.com/nathoo/streetcore/engine/state"
	"github.com/nathoo/streetcore/types"
)

// Graph advances quests against the loaded quest definitions.
type Graph struct {
	cat  *catalog.Catalog
	deps outcome.Deps
}

// NewGraph creates a quest graph over the catalog.
func NewGraph(cat *catalog.Catalog, deps outcome.Deps) *Graph {
	return &Graph{cat: cat, deps: deps}
}

// Start activates a quest: progress zero, active-list membership, and a
// "<id>_started" flag stamped with the current day for time limits.
// Starting is idempotent — a quest already past not_started is left alone.
func (g *Graph) Start(p *state.Player, id string) bool {
	def, ok := g.cat.Quests[id]
	if !ok {
		g.warnf("quest %q: unknown id, start ignored", id)
		return false
	}
	if p.QuestStatus(id) != types.QuestNotStarted {
		return false
	}
	p.QuestProgress[id] = 0
	p.ActiveQuests = append(p.ActiveQuests, id)
	day := 0
	if g.deps.Clock != nil {
		day = g.deps.Clock.Day()
	}
	p.SetFlag(def.ID+"_started", day)
	return true
}

// CurrentStep returns the event for the quest's current step, honoring
// branch redirects, or nil when the quest is not active or already past
// its last step.
func (g *Graph) CurrentStep(p *state.Player, id string) *types.Event {
	def, ok := g.cat.Quests[id]
	if !ok || p.QuestStatus(id) != types.QuestActive {
		return nil
	}
	step := p.QuestProgress[id]
	if step < 0 || step >= len(def.Steps) {
		return nil
	}
	if target := g.branchTarget(p, def, step); target != "" {
		if ev, ok := g.cat.Event(target); ok {
			return ev
		}
		g.warnf("quest %q: branch target %q not in catalog", id, target)
	}
	ev, ok := g.cat.Event(def.Steps[step])
	if !ok {
		g.warnf("quest %q: step %d event %q not in catalog", id, step, def.Steps[step])
		return nil
	}
	return ev
}

// Advance raises a quest's progress counter by the given amount (never
// lowering it) and returns the next step event, or nil when the quest
// finished or has no playable next step. Reaching the step count completes
// the quest and applies completion effects exactly once.
func (g *Graph) Advance(p *state.Player, id string, by int) (*types.Event, []string) {
	def, ok := g.cat.Quests[id]
	if !ok {
		g.warnf("quest %q: unknown id, advance ignored", id)
		return nil, nil
	}
	if p.QuestStatus(id) != types.QuestActive {
		return nil, nil
	}
	if by < 0 {
		g.warnf("quest %q: negative advance %d ignored", id, by)
		by = 0
	}
	p.QuestProgress[id] += by

	if p.QuestProgress[id] >= len(def.Steps) {
		return nil, g.complete(p, def)
	}
	return g.CurrentStep(p, id), nil
}

// complete moves a quest to its terminal completed state. Effects run once;
// the id is never removed from the completed set afterward.
func (g *Graph) complete(p *state.Player, def *types.QuestDef) []string {
	p.RemoveActiveQuest(def.ID)
	p.CompletedQuests[def.ID] = true

	day := 0
	if g.deps.Clock != nil {
		day = g.deps.Clock.Day()
	}
	p.SetFlag(def.ID+"_completed", day)

	notes := []string{fmt.Sprintf("Quest complete: %s", def.Title)}
	if !def.OnComplete.IsZero() {
		sum := outcome.Apply(def.OnComplete, p, g.deps)
		notes = append(notes, sum.Notifications...)
		if sum.Message != "" {
			notes = append(notes, sum.Message)
		}
	}
	if def.Follows != "" {
		if g.Start(p, def.Follows) {
			if next, ok := g.cat.Quests[def.Follows]; ok {
				notes = append(notes, fmt.Sprintf("New quest: %s", next.Title))
			}
		}
	}
	return notes
}

// fail moves a quest to its terminal failed state. Penalties apply exactly
// once, here and nowhere else, against the player passed in — failure has a
// single call site by design.
func (g *Graph) fail(p *state.Player, def *types.QuestDef) []string {
	p.RemoveActiveQuest(def.ID)
	p.FailedQuests[def.ID] = true

	day := 0
	if g.deps.Clock != nil {
		day = g.deps.Clock.Day()
	}
	p.SetFlag(def.ID+"_failed", day)

	notes := []string{fmt.Sprintf("Quest failed: %s", def.Title)}
	if !def.OnFail.IsZero() {
		sum := outcome.Apply(def.OnFail, p, g.deps)
		notes = append(notes, sum.Notifications...)
		if sum.Message != "" {
			notes = append(notes, sum.Message)
		}
	}
	return notes
}

// ExpireOverdue fails every active quest whose time limit has passed.
// The game loop calls this once per turn after advancing the clock.
func (g *Graph) ExpireOverdue(p *state.Player) []string {
	if g.deps.Clock == nil {
		return nil
	}
	day := g.deps.Clock.Day()

	var notes []string
	// Snapshot: fail mutates the active list.
	active := append([]string(nil), p.ActiveQuests...)
	for _, id := range active {
		def, ok := g.cat.Quests[id]
		if !ok || def.TimeLimit <= 0 {
			continue
		}
		started, ok := p.FlagDay(id + "_started")
		if !ok {
			continue
		}
		if day-started > def.TimeLimit {
			notes = append(notes, g.fail(p, def)...)
		}
	}
	return notes
}

// branchTarget returns the redirect event id when a branch condition
// matches the current step, or "" for the nominal path.
func (g *Graph) branchTarget(p *state.Player, def *types.QuestDef, step int) string {
	for _, br := range def.Branches {
		if br.AtStep != step {
			continue
		}
		if br.Faction != "" && p.Reputation[br.Faction] >= br.MinRep {
			return br.Target
		}
		if br.Flag != "" && p.StoryFlags[br.Flag] {
			return br.Target
		}
	}
	return ""
}

func (g *Graph) warnf(format string, args ...any) {
	if g.deps.Warn != nil {
		fmt.Fprintf(g.deps.Warn, "warning: "+format+"\n", args...)
	}
}
