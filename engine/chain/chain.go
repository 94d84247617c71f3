// Package chain decides what happens after a choice resolves: a direct
// event-to-event link, a quest step advance, or nothing. Resolve returns
// the next event instead of recursing — the caller loops (trampoline), so
// chain depth never grows the call stack.
package chain

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/quest"
	"github.com/nathoo/streetcore/engine/rules"
	"github.com/nathoo/streetcore/engine/state"
	"github.com/nathoo/streetcore/types"
)

// Resolver decides follow-up events.
type Resolver struct {
	cat    *catalog.Catalog
	quests *quest.Graph
	warn   io.Writer
}

// NewResolver creates a chain resolver over the catalog and quest graph.
func NewResolver(cat *catalog.Catalog, quests *quest.Graph, warn io.Writer) *Resolver {
	return &Resolver{cat: cat, quests: quests, warn: warn}
}

// Resolve returns the follow-up event for a resolved choice, or nil when
// the interaction ends. Decision order: chain links first (text-substring
// match, then index match, each behind its own guard), then quest-progress
// delegation. Choice gating and outcome application on the returned event
// still run normally in the caller's loop.
func (r *Resolver) Resolve(ev *types.Event, choiceIdx int, choice types.Choice, p *state.Player, clock types.Clock, site types.Site) (*types.Event, []string) {
	if next := r.chainLink(ev, choiceIdx, choice, p, clock, site); next != nil {
		return next, nil
	}
	return r.questAdvance(choice, p)
}

func (r *Resolver) chainLink(ev *types.Event, choiceIdx int, choice types.Choice, p *state.Player, clock types.Clock, site types.Site) *types.Event {
	text := strings.ToLower(choice.Text)
	for _, link := range ev.Chains {
		matched := false
		if link.Match != "" {
			matched = strings.Contains(text, strings.ToLower(link.Match))
		} else {
			matched = link.Index == choiceIdx
		}
		if !matched {
			continue
		}
		if !rules.Meets(link.Guard, p, clock, site) {
			continue
		}
		next, ok := r.cat.Event(link.Next)
		if !ok {
			r.warnf("event %q: chain target %q not in catalog", ev.ID, link.Next)
			continue
		}
		return next
	}
	return nil
}

// questAdvance feeds the choice's quest-progress increments to the graph.
// A progress effect on a quest the player hasn't started starts it first.
func (r *Resolver) questAdvance(choice types.Choice, p *state.Player) (*types.Event, []string) {
	if len(choice.Outcome.QuestProgress) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(choice.Outcome.QuestProgress))
	for id := range choice.Outcome.QuestProgress {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var next *types.Event
	var notes []string
	for _, id := range ids {
		by := choice.Outcome.QuestProgress[id]
		if p.QuestStatus(id) == types.QuestNotStarted {
			r.quests.Start(p, id)
		}
		step, stepNotes := r.quests.Advance(p, id, by)
		notes = append(notes, stepNotes...)
		if next == nil {
			next = step
		}
	}
	return next, notes
}

func (r *Resolver) warnf(format string, args ...any) {
	if r.warn != nil {
		fmt.Fprintf(r.warn, "warning: "+format+"\n", args...)
	}
}
