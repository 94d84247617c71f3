// Package engine wires selection, gating, outcome application, journaling,
// and chain resolution into a session. The frontends drive a trampoline:
// Encounter presents an event, Choose resolves one choice and hands back
// either a follow-up presentation or nothing.
package engine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/chain"
	"github.com/nathoo/streetcore/engine/journal"
	"github.com/nathoo/streetcore/engine/outcome"
	"github.com/nathoo/streetcore/engine/quest"
	"github.com/nathoo/streetcore/engine/reputation"
	"github.com/nathoo/streetcore/engine/rules"
	"github.com/nathoo/streetcore/engine/selector"
	"github.com/nathoo/streetcore/engine/state"
	"github.com/nathoo/streetcore/types"
)

// MaxChainHops bounds follow-up chains per turn. Authored content should
// never get close; hitting the bound means malformed data, so the engine
// warns and stops rather than looping.
const MaxChainHops = 20

// ErrInvalidChoice reports an out-of-range choice index. Frontends re-prompt.
var ErrInvalidChoice = errors.New("invalid choice")

// ErrChoiceLocked reports a displayed-but-ineligible choice. Frontends re-prompt.
var ErrChoiceLocked = errors.New("choice requirements not met")

// Session holds one game's engine state. Exactly one player per session.
type Session struct {
	Cat     *catalog.Catalog
	Player  *state.Player
	RNG     *RNG
	Journal *journal.Journal
	Quests  *quest.Graph
	Chains  *chain.Resolver
	Rep     *reputation.Book

	sel     *selector.Selector
	weights selector.Weights
	warn    io.Writer
}

// Option is one gated choice as shown to the player.
type Option struct {
	Index   int
	Text    string
	Enabled bool
	Reason  string // why a disabled option is unavailable
}

// Presented is an event ready for display, with per-choice gating applied.
type Presented struct {
	Event   *types.Event
	Options []Option
	hops    int
}

// Resolution is the result of one resolved choice.
type Resolution struct {
	Summary types.Summary
	Notes   []string   // quest transitions, insights
	Next    *Presented // non-nil when a chain or quest step follows
}

// New creates a session over loaded content. A nil warn sink defaults to
// stderr; pass io.Discard to silence it.
func New(cat *catalog.Catalog, weights selector.Weights, seed int64, warn io.Writer) *Session {
	if warn == nil {
		warn = os.Stderr
	}
	rng := NewRNG(seed)
	rep := reputation.NewBook(cat)
	s := &Session{
		Cat:     cat,
		Player:  state.NewPlayer(),
		RNG:     rng,
		Journal: journal.New(),
		Rep:     rep,
		sel:     selector.New(cat, rng, weights),
		weights: weights,
		warn:    warn,
	}
	return s
}

// Bind finishes wiring once the clock exists. The quest graph and chain
// resolver need the clock for day-stamped flags and guard evaluation.
func (s *Session) Bind(clock types.Clock) {
	deps := s.deps(clock)
	s.Quests = quest.NewGraph(s.Cat, deps)
	s.Chains = chain.NewResolver(s.Cat, s.Quests, s.warn)
}

func (s *Session) deps(clock types.Clock) outcome.Deps {
	return outcome.Deps{Cat: s.Cat, Rep: s.Rep, Clock: clock, Warn: s.warn}
}

// Encounter selects and presents the next general event for the context.
func (s *Session) Encounter(clock types.Clock, site types.Site) *Presented {
	ev := s.sel.Select(s.Player, clock, site)
	ev = ev.Scaled(s.sel.ScaleFor(site))
	return s.present(ev, clock, site, 0)
}

// EncounterTravel presents a travel event (no physical site).
func (s *Session) EncounterTravel(clock types.Clock) *Presented {
	return s.present(s.sel.SelectTravel(s.Player, clock), clock, nil, 0)
}

// EncounterShelter presents a shelter event for the given quality.
func (s *Session) EncounterShelter(clock types.Clock, site types.Site, quality string) *Presented {
	return s.present(s.sel.SelectShelter(s.Player, clock, site, quality), clock, site, 0)
}

// EncounterDanger presents a danger event, difficulty-scaled to the site.
func (s *Session) EncounterDanger(clock types.Clock, site types.Site) *Presented {
	ev := s.sel.SelectDanger(s.Player, clock, site)
	ev = ev.Scaled(s.sel.ScaleFor(site))
	return s.present(ev, clock, site, 0)
}

// EncounterWaiting presents an idle event.
func (s *Session) EncounterWaiting(clock types.Clock, site types.Site) *Presented {
	return s.present(s.sel.SelectWaiting(s.Player, clock, site), clock, site, 0)
}

// EncounterJob presents a work event for the given job kind.
func (s *Session) EncounterJob(clock types.Clock, site types.Site, jobKind string) *Presented {
	return s.present(s.sel.SelectJob(s.Player, clock, site, jobKind), clock, site, 0)
}

// EncounterQuest presents the current step of an active quest, or nil.
func (s *Session) EncounterQuest(clock types.Clock, site types.Site, questID string) *Presented {
	ev := s.Quests.CurrentStep(s.Player, questID)
	if ev == nil {
		return nil
	}
	return s.present(ev, clock, site, 0)
}

// present gates each choice individually. Unmet choices stay visible but
// disabled, with a reason. An event whose choices are all disabled gets a
// synthetic walk-away option so the player is never stuck.
func (s *Session) present(ev *types.Event, clock types.Clock, site types.Site, hops int) *Presented {
	pres := &Presented{Event: ev, hops: hops}
	anyEnabled := false
	for i, c := range ev.Choices {
		opt := Option{Index: i, Text: c.Text, Enabled: true}
		if !rules.Meets(c.Requires, s.Player, clock, site) {
			opt.Enabled = false
			opt.Reason = reasonFor(c.Requires, s.Player, clock, site)
		} else {
			anyEnabled = true
		}
		pres.Options = append(pres.Options, opt)
	}
	if !anyEnabled {
		pres.Options = append(pres.Options, Option{
			Index:   len(ev.Choices),
			Text:    "Walk away",
			Enabled: true,
		})
	}
	return pres
}

// Choose resolves one option of a presented event: gate check, success
// roll, outcome application, journaling, and chain resolution. A returned
// Next presentation means the caller should immediately present it and
// call Choose again — selection is skipped on direct transitions, but
// choice gating and outcomes run normally.
func (s *Session) Choose(pres *Presented, idx int, clock types.Clock, site types.Site) (Resolution, error) {
	if idx < 0 || idx >= len(pres.Options) {
		return Resolution{}, ErrInvalidChoice
	}
	opt := pres.Options[idx]
	if !opt.Enabled {
		return Resolution{}, ErrChoiceLocked
	}

	// Synthetic walk-away option: no outcome, no chain.
	if idx >= len(pres.Event.Choices) {
		return Resolution{Summary: types.Summary{Message: "You continue on your way."}}, nil
	}

	choice := pres.Event.Choices[idx]
	applied := choice.Outcome
	failed := false
	if choice.SuccessChance > 0 && choice.SuccessChance < 1 {
		if !s.RNG.Chance(choice.SuccessChance) {
			applied = choice.FailOutcome
			failed = true
		}
	}

	summary := outcome.Apply(applied, s.Player, s.deps(clock))
	summary.Failed = failed

	s.Journal.Append(journal.Entry{
		Day:        clock.Day(),
		EventID:    pres.Event.ID,
		EventTitle: pres.Event.Title,
		Choice:     choice.Text,
		Summary:    summary,
	})
	s.Player.RememberChoice(types.ChoiceMemo{
		EventID: pres.Event.ID,
		Choice:  choice.Text,
		Note:    summary.Message,
	})

	res := Resolution{Summary: summary}
	res.Notes = append(res.Notes, s.Journal.Insights()...)

	next, questNotes := s.Chains.Resolve(pres.Event, idx, choice, s.Player, clock, site)
	res.Notes = append(res.Notes, questNotes...)

	if next != nil {
		if pres.hops+1 > MaxChainHops {
			fmt.Fprintf(s.warn, "warning: event %q: chain exceeded %d hops; stopping\n",
				pres.Event.ID, MaxChainHops)
		} else {
			res.Next = s.present(next, clock, site, pres.hops+1)
		}
	}
	return res, nil
}

// ExpireQuests fails overdue quests. The game loop calls it after each
// day advance.
func (s *Session) ExpireQuests() []string {
	return s.Quests.ExpireOverdue(s.Player)
}

// StartQuest activates a quest by id.
func (s *Session) StartQuest(id string) bool {
	return s.Quests.Start(s.Player, id)
}

// RestoreRNG re-creates the RNG from seed and advances to the saved
// position, then rewires the selector's draw source.
func (s *Session) RestoreRNG(seed, position int64) {
	s.RNG = RestoreRNG(seed, position)
	s.sel = selector.New(s.Cat, s.RNG, s.weights)
}

// reasonFor names the first failing clause so disabled choices can explain
// themselves. The wording stays in-fiction; technical detail goes to the
// warn sink, not the player.
func reasonFor(req types.Requirement, p *state.Player, clock types.Clock, site types.Site) string {
	for _, b := range req.Stats {
		v := p.Stat(b.Stat)
		if b.Min != nil && v < *b.Min {
			return fmt.Sprintf("you're too worn down (%s too low)", b.Stat)
		}
		if b.Max != nil && v > *b.Max {
			return fmt.Sprintf("not while your %s is this high", b.Stat)
		}
	}
	for _, ir := range req.Items {
		if !p.HasItem(ir.Item, ir.Qty) {
			return fmt.Sprintf("you'd need %s for that", ir.Item)
		}
	}
	for _, sr := range req.Skills {
		if p.Skills[sr.Skill] < sr.Min {
			return fmt.Sprintf("you don't have the %s for that", sr.Skill)
		}
	}
	for _, rr := range req.Reputation {
		standing := p.Reputation[rr.Faction]
		if rr.Min != nil && standing < *rr.Min {
			return "they don't trust you enough"
		}
		if rr.Max != nil && standing > *rr.Max {
			return "you're too well known to them"
		}
	}
	if len(req.Periods) > 0 || len(req.Weathers) > 0 || len(req.DangerTiers) > 0 {
		return "not here, not now"
	}
	if !rules.Meets(req, p, clock, site) {
		return "not possible right now"
	}
	return ""
}
