// Package selector picks the next encounter. Candidates come from the
// catalog filtered by requirement evaluation, weights adjust for weather,
// danger, and repetition, and an empty pool falls back to a synthesized
// event — Select never returns nil.
package selector

import (
	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/rules"
	"github.com/nathoo/streetcore/engine/state"
	"github.com/nathoo/streetcore/types"
)

// Rand is the draw source. The engine's RNG satisfies it.
type Rand interface {
	WeightedIndex(weights []float64) int
}

// Selector draws events from the loaded catalog.
type Selector struct {
	cat     *catalog.Catalog
	rng     Rand
	weights Weights
}

// New creates a selector over the catalog with the given tuning table.
func New(cat *catalog.Catalog, rng Rand, weights Weights) *Selector {
	if weights.Base <= 0 {
		weights = DefaultWeights()
	}
	return &Selector{cat: cat, rng: rng, weights: weights}
}

// Select draws one event for the current context from the whole catalog
// (quest steps excluded — the quest graph drives those directly). The chosen
// id is recorded into the player's bounded event history.
func (s *Selector) Select(p *state.Player, clock types.Clock, site types.Site) *types.Event {
	pool := s.pool(p, clock, site, func(ev *types.Event) bool {
		return ev.Type != types.QuestEvent
	})
	ev := s.draw(pool)
	if ev == nil {
		ev = FallbackGeneric(clock.Period(), siteTier(site))
	}
	p.RecordEvent(ev.ID)
	return ev
}

// SelectTravel draws from travel-tagged events, with a road fallback.
func (s *Selector) SelectTravel(p *state.Player, clock types.Clock) *types.Event {
	return s.selectTyped(p, clock, nil, types.Travel, FallbackTravel(clock.Period()))
}

// SelectShelter draws from shelter-tagged events; quality keys the fallback.
func (s *Selector) SelectShelter(p *state.Player, clock types.Clock, site types.Site, quality string) *types.Event {
	return s.selectTyped(p, clock, site, types.Shelter, FallbackShelter(quality))
}

// SelectDanger draws from danger-tagged events, falling back to a generic
// confrontation keyed by the site's danger tier.
func (s *Selector) SelectDanger(p *state.Player, clock types.Clock, site types.Site) *types.Event {
	return s.selectTyped(p, clock, site, types.Danger, FallbackDanger(siteTier(site)))
}

// SelectWaiting draws from waiting-tagged events.
func (s *Selector) SelectWaiting(p *state.Player, clock types.Clock, site types.Site) *types.Event {
	return s.selectTyped(p, clock, site, types.Waiting, FallbackWaiting(clock.Period()))
}

// SelectJob draws from job-tagged events; jobKind keys the fallback.
func (s *Selector) SelectJob(p *state.Player, clock types.Clock, site types.Site, jobKind string) *types.Event {
	return s.selectTyped(p, clock, site, types.Job, FallbackJob(jobKind))
}

func (s *Selector) selectTyped(p *state.Player, clock types.Clock, site types.Site, t types.EventType, fallback *types.Event) *types.Event {
	pool := s.pool(p, clock, site, func(ev *types.Event) bool {
		return ev.Type == t
	})
	ev := s.draw(pool)
	if ev == nil {
		ev = fallback
	}
	p.RecordEvent(ev.ID)
	return ev
}

type candidate struct {
	event  *types.Event
	weight float64
}

// pool builds the weighted candidate list in catalog order so equal-weight
// draws resolve stably.
func (s *Selector) pool(p *state.Player, clock types.Clock, site types.Site, keep func(*types.Event) bool) []candidate {
	var pool []candidate
	for _, ev := range s.cat.Events {
		if !keep(ev) {
			continue
		}
		if ev.Locked && !p.UnlockedEvents[ev.ID] {
			continue
		}
		if !rules.Meets(ev.Requires, p, clock, site) {
			continue
		}
		pool = append(pool, candidate{event: ev, weight: s.weigh(ev, p, clock, site)})
	}
	return pool
}

// weigh applies the tuning table's multiplicative adjustments to the base
// candidate weight.
func (s *Selector) weigh(ev *types.Event, p *state.Player, clock types.Clock, site types.Site) float64 {
	w := s.weights.Base
	if ev.Type == types.WeatherKind && clock.HarshWeather() {
		w *= s.weights.HarshWeatherBoost
	}
	if site != nil {
		switch types.TierOf(site.DangerLevel()) {
		case types.DangerHigh:
			if ev.Type == types.Danger {
				w *= s.weights.DangerHighBoost
			}
		case types.DangerLow:
			if ev.Type == types.Opportunity {
				w *= s.weights.OpportunityLowBoost
			}
		}
	}
	if p.RecentlySeen(ev.ID, s.weights.RecentWindow) {
		w *= s.weights.RecentPenalty
	}
	return w
}

// draw samples one candidate by weighted random draw, or nil for an empty
// pool.
func (s *Selector) draw(pool []candidate) *types.Event {
	if len(pool) == 0 {
		return nil
	}
	weights := make([]float64, len(pool))
	for i, c := range pool {
		weights[i] = c.weight
	}
	idx := s.rng.WeightedIndex(weights)
	if idx < 0 {
		idx = 0
	}
	return pool[idx].event
}

// ScaleFor derives the difficulty factor for a site: each danger level above
// the low tier adds one tuning step.
func (s *Selector) ScaleFor(site types.Site) float64 {
	if site == nil {
		return 1
	}
	over := site.DangerLevel() - 3
	if over <= 0 {
		return 1
	}
	return 1 + float64(over)*s.weights.DangerScaleStep
}

func siteTier(site types.Site) types.DangerTier {
	if site == nil {
		return types.DangerLow
	}
	return types.TierOf(site.DangerLevel())
}
