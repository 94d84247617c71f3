// Package rules implements requirement evaluation. Meets is a pure
// predicate: it never mutates the player and short-circuits on the first
// failing clause. The same function gates whole events and single choices.
package rules

import (
	"github.com/nathoo/streetcore/engine/state"
	"github.com/nathoo/streetcore/types"
)

// Meets reports whether a requirement holds for the current world context.
// An empty requirement always holds. A nil site fails danger-tier clauses
// rather than erroring: "no location" matches no tier.
func Meets(req types.Requirement, p *state.Player, clock types.Clock, site types.Site) bool {
	if len(req.Periods) > 0 && !containsPeriod(req.Periods, clock.Period()) {
		return false
	}
	if len(req.Weathers) > 0 && !containsWeather(req.Weathers, clock.Weather()) {
		return false
	}
	if len(req.DangerTiers) > 0 {
		if site == nil {
			return false
		}
		if !containsTier(req.DangerTiers, types.TierOf(site.DangerLevel())) {
			return false
		}
	}
	for _, b := range req.Stats {
		v := p.Stat(b.Stat)
		if b.Min != nil && v < *b.Min {
			return false
		}
		if b.Max != nil && v > *b.Max {
			return false
		}
	}
	for _, ir := range req.Items {
		if !p.HasItem(ir.Item, ir.Qty) {
			return false
		}
	}
	for _, sr := range req.Skills {
		if p.Skills[sr.Skill] < sr.Min {
			return false
		}
	}
	for _, rr := range req.Reputation {
		standing := p.Reputation[rr.Faction]
		if rr.Min != nil && standing < *rr.Min {
			return false
		}
		if rr.Max != nil && standing > *rr.Max {
			return false
		}
	}
	for _, fr := range req.Flags {
		if !meetsFlag(fr, p, clock) {
			return false
		}
	}
	for _, sub := range req.All {
		if !Meets(sub, p, clock, site) {
			return false
		}
	}
	if len(req.Any) > 0 {
		ok := false
		for _, sub := range req.Any {
			if Meets(sub, p, clock, site) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func meetsFlag(fr types.FlagReq, p *state.Player, clock types.Clock) bool {
	set := p.StoryFlags[fr.Flag]
	if fr.Absent {
		return !set
	}
	if !set {
		return false
	}
	if fr.MinDaysSince > 0 {
		day, ok := p.FlagDay(fr.Flag)
		if !ok {
			return false
		}
		return clock.Day()-day >= fr.MinDaysSince
	}
	return true
}

func containsPeriod(list []types.TimePeriod, v types.TimePeriod) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsWeather(list []types.Weather, v types.Weather) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsTier(list []types.DangerTier, v types.DangerTier) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
