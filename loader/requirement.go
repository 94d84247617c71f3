package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/streetcore/types"
)

// parseRequirement converts a raw authored requirement table into the typed
// predicate. Unknown or malformed clauses are dropped with warnings so one
// bad clause never disables the rest — unrecognized keys are ignored here,
// once, and evaluation never sees them.
func parseRequirement(raw map[string]any) (types.Requirement, []string) {
	var req types.Requirement
	var warns []string
	warn := func(format string, args ...any) {
		warns = append(warns, fmt.Sprintf(format, args...))
	}

	for _, s := range strList(raw["period"]) {
		if p, ok := periods[s]; ok {
			req.Periods = append(req.Periods, p)
		} else {
			warn("requirement period %q: unknown; ignored", s)
		}
	}
	for _, s := range strList(raw["weather"]) {
		if w, ok := weathers[s]; ok {
			req.Weathers = append(req.Weathers, w)
		} else {
			warn("requirement weather %q: unknown; ignored", s)
		}
	}
	for _, s := range strList(raw["danger"]) {
		if t, ok := tiers[s]; ok {
			req.DangerTiers = append(req.DangerTiers, t)
		} else {
			warn("requirement danger tier %q: unknown; ignored", s)
		}
	}

	if stats, ok := raw["stats"].(map[string]any); ok {
		for name, bounds := range stats {
			stat, ok := statNames[name]
			if !ok {
				warn("requirement stat %q: unknown; ignored", name)
				continue
			}
			b := types.StatBound{Stat: stat}
			if bm, ok := bounds.(map[string]any); ok {
				if v, ok := toFloat(bm["min"]); ok {
					b.Min = &v
				}
				if v, ok := toFloat(bm["max"]); ok {
					b.Max = &v
				}
			} else if v, ok := toFloat(bounds); ok {
				// Bare number shorthand for a minimum.
				b.Min = &v
			} else {
				warn("requirement stat %q: expected table or number; ignored", name)
				continue
			}
			req.Stats = append(req.Stats, b)
		}
	}

	if items, ok := raw["items"].(map[string]any); ok {
		for name, qty := range items {
			q, ok := toFloat(qty)
			if !ok || q < 1 {
				warn("requirement item %q: bad quantity; ignored", name)
				continue
			}
			req.Items = append(req.Items, types.ItemReq{Item: name, Qty: int(q)})
		}
	}

	if skills, ok := raw["skills"].(map[string]any); ok {
		for name, min := range skills {
			m, ok := toFloat(min)
			if !ok {
				warn("requirement skill %q: bad level; ignored", name)
				continue
			}
			req.Skills = append(req.Skills, types.SkillReq{Skill: name, Min: int(m)})
		}
	}

	if reps, ok := raw["reputation"].(map[string]any); ok {
		for faction, bounds := range reps {
			rr := types.RepReq{Faction: faction}
			if bm, ok := bounds.(map[string]any); ok {
				if v, ok := toFloat(bm["min"]); ok {
					n := int(v)
					rr.Min = &n
				}
				if v, ok := toFloat(bm["max"]); ok {
					n := int(v)
					rr.Max = &n
				}
			} else if v, ok := toFloat(bounds); ok {
				n := int(v)
				rr.Min = &n
			} else {
				warn("requirement reputation %q: expected table or number; ignored", faction)
				continue
			}
			req.Reputation = append(req.Reputation, rr)
		}
	}

	if flags, ok := raw["flags"].([]any); ok {
		for i, f := range flags {
			switch fv := f.(type) {
			case string:
				// "flag" requires set, "!flag" requires absent.
				fr := types.FlagReq{Flag: fv}
				if strings.HasPrefix(fv, "!") {
					fr.Flag = fv[1:]
					fr.Absent = true
				}
				req.Flags = append(req.Flags, fr)
			case map[string]any:
				fr := types.FlagReq{Flag: str(fv["flag"]), Absent: boolean(fv["absent"])}
				if v, ok := toFloat(fv["days_since"]); ok {
					fr.MinDaysSince = int(v)
				}
				if fr.Flag == "" {
					warn("requirement flags[%d]: missing flag name; ignored", i)
					continue
				}
				req.Flags = append(req.Flags, fr)
			default:
				warn("requirement flags[%d]: expected string or table; ignored", i)
			}
		}
	}

	for _, key := range []string{"all", "any"} {
		subs, ok := raw[key].([]any)
		if !ok {
			continue
		}
		for i, sub := range subs {
			sm, ok := sub.(map[string]any)
			if !ok {
				warn("requirement %s[%d]: expected table; ignored", key, i)
				continue
			}
			parsed, w := parseRequirement(sm)
			warns = append(warns, w...)
			if key == "all" {
				req.All = append(req.All, parsed)
			} else {
				req.Any = append(req.Any, parsed)
			}
		}
	}

	for key := range raw {
		if !knownReqKeys[key] {
			warn("requirement key %q: unrecognized; ignored", key)
		}
	}

	return req, warns
}

var knownReqKeys = map[string]bool{
	"period": true, "weather": true, "danger": true, "stats": true,
	"items": true, "skills": true, "reputation": true, "flags": true,
	"all": true, "any": true,
}

var periods = map[string]types.TimePeriod{
	"morning": types.Morning, "afternoon": types.Afternoon,
	"evening": types.Evening, "night": types.Night,
}

var weathers = map[string]types.Weather{
	"clear": types.Clear, "overcast": types.Overcast, "rain": types.Rain,
	"storm": types.Storm, "snow": types.Snow, "heatwave": types.Heatwave,
	"cold_snap": types.ColdSnap,
}

var tiers = map[string]types.DangerTier{
	"low": types.DangerLow, "medium": types.DangerMedium, "high": types.DangerHigh,
}

var statNames = map[string]types.Stat{
	"health": types.Health, "satiety": types.Satiety, "energy": types.Energy,
	"mental": types.Mental, "hygiene": types.Hygiene,
}

// strList accepts a single string or a list of strings; anything else
// yields nil.
func strList(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		var out []string
		for _, e := range val {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
