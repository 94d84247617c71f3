package outcome

import (
	"fmt"

	"github.com/nathoo/streetcore/types"
)

// Parse converts a raw authored outcome table into a validated Outcome.
// Malformed fields are replaced by safe zero/empty defaults and reported as
// warnings; one bad field never poisons the rest. The input map is never
// mutated. Legacy "hunger" deltas (higher = worse) are negated into satiety
// here, once, so every consumer downstream sees satiety only.
func Parse(raw map[string]any) (types.Outcome, []string) {
	var out types.Outcome
	var warns []string

	warn := func(format string, args ...any) {
		warns = append(warns, fmt.Sprintf(format, args...))
	}

	num := func(key string) (float64, bool) {
		v, ok := raw[key]
		if !ok {
			return 0, false
		}
		f, ok := toFloat(v)
		if !ok {
			warn("outcome field %q: expected number, got %T; using 0", key, v)
			return 0, false
		}
		return f, true
	}

	for _, s := range []types.Stat{types.Health, types.Energy, types.Mental, types.Hygiene} {
		if d, ok := num(string(s)); ok && d != 0 {
			if out.Stats == nil {
				out.Stats = map[types.Stat]float64{}
			}
			out.Stats[s] = d
		}
	}

	// Satiety and the legacy hunger alias merge additively into one delta.
	satiety, _ := num("satiety")
	if h, ok := num("hunger"); ok {
		satiety -= h
	}
	if satiety != 0 {
		if out.Stats == nil {
			out.Stats = map[types.Stat]float64{}
		}
		out.Stats[types.Satiety] += satiety
	}

	out.Money, _ = num("money")
	out.Heat, _ = num("heat")
	out.JobProspects, _ = num("job_prospects")
	out.HousingProspects, _ = num("housing_prospects")

	if v, ok := raw["items"]; ok {
		out.Items = parseIntMap(v, "items", true, warn)
	}
	if v, ok := raw["skills"]; ok {
		out.Skills = parseIntMap(v, "skills", false, warn)
	}
	if v, ok := raw["reputation"]; ok {
		out.Reputation = parseIntMap(v, "reputation", false, warn)
	}
	if v, ok := raw["quest_progress"]; ok {
		out.QuestProgress = parseIntMap(v, "quest_progress", false, warn)
	}

	if v, ok := raw["flags"]; ok {
		out.Flags = parseStringList(v, "flags", warn)
	}
	if v, ok := raw["message"]; ok {
		if s, ok := v.(string); ok {
			out.Message = s
		} else {
			warn("outcome field %q: expected string, got %T; dropping", "message", v)
		}
	}

	// Long-term effects nest under their own table.
	if v, ok := raw["long_term"]; ok {
		if m, ok := v.(map[string]any); ok {
			if u, ok := m["unlock_events"]; ok {
				out.Unlocks = parseStringList(u, "long_term.unlock_events", warn)
			}
			if f, ok := m["flags"]; ok {
				out.Flags = append(out.Flags, parseStringList(f, "long_term.flags", warn)...)
			}
		} else {
			warn("outcome field %q: expected table, got %T; dropping", "long_term", v)
		}
	}

	for key := range raw {
		if !knownOutcomeKeys[key] {
			warn("outcome field %q: unrecognized; ignored", key)
		}
	}

	return out, warns
}

var knownOutcomeKeys = map[string]bool{
	"health": true, "satiety": true, "hunger": true, "energy": true,
	"mental": true, "hygiene": true, "money": true, "heat": true,
	"job_prospects": true, "housing_prospects": true,
	"items": true, "skills": true, "reputation": true,
	"quest_progress": true, "flags": true, "message": true, "long_term": true,
}

// parseIntMap reads a name → integer table. When positiveOnly is set,
// non-positive entries are skipped with a warning (inventory grants).
func parseIntMap(v any, field string, positiveOnly bool, warn func(string, ...any)) map[string]int {
	m, ok := v.(map[string]any)
	if !ok {
		warn("outcome field %q: expected table, got %T; dropping", field, v)
		return nil
	}
	out := map[string]int{}
	for name, raw := range m {
		f, ok := toFloat(raw)
		if !ok {
			warn("outcome field %s[%q]: expected number, got %T; skipping", field, name, raw)
			continue
		}
		n := int(f)
		if positiveOnly && n <= 0 {
			warn("outcome field %s[%q]: non-positive quantity %d skipped", field, name, n)
			continue
		}
		if n != 0 {
			out[name] = n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseStringList accepts a single string or a list of strings.
func parseStringList(v any, field string, warn func(string, ...any)) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		var out []string
		for i, e := range val {
			if s, ok := e.(string); ok {
				out = append(out, s)
			} else {
				warn("outcome field %s[%d]: expected string, got %T; skipping", field, i, e)
			}
		}
		return out
	default:
		warn("outcome field %q: expected string or list, got %T; dropping", field, v)
		return nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
