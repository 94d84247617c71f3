package loader

import (
	"fmt"
	"io"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/outcome"
	"github.com/nathoo/streetcore/types"
	lua "github.com/yuin/gopher-lua"
)

// compile converts collected Lua tables into the typed catalog. Each entry
// compiles independently: a malformed event or quest is skipped and reported
// while the rest of the content loads.
func compile(coll *collector, warn io.Writer) (*catalog.Catalog, []string) {
	var errs []string

	game := types.GameDef{Title: "Untitled", Version: "dev"}
	if coll.game != nil {
		game = types.GameDef{
			Title:   getString(coll.game, "title"),
			Author:  getString(coll.game, "author"),
			Version: getString(coll.game, "version"),
			Intro:   getString(coll.game, "intro"),
		}
	} else {
		errs = append(errs, "no Game{} definition found; using placeholder metadata")
	}

	var events []*types.Event
	for _, raw := range coll.events {
		ev, evErrs := compileEvent(raw)
		errs = append(errs, evErrs...)
		if ev != nil {
			events = append(events, ev)
		}
	}

	cat := catalog.New(game, events)

	for _, raw := range coll.quests {
		q, qErrs := compileQuest(raw)
		errs = append(errs, qErrs...)
		if q != nil {
			cat.Quests[q.ID] = q
		}
	}
	for _, raw := range coll.factions {
		cat.Factions[raw.id] = compileFaction(raw)
	}
	for _, raw := range coll.items {
		cat.Items[raw.id] = &types.ItemDef{
			ID:     raw.id,
			Name:   getString(raw.table, "name"),
			Weight: getNumber(raw.table, "weight"),
		}
	}
	for _, raw := range coll.locations {
		cat.Locations[raw.id] = &types.LocationDef{
			ID:          raw.id,
			Name:        getString(raw.table, "name"),
			Kind:        getString(raw.table, "kind"),
			DangerLevel: getInt(raw.table, "danger"),
		}
	}

	return cat, errs
}

// compileEvent builds one event. A missing title or empty choice list makes
// the event unusable and it is dropped; field-level problems degrade to
// warnings via the outcome/requirement parsers.
func compileEvent(raw rawDef) (*types.Event, []string) {
	var errs []string
	m := tableToAnyMap(raw.table)

	ev := &types.Event{
		ID:          raw.id,
		Title:       str(m["title"]),
		Description: str(m["description"]),
		Type:        eventType(str(m["type"])),
		Locked:      boolean(m["locked"]),
	}
	if ev.Title == "" {
		return nil, append(errs, fmt.Sprintf("event %q: missing title; skipped", raw.id))
	}

	if reqRaw, ok := m["requires"].(map[string]any); ok {
		req, warns := parseRequirement(reqRaw)
		errs = append(errs, prefix(warns, "event "+raw.id)...)
		ev.Requires = req
	}

	choices, ok := m["choices"].([]any)
	if !ok || len(choices) == 0 {
		return nil, append(errs, fmt.Sprintf("event %q: no choices; skipped", raw.id))
	}
	for i, c := range choices {
		cm, ok := c.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("event %q: choice %d is not a Choice(); skipped", raw.id, i))
			continue
		}
		choice, warns := compileChoice(cm)
		errs = append(errs, prefix(warns, fmt.Sprintf("event %s choice %d", raw.id, i))...)
		ev.Choices = append(ev.Choices, choice)
	}
	if len(ev.Choices) == 0 {
		return nil, append(errs, fmt.Sprintf("event %q: all choices malformed; skipped", raw.id))
	}

	if chains, ok := m["chains"].([]any); ok {
		for i, c := range chains {
			cm, ok := c.(map[string]any)
			if !ok {
				errs = append(errs, fmt.Sprintf("event %q: chain %d malformed; skipped", raw.id, i))
				continue
			}
			link := types.ChainLink{
				Match: str(cm["match"]),
				Index: integer(cm["index"]),
				Next:  str(cm["next"]),
			}
			if guard, ok := cm["guard"].(map[string]any); ok {
				g, warns := parseRequirement(guard)
				errs = append(errs, prefix(warns, fmt.Sprintf("event %s chain %d", raw.id, i))...)
				link.Guard = g
			}
			if link.Next == "" {
				errs = append(errs, fmt.Sprintf("event %q: chain %d has no target; skipped", raw.id, i))
				continue
			}
			ev.Chains = append(ev.Chains, link)
		}
	}

	return ev, errs
}

func compileChoice(m map[string]any) (types.Choice, []string) {
	var warns []string
	c := types.Choice{Text: str(m["text"])}

	if out, ok := m["outcome"].(map[string]any); ok {
		parsed, w := outcome.Parse(out)
		warns = append(warns, w...)
		c.Outcome = parsed
	}
	if req, ok := m["requires"].(map[string]any); ok {
		parsed, w := parseRequirement(req)
		warns = append(warns, w...)
		c.Requires = parsed
	}
	if s, ok := m["success"]; ok {
		if f, ok := toFloat(s); ok {
			c.SuccessChance = f
		} else if s != nil {
			warns = append(warns, fmt.Sprintf("success: expected number, got %T", s))
		}
	}
	if fail, ok := m["fail"].(map[string]any); ok {
		parsed, w := outcome.Parse(fail)
		warns = append(warns, w...)
		c.FailOutcome = parsed
	}
	return c, warns
}

func compileQuest(raw rawDef) (*types.QuestDef, []string) {
	var errs []string
	m := tableToAnyMap(raw.table)

	q := &types.QuestDef{
		ID:        raw.id,
		Title:     str(m["title"]),
		TimeLimit: integer(m["time_limit"]),
		Follows:   str(m["follows"]),
	}
	if q.Title == "" {
		q.Title = raw.id
	}

	steps, ok := m["steps"].([]any)
	if !ok || len(steps) == 0 {
		return nil, append(errs, fmt.Sprintf("quest %q: no steps; skipped", raw.id))
	}
	for _, s := range steps {
		if id := str(s); id != "" {
			q.Steps = append(q.Steps, id)
		}
	}
	if len(q.Steps) == 0 {
		return nil, append(errs, fmt.Sprintf("quest %q: no usable steps; skipped", raw.id))
	}

	if branches, ok := m["branches"].([]any); ok {
		for i, b := range branches {
			bm, ok := b.(map[string]any)
			if !ok {
				errs = append(errs, fmt.Sprintf("quest %q: branch %d malformed; skipped", raw.id, i))
				continue
			}
			q.Branches = append(q.Branches, types.QuestBranch{
				AtStep:  integer(bm["at_step"]),
				Faction: str(bm["faction"]),
				MinRep:  integer(bm["min_rep"]),
				Flag:    str(bm["flag"]),
				Target:  str(bm["target"]),
			})
		}
	}

	if out, ok := m["on_complete"].(map[string]any); ok {
		parsed, w := outcome.Parse(out)
		errs = append(errs, prefix(w, "quest "+raw.id+" on_complete")...)
		q.OnComplete = parsed
	}
	if out, ok := m["on_fail"].(map[string]any); ok {
		parsed, w := outcome.Parse(out)
		errs = append(errs, prefix(w, "quest "+raw.id+" on_fail")...)
		q.OnFail = parsed
	}

	return q, errs
}

func compileFaction(raw rawDef) *types.Faction {
	f := &types.Faction{
		ID:   raw.id,
		Name: getString(raw.table, "name"),
		Min:  -100,
		Max:  100,
	}
	m := tableToAnyMap(raw.table)
	if v, ok := toFloat(m["min"]); ok {
		f.Min = int(v)
	}
	if v, ok := toFloat(m["max"]); ok {
		f.Max = int(v)
	}
	if allies, ok := m["allies"].([]any); ok {
		for _, a := range allies {
			if s := str(a); s != "" {
				f.Allies = append(f.Allies, s)
			}
		}
	}
	if rivals, ok := m["rivals"].([]any); ok {
		for _, r := range rivals {
			if s := str(r); s != "" {
				f.Rivals = append(f.Rivals, s)
			}
		}
	}
	return f
}

var eventTypes = map[string]types.EventType{
	"general": types.General, "quest": types.QuestEvent,
	"encounter": types.Encounter, "weather": types.WeatherKind,
	"opportunity": types.Opportunity, "danger": types.Danger,
	"shelter": types.Shelter, "travel": types.Travel,
	"waiting": types.Waiting, "job": types.Job,
}

// eventType maps an authored tag; unknown tags fall back to general.
func eventType(tag string) types.EventType {
	if t, ok := eventTypes[tag]; ok {
		return t
	}
	return types.General
}

func prefix(warns []string, p string) []string {
	out := make([]string, len(warns))
	for i, w := range warns {
		out[i] = p + ": " + w
	}
	return out
}

// --- Lua table access helpers ---

func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func getNumber(tbl *lua.LTable, key string) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys from 1 mean an array.
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// --- loose value coercion for compiled maps ---

func str(v any) string {
	s, _ := v.(string)
	return s
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}

func integer(v any) int {
	f, _ := toFloat(v)
	return int(f)
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
