// Package outcome applies validated outcome specs to the player and reports
// what changed. Application is transactional in shape: all deltas land, then
// one global clamp pass, then a side-effect-free summary pass.
package outcome

import (
	"fmt"
	"io"
	"sort"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/engine/reputation"
	"github.com/nathoo/streetcore/engine/state"
	"github.com/nathoo/streetcore/types"
)

// Deps carries the collaborators the applier needs. Warn receives technical
// detail the player never sees; it may be nil.
type Deps struct {
	Cat   *catalog.Catalog
	Rep   *reputation.Book
	Clock types.Clock
	Warn  io.Writer
}

func (d Deps) warnf(format string, args ...any) {
	if d.Warn != nil {
		fmt.Fprintf(d.Warn, "warning: "+format+"\n", args...)
	}
}

// snapshot captures every numeric field the summary pass compares against.
type snapshot struct {
	stats    map[types.Stat]float64
	money    float64
	heat     float64
	job      float64
	housing  float64
}

func take(p *state.Player) snapshot {
	s := snapshot{stats: map[types.Stat]float64{}}
	for _, st := range types.CoreStats {
		s.stats[st] = p.Stat(st)
	}
	s.money = p.Money
	s.heat = p.Heat
	s.job = p.JobProspects
	s.housing = p.HousingProspects
	return s
}

// Apply mutates the player per the outcome and returns the effect summary.
// Quest-progress increments are deliberately not applied here; the chain
// resolver hands them to the quest graph, which owns progress counters.
func Apply(out types.Outcome, p *state.Player, deps Deps) types.Summary {
	before := take(p)
	summary := types.Summary{Message: out.Message}

	for st, delta := range out.Stats {
		p.AddStat(st, delta)
	}

	if out.Money > 0 {
		p.Credit(out.Money)
	} else if out.Money < 0 {
		charged, short := p.Debit(-out.Money)
		if short {
			summary.Shortfall = true
			summary.Notifications = append(summary.Notifications,
				"You couldn't cover the full cost.")
			deps.warnf("money debit %.2f exceeded balance; charged %.2f", -out.Money, charged)
		}
	}

	p.Heat += out.Heat
	p.JobProspects += out.JobProspects
	p.HousingProspects += out.HousingProspects

	if len(out.Items) > 0 {
		summary.ItemsGained = map[string]int{}
		for _, item := range sortedKeys(out.Items) {
			qty := out.Items[item]
			added := p.Grant(item, qty, deps.Cat.ItemWeight)
			if added > 0 {
				summary.ItemsGained[item] = added
			}
			if added < qty {
				summary.Notifications = append(summary.Notifications,
					"You can't carry any more.")
				deps.warnf("item grant %s x%d truncated to %d by carry capacity", item, qty, added)
			}
		}
		if len(summary.ItemsGained) == 0 {
			summary.ItemsGained = nil
		}
	}

	for _, skill := range sortedKeys(out.Skills) {
		amount := out.Skills[skill]
		beforeLevel := p.Skills[skill]
		afterLevel := p.GrantSkill(skill, amount)
		if afterLevel != beforeLevel {
			summary.Changes = append(summary.Changes, types.FieldChange{
				Field:  "skill:" + skill,
				Before: float64(beforeLevel),
				After:  float64(afterLevel),
			})
		}
	}

	if deps.Rep != nil {
		for _, faction := range sortedKeys(out.Reputation) {
			_, notes := deps.Rep.Adjust(p, faction, "outcome", out.Reputation[faction], "")
			summary.Notifications = append(summary.Notifications, notes...)
		}
	}

	day := 0
	if deps.Clock != nil {
		day = deps.Clock.Day()
	}
	for _, flag := range out.Flags {
		p.SetFlag(flag, day)
		summary.FlagsSet = append(summary.FlagsSet, flag)
	}

	for _, id := range out.Unlocks {
		p.UnlockedEvents[id] = true
	}

	// One clamp pass over the whole transaction, then summarize without
	// touching state again.
	p.Clamp()
	summarize(before, p, &summary)
	return summary
}

// summarize diffs the snapshot against the player. Read-only.
func summarize(before snapshot, p *state.Player, summary *types.Summary) {
	for _, st := range types.CoreStats {
		if p.Stat(st) != before.stats[st] {
			summary.Changes = append(summary.Changes, types.FieldChange{
				Field:  string(st),
				Before: before.stats[st],
				After:  p.Stat(st),
			})
		}
	}
	if p.Money != before.money {
		summary.Changes = append(summary.Changes, types.FieldChange{
			Field: "money", Before: before.money, After: p.Money,
		})
	}
	if p.Heat != before.heat {
		summary.Changes = append(summary.Changes, types.FieldChange{
			Field: "heat", Before: before.heat, After: p.Heat,
		})
	}
	if p.JobProspects != before.job {
		summary.Changes = append(summary.Changes, types.FieldChange{
			Field: "job_prospects", Before: before.job, After: p.JobProspects,
		})
	}
	if p.HousingProspects != before.housing {
		summary.Changes = append(summary.Changes, types.FieldChange{
			Field: "housing_prospects", Before: before.housing, After: p.HousingProspects,
		})
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
