package loader

import (
	"fmt"
	"io"

	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/types"
)

// validate checks referential integrity across the compiled catalog and
// repairs what it can: dangling chain links are removed, quests with
// missing step events are dropped. Every repair is reported to the warn
// sink — content problems degrade, they don't crash.
func validate(cat *catalog.Catalog, warn io.Writer) {
	warnf := func(format string, args ...any) {
		fmt.Fprintf(warn, "warning: "+format+"\n", args...)
	}

	for _, ev := range cat.Events {
		var kept []types.ChainLink
		for _, link := range ev.Chains {
			if _, ok := cat.Event(link.Next); !ok {
				warnf("event %q: chain target %q not defined; link removed", ev.ID, link.Next)
				continue
			}
			if link.Match == "" && (link.Index < 0 || link.Index >= len(ev.Choices)) {
				warnf("event %q: chain index %d out of range; link removed", ev.ID, link.Index)
				continue
			}
			kept = append(kept, link)
		}
		ev.Chains = kept
	}

	// First pass: drop quests with missing steps so follow-up references
	// in the second pass see the final quest set.
	for id, q := range cat.Quests {
		for i, step := range q.Steps {
			if _, ok := cat.Event(step); !ok {
				warnf("quest %q: step %d event %q not defined; quest dropped", id, i, step)
				delete(cat.Quests, id)
				break
			}
		}
	}

	for id, q := range cat.Quests {
		var branches []types.QuestBranch
		for _, br := range q.Branches {
			if _, ok := cat.Event(br.Target); !ok {
				warnf("quest %q: branch target %q not defined; branch removed", id, br.Target)
				continue
			}
			if br.AtStep < 0 || br.AtStep >= len(q.Steps) {
				warnf("quest %q: branch at_step %d out of range; branch removed", id, br.AtStep)
				continue
			}
			if br.Faction != "" {
				if _, ok := cat.Factions[br.Faction]; !ok {
					warnf("quest %q: branch faction %q not defined", id, br.Faction)
				}
			}
			branches = append(branches, br)
		}
		q.Branches = branches

		if q.Follows != "" {
			if _, ok := cat.Quests[q.Follows]; !ok {
				warnf("quest %q: follow-up quest %q not defined; cleared", id, q.Follows)
				q.Follows = ""
			}
		}
	}

	for id, f := range cat.Factions {
		for _, ally := range f.Allies {
			if _, ok := cat.Factions[ally]; !ok {
				warnf("faction %q: ally %q not defined", id, ally)
			}
		}
		for _, rival := range f.Rivals {
			if _, ok := cat.Factions[rival]; !ok {
				warnf("faction %q: rival %q not defined", id, rival)
			}
		}
	}
}
