package loader

import (
	"github.com/nathoo/streetcore/engine/catalog"
	"github.com/nathoo/streetcore/types"
)

// Builtin returns the built-in default catalog: a small playable content
// set used when no authored content loads. It is built fresh on every call
// so callers can never corrupt a shared copy.
func Builtin() *catalog.Catalog {
	events := []*types.Event{
		{
			ID:          "soup_kitchen",
			Title:       "The Soup Kitchen Line",
			Description: "Steam drifts from the church basement door. The line is long but moving.",
			Type:        types.Opportunity,
			Requires: types.Requirement{
				Periods: []types.TimePeriod{types.Morning, types.Afternoon},
			},
			Choices: []types.Choice{
				{
					Text: "Wait in line for a hot meal",
					Outcome: types.Outcome{
						Stats:   map[types.Stat]float64{types.Satiety: 25, types.Mental: 3, types.Energy: -3},
						Message: "The soup is thin but hot. It helps.",
					},
				},
				{
					Text: "Help serve and eat after",
					Outcome: types.Outcome{
						Stats:      map[types.Stat]float64{types.Satiety: 30, types.Mental: 6, types.Energy: -8},
						Reputation: map[string]int{"shelter_staff": 3},
						Skills:     map[string]int{"people": 1},
					},
				},
				{Text: "Skip it", Outcome: types.Outcome{Message: "You continue on your way."}},
			},
		},
		{
			ID:          "dumpster_find",
			Title:       "Behind the Grocery",
			Description: "The bins behind the grocery were just topped up. Nobody's watching.",
			Type:        types.General,
			Choices: []types.Choice{
				{
					Text:          "Dig for anything edible",
					SuccessChance: 0.65,
					Outcome: types.Outcome{
						Stats: map[types.Stat]float64{types.Satiety: 15, types.Hygiene: -8},
					},
					FailOutcome: types.Outcome{
						Stats:   map[types.Stat]float64{types.Hygiene: -10, types.Mental: -3},
						Message: "Nothing but coffee grounds and broken glass.",
					},
				},
				{Text: "Not worth the risk", Outcome: types.Outcome{}},
			},
		},
		{
			ID:          "cold_rain",
			Title:       "Caught in the Open",
			Description: "The rain turns hard and cold, and every awning is already taken.",
			Type:        types.WeatherKind,
			Requires: types.Requirement{
				Weathers: []types.Weather{types.Rain, types.Storm, types.Snow, types.ColdSnap},
			},
			Choices: []types.Choice{
				{
					Text: "Hunker down under the overpass",
					Outcome: types.Outcome{
						Stats: map[types.Stat]float64{types.Health: -4, types.Mental: -3},
					},
				},
				{
					Text:     "Use the tarp",
					Requires: types.Requirement{Items: []types.ItemReq{{Item: "tarp", Qty: 1}}},
					Outcome: types.Outcome{
						Stats:   map[types.Stat]float64{types.Mental: 2},
						Message: "The tarp holds. Small victories.",
					},
				},
			},
		},
		{
			ID:          "stranger_offer",
			Title:       "A Stranger's Offer",
			Description: "A man in a clean coat offers you twenty to move some boxes, no questions.",
			Type:        types.Encounter,
			Choices: []types.Choice{
				{
					Text: "Accept the work",
					Outcome: types.Outcome{
						Money: 20,
						Stats: map[types.Stat]float64{types.Energy: -12},
						Heat:  5,
					},
				},
				{Text: "Decline politely", Outcome: types.Outcome{}},
			},
			Chains: []types.ChainLink{
				{Match: "accept", Next: "boxes_job"},
			},
		},
		{
			ID:          "boxes_job",
			Title:       "The Boxes",
			Description: "The boxes are heavier than they look, and he keeps checking the street.",
			Type:        types.Encounter,
			Choices: []types.Choice{
				{
					Text: "Finish the job and take the cash",
					Outcome: types.Outcome{
						Money: 20,
						Heat:  5,
						Flags: []string{"worked_for_stranger"},
					},
				},
				{
					Text: "Walk off before it gets worse",
					Outcome: types.Outcome{
						Stats: map[types.Stat]float64{types.Mental: 2},
					},
				},
			},
		},
		{
			ID:          "quiet_corner",
			Title:       "A Quiet Corner",
			Description: "A sheltered doorway, out of the wind. For now, nobody minds.",
			Type:        types.Shelter,
			Choices: []types.Choice{
				{
					Text:    "Sleep while you can",
					Outcome: types.Outcome{Stats: map[types.Stat]float64{types.Energy: 20, types.Hygiene: -5}},
				},
			},
		},
		{
			ID:          "cans_route",
			Title:       "The Can Route",
			Description: "Recycling day. The blue bins are full along the avenue.",
			Type:        types.Job,
			Choices: []types.Choice{
				{
					Text: "Work the whole avenue",
					Outcome: types.Outcome{
						Money: 9,
						Stats: map[types.Stat]float64{types.Energy: -10, types.Hygiene: -4},
					},
				},
				{
					Text: "Just the near block",
					Outcome: types.Outcome{
						Money: 4,
						Stats: map[types.Stat]float64{types.Energy: -4},
					},
				},
			},
		},
		{
			ID:          "shakedown",
			Title:       "Wrong Block",
			Description: "Two of them, and they've decided you owe a toll.",
			Type:        types.Danger,
			Requires:    types.Requirement{DangerTiers: []types.DangerTier{types.DangerMedium, types.DangerHigh}},
			Choices: []types.Choice{
				{
					Text:          "Retreat before it escalates",
					SuccessChance: 0.7,
					Outcome:       types.Outcome{Stats: map[types.Stat]float64{types.Energy: -5}},
					FailOutcome: types.Outcome{
						Stats: map[types.Stat]float64{types.Health: -15, types.Mental: -10},
						Heat:  10,
					},
				},
				{
					Text:    "Pay the toll",
					Outcome: types.Outcome{Money: -5, Stats: map[types.Stat]float64{types.Mental: -4}},
				},
			},
		},
		{
			ID:          "caseworker_intro",
			Title:       "The Caseworker",
			Description: "A caseworker at the drop-in center actually looks up when you come in.",
			Type:        types.QuestEvent,
			Choices: []types.Choice{
				{
					Text: "Ask about getting ID papers",
					Outcome: types.Outcome{
						Flags:         []string{"met_caseworker"},
						QuestProgress: map[string]int{"id_papers": 1},
						Message:       "She writes your name on a real form.",
					},
				},
				{Text: "Mumble and leave", Outcome: types.Outcome{Stats: map[types.Stat]float64{types.Mental: -2}}},
			},
		},
		{
			ID:          "records_office",
			Title:       "The Records Office",
			Description: "Fluorescent lights, a numbered ticket, and a clerk who has seen everything.",
			Type:        types.QuestEvent,
			Choices: []types.Choice{
				{
					Text: "File the paperwork",
					Outcome: types.Outcome{
						Money:         -8,
						QuestProgress: map[string]int{"id_papers": 1},
					},
				},
				{
					Text: "Come back another day",
					Outcome: types.Outcome{
						Stats: map[types.Stat]float64{types.Mental: -3},
					},
				},
			},
		},
	}

	cat := catalog.New(types.GameDef{
		Title:   "StreetCore",
		Author:  "builtin",
		Version: "dev",
		Intro:   "The city owes you nothing. Morning comes anyway.",
	}, events)

	cat.Quests["id_papers"] = &types.QuestDef{
		ID:        "id_papers",
		Title:     "Paper Trail",
		Steps:     []string{"caseworker_intro", "records_office"},
		TimeLimit: 14,
		OnComplete: types.Outcome{
			Flags:            []string{"has_id"},
			HousingProspects: 10,
			Message:          "A laminated card with your name on it. It changes what's possible.",
		},
		OnFail: types.Outcome{
			Stats: map[types.Stat]float64{types.Mental: -8},
		},
	}

	cat.Factions["shelter_staff"] = &types.Faction{
		ID: "shelter_staff", Name: "Shelter Staff", Min: -50, Max: 50,
		Allies: []string{"volunteers"},
	}
	cat.Factions["volunteers"] = &types.Faction{
		ID: "volunteers", Name: "Volunteers", Min: -50, Max: 50,
	}
	cat.Factions["street_crew"] = &types.Faction{
		ID: "street_crew", Name: "The Street Crew", Min: -100, Max: 100,
		Rivals: []string{"shelter_staff"},
	}

	cat.Items["tarp"] = &types.ItemDef{ID: "tarp", Name: "Plastic Tarp", Weight: 1.5}
	cat.Items["blanket"] = &types.ItemDef{ID: "blanket", Name: "Wool Blanket", Weight: 2}
	cat.Items["canned_food"] = &types.ItemDef{ID: "canned_food", Name: "Canned Food", Weight: 0.5}

	cat.Locations["bus_station"] = &types.LocationDef{
		ID: "bus_station", Name: "Bus Station", Kind: "transit", DangerLevel: 3,
	}
	cat.Locations["riverside"] = &types.LocationDef{
		ID: "riverside", Name: "Riverside Camp", Kind: "camp", DangerLevel: 5,
	}
	cat.Locations["old_docks"] = &types.LocationDef{
		ID: "old_docks", Name: "Old Docks", Kind: "industrial", DangerLevel: 8,
	}

	return cat
}
