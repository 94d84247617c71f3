package selector

import (
	"fmt"

	"github.com/nathoo/streetcore/types"
)

// Fallback events are synthesized when the authored pool filters down to
// nothing. They are deterministic functions of their inputs so the same
// context always produces the same event, and they guarantee the selector
// never hands the caller a nil.

// FallbackGeneric covers ordinary turns, keyed by time period and tier.
func FallbackGeneric(period types.TimePeriod, tier types.DangerTier) *types.Event {
	desc := map[types.TimePeriod]string{
		types.Morning:   "The city stirs awake around you. Delivery trucks idle at the curb.",
		types.Afternoon: "Foot traffic flows past without a glance. The hours stretch.",
		types.Evening:   "Shops pull their shutters. The light goes orange, then grey.",
		types.Night:     "The streets empty out. Somewhere a siren rises and fades.",
	}[period]
	if desc == "" {
		desc = "The city moves around you, indifferent."
	}

	ev := &types.Event{
		ID:          fmt.Sprintf("fallback_%s_%s", period, tier),
		Title:       "Street Life",
		Description: desc,
		Type:        types.General,
		Choices: []types.Choice{
			{
				Text:    "Keep to yourself and watch the street",
				Outcome: types.Outcome{Stats: map[types.Stat]float64{types.Mental: 2, types.Energy: -2}},
			},
			{
				Text:    "Scan the ground for dropped change",
				Outcome: types.Outcome{Money: 0.5, Stats: map[types.Stat]float64{types.Energy: -3}},
			},
			{
				Text:    "Move along",
				Outcome: types.Outcome{Message: "You continue on your way."},
			},
		},
	}
	if tier == types.DangerHigh {
		ev.Description += " You keep your back to the wall here."
		ev.Choices = append(ev.Choices, types.Choice{
			Text:          "Cut through the alley to save time",
			SuccessChance: 0.6,
			Outcome:       types.Outcome{Stats: map[types.Stat]float64{types.Energy: 3}},
			FailOutcome: types.Outcome{
				Stats:   map[types.Stat]float64{types.Health: -5, types.Mental: -4},
				Message: "Wrong alley. You back out fast, heart pounding.",
			},
		})
	}
	return ev
}

// FallbackTravel covers movement between locations.
func FallbackTravel(period types.TimePeriod) *types.Event {
	desc := "The walk is long and nobody offers a ride."
	if period == types.Night {
		desc = "The night walk keeps you checking over your shoulder."
	}
	return &types.Event{
		ID:          fmt.Sprintf("fallback_travel_%s", period),
		Title:       "On the Move",
		Description: desc,
		Type:        types.Travel,
		Choices: []types.Choice{
			{
				Text:    "Push on at a steady pace",
				Outcome: types.Outcome{Stats: map[types.Stat]float64{types.Energy: -6}},
			},
			{
				Text:    "Take it slow and rest on benches",
				Outcome: types.Outcome{Stats: map[types.Stat]float64{types.Energy: -3, types.Mental: 1}},
			},
		},
	}
}

// FallbackShelter covers bedding down, keyed by shelter quality.
func FallbackShelter(quality string) *types.Event {
	rest := map[string]float64{"good": 30, "fair": 20, "poor": 10}[quality]
	if rest == 0 {
		rest = 10
	}
	return &types.Event{
		ID:          fmt.Sprintf("fallback_shelter_%s", quality),
		Title:       "Settling In",
		Description: "You find a spot for the night and arrange what you carry.",
		Type:        types.Shelter,
		Choices: []types.Choice{
			{
				Text: "Sleep as long as you can",
				Outcome: types.Outcome{Stats: map[types.Stat]float64{
					types.Energy: rest, types.Hygiene: -5,
				}},
			},
			{
				Text: "Doze lightly, one eye open",
				Outcome: types.Outcome{Stats: map[types.Stat]float64{
					types.Energy: rest / 2, types.Mental: 2,
				}},
			},
		},
	}
}

// FallbackDanger covers confrontations, keyed by danger tier. The retreat
// option is a risk roll: failure costs health and mental and raises heat.
func FallbackDanger(tier types.DangerTier) *types.Event {
	heatIfFail := map[types.DangerTier]float64{
		types.DangerLow: 5, types.DangerMedium: 10, types.DangerHigh: 15,
	}[tier]
	return &types.Event{
		ID:          fmt.Sprintf("fallback_danger_%s", tier),
		Title:       "Trouble Finds You",
		Description: "Someone steps out of the shadows and blocks your path.",
		Type:        types.Danger,
		Choices: []types.Choice{
			{
				Text:          "Retreat before it escalates",
				SuccessChance: 0.7,
				Outcome: types.Outcome{
					Stats:   map[types.Stat]float64{types.Energy: -5},
					Message: "You slip away before anything starts.",
				},
				FailOutcome: types.Outcome{
					Stats:   map[types.Stat]float64{types.Health: -15, types.Mental: -10},
					Heat:    heatIfFail,
					Message: "They catch you at the corner. It goes badly, and loudly.",
				},
			},
			{
				Text: "Hand over what little you have",
				Outcome: types.Outcome{
					Money:   -10,
					Stats:   map[types.Stat]float64{types.Mental: -5},
					Message: "You empty your pockets. They lose interest.",
				},
			},
			{
				Text:          "Stand your ground",
				SuccessChance: 0.4,
				Requires: types.Requirement{
					Stats: []types.StatBound{{Stat: types.Health, Min: fptr(40)}},
				},
				Outcome: types.Outcome{
					Stats:  map[types.Stat]float64{types.Mental: 8, types.Energy: -8},
					Skills: map[string]int{"streetwise": 1},
				},
				FailOutcome: types.Outcome{
					Stats: map[types.Stat]float64{types.Health: -20, types.Mental: -8},
					Heat:  heatIfFail,
				},
			},
		},
	}
}

// FallbackWaiting covers idle turns.
func FallbackWaiting(period types.TimePeriod) *types.Event {
	return &types.Event{
		ID:          fmt.Sprintf("fallback_waiting_%s", period),
		Title:       "Time Passes",
		Description: "Nothing demands your attention. The minutes crawl.",
		Type:        types.Waiting,
		Choices: []types.Choice{
			{
				Text:    "People-watch from a doorway",
				Outcome: types.Outcome{Stats: map[types.Stat]float64{types.Mental: 3}},
			},
			{
				Text:    "Rest your legs",
				Outcome: types.Outcome{Stats: map[types.Stat]float64{types.Energy: 5}},
			},
		},
	}
}

// FallbackJob covers informal work, keyed by the job kind.
func FallbackJob(jobKind string) *types.Event {
	pay := map[string]float64{"dayLabor": 25, "cans": 8, "flyers": 15}[jobKind]
	if pay == 0 {
		pay = 10
	}
	return &types.Event{
		ID:          fmt.Sprintf("fallback_job_%s", jobKind),
		Title:       "A Day's Work",
		Description: "The work is dull and the pay is cash, no questions asked.",
		Type:        types.Job,
		Choices: []types.Choice{
			{
				Text: "Work the full shift",
				Outcome: types.Outcome{
					Money:        pay,
					JobProspects: 2,
					Stats:        map[types.Stat]float64{types.Energy: -15, types.Hygiene: -5},
				},
			},
			{
				Text: "Quit at midday",
				Outcome: types.Outcome{
					Money: pay / 2,
					Stats: map[types.Stat]float64{types.Energy: -8},
				},
			},
		},
	}
}

func fptr(v float64) *float64 { return &v }
