// Package save implements JSON serialization and deserialization of the
// session snapshot. The schema is owned here; only round-trip fidelity of
// the player's quest, flag, and history fields is load-bearing.
package save

import (
	"encoding/json"

	"github.com/nathoo/streetcore/engine/state"
	"github.com/nathoo/streetcore/types"
)

// WorldState is the game-loop side of a snapshot: where and when the
// player is, independent of the player record itself.
type WorldState struct {
	Day      int              `json:"day"`
	Period   types.TimePeriod `json:"period"`
	Weather  types.Weather    `json:"weather"`
	Location string           `json:"location"`
}

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string        `json:"version"`
	Game        string        `json:"game"`
	World       WorldState    `json:"world"`
	Player      *state.Player `json:"player"`
	RNGSeed     int64         `json:"rng_seed"`
	RNGPosition int64         `json:"rng_position"`
}

// Snapshot serializes the session to JSON bytes.
func Snapshot(p *state.Player, game types.GameDef, world WorldState, rngSeed, rngPos int64) ([]byte, error) {
	data := SaveData{
		Version:     game.Version,
		Game:        game.Title,
		World:       world,
		Player:      p,
		RNGSeed:     rngSeed,
		RNGPosition: rngPos,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Restore deserializes JSON bytes into SaveData, repairing nil collections
// so loaded players behave like fresh ones.
func Restore(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Player == nil {
		sd.Player = state.NewPlayer()
		return &sd, nil
	}
	p := sd.Player
	if p.Inventory == nil {
		p.Inventory = map[string]int{}
	}
	if p.Skills == nil {
		p.Skills = map[string]int{}
	}
	if p.Reputation == nil {
		p.Reputation = map[string]int{}
	}
	if p.StoryFlags == nil {
		p.StoryFlags = map[string]bool{}
	}
	if p.FlagDays == nil {
		p.FlagDays = map[string]int{}
	}
	if p.QuestProgress == nil {
		p.QuestProgress = map[string]int{}
	}
	if p.ActiveQuests == nil {
		p.ActiveQuests = []string{}
	}
	if p.CompletedQuests == nil {
		p.CompletedQuests = map[string]bool{}
	}
	if p.FailedQuests == nil {
		p.FailedQuests = map[string]bool{}
	}
	if p.EventHistory == nil {
		p.EventHistory = []string{}
	}
	if p.RecentChoices == nil {
		p.RecentChoices = []types.ChoiceMemo{}
	}
	if p.UnlockedEvents == nil {
		p.UnlockedEvents = map[string]bool{}
	}
	return &sd, nil
}
