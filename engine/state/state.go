// Package state manages the mutable player record. All mutation goes through
// the methods here; the rest of the engine never pokes fields directly.
package state

import "github.com/nathoo/streetcore/types"

const (
	// StatMin and StatMax bound the five core stats.
	StatMin = 0.0
	StatMax = 100.0

	// SkillMax is the highest skill level.
	SkillMax = 10

	// HistoryCap bounds the recently-resolved event id list.
	HistoryCap = 10

	// RecentChoiceCap bounds the narrative-callback memo list.
	RecentChoiceCap = 5
)

// Player is the complete mutable player state. There is exactly one per
// session; it is created once and lives until the session ends.
type Player struct {
	Health  float64
	Satiety float64
	Energy  float64
	Mental  float64
	Hygiene float64

	Money float64
	Heat  float64

	JobProspects     float64
	HousingProspects float64

	Inventory     map[string]int
	CarryCapacity float64

	Skills     map[string]int
	Reputation map[string]int

	StoryFlags map[string]bool
	FlagDays   map[string]int

	QuestProgress   map[string]int
	ActiveQuests    []string
	CompletedQuests map[string]bool
	FailedQuests    map[string]bool

	EventHistory  []string
	RecentChoices []types.ChoiceMemo

	UnlockedEvents map[string]bool
}

// NewPlayer creates a fresh player with mid-range stats and empty holdings.
func NewPlayer() *Player {
	return &Player{
		Health:          70,
		Satiety:         60,
		Energy:          70,
		Mental:          60,
		Hygiene:         50,
		Money:           10,
		CarryCapacity:   20,
		Inventory:       map[string]int{},
		Skills:          map[string]int{},
		Reputation:      map[string]int{},
		StoryFlags:      map[string]bool{},
		FlagDays:        map[string]int{},
		QuestProgress:   map[string]int{},
		ActiveQuests:    []string{},
		CompletedQuests: map[string]bool{},
		FailedQuests:    map[string]bool{},
		EventHistory:    []string{},
		RecentChoices:   []types.ChoiceMemo{},
		UnlockedEvents:  map[string]bool{},
	}
}

// Stat returns the current value of a core stat.
func (p *Player) Stat(s types.Stat) float64 {
	switch s {
	case types.Health:
		return p.Health
	case types.Satiety:
		return p.Satiety
	case types.Energy:
		return p.Energy
	case types.Mental:
		return p.Mental
	case types.Hygiene:
		return p.Hygiene
	}
	return 0
}

// AddStat applies a raw delta without clamping. Callers that batch several
// deltas (the outcome applier) finish with one Clamp call so combined
// under/overflow behaves predictably.
func (p *Player) AddStat(s types.Stat, delta float64) {
	switch s {
	case types.Health:
		p.Health += delta
	case types.Satiety:
		p.Satiety += delta
	case types.Energy:
		p.Energy += delta
	case types.Mental:
		p.Mental += delta
	case types.Hygiene:
		p.Hygiene += delta
	}
}

// SetStat sets a core stat, clamped immediately.
func (p *Player) SetStat(s types.Stat, value float64) {
	p.AddStat(s, value-p.Stat(s))
	p.Clamp()
}

// Clamp forces every core stat, heat, and the prospects back into range.
func (p *Player) Clamp() {
	p.Health = clampStat(p.Health)
	p.Satiety = clampStat(p.Satiety)
	p.Energy = clampStat(p.Energy)
	p.Mental = clampStat(p.Mental)
	p.Hygiene = clampStat(p.Hygiene)
	p.Heat = clampStat(p.Heat)
	p.JobProspects = clampStat(p.JobProspects)
	p.HousingProspects = clampStat(p.HousingProspects)
}

func clampStat(v float64) float64 {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// Hunger is the legacy inverse view of satiety: higher is worse.
func (p *Player) Hunger() float64 {
	return StatMax - p.Satiety
}

// SetHunger writes through the legacy alias.
func (p *Player) SetHunger(h float64) {
	p.Satiety = clampStat(StatMax - h)
}

// Credit adds money unconditionally.
func (p *Player) Credit(amount float64) {
	if amount > 0 {
		p.Money += amount
	}
}

// Debit charges up to amount, never taking the balance negative.
// It returns the amount actually charged and whether the full amount
// could not be covered.
func (p *Player) Debit(amount float64) (charged float64, shortfall bool) {
	if amount <= 0 {
		return 0, false
	}
	if amount > p.Money {
		charged = p.Money
		p.Money = 0
		return charged, true
	}
	p.Money -= amount
	return amount, false
}

// CarryWeight computes the current inventory load using the supplied
// per-item unit weight lookup. Unknown items weigh nothing.
func (p *Player) CarryWeight(unitWeight func(string) float64) float64 {
	var total float64
	for item, qty := range p.Inventory {
		total += unitWeight(item) * float64(qty)
	}
	return total
}

// Grant adds up to qty of an item, honoring the carry-capacity invariant.
// It returns how many were actually added.
func (p *Player) Grant(item string, qty int, unitWeight func(string) float64) int {
	if qty <= 0 {
		return 0
	}
	w := unitWeight(item)
	if w > 0 {
		room := p.CarryCapacity - p.CarryWeight(unitWeight)
		fits := int(room / w)
		if fits < qty {
			qty = fits
		}
		if qty <= 0 {
			return 0
		}
	}
	p.Inventory[item] += qty
	return qty
}

// Consume removes up to qty of an item. It returns how many were removed.
func (p *Player) Consume(item string, qty int) int {
	if qty <= 0 {
		return 0
	}
	have := p.Inventory[item]
	if have == 0 {
		return 0
	}
	if qty > have {
		qty = have
	}
	if have == qty {
		delete(p.Inventory, item)
	} else {
		p.Inventory[item] = have - qty
	}
	return qty
}

// HasItem reports whether the player holds at least qty of an item.
func (p *Player) HasItem(item string, qty int) bool {
	if qty <= 0 {
		qty = 1
	}
	return p.Inventory[item] >= qty
}

// GrantSkill raises a skill by amount, clamped to [0, SkillMax].
// It returns the new level.
func (p *Player) GrantSkill(skill string, amount int) int {
	level := p.Skills[skill] + amount
	if level < 0 {
		level = 0
	}
	if level > SkillMax {
		level = SkillMax
	}
	p.Skills[skill] = level
	return level
}

// SetFlag sets a story flag true and records the day it was set.
// The day shadow feeds elapsed-time requirement checks.
func (p *Player) SetFlag(flag string, day int) {
	p.StoryFlags[flag] = true
	p.FlagDays[flag] = day
}

// FlagDay returns the day a flag was set and whether it ever was.
func (p *Player) FlagDay(flag string) (int, bool) {
	d, ok := p.FlagDays[flag]
	return d, ok
}

// RecordEvent appends an event id to the bounded history, evicting the
// oldest entry beyond the cap.
func (p *Player) RecordEvent(id string) {
	p.EventHistory = append(p.EventHistory, id)
	if len(p.EventHistory) > HistoryCap {
		p.EventHistory = p.EventHistory[len(p.EventHistory)-HistoryCap:]
	}
}

// RecentlySeen reports whether the id appears in the most recent window
// entries of the event history.
func (p *Player) RecentlySeen(id string, window int) bool {
	start := len(p.EventHistory) - window
	if start < 0 {
		start = 0
	}
	for _, h := range p.EventHistory[start:] {
		if h == id {
			return true
		}
	}
	return false
}

// RememberChoice appends a narrative-callback memo, evicting the oldest
// beyond the cap.
func (p *Player) RememberChoice(memo types.ChoiceMemo) {
	p.RecentChoices = append(p.RecentChoices, memo)
	if len(p.RecentChoices) > RecentChoiceCap {
		p.RecentChoices = p.RecentChoices[len(p.RecentChoices)-RecentChoiceCap:]
	}
}

// QuestStatus reports the lifecycle state of a quest id.
func (p *Player) QuestStatus(id string) types.QuestStatus {
	if p.CompletedQuests[id] {
		return types.QuestCompleted
	}
	if p.FailedQuests[id] {
		return types.QuestFailed
	}
	for _, q := range p.ActiveQuests {
		if q == id {
			return types.QuestActive
		}
	}
	return types.QuestNotStarted
}

// RemoveActiveQuest drops a quest id from the active list.
func (p *Player) RemoveActiveQuest(id string) {
	for i, q := range p.ActiveQuests {
		if q == id {
			p.ActiveQuests = append(p.ActiveQuests[:i], p.ActiveQuests[i+1:]...)
			return
		}
	}
}

// Alive reports whether the session should continue.
func (p *Player) Alive() bool {
	return p.Health > 0
}
