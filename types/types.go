// Package types defines the shared data structures for the StreetCore engine.
// This package contains only type definitions and trivial accessors — no logic.
package types

// TimePeriod is a fixed time-of-day bucket provided by the clock.
type TimePeriod string

const (
	Morning   TimePeriod = "morning"
	Afternoon TimePeriod = "afternoon"
	Evening   TimePeriod = "evening"
	Night     TimePeriod = "night"
)

// Weather is a fixed weather condition provided by the clock.
type Weather string

const (
	Clear    Weather = "clear"
	Overcast Weather = "overcast"
	Rain     Weather = "rain"
	Storm    Weather = "storm"
	Snow     Weather = "snow"
	Heatwave Weather = "heatwave"
	ColdSnap Weather = "cold_snap"
)

// Clock is the read-only time/weather provider. The engine never advances it;
// the surrounding game loop does, between turns.
type Clock interface {
	Day() int
	Period() TimePeriod
	Weather() Weather
	HarshWeather() bool
}

// Site is the read-only location provider. A nil Site is legal for contexts
// with no physical location (travel, waiting).
type Site interface {
	DangerLevel() int
	Kind() string
}

// DangerTier buckets a site's numeric danger level.
type DangerTier string

const (
	DangerLow    DangerTier = "low"
	DangerMedium DangerTier = "medium"
	DangerHigh   DangerTier = "high"
)

// TierOf buckets a numeric danger level: low below 4, high from 7 up.
func TierOf(level int) DangerTier {
	switch {
	case level < 4:
		return DangerLow
	case level < 7:
		return DangerMedium
	default:
		return DangerHigh
	}
}

// Stat names the five bounded core stats.
type Stat string

const (
	Health  Stat = "health"
	Satiety Stat = "satiety"
	Energy  Stat = "energy"
	Mental  Stat = "mental"
	Hygiene Stat = "hygiene"
)

// CoreStats lists the five clamped stats in display order.
var CoreStats = []Stat{Health, Satiety, Energy, Mental, Hygiene}

// EventType tags an event for type-filtered selection and weighting.
type EventType string

const (
	General     EventType = "general"
	QuestEvent  EventType = "quest"
	Encounter   EventType = "encounter"
	WeatherKind EventType = "weather"
	Opportunity EventType = "opportunity"
	Danger      EventType = "danger"
	Shelter     EventType = "shelter"
	Travel      EventType = "travel"
	Waiting     EventType = "waiting"
	Job         EventType = "job"
)

// StatBound constrains one stat with optional min/max sides.
// A nil side means unconstrained on that side.
type StatBound struct {
	Stat Stat
	Min  *float64
	Max  *float64
}

// ItemReq requires possession of an item quantity.
type ItemReq struct {
	Item string
	Qty  int
}

// SkillReq requires a minimum skill level.
type SkillReq struct {
	Skill string
	Min   int
}

// RepReq constrains a faction standing with optional min/max sides.
type RepReq struct {
	Faction string
	Min     *int
	Max     *int
}

// FlagReq requires a story flag to be set (or absent when Absent is true).
// MinDaysSince > 0 additionally requires that many days elapsed since the
// flag's day-set shadow entry; it is never satisfied when the flag was
// never set.
type FlagReq struct {
	Flag         string
	Absent       bool
	MinDaysSince int
}

// Requirement is the compiled predicate gating events and choices.
// The zero value is always satisfied. Groups compose: All is an AND
// sub-list, Any is an OR sub-list.
type Requirement struct {
	Periods     []TimePeriod
	Weathers    []Weather
	DangerTiers []DangerTier
	Stats       []StatBound
	Items       []ItemReq
	Skills      []SkillReq
	Reputation  []RepReq
	Flags       []FlagReq
	All         []Requirement
	Any         []Requirement
}

// Empty reports whether the requirement has no clauses at all.
func (r Requirement) Empty() bool {
	return len(r.Periods) == 0 && len(r.Weathers) == 0 && len(r.DangerTiers) == 0 &&
		len(r.Stats) == 0 && len(r.Items) == 0 && len(r.Skills) == 0 &&
		len(r.Reputation) == 0 && len(r.Flags) == 0 &&
		len(r.All) == 0 && len(r.Any) == 0
}

// Outcome is the compiled, validated set of state changes a choice applies.
// Outcomes are parsed once at load time and never mutated afterward.
type Outcome struct {
	Stats            map[Stat]float64 // additive deltas; hunger already negated into satiety
	Money            float64          // positive credit, negative debit request
	Heat             float64          // police attention delta
	JobProspects     float64
	HousingProspects float64
	Items            map[string]int // item grants; non-positive entries dropped at parse
	Skills           map[string]int
	Reputation       map[string]int // routed through the reputation subsystem
	Flags            []string       // story flags set true, with day shadow
	QuestProgress    map[string]int // progress increments per quest id
	Unlocks          []string       // event ids unlocked for future selection
	Message          string         // free-text, passed through verbatim
}

// IsZero reports whether the outcome changes nothing and carries no message.
func (o Outcome) IsZero() bool {
	return len(o.Stats) == 0 && o.Money == 0 && o.Heat == 0 &&
		o.JobProspects == 0 && o.HousingProspects == 0 &&
		len(o.Items) == 0 && len(o.Skills) == 0 && len(o.Reputation) == 0 &&
		len(o.Flags) == 0 && len(o.QuestProgress) == 0 && len(o.Unlocks) == 0 &&
		o.Message == ""
}

// Choice is a selectable option within an event. When SuccessChance is in
// (0, 1), Outcome applies on a successful roll and FailOutcome otherwise;
// a zero SuccessChance means the choice always succeeds.
type Choice struct {
	Text          string
	Requires      Requirement
	Outcome       Outcome
	SuccessChance float64
	FailOutcome   Outcome
}

// ChainLink maps a resolved choice to a follow-up event. Match is a
// case-insensitive substring of the choice text; Index is used instead when
// Match is empty. Guard must hold for the link to fire.
type ChainLink struct {
	Match string
	Index int
	Next  string
	Guard Requirement
}

// Event is an immutable authored encounter template. Locked events are
// ineligible for selection until an outcome's long-term unlock names them.
type Event struct {
	ID          string
	Title       string
	Description string
	Type        EventType
	Requires    Requirement
	Choices     []Choice
	Chains      []ChainLink
	Locked      bool
}

// Scaled derives a fresh copy with every outcome magnitude multiplied by
// factor. The template is never mutated; the copy is discarded after use.
func (e *Event) Scaled(factor float64) *Event {
	if factor == 1 {
		return e
	}
	cp := *e
	cp.Choices = make([]Choice, len(e.Choices))
	for i, c := range e.Choices {
		c.Outcome = c.Outcome.scaled(factor)
		c.FailOutcome = c.FailOutcome.scaled(factor)
		cp.Choices[i] = c
	}
	return &cp
}

func (o Outcome) scaled(factor float64) Outcome {
	if len(o.Stats) > 0 {
		stats := make(map[Stat]float64, len(o.Stats))
		for k, v := range o.Stats {
			stats[k] = v * factor
		}
		o.Stats = stats
	}
	o.Money *= factor
	o.Heat *= factor
	o.JobProspects *= factor
	o.HousingProspects *= factor
	return o
}

// ChoiceMemo is a lightweight record of a recent (event, choice, outcome)
// used for narrative callbacks, independent of the full journal.
type ChoiceMemo struct {
	EventID string
	Choice  string
	Note    string
}

// FieldChange records one applied outcome field for journaling and display.
type FieldChange struct {
	Field  string
	Before float64
	After  float64
}

// Summary is the structured effect report returned by the outcome applier.
type Summary struct {
	Changes       []FieldChange
	ItemsGained   map[string]int
	ItemsLost     map[string]int
	FlagsSet      []string
	Notifications []string // reputation subsystem messages, shortfall notices
	Shortfall     bool     // a money debit exceeded the balance
	Message       string
	Failed        bool // the choice's success roll failed
}

// QuestStatus is the lifecycle state of a quest instance.
type QuestStatus string

const (
	QuestNotStarted QuestStatus = "not_started"
	QuestActive     QuestStatus = "active"
	QuestCompleted  QuestStatus = "completed"
	QuestFailed     QuestStatus = "failed"
)

// QuestBranch redirects the next step when its condition matches the
// current step. Exactly one of Faction/Flag is set.
type QuestBranch struct {
	AtStep  int
	Faction string // reputation path: fires when standing >= MinRep
	MinRep  int
	Flag    string // flag path: fires when the story flag is set
	Target  string // step event id to jump to
}

// QuestDef is an authored multi-step quest.
type QuestDef struct {
	ID         string
	Title      string
	Steps      []string // ordered event ids
	Branches   []QuestBranch
	TimeLimit  int     // days from start; 0 = unlimited
	OnComplete Outcome // applied exactly once at completion
	OnFail     Outcome // applied exactly once at failure
	Follows    string  // quest id auto-started on completion
}

// Faction is an authored reputation faction with per-faction bounds and
// ripple relations.
type Faction struct {
	ID     string
	Name   string
	Min    int
	Max    int
	Allies []string
	Rivals []string
}

// ItemDef carries per-item metadata used by the inventory capacity invariant.
type ItemDef struct {
	ID     string
	Name   string
	Weight float64
}

// LocationDef is an authored location exposed to the engine through Site.
type LocationDef struct {
	ID          string
	Name        string
	Kind        string
	DangerLevel int
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
}
