// Package cli provides the plain terminal loop, output formatting, and
// meta-command dispatch for the StreetCore engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/streetcore/engine"
	"github.com/nathoo/streetcore/engine/journal"
	"github.com/nathoo/streetcore/engine/save"
	"github.com/nathoo/streetcore/types"
	"github.com/nathoo/streetcore/world"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *engine.Session
	World     *world.World
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	EchoInput bool // echo each input line after the prompt (for script playback)

	scanner *bufio.Scanner
}

// New creates a CLI wired to the given session and world.
func New(sess *engine.Session, w *world.World) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".streetcore", "saves")
	return &CLI{
		Session: sess,
		World:   w,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run starts the game loop. It shows the intro and the status line, then
// loops: prompt → action → event → numbered choices → time advance.
func (c *CLI) Run() {
	if c.Session.Cat.Game.Intro != "" {
		c.printLine(c.Session.Cat.Game.Intro)
		c.printLine("")
	}
	c.printStatus()

	c.scanner = bufio.NewScanner(c.In)
	for {
		c.print("> ")
		input, ok := c.readLine()
		if !ok {
			return
		}
		if input == "" {
			continue
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		if !c.handleAction(input) {
			continue // unknown action, no time passes
		}

		if !c.Session.Player.Alive() {
			c.printLine("")
			c.printLine("Your body gives out. The city doesn't notice.")
			return
		}

		if c.World.Advance() {
			for _, note := range c.Session.ExpireQuests() {
				c.printSystem(note)
			}
			c.printLine(fmt.Sprintf("A new day. Day %d, %s.", c.World.Day(), c.World.Weather()))
		}
		c.printStatus()
	}
}

// handleAction dispatches a game action. Returns true when time should pass.
func (c *CLI) handleAction(input string) bool {
	parts := strings.Fields(strings.ToLower(input))
	verb := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch verb {
	case "explore", "e":
		c.playEvent(c.Session.Encounter(c.World, c.World.Here()))

	case "travel", "t":
		if arg == "" {
			c.printLine("Travel where? Known places: " + strings.Join(c.World.LocationIDs(), ", "))
			return false
		}
		if !c.knownLocation(arg) {
			c.printLine("You don't know how to get to " + arg + ".")
			return false
		}
		c.World.Depart()
		c.playEvent(c.Session.EncounterTravel(c.World))
		c.World.MoveTo(arg)
		c.printLine("You arrive at " + c.World.HereName() + ".")

	case "shelter", "sleep":
		quality := arg
		if quality == "" {
			quality = "poor"
		}
		c.playEvent(c.Session.EncounterShelter(c.World, c.World.Here(), quality))

	case "work", "w":
		if arg == "" {
			arg = "cans"
		}
		c.playEvent(c.Session.EncounterJob(c.World, c.World.Here(), arg))

	case "wait", "z":
		c.playEvent(c.Session.EncounterWaiting(c.World, c.World.Here()))

	case "risk":
		c.playEvent(c.Session.EncounterDanger(c.World, c.World.Here()))

	case "quest", "q":
		if arg == "" {
			c.listQuests()
			return false
		}
		if c.Session.Player.QuestStatus(arg) == types.QuestNotStarted && c.Session.StartQuest(arg) {
			if q, ok := c.Session.Cat.Quests[arg]; ok {
				c.printSystem("New quest: " + q.Title)
			}
		}
		pres := c.Session.EncounterQuest(c.World, c.World.Here(), arg)
		if pres == nil {
			c.printLine("Nothing to pursue there right now.")
			return false
		}
		c.playEvent(pres)

	default:
		c.printLine("You're not sure how to do that. Type /help for what you can do.")
		return false
	}
	return true
}

func (c *CLI) knownLocation(id string) bool {
	for _, known := range c.World.LocationIDs() {
		if known == id {
			return true
		}
	}
	return false
}

// playEvent runs one presented event to completion, following chained
// follow-ups until the turn resolves. Invalid numeric input re-prompts.
func (c *CLI) playEvent(pres *engine.Presented) {
	for pres != nil {
		c.printLine("")
		c.printLine(pres.Event.Title)
		c.printLine(pres.Event.Description)
		for _, opt := range pres.Options {
			if opt.Enabled {
				c.printLine(fmt.Sprintf("  %d. %s", opt.Index+1, opt.Text))
			} else {
				c.printLine(fmt.Sprintf("  %d. %s (%s)", opt.Index+1, opt.Text, opt.Reason))
			}
		}

		var res engine.Resolution
		for {
			c.print("choice> ")
			input, ok := c.readLine()
			if !ok {
				return
			}
			n, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil {
				c.printLine("Pick a number from the list.")
				continue
			}
			res, err = c.Session.Choose(pres, n-1, c.World, c.World.Here())
			if err == engine.ErrInvalidChoice {
				c.printLine("Pick a number from the list.")
				continue
			}
			if err == engine.ErrChoiceLocked {
				c.printLine("That's not an option for you right now.")
				continue
			}
			break
		}

		c.printSummary(res.Summary)
		for _, note := range res.Notes {
			c.printSystem(note)
		}
		pres = res.Next
	}
}

func (c *CLI) printSummary(s types.Summary) {
	if s.Failed {
		c.printLine("It doesn't go the way you hoped.")
	}
	if s.Message != "" {
		c.printLine(s.Message)
	}
	for _, ch := range s.Changes {
		delta := ch.After - ch.Before
		c.printLine(fmt.Sprintf("  %s %+.0f (%.0f)", ch.Field, delta, ch.After))
	}
	for item, qty := range s.ItemsGained {
		c.printLine(fmt.Sprintf("  +%d %s", qty, item))
	}
	for item, qty := range s.ItemsLost {
		c.printLine(fmt.Sprintf("  -%d %s", qty, item))
	}
	for _, n := range s.Notifications {
		c.printLine("  " + n)
	}
}

func (c *CLI) printStatus() {
	p := c.Session.Player
	where := c.World.HereName()
	if where == "" {
		where = "on the move"
	}
	c.printLine(fmt.Sprintf("[Day %d, %s, %s — %s]", c.World.Day(), c.World.Period(), c.World.Weather(), where))
	c.printLine(fmt.Sprintf("[health %.0f  satiety %.0f  energy %.0f  mental %.0f  hygiene %.0f  $%.2f]",
		p.Stat(types.Health), p.Stat(types.Satiety), p.Stat(types.Energy),
		p.Stat(types.Mental), p.Stat(types.Hygiene), p.Money))
}

func (c *CLI) listQuests() {
	p := c.Session.Player
	if len(p.ActiveQuests) == 0 && len(p.CompletedQuests) == 0 && len(p.FailedQuests) == 0 {
		c.printLine("Nothing on your mind.")
		return
	}
	for _, id := range p.ActiveQuests {
		title := id
		if q, ok := c.Session.Cat.Quests[id]; ok {
			title = q.Title
		}
		c.printLine(fmt.Sprintf("  %s — ongoing (quest %s to pursue it)", title, id))
	}
	for id := range p.CompletedQuests {
		c.printLine("  " + id + " — done")
	}
	for id := range p.FailedQuests {
		c.printLine("  " + id + " — slipped away")
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/journal":
		c.cmdJournal()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Snapshot(c.Session.Player, c.Session.Cat.Game, c.World.State(),
		c.Session.RNG.Seed(), c.Session.RNG.Position())
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	sd, err := save.Restore(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Session.Player = sd.Player
	c.Session.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	c.World.SetState(sd.World)
	c.printSystem(fmt.Sprintf("Game loaded from %s (day %d).", name, sd.World.Day))
	c.printStatus()
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]    — Save game (default: quicksave)",
		"  /load [name]    — Load game (default: quicksave)",
		"  /state          — Show your full condition",
		"  /journal        — Recent events and what they cost you",
		"  /quit           — Exit game",
		"  /help           — Show this help",
		"",
		"Actions (each takes time):",
		"  explore (e)         — See what the area holds",
		"  travel <place> (t)  — Move somewhere else",
		"  work [kind] (w)     — Scrape together some money",
		"  shelter [quality]   — Find somewhere to rest",
		"  wait (z)            — Let the hours pass",
		"  risk                — Court trouble on purpose",
		"  quest [id] (q)      — Pursue something longer-term",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	p := c.Session.Player
	c.printStatus()
	c.printSystem(fmt.Sprintf("Money: $%.2f  Heat: %.0f", p.Money, p.Heat))
	c.printSystem(fmt.Sprintf("Prospects: job %.0f, housing %.0f", p.JobProspects, p.HousingProspects))
	if len(p.Inventory) > 0 {
		c.printSystem(fmt.Sprintf("Carrying (%.1f/%.1f kg): %v",
			p.CarryWeight(c.Session.Cat.ItemWeight), p.CarryCapacity, p.Inventory))
	}
	if len(p.Skills) > 0 {
		c.printSystem(fmt.Sprintf("Skills: %v", p.Skills))
	}
	if len(p.Reputation) > 0 {
		c.printSystem(fmt.Sprintf("Standing: %v", p.Reputation))
	}
	c.listQuests()
}

func (c *CLI) cmdJournal() {
	entries := c.Session.Journal.Recent(5)
	if len(entries) == 0 {
		c.printSystem("Nothing worth remembering yet.")
		return
	}
	for _, e := range entries {
		for _, line := range journal.Render(e) {
			c.printLine(line)
		}
	}
	for _, insight := range c.Session.Journal.Insights() {
		c.printSystem(insight)
	}
}

func (c *CLI) readLine() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}
	input := strings.TrimSpace(c.scanner.Text())
	// Skip comment lines (for script files).
	if strings.HasPrefix(input, "#") {
		return "", true
	}
	if c.EchoInput && input != "" {
		c.printLine(input)
	}
	return input, true
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
