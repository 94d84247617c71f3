package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/streetcore/engine"
	"github.com/nathoo/streetcore/engine/journal"
	"github.com/nathoo/streetcore/engine/save"
	"github.com/nathoo/streetcore/types"
	"github.com/nathoo/streetcore/world"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the StreetCore TUI.
type Model struct {
	session *engine.Session
	world   *world.World

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	pending  *engine.Presented // event awaiting a numbered choice
	width    int
	height   int
	ready    bool
	quitting bool
	gameOver bool
	saveDir  string
}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// New creates a TUI model wired to the given session and world.
func New(sess *engine.Session, w *world.World) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	return Model{
		session: sess,
		world:   w,
		input:   ti,
		history: NewHistory(100),
		saveDir: filepath.Join(home, ".streetcore", "saves"),
	}
}

// Run starts the Bubble Tea program.
func Run(sess *engine.Session, w *world.World) error {
	m := New(sess, w)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that produces the intro text.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		game := m.session.Cat.Game
		var lines []string

		lines = append(lines, game.Title+" v"+game.Version)
		lines = append(lines, "")

		if game.Intro != "" {
			lines = append(lines, game.Intro)
			lines = append(lines, "")
		}
		lines = append(lines, "Type /help for what you can do.")

		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Meta-commands work even mid-event and after game over.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.gameOver {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"It's over. /load a save or /quit."}, isSystem: true,
		})
		return m, nil
	}

	if m.pending != nil {
		m = m.handleChoice(input)
		return m, nil
	}

	m = m.handleAction(input)
	return m, nil
}

// handleAction dispatches a game action and presents the resulting event.
func (m Model) handleAction(input string) Model {
	parts := strings.Fields(strings.ToLower(input))
	verb := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	var pres *engine.Presented
	var lines []string

	switch verb {
	case "explore", "e":
		pres = m.session.Encounter(m.world, m.world.Here())

	case "travel", "t":
		if arg == "" {
			return m.appendOutput(gameOutputMsg{input: input, isSystem: true,
				lines: []string{"Travel where? Known places: " + strings.Join(m.world.LocationIDs(), ", ")}})
		}
		if !m.knownLocation(arg) {
			return m.appendOutput(gameOutputMsg{input: input, isSystem: true,
				lines: []string{"You don't know how to get to " + arg + "."}})
		}
		m.world.Depart()
		pres = m.session.EncounterTravel(m.world)
		m.world.MoveTo(arg)
		lines = append(lines, "You arrive at "+m.world.HereName()+".")

	case "shelter", "sleep":
		quality := arg
		if quality == "" {
			quality = "poor"
		}
		pres = m.session.EncounterShelter(m.world, m.world.Here(), quality)

	case "work", "w":
		if arg == "" {
			arg = "cans"
		}
		pres = m.session.EncounterJob(m.world, m.world.Here(), arg)

	case "wait", "z":
		pres = m.session.EncounterWaiting(m.world, m.world.Here())

	case "risk":
		pres = m.session.EncounterDanger(m.world, m.world.Here())

	case "quest", "q":
		if arg == "" {
			return m.appendOutput(gameOutputMsg{input: input, lines: m.questLines(), isSystem: true})
		}
		if m.session.Player.QuestStatus(arg) == types.QuestNotStarted && m.session.StartQuest(arg) {
			if q, ok := m.session.Cat.Quests[arg]; ok {
				lines = append(lines, "["+"New quest: "+q.Title+"]")
			}
		}
		pres = m.session.EncounterQuest(m.world, m.world.Here(), arg)
		if pres == nil {
			return m.appendOutput(gameOutputMsg{input: input, isSystem: true,
				lines: []string{"Nothing to pursue there right now."}})
		}

	default:
		return m.appendOutput(gameOutputMsg{input: input, isSystem: true,
			lines: []string{"You're not sure how to do that. Type /help for what you can do."}})
	}

	m.pending = pres
	lines = append(lines, presentLines(pres)...)
	return m.appendOutput(gameOutputMsg{input: input, lines: lines})
}

// handleChoice resolves a numbered choice on the pending event.
func (m Model) handleChoice(input string) Model {
	n, err := strconv.Atoi(input)
	if err != nil {
		return m.appendOutput(gameOutputMsg{input: input, isSystem: true,
			lines: []string{"Pick a number from the list."}})
	}

	res, err := m.session.Choose(m.pending, n-1, m.world, m.world.Here())
	if err == engine.ErrInvalidChoice {
		return m.appendOutput(gameOutputMsg{input: input, isSystem: true,
			lines: []string{"Pick a number from the list."}})
	}
	if err == engine.ErrChoiceLocked {
		return m.appendOutput(gameOutputMsg{input: input, isSystem: true,
			lines: []string{"That's not an option for you right now."}})
	}

	lines := summaryLines(res.Summary)
	for _, note := range res.Notes {
		lines = append(lines, "["+note+"]")
	}

	m.pending = res.Next
	if m.pending != nil {
		lines = append(lines, "")
		lines = append(lines, presentLines(m.pending)...)
		return m.appendOutput(gameOutputMsg{input: input, lines: lines})
	}

	// Turn resolved: time passes.
	if !m.session.Player.Alive() {
		m.gameOver = true
		lines = append(lines, "", "Your body gives out. The city doesn't notice.")
		return m.appendOutput(gameOutputMsg{input: input, lines: lines})
	}
	if m.world.Advance() {
		for _, note := range m.session.ExpireQuests() {
			lines = append(lines, "["+note+"]")
		}
		lines = append(lines, fmt.Sprintf("A new day. Day %d, %s.", m.world.Day(), m.world.Weather()))
	}
	return m.appendOutput(gameOutputMsg{input: input, lines: lines})
}

func (m Model) knownLocation(id string) bool {
	for _, known := range m.world.LocationIDs() {
		if known == id {
			return true
		}
	}
	return false
}

// presentLines formats a presented event with its numbered options.
func presentLines(pres *engine.Presented) []string {
	lines := []string{pres.Event.Title, pres.Event.Description}
	for _, opt := range pres.Options {
		if opt.Enabled {
			lines = append(lines, fmt.Sprintf("  %d. %s", opt.Index+1, opt.Text))
		} else {
			lines = append(lines, fmt.Sprintf("  %d. %s (%s)", opt.Index+1, opt.Text, opt.Reason))
		}
	}
	return lines
}

// summaryLines formats a resolution summary.
func summaryLines(s types.Summary) []string {
	var lines []string
	if s.Failed {
		lines = append(lines, "It doesn't go the way you hoped.")
	}
	if s.Message != "" {
		lines = append(lines, s.Message)
	}
	for _, ch := range s.Changes {
		delta := ch.After - ch.Before
		lines = append(lines, fmt.Sprintf("  %s %+.0f (%.0f)", ch.Field, delta, ch.After))
	}
	for item, qty := range s.ItemsGained {
		lines = append(lines, fmt.Sprintf("  +%d %s", qty, item))
	}
	for item, qty := range s.ItemsLost {
		lines = append(lines, fmt.Sprintf("  -%d %s", qty, item))
	}
	for _, n := range s.Notifications {
		lines = append(lines, "  "+n)
	}
	return lines
}

func (m Model) questLines() []string {
	p := m.session.Player
	if len(p.ActiveQuests) == 0 && len(p.CompletedQuests) == 0 && len(p.FailedQuests) == 0 {
		return []string{"Nothing on your mind."}
	}
	var lines []string
	for _, id := range p.ActiveQuests {
		title := id
		if q, ok := m.session.Cat.Quests[id]; ok {
			title = q.Title
		}
		lines = append(lines, fmt.Sprintf("%s — ongoing (quest %s to pursue it)", title, id))
	}
	for id := range p.CompletedQuests {
		lines = append(lines, id+" — done")
	}
	for id := range p.FailedQuests {
		lines = append(lines, id+" — slipped away")
	}
	return lines
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTitle:
		return styleTitle.Render(line)
	case kindChoice:
		return styleChoice.Render(line)
	case kindDelta:
		return styleDelta.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindSetback:
		return styleSetback.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Preserves existing newlines within the text.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/journal":
		return m.cmdJournal(), false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := save.Snapshot(m.session.Player, m.session.Cat.Game, m.world.State(),
		m.session.RNG.Seed(), m.session.RNG.Position())
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	sd, err := save.Restore(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	m.session.Player = sd.Player
	m.session.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	m.world.SetState(sd.World)
	m.pending = nil
	m.gameOver = !m.session.Player.Alive()

	return []string{fmt.Sprintf("Game loaded from %s (day %d).", name, sd.World.Day)}
}

func (m *Model) cmdHelp() []string {
	return []string{
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
		"",
		"During an event, answer with the choice number.",
		"Navigation: PgUp/PgDn to scroll, Up/Down for input history",
	}
}

func (m *Model) cmdState() []string {
	p := m.session.Player
	output := []string{
		fmt.Sprintf("Day %d, %s, %s", m.world.Day(), m.world.Period(), m.world.Weather()),
		fmt.Sprintf("Money: $%.2f  Heat: %.0f", p.Money, p.Heat),
		fmt.Sprintf("Prospects: job %.0f, housing %.0f", p.JobProspects, p.HousingProspects),
	}
	if len(p.Inventory) > 0 {
		output = append(output, fmt.Sprintf("Carrying (%.1f/%.1f kg): %v",
			p.CarryWeight(m.session.Cat.ItemWeight), p.CarryCapacity, p.Inventory))
	}
	if len(p.Skills) > 0 {
		output = append(output, fmt.Sprintf("Skills: %v", p.Skills))
	}
	if len(p.Reputation) > 0 {
		output = append(output, fmt.Sprintf("Standing: %v", p.Reputation))
	}
	output = append(output, m.questLines()...)
	return output
}

func (m *Model) cmdJournal() []string {
	entries := m.session.Journal.Recent(5)
	if len(entries) == 0 {
		return []string{"Nothing worth remembering yet."}
	}
	var output []string
	for _, e := range entries {
		output = append(output, journal.Render(e)...)
	}
	output = append(output, m.session.Journal.Insights()...)
	return output
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
