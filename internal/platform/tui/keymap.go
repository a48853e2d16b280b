package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lane-racer/internal/core"
)

// DefaultHoldDecay is how long a key counts as held after its last press.
// Terminals report repeats, not releases, so a held key is one that keeps
// repeating within this window.
const DefaultHoldDecay = 200 * time.Millisecond

// KeyMap defines the key bindings for a session.
type KeyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Fire      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Backspace key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Fire, k.Confirm, k.Cancel, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Fire, k.Confirm, k.Cancel, k.Backspace, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "down"),
		),
		Fire: key.NewBinding(
			key.WithKeys(" ", "f"),
			key.WithHelp("space", "fire"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// InputCollector turns key messages into per-tick input snapshots.
type InputCollector struct {
	keys    KeyMap
	decay   time.Duration
	held    map[core.Intent]time.Time
	pressed []core.Intent
	text    []rune
}

// NewInputCollector creates a collector. A zero decay uses DefaultHoldDecay.
func NewInputCollector(keys KeyMap, decay time.Duration) *InputCollector {
	if decay <= 0 {
		decay = DefaultHoldDecay
	}
	return &InputCollector{
		keys:  keys,
		decay: decay,
		held:  make(map[core.Intent]time.Time),
	}
}

// HandleKey records one key message received at now.
// While text is accepted, printable keys are typed instead of mapped, and
// only ctrl+c quits.
func (c *InputCollector) HandleKey(msg tea.KeyMsg, now time.Time, acceptsText bool) {
	if acceptsText {
		switch {
		case msg.Type == tea.KeyCtrlC:
			c.pressed = append(c.pressed, core.IntentQuit)
		case key.Matches(msg, c.keys.Confirm):
			c.pressed = append(c.pressed, core.IntentConfirm)
		case key.Matches(msg, c.keys.Cancel):
			c.pressed = append(c.pressed, core.IntentCancel)
		case key.Matches(msg, c.keys.Backspace):
			c.pressed = append(c.pressed, core.IntentBackspace)
		case msg.Type == tea.KeySpace:
			c.text = append(c.text, ' ')
		case msg.Type == tea.KeyRunes:
			c.text = append(c.text, msg.Runes...)
		}
		return
	}

	switch {
	case key.Matches(msg, c.keys.Quit):
		c.pressed = append(c.pressed, core.IntentQuit)
	case key.Matches(msg, c.keys.Left):
		c.held[core.IntentLeft] = now
	case key.Matches(msg, c.keys.Right):
		c.held[core.IntentRight] = now
	case key.Matches(msg, c.keys.Up):
		c.held[core.IntentUp] = now
		c.pressed = append(c.pressed, core.IntentNavigateUp)
	case key.Matches(msg, c.keys.Down):
		c.held[core.IntentDown] = now
		c.pressed = append(c.pressed, core.IntentNavigateDown)
	case key.Matches(msg, c.keys.Fire):
		c.held[core.IntentFire] = now
	case key.Matches(msg, c.keys.Confirm):
		c.pressed = append(c.pressed, core.IntentConfirm)
	case key.Matches(msg, c.keys.Cancel):
		c.pressed = append(c.pressed, core.IntentCancel)
	case key.Matches(msg, c.keys.Backspace):
		c.pressed = append(c.pressed, core.IntentBackspace)
	}
}

// Snapshot returns the input for a tick at now and clears queued presses
// and text. Held intents expire once their key stops repeating.
func (c *InputCollector) Snapshot(now time.Time) core.Input {
	var in core.Input
	for i, at := range c.held {
		if now.Sub(at) > c.decay {
			delete(c.held, i)
			continue
		}
		in.Hold(i)
	}
	in.Pressed = c.pressed
	in.Text = c.text
	c.pressed = nil
	c.text = nil
	return in
}

// Release forgets every held key.
func (c *InputCollector) Release() {
	clear(c.held)
}
