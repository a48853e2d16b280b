package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/session"
	"github.com/vovakirdan/lane-racer/internal/world"
)

// Fallback terminal size when the caller does not know it.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Recorder receives every input snapshot the machine is stepped with.
type Recorder interface {
	Record(in core.Input, dt time.Duration)
}

// Publisher receives a world snapshot after every tick of a run.
type Publisher interface {
	Publish(s world.Snapshot)
}

// FrameSource supplies recorded input in place of the keyboard.
type FrameSource interface {
	Next() (core.Input, time.Duration, bool)
}

// ModelOptions configures a Model.
type ModelOptions struct {
	TickRate  int
	Width     int
	Height    int
	Recorder  Recorder    // Optional
	Publisher Publisher   // Optional
	Playback  FrameSource // Drives the machine instead of the keyboard when set
	HoldDecay time.Duration
}

// Model is the Bubble Tea model driving one session machine.
type Model struct {
	machine   *session.Machine
	renderer  *ScreenRenderer
	input     *InputCollector
	keys      KeyMap
	help      help.Model
	tickRate  int
	frame     time.Duration
	recorder  Recorder
	publisher Publisher
	playback  FrameSource
	quitting  bool
}

// NewModel creates a model for machine.
func NewModel(machine *session.Machine, opts ModelOptions) Model {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = defaultWidth, defaultHeight
	}
	cfg := machine.Config()
	keys := DefaultKeyMap()
	h := help.New()
	h.Width = opts.Width

	return Model{
		machine:   machine,
		renderer:  NewScreenRenderer(core.NewScreen(opts.Width, opts.Height-1), cfg.Screen.Width, cfg.Screen.Height),
		input:     NewInputCollector(keys, opts.HoldDecay),
		keys:      keys,
		help:      h,
		tickRate:  opts.TickRate,
		frame:     frameDuration(opts.TickRate),
		recorder:  opts.Recorder,
		publisher: opts.Publisher,
		playback:  opts.Playback,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.renderer.Resize(msg.Width, core.Max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "?":
		if !m.machine.AcceptsText() {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	if m.playback != nil {
		// Only quitting is possible while a recording plays
		if msg.String() == "ctrl+c" || msg.String() == "q" || msg.String() == "esc" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	m.input.HandleKey(msg, time.Now(), m.machine.AcceptsText())
	return m, nil
}

// handleTick steps the machine by one fixed frame.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	in, dt := core.Input{}, m.frame
	if m.playback != nil {
		var ok bool
		in, dt, ok = m.playback.Next()
		if !ok {
			m.quitting = true
			return m, tea.Quit
		}
	} else {
		in = m.input.Snapshot(now)
	}

	if m.recorder != nil {
		m.recorder.Record(in, dt)
	}
	before := m.machine.Current()
	m.machine.Step(in, dt)
	if m.machine.Current() != before {
		m.input.Release()
	}

	if m.publisher != nil && m.machine.Current() == session.StatePlaying {
		if w := m.machine.World(); w != nil {
			m.publisher.Publish(w.Snapshot())
		}
	}

	if m.machine.Done() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, tickCmd(m.tickRate)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.machine.Render(m.renderer)

	dir := filepath.Join(os.Getenv("HOME"), ".racer", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("racer_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.renderer.Screen().String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.machine.Render(m.renderer)

	var b strings.Builder
	b.WriteString(RenderScreen(m.renderer.Screen()))
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if m.playback != nil {
		b.WriteString(helpStyle.Render("replay  •  q quit"))
	} else {
		b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	}
	return b.String()
}

// Machine returns the driven session machine.
func (m Model) Machine() *session.Machine { return m.machine }

// IsQuitting returns true once the machine finished or the user quit.
func (m Model) IsQuitting() bool { return m.quitting }

// Run starts the Bubble Tea program for machine and blocks until it ends.
func Run(machine *session.Machine, opts ModelOptions) error {
	model := NewModel(machine, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
