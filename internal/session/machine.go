// Package session drives the racer from the start menu through a run to the
// leaderboard. A Machine owns the simulated clock and exactly one active
// screen state at a time; platforms feed it input snapshots and draw it
// through the world.Renderer port.
package session

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/storage"
	"github.com/vovakirdan/lane-racer/internal/world"
)

// ErrIllegalTransition is returned when a state change is not allowed.
var ErrIllegalTransition = errors.New("session: illegal transition")

// Sound played on menu navigation and selection.
const SoundMenu = "menu"

// StateID names a screen state.
type StateID uint8

const (
	StateStartMenu StateID = iota
	StatePlaying
	StateNameEntry
	StateLeaderboard
	StateCredits
	StateGameOver
)

// String returns a human-readable state name.
func (s StateID) String() string {
	switch s {
	case StateStartMenu:
		return "start_menu"
	case StatePlaying:
		return "playing"
	case StateNameEntry:
		return "name_entry"
	case StateLeaderboard:
		return "leaderboard"
	case StateCredits:
		return "credits"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// transitions lists the states reachable from each state.
var transitions = map[StateID][]StateID{
	StateStartMenu:   {StatePlaying, StateLeaderboard, StateCredits},
	StatePlaying:     {StateNameEntry, StateGameOver},
	StateNameEntry:   {StateStartMenu, StateGameOver},
	StateLeaderboard: {StateStartMenu},
	StateCredits:     {StateStartMenu},
	StateGameOver:    {StateStartMenu, StatePlaying},
}

// State is one screen of the session.
type State interface {
	ID() StateID
	Enter(m *Machine)
	OnInput(m *Machine, i core.Intent)
	Update(m *Machine, in core.Input, dt time.Duration)
	Render(m *Machine, r world.Renderer)
}

// textReceiver is implemented by states that accept typed characters.
type textReceiver interface {
	OnText(m *Machine, r rune)
}

// Options configures a Machine.
type Options struct {
	Config config.Config
	Store  ScoreStore  // Defaults to an in-memory board
	Audio  AudioSink   // Defaults to silence
	Logger *log.Logger // Defaults to discarding everything
	Seed   int64       // Seeds every run started by the machine
}

// Machine is the session state machine.
type Machine struct {
	cfg    config.Config
	store  ScoreStore
	audio  AudioSink
	logger *log.Logger
	rng    *rand.Rand

	clock   time.Duration
	states  map[StateID]State
	current State
	fade    float64 // Screen opacity 0..255 since the last transition
	done    bool

	world     *world.World
	lastScore int
}

// New creates a machine in the start menu.
func New(opts Options) *Machine {
	m := &Machine{
		cfg:    opts.Config,
		store:  opts.Store,
		audio:  opts.Audio,
		logger: opts.Logger,
		rng:    rand.New(rand.NewSource(opts.Seed)),
	}
	if m.store == nil {
		m.store = storage.NewMemoryBoard(opts.Config.Session.LeaderboardSize)
	}
	if m.audio == nil {
		m.audio = nopAudio{}
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}

	m.states = map[StateID]State{
		StateStartMenu:   &startMenu{},
		StatePlaying:     &playing{},
		StateNameEntry:   &nameEntry{},
		StateLeaderboard: &leaderboard{},
		StateCredits:     &credits{},
		StateGameOver:    &gameOver{},
	}
	m.current = m.states[StateStartMenu]
	m.current.Enter(m)
	return m
}

// Step advances the machine by dt with one input snapshot.
// Typed text is delivered first, then discrete presses in order, then the
// state's continuous update. Presses queued behind a transition are dropped.
func (m *Machine) Step(in core.Input, dt time.Duration) {
	if m.done {
		return
	}
	m.clock += dt

	for _, i := range in.Pressed {
		if i == core.IntentQuit {
			m.logger.Debug("quit requested", "state", m.current.ID())
			m.done = true
			return
		}
	}

	if tr, ok := m.current.(textReceiver); ok {
		for _, r := range in.Text {
			tr.OnText(m, r)
		}
	}
	for _, i := range in.Pressed {
		before := m.current
		before.OnInput(m, i)
		if m.current != before || m.done {
			break
		}
	}
	if m.done {
		return
	}

	m.current.Update(m, in, dt)
	m.fade = math.Min(255, m.fade+m.cfg.Session.FadeSpeed*dt.Seconds())
}

// Render draws the current state and the fade-in overlay.
func (m *Machine) Render(r world.Renderer) {
	m.current.Render(m, r)
	if m.fade < 255 {
		r.Dim(1 - m.fade/255)
	}
}

// Transition moves to another state if the move is allowed.
func (m *Machine) Transition(to StateID) error {
	from := m.current.ID()
	if !allowed(from, to) {
		m.logger.Warn("refused state transition", "from", from, "to", to)
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	m.logger.Debug("state transition", "from", from, "to", to)
	m.current = m.states[to]
	m.fade = 0
	m.current.Enter(m)
	return nil
}

func allowed(from, to StateID) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// goTo moves to another state. Refusals are logged by Transition.
func (m *Machine) goTo(to StateID) {
	_ = m.Transition(to)
}

// Current returns the active state.
func (m *Machine) Current() StateID { return m.current.ID() }

// Done reports whether the player asked to quit.
func (m *Machine) Done() bool { return m.done }

// Now returns the simulated clock in milliseconds.
func (m *Machine) Now() int64 { return m.clock.Milliseconds() }

// World returns the world of the current or most recent run, or nil.
func (m *Machine) World() *world.World { return m.world }

// LastScore returns the final score of the most recent finished run.
func (m *Machine) LastScore() int { return m.lastScore }

// Fade returns the current screen opacity in [0, 255].
func (m *Machine) Fade() float64 { return m.fade }

// AcceptsText reports whether the active state consumes typed characters.
func (m *Machine) AcceptsText() bool {
	_, ok := m.current.(textReceiver)
	return ok
}

// Config returns the session configuration.
func (m *Machine) Config() config.Config { return m.cfg }

func (m *Machine) play(id string) {
	m.audio.Play(id)
}
