package session

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/entity"
	"github.com/vovakirdan/lane-racer/internal/resolve"
	"github.com/vovakirdan/lane-racer/internal/storage"
	"github.com/vovakirdan/lane-racer/internal/world"
)

const frame = 16 * time.Millisecond

type recordingAudio struct {
	played []string
}

func (a *recordingAudio) Play(id string) { a.played = append(a.played, id) }

type nullRenderer struct {
	dims  []float64
	texts []string
}

func (r *nullRenderer) FillBackground(core.Color)             {}
func (r *nullRenderer) DrawRect(core.Bounds, core.Color)      {}
func (r *nullRenderer) DrawEntity(*entity.Entity, core.Color) {}
func (r *nullRenderer) DrawText(_, _ float64, s string, _ core.Color) {
	r.texts = append(r.texts, s)
}
func (r *nullRenderer) DrawTextCentered(_ float64, s string, _ core.Color) {
	r.texts = append(r.texts, s)
}
func (r *nullRenderer) Dim(a float64) { r.dims = append(r.dims, a) }

// fuelOutConfig ends every run by running out of fuel about a second in,
// with nothing spawning on the road.
func fuelOutConfig() config.Config {
	cfg := config.Default()
	cfg.Obstacles.InitialDelayMS = 1 << 40
	cfg.Pickups.Fuel.Rate = 0
	cfg.Pickups.Ghost.Rate = 0
	cfg.Pickups.Weapon.Rate = 0
	cfg.Player.MaxFuel = 1
	cfg.Player.FuelDrain = 1
	return cfg
}

func press(intents ...core.Intent) core.Input {
	var in core.Input
	for _, i := range intents {
		in.Press(i)
	}
	return in
}

func typed(s string) core.Input {
	return core.Input{Text: []rune(s)}
}

func steer() core.Input {
	var in core.Input
	in.Hold(core.IntentLeft)
	return in
}

// driveUntilLeavesPlaying steers until the run ends and the machine moves on.
// It returns the ms between the terminal tick and the transition.
func driveUntilLeavesPlaying(t *testing.T, m *Machine) int64 {
	t.Helper()
	for i := 0; i < 1000 && m.Current() == StatePlaying; i++ {
		m.Step(steer(), frame)
	}
	if m.Current() == StatePlaying {
		t.Fatal("run never ended")
	}
	return m.Now() - m.World().TerminalAt()
}

func TestStartMenuToPlaying(t *testing.T) {
	m := New(Options{Config: config.Default()})
	if m.Current() != StateStartMenu {
		t.Fatalf("initial state = %v, expected start_menu", m.Current())
	}
	m.Step(press(core.IntentConfirm), frame)
	if m.Current() != StatePlaying {
		t.Fatalf("state = %v, expected playing", m.Current())
	}
	if m.World() == nil || m.World().Status() != world.StatusRunning {
		t.Error("entering playing should build a running world")
	}
}

func TestIllegalTransitionRefused(t *testing.T) {
	m := New(Options{Config: config.Default()})
	m.Step(press(core.IntentConfirm), frame)

	err := m.Transition(StateCredits)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Transition(credits) from playing = %v, expected ErrIllegalTransition", err)
	}
	if m.Current() != StatePlaying {
		t.Errorf("state = %v, expected to stay in playing", m.Current())
	}
}

func TestRunEndsIntoNameEntryAfterDelay(t *testing.T) {
	cfg := fuelOutConfig()
	audio := &recordingAudio{}
	board := storage.NewMemoryBoard(cfg.Session.LeaderboardSize)
	m := New(Options{Config: cfg, Store: board, Audio: audio})
	m.Step(press(core.IntentConfirm), frame)

	waited := driveUntilLeavesPlaying(t, m)
	if waited < cfg.Session.PostTerminalDelayMS || waited > cfg.Session.PostTerminalDelayMS+frame.Milliseconds() {
		t.Errorf("left playing %dms after the terminal tick, expected %d", waited, cfg.Session.PostTerminalDelayMS)
	}
	if m.Current() != StateNameEntry {
		t.Fatalf("state = %v, expected name_entry on an empty board", m.Current())
	}
	if m.World().Reason() != resolve.ReasonFuelOut {
		t.Errorf("Reason = %v, expected fuel_out", m.World().Reason())
	}
	if !containsString(audio.played, resolve.EventFuelOut) {
		t.Errorf("audio played %v, expected %s", audio.played, resolve.EventFuelOut)
	}
	if m.LastScore() <= 0 {
		t.Errorf("LastScore = %d, expected a positive score", m.LastScore())
	}
}

func TestNameEntrySavesScore(t *testing.T) {
	cfg := fuelOutConfig()
	board := storage.NewMemoryBoard(cfg.Session.LeaderboardSize)
	m := New(Options{Config: cfg, Store: board})
	m.Step(press(core.IntentConfirm), frame)
	driveUntilLeavesPlaying(t, m)

	// Empty and blank names are refused
	m.Step(press(core.IntentConfirm), frame)
	m.Step(typed("   "), frame)
	m.Step(press(core.IntentConfirm), frame)
	if m.Current() != StateNameEntry {
		t.Fatalf("blank name accepted, state = %v", m.Current())
	}
	for i := 0; i < 3; i++ {
		m.Step(press(core.IntentBackspace), frame)
	}

	m.Step(typed("Ann"), frame)
	m.Step(press(core.IntentConfirm), frame)
	if m.Current() != StateStartMenu {
		t.Fatalf("state = %v, expected start_menu after saving", m.Current())
	}
	scores := board.HighScores()
	if len(scores) != 1 || scores[0].Name != "Ann" || scores[0].Score != m.LastScore() {
		t.Errorf("HighScores() = %+v, expected Ann/%d", scores, m.LastScore())
	}
}

func TestNameEntryLengthLimit(t *testing.T) {
	cfg := fuelOutConfig()
	board := storage.NewMemoryBoard(cfg.Session.LeaderboardSize)
	m := New(Options{Config: cfg, Store: board})
	m.Step(press(core.IntentConfirm), frame)
	driveUntilLeavesPlaying(t, m)

	m.Step(typed("abcdefghijklmnopqrstuvwxyz"), frame)
	m.Step(press(core.IntentConfirm), frame)

	scores := board.HighScores()
	if len(scores) != 1 || len([]rune(scores[0].Name)) != cfg.Session.MaxNameLength {
		t.Errorf("saved %+v, expected name cut to %d characters", scores, cfg.Session.MaxNameLength)
	}
}

func TestNameEntryCancelSkipsSave(t *testing.T) {
	cfg := fuelOutConfig()
	board := storage.NewMemoryBoard(cfg.Session.LeaderboardSize)
	m := New(Options{Config: cfg, Store: board})
	m.Step(press(core.IntentConfirm), frame)
	driveUntilLeavesPlaying(t, m)

	m.Step(typed("Bob"), frame)
	m.Step(press(core.IntentCancel), frame)
	if m.Current() != StateGameOver {
		t.Errorf("state = %v, expected game_over after cancel", m.Current())
	}
	if len(board.HighScores()) != 0 {
		t.Error("cancelled name entry should not save a score")
	}
}

func TestLowScoreGoesToGameOverAndRestarts(t *testing.T) {
	cfg := fuelOutConfig()
	board := storage.NewMemoryBoard(1)
	board.AddScore("champ", 1_000_000)
	m := New(Options{Config: cfg, Store: board})
	m.Step(press(core.IntentConfirm), frame)
	driveUntilLeavesPlaying(t, m)

	if m.Current() != StateGameOver {
		t.Fatalf("state = %v, expected game_over", m.Current())
	}
	first := m.World()
	m.Step(press(core.IntentConfirm), frame)
	if m.Current() != StatePlaying {
		t.Fatalf("state = %v, expected playing after restart", m.Current())
	}
	if m.World() == first || m.World().Status() != world.StatusRunning {
		t.Error("restart should build a fresh world")
	}
}

func TestGameOverCancelToMenu(t *testing.T) {
	cfg := fuelOutConfig()
	board := storage.NewMemoryBoard(1)
	board.AddScore("champ", 1_000_000)
	m := New(Options{Config: cfg, Store: board})
	m.Step(press(core.IntentConfirm), frame)
	driveUntilLeavesPlaying(t, m)

	m.Step(press(core.IntentNavigateDown), frame)
	m.Step(press(core.IntentConfirm), frame)
	if m.Current() != StateStartMenu {
		t.Errorf("state = %v, expected start_menu via Main Menu", m.Current())
	}
}

func TestMenuScreensReturnToStart(t *testing.T) {
	tests := []struct {
		name  string
		down  int
		state StateID
	}{
		{"leaderboard", 1, StateLeaderboard},
		{"credits", 2, StateCredits},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New(Options{Config: config.Default()})
			for i := 0; i < tc.down; i++ {
				m.Step(press(core.IntentNavigateDown), frame)
			}
			m.Step(press(core.IntentConfirm), frame)
			if m.Current() != tc.state {
				t.Fatalf("state = %v, expected %v", m.Current(), tc.state)
			}
			m.Step(press(core.IntentCancel), frame)
			if m.Current() != StateStartMenu {
				t.Errorf("state = %v, expected start_menu", m.Current())
			}
		})
	}
}

func TestQuit(t *testing.T) {
	m := New(Options{Config: config.Default()})
	m.Step(press(core.IntentQuit), frame)
	if !m.Done() {
		t.Error("quit intent should finish the machine")
	}

	m = New(Options{Config: config.Default()})
	for i := 0; i < 3; i++ {
		m.Step(press(core.IntentNavigateDown), frame)
	}
	m.Step(press(core.IntentConfirm), frame)
	if !m.Done() {
		t.Error("Quit menu item should finish the machine")
	}
}

func TestFadeIn(t *testing.T) {
	cfg := config.Default()
	m := New(Options{Config: cfg})
	m.Step(press(core.IntentConfirm), 0)
	if m.Fade() != 0 {
		t.Fatalf("Fade() = %v right after a transition, expected 0", m.Fade())
	}

	m.Step(core.Input{}, 500*time.Millisecond)
	if want := cfg.Session.FadeSpeed * 0.5; m.Fade() != want {
		t.Errorf("Fade() = %v, expected %v", m.Fade(), want)
	}
	var r nullRenderer
	m.Render(&r)
	if len(r.dims) != 1 {
		t.Fatalf("Dim called %d times, expected once while fading", len(r.dims))
	}

	m.Step(core.Input{}, time.Second)
	if m.Fade() != 255 {
		t.Errorf("Fade() = %v, expected to saturate at 255", m.Fade())
	}
	r = nullRenderer{}
	m.Render(&r)
	if len(r.dims) != 0 {
		t.Error("no dim overlay once fully faded in")
	}
}

func TestCreditsAnimation(t *testing.T) {
	cfg := config.Default()
	m := New(Options{Config: cfg})
	c := &credits{}

	if off, shown := c.rowOffset(m, 0); !shown || off != 1 {
		t.Errorf("row 0 at t=0: offset %v shown %v, expected 1 true", off, shown)
	}
	if _, shown := c.rowOffset(m, 1); shown {
		t.Error("row 1 should wait for its row delay")
	}

	c.elapsed = cfg.Session.CreditsAnimDuration
	if off, _ := c.rowOffset(m, 0); off != 0 {
		t.Errorf("row 0 after its duration: offset %v, expected 0", off)
	}
	if off, shown := c.rowOffset(m, 1); !shown || off <= 0 || off >= 1 {
		t.Errorf("row 1 mid-animation: offset %v shown %v", off, shown)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
