package session

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/resolve"
	"github.com/vovakirdan/lane-racer/internal/world"
)

// menuCursor is a wrapping selection over n items.
type menuCursor struct {
	pos int
}

func (c *menuCursor) move(m *Machine, delta, n int) {
	c.pos = (c.pos + delta + n) % n
	m.play(SoundMenu)
}

func navigate(i core.Intent) int {
	switch i {
	case core.IntentNavigateUp:
		return -1
	case core.IntentNavigateDown:
		return 1
	}
	return 0
}

func drawMenu(r world.Renderer, y float64, items []string, cursor int) {
	for i, item := range items {
		c := core.ColorWhite
		label := "  " + item + "  "
		if i == cursor {
			c = core.ColorBrightYellow
			label = "> " + item + " <"
		}
		r.DrawTextCentered(y+float64(i)*28, label, c)
	}
}

// Start menu

var startMenuItems = []string{"Start Race", "Leaderboard", "Credits", "Quit"}

type startMenu struct {
	cursor menuCursor
}

func (s *startMenu) ID() StateID { return StateStartMenu }

func (s *startMenu) Enter(m *Machine) {
	s.cursor.pos = 0
}

func (s *startMenu) OnInput(m *Machine, i core.Intent) {
	if d := navigate(i); d != 0 {
		s.cursor.move(m, d, len(startMenuItems))
		return
	}
	switch i {
	case core.IntentConfirm:
		m.play(SoundMenu)
		switch s.cursor.pos {
		case 0:
			m.goTo(StatePlaying)
		case 1:
			m.goTo(StateLeaderboard)
		case 2:
			m.goTo(StateCredits)
		case 3:
			m.done = true
		}
	case core.IntentCancel:
		m.done = true
	}
}

func (s *startMenu) Update(*Machine, core.Input, time.Duration) {}

func (s *startMenu) Render(m *Machine, r world.Renderer) {
	h := m.cfg.Screen.Height
	r.FillBackground(core.ColorDefault)
	r.DrawTextCentered(h*0.2, "L A N E   R A C E R", core.ColorBrightCyan)
	r.DrawTextCentered(h*0.2+30, "dodge the traffic, watch the fuel", core.ColorGray)
	drawMenu(r, h*0.45, startMenuItems, s.cursor.pos)

	if best := m.store.HighScores(); len(best) > 0 {
		r.DrawTextCentered(h*0.8, fmt.Sprintf("Best: %s %d", best[0].Name, best[0].Score), core.ColorGold)
	}
	r.DrawTextCentered(h-30, "Up/Down: Navigate  Enter: Select  Q: Quit", core.ColorDarkGray)
}

// Playing

type playing struct{}

func (s *playing) ID() StateID { return StatePlaying }

func (s *playing) Enter(m *Machine) {
	seed := m.rng.Int63()
	m.world = world.New(m.cfg, seed, m.Now())
	m.logger.Info("run started", "seed", seed)
}

func (s *playing) OnInput(*Machine, core.Intent) {}

func (s *playing) Update(m *Machine, in core.Input, dt time.Duration) {
	w := m.world
	res := w.Tick(m.Now(), dt, in)
	for _, ev := range res.Events {
		m.play(ev)
	}
	if res.Terminal {
		m.logger.Info("run ended", "score", res.Score, "reason", res.Reason)
	}

	if w.Status() != world.StatusFrozen || m.Now()-w.TerminalAt() < m.cfg.Session.PostTerminalDelayMS {
		return
	}
	m.lastScore = w.Score()
	if m.store.IsHighScore(m.lastScore) {
		m.goTo(StateNameEntry)
	} else {
		m.goTo(StateGameOver)
	}
}

func (s *playing) Render(m *Machine, r world.Renderer) {
	w := m.world
	w.Draw(r)
	if w.Status() != world.StatusFrozen {
		return
	}
	msg := "CRASHED!"
	if w.Reason() == resolve.ReasonFuelOut {
		msg = "OUT OF FUEL"
	}
	r.DrawTextCentered(m.cfg.Screen.Height/2, msg, core.ColorBrightRed)
}

// Name entry

type nameEntry struct {
	name []rune
}

func (s *nameEntry) ID() StateID { return StateNameEntry }

func (s *nameEntry) Enter(m *Machine) {
	s.name = s.name[:0]
}

func (s *nameEntry) OnText(m *Machine, r rune) {
	if !unicode.IsPrint(r) || len(s.name) >= m.cfg.Session.MaxNameLength {
		return
	}
	s.name = append(s.name, r)
}

func (s *nameEntry) OnInput(m *Machine, i core.Intent) {
	switch i {
	case core.IntentBackspace:
		if len(s.name) > 0 {
			s.name = s.name[:len(s.name)-1]
		}
	case core.IntentConfirm:
		name := strings.TrimSpace(string(s.name))
		if name == "" {
			return
		}
		if err := m.store.AddScore(name, m.lastScore); err != nil {
			m.logger.Error("could not save score", "name", name, "score", m.lastScore, "error", err)
		}
		m.play(SoundMenu)
		m.goTo(StateStartMenu)
	case core.IntentCancel:
		m.goTo(StateGameOver)
	}
}

func (s *nameEntry) Update(*Machine, core.Input, time.Duration) {}

func (s *nameEntry) Render(m *Machine, r world.Renderer) {
	h := m.cfg.Screen.Height
	r.FillBackground(core.ColorDefault)
	r.DrawTextCentered(h*0.25, "NEW HIGH SCORE!", core.ColorGold)
	r.DrawTextCentered(h*0.25+30, fmt.Sprintf("%d", m.lastScore), core.ColorBrightWhite)
	r.DrawTextCentered(h*0.5, "Enter your name:", core.ColorWhite)

	cursor := " "
	if (m.Now()/500)%2 == 0 && len(s.name) < m.cfg.Session.MaxNameLength {
		cursor = "_"
	}
	r.DrawTextCentered(h*0.5+30, string(s.name)+cursor, core.ColorBrightYellow)
	r.DrawTextCentered(h-30, "Enter: Save  Esc: Skip", core.ColorDarkGray)
}

// Leaderboard

type leaderboard struct {
	entries []core.HighScore
}

func (s *leaderboard) ID() StateID { return StateLeaderboard }

func (s *leaderboard) Enter(m *Machine) {
	s.entries = m.store.HighScores()
}

func (s *leaderboard) OnInput(m *Machine, i core.Intent) {
	if i == core.IntentConfirm || i == core.IntentCancel {
		m.play(SoundMenu)
		m.goTo(StateStartMenu)
	}
}

func (s *leaderboard) Update(*Machine, core.Input, time.Duration) {}

func (s *leaderboard) Render(m *Machine, r world.Renderer) {
	h := m.cfg.Screen.Height
	r.FillBackground(core.ColorDefault)
	r.DrawTextCentered(h*0.1, "HIGH SCORES", core.ColorGold)

	if len(s.entries) == 0 {
		r.DrawTextCentered(h*0.4, "No scores yet", core.ColorGray)
	}
	for i, e := range s.entries {
		c := core.ColorWhite
		if i == 0 {
			c = core.ColorGold
		}
		r.DrawTextCentered(h*0.2+float64(i)*26, fmt.Sprintf("%2d. %-15s %6d", i+1, e.Name, e.Score), c)
	}
	r.DrawTextCentered(h-30, "Enter/Esc: Back", core.ColorDarkGray)
}

// Credits

var creditRows = []string{
	"LANE RACER",
	"",
	"Design & Code",
	"the lane-racer authors",
	"",
	"Built with",
	"Bubble Tea  Lip Gloss  Wish",
	"beep  SQLite",
	"",
	"Thanks for playing!",
}

type credits struct {
	elapsed float64 // Seconds since entering
}

func (s *credits) ID() StateID { return StateCredits }

func (s *credits) Enter(m *Machine) {
	s.elapsed = 0
}

func (s *credits) OnInput(m *Machine, i core.Intent) {
	if i == core.IntentConfirm || i == core.IntentCancel {
		m.play(SoundMenu)
		m.goTo(StateStartMenu)
	}
}

func (s *credits) Update(m *Machine, _ core.Input, dt time.Duration) {
	s.elapsed += dt.Seconds()
}

// rowOffset returns how far row i still sits below its resting place, as a
// fraction of the start offset, and whether it has started to appear.
func (s *credits) rowOffset(m *Machine, i int) (float64, bool) {
	sc := m.cfg.Session
	t := s.elapsed - float64(i)*sc.CreditsRowDelay
	if t < 0 {
		return 1, false
	}
	progress := 1.0
	if sc.CreditsAnimDuration > 0 {
		progress = core.ClampF(t/sc.CreditsAnimDuration, 0, 1)
	}
	return 1 - core.EaseOutCubic(progress), true
}

func (s *credits) Render(m *Machine, r world.Renderer) {
	h := m.cfg.Screen.Height
	r.FillBackground(core.ColorDefault)
	top := h * 0.15
	for i, row := range creditRows {
		off, shown := s.rowOffset(m, i)
		if !shown || row == "" {
			continue
		}
		c := core.ColorWhite
		if i == 0 {
			c = core.ColorBrightCyan
		}
		y := top + float64(i)*28 + off*m.cfg.Session.CreditsStartOffset*h
		r.DrawTextCentered(y, row, c)
	}
	r.DrawTextCentered(h-30, "Enter/Esc: Back", core.ColorDarkGray)
}

// Game over

var gameOverItems = []string{"Play Again", "Main Menu"}

type gameOver struct {
	cursor menuCursor
}

func (s *gameOver) ID() StateID { return StateGameOver }

func (s *gameOver) Enter(m *Machine) {
	s.cursor.pos = 0
}

func (s *gameOver) OnInput(m *Machine, i core.Intent) {
	if d := navigate(i); d != 0 {
		s.cursor.move(m, d, len(gameOverItems))
		return
	}
	switch i {
	case core.IntentConfirm:
		m.play(SoundMenu)
		if s.cursor.pos == 0 {
			m.goTo(StatePlaying)
		} else {
			m.goTo(StateStartMenu)
		}
	case core.IntentCancel:
		m.goTo(StateStartMenu)
	}
}

func (s *gameOver) Update(*Machine, core.Input, time.Duration) {}

func (s *gameOver) Render(m *Machine, r world.Renderer) {
	h := m.cfg.Screen.Height
	r.FillBackground(core.ColorDefault)
	r.DrawTextCentered(h*0.25, "GAME OVER", core.ColorBrightRed)
	r.DrawTextCentered(h*0.25+30, fmt.Sprintf("Score: %d", m.lastScore), core.ColorBrightWhite)
	if m.world != nil && m.world.Reason() == resolve.ReasonFuelOut {
		r.DrawTextCentered(h*0.25+56, "You ran out of fuel", core.ColorGray)
	}
	drawMenu(r, h*0.5, gameOverItems, s.cursor.pos)
}
