package replay

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/session"
	"github.com/vovakirdan/lane-racer/internal/storage"
)

// Cursor walks the frames of a recording in order.
type Cursor struct {
	rec *Recording
	pos int
}

// Cursor returns a cursor at the first frame.
func (r *Recording) Cursor() *Cursor {
	return &Cursor{rec: r}
}

// Next returns the next frame's input and step length.
func (c *Cursor) Next() (core.Input, time.Duration, bool) {
	if c.pos >= len(c.rec.Frames) {
		return core.Input{}, 0, false
	}
	f := c.rec.Frames[c.pos]
	c.pos++
	return f.Input(), f.Duration(), true
}

// Done reports whether every frame has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.rec.Frames) }

// Result summarizes a headless playback.
type Result struct {
	Frames    int
	Duration  time.Duration
	State     session.StateID
	Score     int // Score of the last run, finished or not
	LastScore int // Final score of the last finished run
}

// NewMachine builds a session matching the recording. Scores go to a
// throwaway in-memory board seeded with the recorded table, so playback
// never touches real tables.
func NewMachine(rec *Recording, audio session.AudioSink, logger *log.Logger) (*session.Machine, error) {
	cfg, err := rec.Config()
	if err != nil {
		return nil, err
	}
	return session.New(session.Options{
		Config: cfg,
		Store:  storage.NewMemoryBoardFrom(cfg.Session.LeaderboardSize, rec.Header.Board),
		Audio:  audio,
		Logger: logger,
		Seed:   rec.Header.Seed,
	}), nil
}

// Run plays a recording to the end without rendering.
func Run(rec *Recording, logger *log.Logger) (Result, error) {
	m, err := NewMachine(rec, nil, logger)
	if err != nil {
		return Result{}, err
	}

	var res Result
	cur := rec.Cursor()
	for !m.Done() {
		in, dt, ok := cur.Next()
		if !ok {
			break
		}
		m.Step(in, dt)
		res.Frames++
		res.Duration += dt
	}

	res.State = m.Current()
	res.LastScore = m.LastScore()
	if w := m.World(); w != nil {
		res.Score = w.Score()
	}
	return res, nil
}
