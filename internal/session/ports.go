package session

import "github.com/vovakirdan/lane-racer/internal/core"

// ScoreStore persists the high-score table of one track.
type ScoreStore interface {
	// IsHighScore reports whether score would enter the table.
	IsHighScore(score int) bool
	// AddScore records a named score.
	AddScore(name string, score int) error
	// HighScores returns the table, best first.
	HighScores() []core.HighScore
}

// AudioSink plays a sound for a gameplay event.
type AudioSink interface {
	Play(id string)
}

type nopAudio struct{}

func (nopAudio) Play(string) {}
