package storage

import (
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-racer/internal/core"
)

// qualifies reports whether score enters a best-first table of at most limit entries.
// Zero never qualifies.
func qualifies(table []core.HighScore, limit, score int) bool {
	if score <= 0 {
		return false
	}
	if len(table) < limit {
		return true
	}
	return score > table[len(table)-1].Score
}

// Board is the high-score table of one track backed by a Store.
// Read errors are logged and degrade to an empty table that nothing
// qualifies for; write errors are returned.
type Board struct {
	store   *Store
	trackID string
	limit   int
	logger  *log.Logger
}

// NewBoard creates a board for trackID keeping limit entries.
// A nil logger discards.
func NewBoard(store *Store, trackID string, limit int, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Board{store: store, trackID: trackID, limit: limit, logger: logger}
}

func (b *Board) table() ([]core.HighScore, error) {
	entries, err := b.store.TopScores(b.trackID, b.limit)
	if err != nil {
		b.logger.Warn("cannot read high scores", "track", b.trackID, "err", err)
		return nil, err
	}
	out := make([]core.HighScore, len(entries))
	for i, e := range entries {
		out[i] = core.HighScore{Name: e.Name, Score: e.Score}
	}
	return out, nil
}

// HighScores returns the table, best first.
func (b *Board) HighScores() []core.HighScore {
	out, _ := b.table()
	return out
}

// IsHighScore reports whether score would enter the table.
func (b *Board) IsHighScore(score int) bool {
	table, err := b.table()
	if err != nil {
		return false
	}
	return qualifies(table, b.limit, score)
}

// AddScore records a named score.
func (b *Board) AddScore(name string, score int) error {
	_, err := b.store.SaveScore(b.trackID, name, score)
	return err
}

// MemoryBoard is an in-process high-score table, used when no database is
// available and by headless replays.
type MemoryBoard struct {
	mu      sync.Mutex
	limit   int
	entries []core.HighScore
}

// NewMemoryBoard creates an empty board keeping limit entries.
func NewMemoryBoard(limit int) *MemoryBoard {
	if limit <= 0 {
		limit = 10
	}
	return &MemoryBoard{limit: limit}
}

// NewMemoryBoardFrom creates a board holding entries, sorted and trimmed
// to limit.
func NewMemoryBoardFrom(limit int, entries []core.HighScore) *MemoryBoard {
	b := NewMemoryBoard(limit)
	b.entries = append(b.entries, entries...)
	b.sortLocked()
	return b
}

// HighScores returns a copy of the table, best first.
func (b *MemoryBoard) HighScores() []core.HighScore {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]core.HighScore(nil), b.entries...)
}

// IsHighScore reports whether score would enter the table.
func (b *MemoryBoard) IsHighScore(score int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return qualifies(b.entries, b.limit, score)
}

// AddScore inserts a named score, keeping the table sorted and trimmed.
func (b *MemoryBoard) AddScore(name string, score int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, core.HighScore{Name: name, Score: score})
	b.sortLocked()
	return nil
}

func (b *MemoryBoard) sortLocked() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].Score > b.entries[j].Score
	})
	if len(b.entries) > b.limit {
		b.entries = b.entries[:b.limit]
	}
}
