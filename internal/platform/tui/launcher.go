package tui

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/registry"
	"github.com/vovakirdan/lane-racer/internal/session"
	"github.com/vovakirdan/lane-racer/internal/storage"
)

// LauncherOptions holds what every machine built by a Launcher shares.
type LauncherOptions struct {
	Base   config.Config
	Store  *storage.Store    // Nil keeps scores in memory for the process lifetime
	Audio  session.AudioSink // Nil is silent
	Logger *log.Logger       // Nil discards
	Seed   int64             // Zero picks a time-based seed per launch
}

// Launcher builds session machines for a track and difficulty.
// It is safe for concurrent use by SSH sessions.
type Launcher struct {
	opts LauncherOptions

	mu     sync.Mutex
	boards map[string]*storage.MemoryBoard
}

// NewLauncher creates a launcher.
func NewLauncher(opts LauncherOptions) *Launcher {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Launcher{opts: opts, boards: make(map[string]*storage.MemoryBoard)}
}

// Launch builds a machine for trackID at preset.
func (l *Launcher) Launch(trackID string, preset config.DifficultyPreset) (*session.Machine, error) {
	if trackID == "" {
		trackID = registry.DefaultTrack
	}
	cfg, err := registry.Configure(l.opts.Base, trackID, preset)
	if err != nil {
		return nil, err
	}

	seed := l.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	l.opts.Logger.Debug("launching session", "track", trackID, "difficulty", preset, "seed", seed)

	return session.New(session.Options{
		Config: cfg,
		Store:  l.Board(trackID, cfg.Session.LeaderboardSize),
		Audio:  l.opts.Audio,
		Logger: l.opts.Logger.With("track", trackID),
		Seed:   seed,
	}), nil
}

// Board returns the score table for trackID.
func (l *Launcher) Board(trackID string, limit int) session.ScoreStore {
	if l.opts.Store != nil {
		return storage.NewBoard(l.opts.Store, trackID, limit, l.opts.Logger)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.boards[trackID]
	if !ok {
		b = storage.NewMemoryBoard(limit)
		l.boards[trackID] = b
	}
	return b
}
