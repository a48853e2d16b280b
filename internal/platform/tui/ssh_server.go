package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.racer/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every session.
	TickRate int

	// Difficulty is the preset the track picker starts on.
	Difficulty config.DifficultyPreset
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		Difficulty:  config.DifficultyNormal,
	}
}

// SSHServer wraps a Wish SSH server for the racer.
// Every connection gets its own session machine; scores go to one shared store.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	launcher *Launcher
	store    *storage.Store
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server. base is the configuration every
// session starts from; store may be nil to keep scores in memory.
func NewSSHServer(cfg SSHServerConfig, base config.Config, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
		launcher: NewLauncher(LauncherOptions{
			Base:   base,
			Store:  store,
			Logger: logger,
		}),
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".racer", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(s.launcher, s.store, SessionModelOptions{
		Width:      pty.Window.Width,
		Height:     pty.Window.Height,
		TickRate:   s.config.TickRate,
		Difficulty: s.config.Difficulty,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModelOptions configures a SessionModel.
type SessionModelOptions struct {
	Width      int
	Height     int
	TickRate   int
	Difficulty config.DifficultyPreset
}

// SessionModel manages the full flow of one player: track picker, race,
// scoreboard and back. It is the top-level model for SSH sessions and for
// local play without a fixed track.
type SessionModel struct {
	launcher   *Launcher
	store      *storage.Store
	opts       SessionModelOptions
	menu       MenuModel
	race       *Model
	scoreboard *ScoreboardModel
	quitting   bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(launcher *Launcher, store *storage.Store, opts SessionModelOptions) SessionModel {
	return SessionModel{
		launcher: launcher,
		store:    store,
		opts:     opts,
		menu:     NewMenuModel(opts.Width, opts.Height, opts.Difficulty),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	switch {
	case m.race != nil:
		return m.updateRace(msg)
	case m.scoreboard != nil:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates while the track picker is shown.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		sb := NewScoreboardModel(m.store, m.opts.Width, m.opts.Height)
		m.scoreboard = &sb
		m.menu = NewMenuModel(m.opts.Width, m.opts.Height, m.menu.Difficulty())
		return m, sb.Init()

	case m.menu.Selected() != nil:
		selected := m.menu.Selected()
		machine, err := m.launcher.Launch(selected.TrackID, m.menu.Difficulty())
		m.opts.Difficulty = m.menu.Difficulty()
		m.menu = NewMenuModel(m.opts.Width, m.opts.Height, m.opts.Difficulty)
		if err != nil {
			m.launcher.opts.Logger.Warn("cannot launch session", "track", selected.TrackID, "err", err)
			return m, nil
		}
		race := NewModel(machine, ModelOptions{
			TickRate: m.opts.TickRate,
			Width:    m.opts.Width,
			Height:   m.opts.Height,
		})
		m.race = &race
		return m, race.Init()
	}

	return m, cmd
}

// updateRace handles updates while a race machine runs.
func (m SessionModel) updateRace(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.race.Update(msg)
	if race, ok := next.(Model); ok {
		m.race = &race
	}

	if m.race.IsQuitting() {
		// The machine's Quit returns to the picker instead of closing the connection
		m.race = nil
		return m, nil
	}
	return m, cmd
}

// updateScoreboard handles updates while the scoreboard is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sb, ok := next.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		m.scoreboard = nil
		return m, nil
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.race != nil:
		return m.race.View()
	case m.scoreboard != nil:
		return m.scoreboard.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the picker-race loop locally until the player quits.
func RunSession(launcher *Launcher, store *storage.Store, opts SessionModelOptions) error {
	p := tea.NewProgram(
		NewSessionModel(launcher, store, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
