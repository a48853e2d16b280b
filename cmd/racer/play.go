package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lane-racer/internal/audio"
	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/platform/tui"
	"github.com/vovakirdan/lane-racer/internal/registry"
	"github.com/vovakirdan/lane-racer/internal/replay"
	"github.com/vovakirdan/lane-racer/internal/session"
	"github.com/vovakirdan/lane-racer/internal/spectate"
	"github.com/vovakirdan/lane-racer/internal/storage"
)

var (
	flagTrack      string
	flagDifficulty string
	flagRecord     string
	flagSpectate   string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Race on a track",
	Long: `Start racing. Without --track a picker lets you choose the layout and
difficulty, and you return to it after every session.

Controls:
  Left/Right/A/D  - Change lane
  Up/Down/W/S     - Accelerate / brake, navigate menus
  Space/F         - Fire (while armed)
  Enter           - Confirm
  Esc             - Back
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  racer play
  racer play --track highway
  racer play --track backroad --difficulty hard
  racer play --record run.rpl --seed 42
  racer play --spectate :8080
  racer play --config ./my-racer.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagTrack, "track", "", "Track layout (skips the picker)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Record the session's input to FILE")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a websocket spectator feed on ADDR")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

// parsePreset validates a --difficulty value. Empty is allowed.
func parsePreset(s string) (config.DifficultyPreset, error) {
	p := config.DifficultyPreset(s)
	switch p {
	case "", config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		return p, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

func runPlay(_ *cobra.Command, _ []string) error {
	preset, err := parsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	if flagTrack != "" && !registry.Exists(flagTrack) {
		return fmt.Errorf("unknown track %q, run 'racer list' to see available tracks", flagTrack)
	}

	base, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog := newFileLogger()
	defer closeLog()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores are kept in memory", "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	sink, closeAudio := openAudio(logger)
	defer closeAudio()

	launcher := tui.NewLauncher(tui.LauncherOptions{
		Base:   base,
		Store:  store,
		Audio:  sink,
		Logger: logger,
		Seed:   flagSeed,
	})

	width, height := terminalSize()

	// Picker loop when nothing pins the session to one track
	if flagTrack == "" && flagRecord == "" && flagSpectate == "" {
		if preset == "" {
			preset = config.DifficultyNormal
		}
		return tui.RunSession(launcher, store, tui.SessionModelOptions{
			Width:      width,
			Height:     height,
			TickRate:   flagFPS,
			Difficulty: preset,
		})
	}

	trackID := flagTrack
	if trackID == "" {
		trackID = registry.DefaultTrack
	}
	cfg, err := registry.Configure(base, trackID, preset)
	if err != nil {
		return err
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	board := launcher.Board(trackID, cfg.Session.LeaderboardSize)
	machine := session.New(session.Options{
		Config: cfg,
		Store:  board,
		Audio:  sink,
		Logger: logger.With("track", trackID),
		Seed:   seed,
	})

	opts := tui.ModelOptions{
		TickRate: flagFPS,
		Width:    width,
		Height:   height,
	}

	var recorder *replay.Recorder
	if flagRecord != "" {
		recorder, err = replay.NewRecorder(cfg, trackID, seed, flagFPS)
		if err != nil {
			return err
		}
		recorder.SetDifficulty(string(preset))
		recorder.SetBoard(board.HighScores())
		opts.Recorder = recorder
	}

	if flagSpectate != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hub := spectate.NewHub(logger)
		srv := spectate.NewServer(flagSpectate, hub)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("spectator server shutdown", "err", err)
			}
		}()
		logger.Info("spectator feed listening", "addr", srv.Addr())
		opts.Publisher = hub
	}

	runErr := tui.Run(machine, opts)

	if recorder != nil {
		if err := replay.Save(flagRecord, recorder.Recording()); err != nil {
			return fmt.Errorf("cannot save recording: %w", err)
		}
		fmt.Printf("Recorded %d frames to %s\n", recorder.Len(), flagRecord)
	}

	return runErr
}

// openAudio returns the sound sink for local play and its closer.
// A missing audio device degrades to silence.
func openAudio(logger *log.Logger) (session.AudioSink, func()) {
	if flagMute {
		return audio.Nop{}, func() {}
	}
	player := audio.NewPlayer(0)
	if err := player.Initialize(); err != nil {
		logger.Warn("audio unavailable, running silent", "err", err)
		return audio.Nop{}, func() {}
	}
	return player, player.Close
}
