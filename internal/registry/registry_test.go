package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/lane-racer/internal/config"
)

func TestBuiltinTracksAreValid(t *testing.T) {
	for _, tr := range List() {
		t.Run(tr.ID, func(t *testing.T) {
			cfg := config.Default()
			tr.Apply(&cfg)
			if err := cfg.Validate(); err != nil {
				t.Errorf("track %q produces invalid config: %v", tr.ID, err)
			}
			if len(cfg.Lanes) != len(tr.Lanes) {
				t.Errorf("Lanes = %v, expected %v", cfg.Lanes, tr.Lanes)
			}
		})
	}
}

func TestListSorted(t *testing.T) {
	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
	if !Exists(DefaultTrack) {
		t.Errorf("default track %q not registered", DefaultTrack)
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("moon")
	if !errors.Is(err, ErrUnknownTrack) {
		t.Errorf("Get(unknown) error = %v, expected ErrUnknownTrack", err)
	}
}

func TestApplyClampsPlayerStart(t *testing.T) {
	cfg := config.Default()
	tr, err := Get("backroad")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	tr.Apply(&cfg)

	if cfg.Player.X > cfg.PlayerMaxX() || cfg.Player.X < cfg.PlayerMinX() {
		t.Errorf("player start x=%v outside [%v, %v]", cfg.Player.X, cfg.PlayerMinX(), cfg.PlayerMaxX())
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() with a duplicate ID should panic")
		}
	}()
	Register(Track{ID: DefaultTrack})
}

func TestConfigure(t *testing.T) {
	base := config.Default()

	cfg, err := Configure(base, "highway", config.DifficultyHard)
	if err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	if len(cfg.Lanes) != 3 || cfg.Screen.Width != 520 {
		t.Errorf("Configure(highway) lanes %v width %v, expected 3 lanes on 520", cfg.Lanes, cfg.Screen.Width)
	}
	if cfg.Difficulty.InitialLevel != config.InitialLevelForPreset(config.DifficultyHard) {
		t.Errorf("InitialLevel = %v, expected the hard preset", cfg.Difficulty.InitialLevel)
	}
	if len(base.Lanes) != 2 {
		t.Errorf("Configure modified the base lanes: %v", base.Lanes)
	}

	if cfg, err = Configure(base, "", ""); err != nil || cfg.Screen.Width != 400 {
		t.Errorf("Configure(default) = width %v, err %v", cfg.Screen.Width, err)
	}

	if _, err := Configure(base, "moon", ""); !errors.Is(err, ErrUnknownTrack) {
		t.Errorf("Configure(moon) error = %v, expected ErrUnknownTrack", err)
	}

	broken := base
	broken.Player.MaxFuel = -1
	if _, err := Configure(broken, "classic", ""); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Configure(broken) error = %v, expected ErrInvalidConfig", err)
	}
}
