package replay

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
	"github.com/vovakirdan/lane-racer/internal/session"
	"github.com/vovakirdan/lane-racer/internal/storage"
)

const frame = 16 * time.Millisecond

// script is a fixed input sequence: start a race, weave for a while, fire.
func script(i int) core.Input {
	var in core.Input
	switch {
	case i == 0:
		in.Press(core.IntentConfirm)
	case i%120 < 60:
		in.Hold(core.IntentLeft)
	default:
		in.Hold(core.IntentRight)
	}
	if i%30 == 0 {
		in.Hold(core.IntentFire)
	}
	return in
}

func record(t *testing.T, cfg config.Config, seed int64, frames int) (*session.Machine, *Recording) {
	t.Helper()
	rec, err := NewRecorder(cfg, "classic", seed, 60)
	if err != nil {
		t.Fatalf("NewRecorder() failed: %v", err)
	}
	m := session.New(session.Options{Config: cfg, Seed: seed})
	for i := 0; i < frames && !m.Done(); i++ {
		in := script(i)
		rec.Record(in, frame)
		m.Step(in, frame)
	}
	if rec.Len() != frames {
		t.Fatalf("Len() = %d, expected %d", rec.Len(), frames)
	}
	return m, rec.Recording()
}

func TestFrameRoundTrip(t *testing.T) {
	var in core.Input
	in.Hold(core.IntentLeft)
	in.Hold(core.IntentFire)
	in.Press(core.IntentConfirm)
	in.Press(core.IntentBackspace)
	in.Text = []rune("Zoë")

	f := NewFrame(in, 16666*time.Microsecond)
	got := f.Input()
	if !reflect.DeepEqual(got, in) {
		t.Errorf("Input() = %+v, expected %+v", got, in)
	}
	if f.Duration() != 16666*time.Microsecond {
		t.Errorf("Duration() = %v, expected 16.666ms", f.Duration())
	}
}

func TestPlaybackMatchesLiveRun(t *testing.T) {
	cfg := config.Default()
	live, rec := record(t, cfg, 42, 1500)

	path := filepath.Join(t.TempDir(), "run.rpl")
	if err := Save(path, rec); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Header.Seed != 42 || loaded.Header.Track != "classic" || len(loaded.Frames) != 1500 {
		t.Fatalf("loaded header %+v with %d frames", loaded.Header, len(loaded.Frames))
	}

	res, err := Run(loaded, nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.State != live.Current() {
		t.Errorf("State = %v, expected %v", res.State, live.Current())
	}
	if res.Score != live.World().Score() {
		t.Errorf("Score = %d, expected %d", res.Score, live.World().Score())
	}
	if res.LastScore != live.LastScore() {
		t.Errorf("LastScore = %d, expected %d", res.LastScore, live.LastScore())
	}
	if res.Duration != loaded.Duration() {
		t.Errorf("Duration = %v, expected %v", res.Duration, loaded.Duration())
	}
}

func TestPlaybackAgainstFullBoard(t *testing.T) {
	cfg := config.Default()
	full := make([]core.HighScore, cfg.Session.LeaderboardSize)
	for i := range full {
		full[i] = core.HighScore{Name: "ace", Score: 1_000_000}
	}

	rec, err := NewRecorder(cfg, "classic", 9, 60)
	if err != nil {
		t.Fatalf("NewRecorder() failed: %v", err)
	}
	board := storage.NewMemoryBoardFrom(cfg.Session.LeaderboardSize, full)
	rec.SetBoard(board.HighScores())
	live := session.New(session.Options{Config: cfg, Store: board, Seed: 9})

	// Start a run, idle until it ends, then pick Play Again.
	restarted := -1
	for i := 0; i < 20000 && (restarted < 0 || i < restarted+10); i++ {
		var in core.Input
		if i == 0 || (restarted < 0 && live.Current() == session.StateGameOver) {
			in.Press(core.IntentConfirm)
			if i > 0 {
				restarted = i
			}
		}
		rec.Record(in, frame)
		live.Step(in, frame)
	}
	if restarted < 0 {
		t.Fatal("the idle run never reached the game over screen")
	}
	if live.Current() != session.StatePlaying {
		t.Fatalf("live state = %v, expected %v", live.Current(), session.StatePlaying)
	}

	recording := rec.Recording()
	if len(recording.Header.Board) != len(full) {
		t.Fatalf("header board has %d entries, expected %d", len(recording.Header.Board), len(full))
	}
	res, err := Run(recording, nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.State != live.Current() {
		t.Errorf("State = %v, expected %v", res.State, live.Current())
	}
	if res.LastScore != live.LastScore() {
		t.Errorf("LastScore = %d, expected %d", res.LastScore, live.LastScore())
	}
}

func TestPlaybackUsesRecordedConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Player.MaxFuel = 1
	cfg.Player.FuelDrain = 1
	cfg.Obstacles.InitialDelayMS = 1 << 40
	_, rec := record(t, cfg, 7, 400)

	got, err := rec.Config()
	if err != nil {
		t.Fatalf("Config() failed: %v", err)
	}
	if got.Player.MaxFuel != 1 {
		t.Errorf("recorded MaxFuel = %v, expected 1", got.Player.MaxFuel)
	}

	res, err := Run(rec, nil)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if res.State == session.StatePlaying {
		t.Error("a one-unit tank should run dry before the recording ends")
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	data, err := msgpack.Marshal(&Recording{Header: Header{Version: 99}})
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, ErrBadVersion) {
		t.Errorf("Decode() error = %v, expected ErrBadVersion", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.rpl")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestCursor(t *testing.T) {
	rec := &Recording{Frames: []Frame{{DT: 1000}, {DT: 2000}}}
	cur := rec.Cursor()
	var total time.Duration
	for {
		_, dt, ok := cur.Next()
		if !ok {
			break
		}
		total += dt
	}
	if total != 3*time.Millisecond || !cur.Done() {
		t.Errorf("cursor walked %v, done %v", total, cur.Done())
	}
}
