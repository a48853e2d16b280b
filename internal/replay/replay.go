// Package replay records the inputs of a session and plays them back.
// A recording holds the effective configuration, the session seed and one
// frame per machine step, so playback reproduces the run exactly.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/lane-racer/internal/config"
	"github.com/vovakirdan/lane-racer/internal/core"
)

// Version is the recording format written by this package.
const Version = 1

// ErrBadVersion is returned when a recording uses an unknown format.
var ErrBadVersion = errors.New("replay: unsupported recording version")

// Header describes how a recording was made.
type Header struct {
	Version    int       `msgpack:"v"`
	Track      string    `msgpack:"track"`
	Difficulty string    `msgpack:"difficulty,omitempty"`
	Seed       int64     `msgpack:"seed"`
	TickRate   int       `msgpack:"fps"`
	Config     []byte    `msgpack:"config"` // YAML of the effective config
	RecordedAt time.Time `msgpack:"at"`

	// Board is the high-score table as it stood when the run started.
	// Whether a finished run asks for a name depends on it.
	Board []core.HighScore `msgpack:"board,omitempty"`
}

// Frame is one machine step.
type Frame struct {
	DT      int64   `msgpack:"dt"` // Microseconds
	Held    uint16  `msgpack:"h,omitempty"`
	Pressed []uint8 `msgpack:"p,omitempty"`
	Text    string  `msgpack:"t,omitempty"`
}

// NewFrame captures one input snapshot.
func NewFrame(in core.Input, dt time.Duration) Frame {
	f := Frame{
		DT:   dt.Microseconds(),
		Held: uint16(in.Held),
		Text: string(in.Text),
	}
	for _, i := range in.Pressed {
		f.Pressed = append(f.Pressed, uint8(i))
	}
	return f
}

// Input rebuilds the input snapshot.
func (f Frame) Input() core.Input {
	in := core.Input{Held: core.IntentSet(f.Held)}
	for _, p := range f.Pressed {
		in.Press(core.Intent(p))
	}
	if f.Text != "" {
		in.Text = []rune(f.Text)
	}
	return in
}

// Duration returns the step length.
func (f Frame) Duration() time.Duration {
	return time.Duration(f.DT) * time.Microsecond
}

// Recording is a header followed by frames.
type Recording struct {
	Header Header  `msgpack:"header"`
	Frames []Frame `msgpack:"frames"`
}

// Config decodes the configuration stored in the header.
func (r *Recording) Config() (config.Config, error) {
	cfg, err := config.Parse(r.Header.Config)
	if err != nil {
		return cfg, fmt.Errorf("replay: cannot decode config: %w", err)
	}
	return cfg, nil
}

// Duration returns the simulated length of the recording.
func (r *Recording) Duration() time.Duration {
	var d time.Duration
	for _, f := range r.Frames {
		d += f.Duration()
	}
	return d
}

// Recorder accumulates frames while a session runs.
type Recorder struct {
	rec Recording
}

// NewRecorder starts a recording of a session built from cfg and seed.
func NewRecorder(cfg config.Config, track string, seed int64, fps int) (*Recorder, error) {
	data, err := config.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	return &Recorder{rec: Recording{Header: Header{
		Version:    Version,
		Track:      track,
		Seed:       seed,
		TickRate:   fps,
		Config:     data,
		RecordedAt: time.Now().UTC(),
	}}}, nil
}

// SetDifficulty notes the preset the config was built with.
func (r *Recorder) SetDifficulty(preset string) {
	r.rec.Header.Difficulty = preset
}

// SetBoard snapshots the high-score table the session starts against.
func (r *Recorder) SetBoard(scores []core.HighScore) {
	r.rec.Header.Board = append([]core.HighScore(nil), scores...)
}

// Record appends one step.
func (r *Recorder) Record(in core.Input, dt time.Duration) {
	r.rec.Frames = append(r.rec.Frames, NewFrame(in, dt))
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int { return len(r.rec.Frames) }

// Recording returns the recording so far.
func (r *Recorder) Recording() *Recording {
	return &r.rec
}

// Encode writes rec to w.
func Encode(w io.Writer, rec *Recording) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("replay: cannot encode recording: %w", err)
	}
	return nil
}

// Decode reads a recording from r.
func Decode(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("replay: cannot decode recording: %w", err)
	}
	if rec.Header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, rec.Header.Version)
	}
	return &rec, nil
}

// Save writes rec to path.
func Save(path string, rec *Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: cannot create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, rec); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("replay: cannot write %s: %w", path, err)
	}
	return f.Close()
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}
