package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

type wave int

const (
	waveSine wave = iota
	waveSquare
)

// tone is a fixed-frequency oscillator with a short linear release.
type tone struct {
	freq     float64
	phase    float64
	pos      int
	duration int
	wave     wave
	rate     beep.SampleRate
}

func newTone(sr beep.SampleRate, freq float64, d time.Duration, w wave) *tone {
	return &tone{freq: freq, duration: sr.N(d), wave: w, rate: sr}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.pos >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case waveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		}

		release := float64(o.duration-o.pos) / float64(o.duration)
		val *= 0.25 * math.Min(release*4, 1)

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

// sweep glides linearly from one frequency to another over ~120ms.
type sweep struct {
	from, to float64
	phase    float64
	pos      int
	rate     beep.SampleRate
}

func newSweep(sr beep.SampleRate, from, to float64) *sweep {
	return &sweep{from: from, to: to, rate: sr}
}

func (g *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	span := float64(g.rate.N(120 * time.Millisecond))
	for i := range samples {
		t := math.Min(float64(g.pos)/span, 1)
		freq := g.from + (g.to-g.from)*t
		val := 0.2 * (1 - t) * math.Sin(2*math.Pi*g.phase)

		samples[i][0] = val
		samples[i][1] = val

		g.phase += freq / float64(g.rate)
		g.phase -= math.Floor(g.phase)
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error { return nil }

// noiseBurst is decaying noise over a low rumble.
type noiseBurst struct {
	decay  float64
	rumble float64
	seed   int64
	pos    int
	rate   beep.SampleRate
}

func newNoiseBurst(sr beep.SampleRate, decay, rumble float64) *noiseBurst {
	return &noiseBurst{decay: decay, rumble: rumble, seed: 1, rate: sr}
}

func (g *noiseBurst) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.rate)
		envelope := math.Exp(-t * g.decay)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		low := 0.3 * math.Sin(2*math.Pi*g.rumble*t)

		val := envelope * (0.3*noise + low)
		samples[i][0] = val
		samples[i][1] = val
		g.pos++
	}
	return len(samples), true
}

func (g *noiseBurst) Err() error { return nil }
