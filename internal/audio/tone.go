package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/tomz197/cellbreak/internal/random"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveNoise
)

// envelope edges in seconds
const (
	attackSeconds  = 0.005
	releaseSeconds = 0.03
)

// Tone is a finite streamer sweeping linearly from one frequency to another
// with a short attack/release envelope.
type Tone struct {
	sr     beep.SampleRate
	from   float64
	to     float64
	wave   Wave
	volume float64
	total  int
	pos    int
	phase  float64
	noise  random.Source
}

// NewTone creates a tone of duration d. Noise tones draw from src; a nil src
// falls back to a fixed seed.
func NewTone(sr beep.SampleRate, from, to float64, d time.Duration, wave Wave, volume float64, src random.Source) *Tone {
	if src == nil {
		src = random.New(1)
	}
	return &Tone{
		sr:     sr,
		from:   from,
		to:     to,
		wave:   wave,
		volume: math.Max(0, math.Min(volume, 1)),
		total:  max(sr.N(d), 1),
		noise:  src,
	}
}

// Stream implements beep.Streamer.
func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			return i, true
		}
		progress := float64(t.pos) / float64(t.total)
		freq := t.from + (t.to-t.from)*progress

		var v float64
		switch t.wave {
		case WaveSquare:
			if t.phase < 0.5 {
				v = 1
			} else {
				v = -1
			}
		case WaveNoise:
			v = t.noise.Float64()*2 - 1
		default:
			v = math.Sin(2 * math.Pi * t.phase)
		}
		v *= t.volume * t.envelope()

		samples[i][0] = v
		samples[i][1] = v

		t.phase += freq / float64(t.sr)
		if t.phase >= 1 {
			t.phase -= math.Floor(t.phase)
		}
		t.pos++
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (t *Tone) Err() error {
	return nil
}

// Len returns the tone length in samples.
func (t *Tone) Len() int {
	return t.total
}

func (t *Tone) envelope() float64 {
	attack := float64(t.sr) * attackSeconds
	release := float64(t.sr) * releaseSeconds
	pos := float64(t.pos)
	left := float64(t.total - t.pos)
	switch {
	case pos < attack:
		return pos / attack
	case left < release:
		return left / release
	default:
		return 1
	}
}
