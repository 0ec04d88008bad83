// Package audio plays short synthesized cues for engine events. Audio is a
// side channel: when no device is available every call is a no-op.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/cellbreak/internal/game"
	"github.com/tomz197/cellbreak/internal/random"
)

const sampleRate = beep.SampleRate(44100)

// ErrNoAudio is returned by Initialize when no output device can be opened.
var ErrNoAudio = errors.New("audio output unavailable")

// maxVoices caps simultaneously playing cues.
const maxVoices = 8

// SoundManager implements game.EventSink on top of the speaker.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
	log         *log.Logger
}

// NewSoundManager creates a manager. Call Initialize to open the device.
func NewSoundManager(logger *log.Logger) *SoundManager {
	if logger == nil {
		logger = log.Default()
	}
	return &SoundManager{
		mixer: &beep.Mixer{},
		log:   logger,
	}
}

// Initialize opens the speaker. Failing is not fatal for the game: the
// manager stays silent.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("%w: %v", ErrNoAudio, err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Close silences all cues.
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	sm.initialized = false
}

// ToggleMute flips the mute flag and returns the new value.
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = !sm.muted
	return sm.muted
}

// Muted reports whether cues are suppressed.
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// HandleEvent implements game.EventSink.
func (sm *SoundManager) HandleEvent(e game.Event) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}
	cue := Cue(e, random.New(time.Now().UnixNano()))
	if cue == nil {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()
	if sm.mixer.Len() >= maxVoices {
		return
	}
	sm.mixer.Add(cue)
}

// Cue returns the streamer for e, or nil when e has no sound.
func Cue(e game.Event, src random.Source) beep.Streamer {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	tone := func(from, to float64, d time.Duration, w Wave, vol float64) beep.Streamer {
		return NewTone(sampleRate, from, to, d, w, vol, src)
	}

	switch e.Kind {
	case game.EventDash:
		return tone(300, 900, ms(80), WaveSine, 0.25)
	case game.EventExplosion:
		return tone(200, 60, ms(220), WaveNoise, 0.3)
	case game.EventPowerUp:
		return beep.Seq(
			tone(523, 523, ms(60), WaveSquare, 0.12),
			tone(659, 659, ms(60), WaveSquare, 0.12),
			tone(784, 784, ms(90), WaveSquare, 0.12),
		)
	case game.EventDeath:
		return tone(400, 60, ms(600), WaveSquare, 0.2)
	case game.EventPerfectDodge:
		return tone(1200, 1500, ms(120), WaveSine, 0.2)
	case game.EventScoreBonus:
		return tone(880, 880, ms(90), WaveSine, 0.15)
	case game.EventCombo:
		f := 440 * (1 + 0.1*float64(e.Multiplier))
		return tone(f, f*1.25, ms(100), WaveSquare, 0.12)
	case game.EventNearMiss:
		return tone(600, 700, ms(40), WaveSine, 0.1)
	case game.EventAchievement:
		return beep.Seq(
			tone(659, 659, ms(100), WaveSquare, 0.15),
			tone(988, 988, ms(200), WaveSquare, 0.15),
		)
	default:
		return nil
	}
}
