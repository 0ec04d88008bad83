package audio

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/tomz197/cellbreak/internal/game"
	"github.com/tomz197/cellbreak/internal/random"
)

func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		for j := 0; j < n; j++ {
			if buf[j][0] < -1 || buf[j][0] > 1 {
				t.Fatalf("sample %d out of range: %f", total+j, buf[j][0])
			}
		}
		total += n
		if !ok {
			return total
		}
	}
	t.Fatal("streamer never finished")
	return 0
}

func TestToneLength(t *testing.T) {
	tone := NewTone(sampleRate, 440, 880, 100*time.Millisecond, WaveSine, 0.5, nil)
	want := sampleRate.N(100 * time.Millisecond)
	if tone.Len() != want {
		t.Fatalf("len = %d, want %d", tone.Len(), want)
	}
	if got := drain(t, tone); got != want {
		t.Errorf("streamed %d samples, want %d", got, want)
	}
	if tone.Err() != nil {
		t.Errorf("err = %v", tone.Err())
	}
}

func TestToneEnvelopeStartsSilent(t *testing.T) {
	tone := NewTone(sampleRate, 440, 440, 50*time.Millisecond, WaveSquare, 1, nil)
	buf := make([][2]float64, 1)
	tone.Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("first sample = %f, want 0", buf[0][0])
	}
}

func TestToneVolumeClamped(t *testing.T) {
	tone := NewTone(sampleRate, 100, 100, 20*time.Millisecond, WaveNoise, 5, random.Constant(0.999))
	drain(t, tone)
}

func TestCueForEveryEvent(t *testing.T) {
	kinds := []game.EventKind{
		game.EventDash, game.EventExplosion, game.EventPowerUp, game.EventDeath,
		game.EventPerfectDodge, game.EventScoreBonus, game.EventCombo,
		game.EventNearMiss, game.EventAchievement,
	}
	for _, k := range kinds {
		t.Run(string(k), func(t *testing.T) {
			cue := Cue(game.Event{Kind: k, Multiplier: 3}, random.New(7))
			if cue == nil {
				t.Fatal("missing cue")
			}
			if drain(t, cue) == 0 {
				t.Error("cue is empty")
			}
		})
	}
	if Cue(game.Event{Kind: "unknown"}, nil) != nil {
		t.Error("unknown event should have no cue")
	}
}

func TestUninitializedManagerIsSilent(t *testing.T) {
	sm := NewSoundManager(log.New(io.Discard))
	sm.HandleEvent(game.Event{Kind: game.EventDeath})
	sm.Close()
	if !sm.ToggleMute() || !sm.Muted() {
		t.Error("toggle should mute")
	}
}
