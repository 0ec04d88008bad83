package difficulty

import (
	"strings"
	"testing"

	"github.com/tomz197/cellbreak/internal/object"
	"github.com/tomz197/cellbreak/internal/random"
)

func TestGetWaveLabels(t *testing.T) {
	tests := []struct {
		seconds float64
		label   string
		resting bool
	}{
		{0, "WARM UP", false},
		{11.9, "WARM UP", false},
		{12, RestLabel, true},
		{15, "HEATING UP", false},
		{30, "PUMP IT", false},
		{45, "FOMO", false},
		{60, "MOON RUSH", false},
		{75, "DEGEN MODE", false},
		{90, "HYPERDRIVE 1", false},
		{105, "HYPERDRIVE 2", false},
	}
	for _, tt := range tests {
		d := Get(tt.seconds, 0)
		if d.Label != tt.label || d.Resting != tt.resting {
			t.Errorf("Get(%v) = %q resting=%v, want %q resting=%v", tt.seconds, d.Label, d.Resting, tt.label, tt.resting)
		}
	}
}

func TestSpeedMonotonicWithinActivePeriods(t *testing.T) {
	for _, score := range []int{0, 1000, 100000} {
		prev := 0.0
		for frame := 0; frame < 60*60*30; frame++ {
			s := float64(frame) / 60
			d := Get(s, score)
			if d.Resting {
				continue
			}
			if d.SpeedMultiplier < prev {
				t.Fatalf("score %d: speed dropped at %.2fs: %v < %v", score, s, d.SpeedMultiplier, prev)
			}
			prev = d.SpeedMultiplier
		}
	}
}

func TestRestLowersSpeed(t *testing.T) {
	for wave := 0; wave < 20; wave++ {
		active := Get(float64(wave)*CycleSeconds+WaveSeconds-0.01, 0)
		rest := Get(float64(wave)*CycleSeconds+WaveSeconds, 0)
		if !rest.Resting {
			t.Fatalf("wave %d: expected rest", wave)
		}
		if rest.SpeedMultiplier >= active.SpeedMultiplier {
			t.Errorf("wave %d: rest speed %v not below active %v", wave, rest.SpeedMultiplier, active.SpeedMultiplier)
		}
		if rest.SpawnInterval <= active.SpawnInterval {
			t.Errorf("wave %d: rest interval %v not above active %v", wave, rest.SpawnInterval, active.SpawnInterval)
		}
		if rest.Danger < 1 {
			t.Errorf("wave %d: rest danger %d below 1", wave, rest.Danger)
		}
	}
}

func TestSpeedCapped(t *testing.T) {
	for _, s := range []float64{500, 5000, 1e6} {
		d := Get(s, 1_000_000)
		if d.SpeedMultiplier > MaxSpeedMultiplier {
			t.Errorf("Get(%v) speed = %v, want <= %v", s, d.SpeedMultiplier, MaxSpeedMultiplier)
		}
		if d.Danger < 1 || d.Danger > 10 {
			t.Errorf("Get(%v) danger = %d, want 1..10", s, d.Danger)
		}
	}
}

func TestHyperdriveBounded(t *testing.T) {
	d := Get(1e6, 0)
	if !strings.HasPrefix(d.Label, "HYPERDRIVE") && d.Label != RestLabel {
		t.Errorf("label = %q", d.Label)
	}
	if d.SpawnInterval < hyperdrive.interval-1e-9 || d.SideChance > hyperdrive.side+1e-9 || d.ComplexChance > hyperdrive.complex+1e-9 {
		t.Errorf("endless tier beyond caps: %+v", d)
	}
}

func TestLateGameMultiplier(t *testing.T) {
	early := Get(60, 0)
	late := Get(61.5, 0)
	if late.Wave != early.Wave {
		t.Fatal("samples should share a wave")
	}
	if late.SpeedMultiplier <= early.SpeedMultiplier {
		t.Errorf("late speed %v not above %v", late.SpeedMultiplier, early.SpeedMultiplier)
	}
}

func TestScoreBoostBounded(t *testing.T) {
	base := Get(0, 0).SpeedMultiplier
	boosted := Get(0, 10_000_000).SpeedMultiplier
	if boosted != base*(1+MaxScoreBoost) {
		t.Errorf("boosted = %v, want %v", boosted, base*(1+MaxScoreBoost))
	}
}

func TestPatternStraightProbability(t *testing.T) {
	d := Descriptor{ComplexChance: 0.25, Danger: 3}
	if got := Pattern(random.Constant(0.5), d); got != object.PatternStraight {
		t.Errorf("r=0.5 -> %q, want straight", got)
	}
	if got := Pattern(random.NewSequence(0.9, 0), d); got != object.PatternZigzag {
		t.Errorf("r=0.9 -> %q, want first complex pattern", got)
	}
}

func TestPatternSetFavoursHardAtHighDanger(t *testing.T) {
	low := PatternSet(Descriptor{Danger: 5})
	high := PatternSet(Descriptor{Danger: 6})
	if len(high) != len(low)+len(hardPatterns) {
		t.Fatalf("high danger set len %d, want %d", len(high), len(low)+len(hardPatterns))
	}
	count := 0
	for _, p := range high {
		if p == object.PatternHoming {
			count++
		}
	}
	if count != 2 {
		t.Errorf("homing appears %d times, want 2", count)
	}
}

func TestBurstCountRange(t *testing.T) {
	for danger := 1; danger <= 10; danger++ {
		for _, r := range []float64{0, 0.99} {
			n := BurstCount(random.Constant(r), Descriptor{Danger: danger})
			if n < 2 || n > 8 {
				t.Errorf("danger %d r %v: BurstCount = %d", danger, r, n)
			}
		}
	}
}

func TestSpecialEventGating(t *testing.T) {
	always := random.Constant(0)
	if _, ok := SpecialEvent(always, 5, Get(5, 0)); ok {
		t.Error("event fired in wave 0")
	}
	if _, ok := SpecialEvent(always, 13, Get(13, 0)); ok {
		t.Error("event fired during rest")
	}
	if _, ok := SpecialEvent(random.Constant(0.5), 20, Get(20, 0)); ok {
		t.Error("event fired above the trial probability")
	}
	e, ok := SpecialEvent(always, 20, Get(20, 0))
	if !ok || e.Name != "speed-burst" {
		t.Errorf("got %q ok=%v, want speed-burst", e.Name, ok)
	}
}

func TestEventWeightsShiftTowardHard(t *testing.T) {
	mild, hard := Events[0], Events[len(Events)-1]
	if EventWeight(mild, 0) <= EventWeight(hard, 0) {
		t.Error("mild events should dominate early")
	}
	if EventWeight(hard, EventRampSeconds) <= EventWeight(mild, EventRampSeconds) {
		t.Error("hard events should dominate late")
	}
}

func TestEventPatternOverride(t *testing.T) {
	for _, e := range Events {
		p, ok := e.PickPattern(random.Constant(0.99))
		if ok != (len(e.Patterns) > 0) {
			t.Errorf("%s: ok=%v", e.Name, ok)
		}
		if ok && p != e.Patterns[len(e.Patterns)-1] {
			t.Errorf("%s: pattern %q", e.Name, p)
		}
	}
}
