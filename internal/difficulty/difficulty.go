// Package difficulty derives how hard the game is right now from survival
// time and score. Every function is pure apart from the random source passed in.
package difficulty

import (
	"fmt"
	"math"

	"github.com/tomz197/cellbreak/internal/object"
	"github.com/tomz197/cellbreak/internal/random"
)

// Wave cadence in seconds.
const (
	WaveSeconds  = 12.0
	RestSeconds  = 3.0
	CycleSeconds = WaveSeconds + RestSeconds
)

// Scaling limits.
const (
	MaxSpeedMultiplier = 5.0
	LateGameStart      = 60.0  // Seconds before the late-game multiplier kicks in
	LateGameRate       = 0.003 // Per second past LateGameStart
	ScoreBoostDivisor  = 50000.0
	MaxScoreBoost      = 0.2
	HardPatternDanger  = 6 // Danger from which hard patterns are favoured
)

// RestLabel names the breather between waves.
const RestLabel = "BREATHER"

// Descriptor is the difficulty at one instant. It is recomputed every tick
// and never stored.
type Descriptor struct {
	SpawnInterval   float64 // Frames between primary spawns
	SpeedMultiplier float64
	SideChance      float64
	MultiChance     float64
	ComplexChance   float64
	Wave            int
	Label           string
	Danger          int // 1..10
	Resting         bool
}

type tier struct {
	label    string
	interval float64
	speed    float64
	side     float64
	multi    float64
	complex  float64
	danger   int
}

var tiers = [...]tier{
	{"WARM UP", 45, 1.0, 0, 0, 0.05, 1},
	{"HEATING UP", 38, 1.2, 0.03, 0.05, 0.15, 2},
	{"PUMP IT", 32, 1.45, 0.06, 0.10, 0.25, 3},
	{"FOMO", 26, 1.7, 0.09, 0.15, 0.35, 5},
	{"MOON RUSH", 21, 2.0, 0.12, 0.20, 0.45, 6},
	{"DEGEN MODE", 17, 2.3, 0.15, 0.25, 0.55, 7},
}

// Endless scaling targets for waves past the last hand-authored tier.
var hyperdrive = tier{"HYPERDRIVE", 8, 3.4, 0.3, 0.45, 0.85, 10}

func tierFor(wave int) tier {
	if wave < 0 {
		wave = 0
	}
	if wave < len(tiers) {
		return tiers[wave]
	}

	last := tiers[len(tiers)-1]
	extra := float64(wave - len(tiers) + 1)
	f := 1 - math.Exp(-extra/6)
	lerp := func(a, b float64) float64 { return a + (b-a)*f }

	danger := last.danger + int(f*3.5)
	if danger > hyperdrive.danger {
		danger = hyperdrive.danger
	}
	return tier{
		label:    fmt.Sprintf("%s %d", hyperdrive.label, wave-len(tiers)+1),
		interval: lerp(last.interval, hyperdrive.interval),
		speed:    lerp(last.speed, hyperdrive.speed),
		side:     lerp(last.side, hyperdrive.side),
		multi:    lerp(last.multi, hyperdrive.multi),
		complex:  lerp(last.complex, hyperdrive.complex),
		danger:   danger,
	}
}

// Get returns the difficulty after survivalSeconds with the given score.
func Get(survivalSeconds float64, score int) Descriptor {
	if survivalSeconds < 0 || math.IsNaN(survivalSeconds) {
		survivalSeconds = 0
	}
	wave := int(survivalSeconds / CycleSeconds)
	inCycle := survivalSeconds - float64(wave)*CycleSeconds
	resting := inCycle >= WaveSeconds

	t := tierFor(wave)

	late := 1.0
	if survivalSeconds > LateGameStart {
		late += LateGameRate * (survivalSeconds - LateGameStart)
	}
	boost := 1 + math.Min(math.Max(float64(score), 0)/ScoreBoostDivisor, MaxScoreBoost)

	d := Descriptor{
		SpawnInterval:   t.interval,
		SpeedMultiplier: math.Min(t.speed*late*boost, MaxSpeedMultiplier),
		SideChance:      t.side,
		MultiChance:     t.multi,
		ComplexChance:   t.complex,
		Wave:            wave,
		Label:           t.label,
		Danger:          t.danger,
	}

	if resting {
		d.Resting = true
		d.Label = RestLabel
		d.SpawnInterval *= 2
		d.SideChance = 0
		d.MultiChance = 0
		d.ComplexChance = 0.02
		d.SpeedMultiplier *= 0.7
		d.Danger = max(1, d.Danger-2)
	}
	return d
}

var complexPatterns = []object.Pattern{
	object.PatternZigzag,
	object.PatternWave,
	object.PatternSpiral,
	object.PatternSine,
	object.PatternRandom,
	object.PatternHoming,
	object.PatternBounce,
}

var hardPatterns = []object.Pattern{
	object.PatternHoming,
	object.PatternRandom,
	object.PatternSpiral,
	object.PatternBounce,
}

// PatternSet returns the non-straight patterns eligible at d. From
// HardPatternDanger the hard subset appears twice, doubling its weight.
func PatternSet(d Descriptor) []object.Pattern {
	if d.Danger < HardPatternDanger {
		return complexPatterns
	}
	set := make([]object.Pattern, 0, len(complexPatterns)+len(hardPatterns))
	set = append(set, complexPatterns...)
	return append(set, hardPatterns...)
}

// Pattern picks a movement pattern: straight with probability
// 1-ComplexChance, otherwise uniformly from PatternSet.
func Pattern(src random.Source, d Descriptor) object.Pattern {
	if src.Float64() < 1-d.ComplexChance {
		return object.PatternStraight
	}
	set := PatternSet(d)
	return set[random.Intn(src, len(set))]
}

// BurstCount returns the total size of a multi-spawn burst, 2..8.
func BurstCount(src random.Source, d Descriptor) int {
	n := 2 + d.Danger/3 + random.Intn(src, 2)
	return min(n, 8)
}
