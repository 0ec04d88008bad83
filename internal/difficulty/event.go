package difficulty

import (
	"math"

	"github.com/tomz197/cellbreak/internal/object"
	"github.com/tomz197/cellbreak/internal/random"
)

// EventChance is the per-tick probability of a special event.
const EventChance = 0.02

// EventRampSeconds is the survival time over which event selection shifts
// fully toward the harder events.
const EventRampSeconds = 180.0

// Event is a short-lived spawn override.
type Event struct {
	Name          string
	Rank          int     // 1 (mild) .. 5 (hardest)
	Duration      float64 // Frames
	SpawnInterval float64 // Frames; 0 keeps the descriptor's interval
	SpeedFactor   float64
	Patterns      []object.Pattern // Empty keeps normal pattern selection
	Burst         int              // Extra obstacles per primary spawn
}

// Events is the catalogue of special events, mildest first.
var Events = []Event{
	{Name: "speed-burst", Rank: 1, Duration: 180, SpeedFactor: 1.5},
	{Name: "laser-walls", Rank: 2, Duration: 150, SpawnInterval: 14, SpeedFactor: 1.2, Patterns: []object.Pattern{object.PatternStraight}, Burst: 5},
	{Name: "trap-formation", Rank: 3, Duration: 180, SpawnInterval: 20, SpeedFactor: 1.0, Patterns: []object.Pattern{object.PatternSpiral, object.PatternZigzag}, Burst: 3},
	{Name: "swarm-attack", Rank: 4, Duration: 150, SpawnInterval: 10, SpeedFactor: 1.1, Burst: 8},
	{Name: "bullet-hell", Rank: 5, Duration: 180, SpawnInterval: 5, SpeedFactor: 1.3, Patterns: []object.Pattern{object.PatternRandom, object.PatternHoming}},
}

// EventWeight returns the selection weight of e after survivalSeconds.
// Mild events dominate early; hard events dominate after EventRampSeconds.
func EventWeight(e Event, survivalSeconds float64) float64 {
	p := math.Min(math.Max(survivalSeconds, 0)/EventRampSeconds, 1)
	return float64(6-e.Rank)*(1-p) + 2*float64(e.Rank)*p
}

// SpecialEvent runs the per-tick event trial. It never fires during a rest
// or in the first wave.
func SpecialEvent(src random.Source, survivalSeconds float64, d Descriptor) (Event, bool) {
	if d.Resting || d.Wave == 0 {
		return Event{}, false
	}
	if src.Float64() >= EventChance {
		return Event{}, false
	}

	total := 0.0
	for _, e := range Events {
		total += EventWeight(e, survivalSeconds)
	}
	pick := src.Float64() * total
	for _, e := range Events {
		pick -= EventWeight(e, survivalSeconds)
		if pick < 0 {
			return e, true
		}
	}
	return Events[len(Events)-1], true
}

// PickPattern returns the event's pattern override, or ok=false when the
// event doesn't constrain patterns.
func (e Event) PickPattern(src random.Source) (object.Pattern, bool) {
	if len(e.Patterns) == 0 {
		return "", false
	}
	return e.Patterns[random.Intn(src, len(e.Patterns))], true
}
