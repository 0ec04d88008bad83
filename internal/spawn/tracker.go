package spawn

import (
	"math"

	"github.com/tomz197/cellbreak/internal/physics"
)

// Tracker sampling parameters.
const (
	SampleEvery      = 6  // Frames between position samples
	HistorySize      = 30 // Samples kept (~3s at 60fps)
	HeatmapBuckets   = 10
	MoveHistory      = 10 // Recent moves considered for dodge preference
	MinMoves         = 5  // Moves required before a preference is reported
	CampingRange     = 60.0
	TendencyRange    = 240.0
	moveThreshold    = 2.0 // Pixels between samples that count as a move
	predictLookahead = 30.0
)

// Tracker records where the player has been to drive anti-camping spawns.
type Tracker struct {
	positions  []float64
	heatmap    [HeatmapBuckets]int
	moves      []float64
	lastSample float64
	sampled    bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		positions: make([]float64, 0, HistorySize),
		moves:     make([]float64, 0, MoveHistory),
	}
}

// Observe records the player's horizontal center at frame, at most once
// every SampleEvery frames.
func (t *Tracker) Observe(frame, x, fieldWidth float64) {
	if t.sampled && frame-t.lastSample < SampleEvery {
		return
	}

	if n := len(t.positions); n > 0 {
		dx := x - t.positions[n-1]
		if math.Abs(dx) > moveThreshold {
			if len(t.moves) == MoveHistory {
				copy(t.moves, t.moves[1:])
				t.moves = t.moves[:MoveHistory-1]
			}
			t.moves = append(t.moves, math.Copysign(1, dx))
		}
	}

	if len(t.positions) == HistorySize {
		copy(t.positions, t.positions[1:])
		t.positions = t.positions[:HistorySize-1]
	}
	t.positions = append(t.positions, x)

	if fieldWidth > 0 {
		b := int(x / fieldWidth * HeatmapBuckets)
		b = int(physics.Clamp(float64(b), 0, HeatmapBuckets-1))
		t.heatmap[b]++
	}

	t.lastSample = frame
	t.sampled = true
}

// Range returns the spread of recent positions.
func (t *Tracker) Range() float64 {
	if len(t.positions) < 2 {
		return 0
	}
	lo, hi := t.positions[0], t.positions[0]
	for _, x := range t.positions[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return hi - lo
}

// Camping reports whether a full history window stayed within CampingRange.
func (t *Tracker) Camping() bool {
	return len(t.positions) == HistorySize && t.Range() < CampingRange
}

// CampingTendency scores how stationary the player is, 0 (roaming) to 1.
func (t *Tracker) CampingTendency() float64 {
	if len(t.positions) < 2 {
		return 0
	}
	return physics.Clamp(1-t.Range()/TendencyRange, 0, 1)
}

// Heatmap returns the sample counts per horizontal bucket.
func (t *Tracker) Heatmap() [HeatmapBuckets]int {
	return t.heatmap
}

// DodgePreference returns the signed share of recent moves to the right
// (positive) or left (negative), or 0 until MinMoves moves are recorded.
func (t *Tracker) DodgePreference() float64 {
	if len(t.moves) < MinMoves {
		return 0
	}
	sum := 0.0
	for _, m := range t.moves {
		sum += m
	}
	return sum / float64(len(t.moves))
}

// PredictedX extrapolates the player's position from the last two samples.
func (t *Tracker) PredictedX() float64 {
	n := len(t.positions)
	switch n {
	case 0:
		return 0
	case 1:
		return t.positions[0]
	}
	v := (t.positions[n-1] - t.positions[n-2]) / SampleEvery
	return t.positions[n-1] + v*predictLookahead
}

// Reset forgets all history.
func (t *Tracker) Reset() {
	t.positions = t.positions[:0]
	t.moves = t.moves[:0]
	t.heatmap = [HeatmapBuckets]int{}
	t.lastSample = 0
	t.sampled = false
}
