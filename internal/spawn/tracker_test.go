package spawn

import "testing"

func TestTrackerSamplesEverySixFrames(t *testing.T) {
	tr := NewTracker()
	for f := 0.0; f < 60; f++ {
		tr.Observe(f, f*10, 480)
	}
	hm := tr.Heatmap()
	total := 0
	for _, n := range hm {
		total += n
	}
	if total != 10 {
		t.Errorf("recorded %d samples in 60 frames, want 10", total)
	}
}

func TestTrackerCamping(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < HistorySize; i++ {
		tr.Observe(float64(i*SampleEvery), 240+float64(i%3), 480)
	}
	if !tr.Camping() {
		t.Error("stationary player should be camping")
	}
	if got := tr.CampingTendency(); got < 0.9 {
		t.Errorf("CampingTendency = %v, want near 1", got)
	}

	tr.Reset()
	for i := 0; i < HistorySize; i++ {
		tr.Observe(float64(i*SampleEvery), float64(i*15), 480)
	}
	if tr.Camping() {
		t.Error("roaming player should not be camping")
	}
	if got := tr.CampingTendency(); got != 0 {
		t.Errorf("CampingTendency = %v, want 0", got)
	}
}

func TestTrackerCampingNeedsFullWindow(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < HistorySize-1; i++ {
		tr.Observe(float64(i*SampleEvery), 240, 480)
	}
	if tr.Camping() {
		t.Error("camping reported before the window filled")
	}
}

func TestTrackerHeatmapBuckets(t *testing.T) {
	tr := NewTracker()
	tr.Observe(0, 0, 480)
	tr.Observe(6, 479, 480)
	tr.Observe(12, 1000, 480) // clamped
	hm := tr.Heatmap()
	if hm[0] != 1 || hm[HeatmapBuckets-1] != 2 {
		t.Errorf("heatmap = %v", hm)
	}
}

func TestTrackerDodgePreference(t *testing.T) {
	tr := NewTracker()
	x := 240.0
	frame := 0.0
	step := func(dx float64) {
		x += dx
		tr.Observe(frame, x, 480)
		frame += SampleEvery
	}

	step(0)
	for i := 0; i < MinMoves-1; i++ {
		step(20)
	}
	if got := tr.DodgePreference(); got != 0 {
		t.Errorf("preference with %d moves = %v, want 0", MinMoves-1, got)
	}

	step(20)
	if got := tr.DodgePreference(); got != 1 {
		t.Errorf("preference = %v, want 1", got)
	}

	for i := 0; i < MoveHistory; i++ {
		step(-20)
	}
	if got := tr.DodgePreference(); got != -1 {
		t.Errorf("preference after left moves = %v, want -1", got)
	}
}

func TestTrackerIgnoresTinyMoves(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 20; i++ {
		tr.Observe(float64(i*SampleEvery), 240+float64(i%2), 480)
	}
	if got := tr.DodgePreference(); got != 0 {
		t.Errorf("jitter produced preference %v", got)
	}
}

func TestTrackerPredictedX(t *testing.T) {
	tr := NewTracker()
	tr.Observe(0, 100, 480)
	tr.Observe(6, 112, 480)
	if got := tr.PredictedX(); got != 112+2*predictLookahead {
		t.Errorf("PredictedX = %v", got)
	}
}
