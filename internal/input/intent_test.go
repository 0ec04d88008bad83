package input

import (
	"testing"
	"time"
)

func TestControlsDoubleTapDash(t *testing.T) {
	var c Controls
	t0 := time.Unix(0, 0)

	in := c.Intent(Keys{Right: true, RightTapped: true}, t0)
	if in.Dash {
		t.Fatal("single tap should not dash")
	}
	if in.Direction() != 1 {
		t.Fatalf("Direction() = %v, want 1", in.Direction())
	}

	in = c.Intent(Keys{Right: true, RightTapped: true}, t0.Add(150*time.Millisecond))
	if !in.Dash || in.DashDir != 1 {
		t.Fatalf("second tap within window: got %+v, want dash right", in)
	}

	// The pair is consumed; a third tap starts over.
	in = c.Intent(Keys{Right: true, RightTapped: true}, t0.Add(300*time.Millisecond))
	if in.Dash {
		t.Fatal("third tap should not dash")
	}
}

func TestControlsDoubleTapTooSlow(t *testing.T) {
	var c Controls
	t0 := time.Unix(0, 0)
	c.Intent(Keys{LeftTapped: true}, t0)
	in := c.Intent(Keys{LeftTapped: true}, t0.Add(400*time.Millisecond))
	if in.Dash {
		t.Fatal("taps 400ms apart should not dash")
	}
}

func TestControlsOppositeTapsDoNotDash(t *testing.T) {
	var c Controls
	t0 := time.Unix(0, 0)
	c.Intent(Keys{LeftTapped: true}, t0)
	in := c.Intent(Keys{RightTapped: true}, t0.Add(100*time.Millisecond))
	if in.Dash {
		t.Fatal("left then right should not dash")
	}
}

func TestControlsKeyRepeatIsNotDoubleTap(t *testing.T) {
	var c Controls
	t0 := time.Unix(0, 0)
	for i := 0; i < 10; i++ {
		in := c.Intent(Keys{Left: true, LeftTapped: true}, t0.Add(time.Duration(i)*30*time.Millisecond))
		if in.Dash {
			t.Fatalf("auto-repeat frame %d produced a dash", i)
		}
	}
}

func TestControlsFacingDash(t *testing.T) {
	var c Controls
	in := c.Intent(Keys{Space: true}, time.Unix(0, 0))
	if !in.Dash || in.DashDir != 0 {
		t.Fatalf("space: got %+v, want facing dash", in)
	}
}

func TestIntentDirection(t *testing.T) {
	tests := []struct {
		name string
		in   Intent
		want float64
	}{
		{"none", Intent{}, 0},
		{"left", Intent{Left: true}, -1},
		{"right", Intent{Right: true}, 1},
		{"both", Intent{Left: true, Right: true}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Direction(); got != tt.want {
				t.Errorf("Direction() = %v, want %v", got, tt.want)
			}
		})
	}
}
