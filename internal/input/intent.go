package input

import "time"

// DoubleTapWindow is the maximum gap between two presses of the same
// direction for them to count as a dash.
const DoubleTapWindow = 250 * time.Millisecond

// Intent is the normalized per-tick movement request consumed by the
// simulation. It carries no device details.
type Intent struct {
	Left    bool
	Right   bool
	Dash    bool
	DashDir float64 // -1 left, 1 right; 0 means "facing direction"
	Shoot   bool
}

// Direction returns -1, 0 or 1 for the held horizontal direction.
func (i Intent) Direction() float64 {
	switch {
	case i.Left && !i.Right:
		return -1
	case i.Right && !i.Left:
		return 1
	default:
		return 0
	}
}

// Controls turns raw key frames into intents, detecting double taps.
type Controls struct {
	lastTap    time.Time
	lastTapDir float64
}

// Intent builds the intent for this frame.
// A second tap of the same direction within DoubleTapWindow requests a dash
// toward it; space or 'w' requests a dash in the facing direction, and 'k'
// or the up arrow fires.
func (c *Controls) Intent(keys Keys, now time.Time) Intent {
	in := Intent{
		Left:  keys.Left,
		Right: keys.Right,
		Shoot: keys.Up,
	}

	tap := 0.0
	switch {
	case keys.LeftTapped && !keys.RightTapped:
		tap = -1
	case keys.RightTapped && !keys.LeftTapped:
		tap = 1
	}
	if tap != 0 {
		if c.lastTapDir == tap && !c.lastTap.IsZero() && now.Sub(c.lastTap) <= DoubleTapWindow && now.Sub(c.lastTap) > keyRepeatGap {
			in.Dash = true
			in.DashDir = tap
			c.lastTap = time.Time{}
			c.lastTapDir = 0
		} else {
			c.lastTap = now
			c.lastTapDir = tap
		}
	}

	if !in.Dash && keys.Space {
		in.Dash = true
		in.DashDir = 0
	}
	return in
}

// Reset forgets any pending tap.
func (c *Controls) Reset() {
	c.lastTap = time.Time{}
	c.lastTapDir = 0
}

// keyRepeatGap filters terminal auto-repeat, which arrives every ~30ms while
// a key is held, so holding a direction doesn't read as a double tap.
const keyRepeatGap = 40 * time.Millisecond
