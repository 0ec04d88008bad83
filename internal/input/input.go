package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, never releases, so holding is inferred.
const keyHoldDuration = 80 * time.Millisecond

// Keys represents the current frame's raw key state.
type Keys struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Space   bool
	Enter   bool
	Escape  bool
	Pause   bool
	Mute    bool
	Number  int
	Pressed []byte

	// Edge-triggered presses seen this frame (not inferred holds).
	LeftTapped  bool
	RightTapped bool
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit      time.Time
	left      time.Time
	right     time.Time
	up        time.Time
	down      time.Time
	space     time.Time
	enter     time.Time
	escape    time.Time
	pause     time.Time
	mute      time.Time
	number    time.Time
	numberVal int
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadKeys drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
func ReadKeys(s *Stream, now time.Time) Keys {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.state.quit = now
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	keys := Keys{Number: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
				i += 2
				continue
			case 'B':
				s.state.down = now
				i += 2
				continue
			case 'C':
				s.state.right = now
				keys.RightTapped = true
				i += 2
				continue
			case 'D':
				s.state.left = now
				keys.LeftTapped = true
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, &keys, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }

	keys.Quit = held(s.state.quit)
	keys.Left = held(s.state.left)
	keys.Right = held(s.state.right)
	keys.Up = held(s.state.up)
	keys.Down = held(s.state.down)
	keys.Space = held(s.state.space)
	keys.Enter = held(s.state.enter)
	keys.Escape = held(s.state.escape)
	keys.Pause = held(s.state.pause)
	keys.Mute = held(s.state.mute)
	if held(s.state.number) {
		keys.Number = s.state.numberVal
	}
	return keys
}

// ResetKeys forgets all held keys, so a key used to leave a menu isn't
// immediately read as gameplay input.
func ResetKeys(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{numberVal: -1}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, keys *Keys, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
		keys.LeftTapped = true
	case 'd', 'D', 'l', 'L':
		state.right = now
		keys.RightTapped = true
	case 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case 'p', 'P':
		state.pause = now
	case 'm', 'M':
		state.mute = now
	case ' ', 'w', 'W':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\x1b':
		state.escape = now
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		state.number = now
		state.numberVal = int(b - '0')
	}
}
