// Package input turns a raw terminal byte stream into direction press and
// release edges for player controls.
package input

import (
	"bufio"
	"time"

	"github.com/tomz197/capsules/internal/movement"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report presses (and autorepeats), never releases, so a key
// counts as released once it has been silent this long.
const keyHoldDuration = 80 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Space   bool
	Enter   bool
	Pressed []byte
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
	space time.Time
	enter time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch    chan byte
	state keyState
	now   func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
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

func newStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
}

// ResetKeyInput forgets every recent key press.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
// Uses key state persistence to allow detecting simultaneous key combinations.
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	now := s.now()
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

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
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	return Input{
		Quit:    closed || held(s.state.quit),
		Left:    held(s.state.left),
		Right:   held(s.state.right),
		Up:      held(s.state.up),
		Down:    held(s.state.down),
		Space:   held(s.state.space),
		Enter:   held(s.state.enter),
		Pressed: buf,
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	}
}

// Edge is a change in the held state of one direction.
type Edge struct {
	Direction movement.Direction
	Pressed   bool
}

// Tracker converts per-frame held state into press and release edges.
type Tracker struct {
	held movement.ControlState
}

// Edges returns the edges between the previous call and in, in the fixed
// order up, down, left, right.
func (t *Tracker) Edges(in Input) []Edge {
	next := movement.ControlState{Up: in.Up, Down: in.Down, Left: in.Left, Right: in.Right}
	var edges []Edge
	add := func(d movement.Direction, was, is bool) {
		if was != is {
			edges = append(edges, Edge{Direction: d, Pressed: is})
		}
	}
	add(movement.Up, t.held.Up, next.Up)
	add(movement.Down, t.held.Down, next.Down)
	add(movement.Left, t.held.Left, next.Left)
	add(movement.Right, t.held.Right, next.Right)
	t.held = next
	return edges
}

// Apply forwards edges to controls.
func Apply(controls *movement.Controls, edges []Edge) {
	for _, e := range edges {
		controls.Set(e.Direction, e.Pressed)
	}
}
