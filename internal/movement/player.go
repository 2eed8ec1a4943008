package movement

import (
	"sync"

	"github.com/tomz197/capsules/internal/geom"
	"github.com/tomz197/capsules/internal/physics"
)

// Direction is one of the four control directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ControlState is a point-in-time copy of the four direction flags.
type ControlState struct {
	Up, Down, Left, Right bool
}

// Controls holds the latest pressed state of each direction. It is written by
// an input source and read once per tick; all access is guarded by one mutex.
type Controls struct {
	mu    sync.Mutex
	state ControlState
}

// Press marks d as held.
func (c *Controls) Press(d Direction) { c.Set(d, true) }

// Release marks d as not held.
func (c *Controls) Release(d Direction) { c.Set(d, false) }

// Set records the held state of d. Unknown directions are ignored.
func (c *Controls) Set(d Direction, held bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch d {
	case Up:
		c.state.Up = held
	case Down:
		c.state.Down = held
	case Left:
		c.state.Left = held
	case Right:
		c.state.Right = held
	}
}

// State returns a copy of the current flags.
func (c *Controls) State() ControlState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reset releases every direction.
func (c *Controls) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ControlState{}
}

// Player is an input-driven body. Held directions add speed*deltaTime to the
// velocity every tick; there is no drag, so velocity persists between ticks.
// With Collides set it also resolves collisions like a Floating body.
type Player struct {
	attachment
	Controls *Controls
	Speed    float64
	Collides bool
}

// NewPlayer returns a Player attached to c, reading from controls.
func NewPlayer(c *physics.Capsule, controls *Controls, speed float64, collides bool) *Player {
	if controls == nil {
		controls = &Controls{}
	}
	return &Player{
		attachment: attachment{capsule: c},
		Controls:   controls,
		Speed:      speed,
		Collides:   collides,
	}
}

func (p *Player) Resolve(scene []Behavior) {
	if !p.Collides {
		return
	}
	resolveAgainst(p, scene)
}

// Integrate applies the held controls to the velocity, then moves the capsule.
func (p *Player) Integrate(deltaTime float64) {
	if p.capsule == nil {
		return
	}
	p.capsule.SetVelocity(p.capsule.Velocity().Add(p.controlDelta(deltaTime)))
	drift(p.capsule, deltaTime)
}

// controlDelta returns the velocity change for the held directions over
// deltaTime. Up is negative Y on screen.
func (p *Player) controlDelta(deltaTime float64) geom.Vec {
	s := p.Controls.State()
	up := (b2f(s.Up) - b2f(s.Down)) * p.Speed * deltaTime
	right := (b2f(s.Right) - b2f(s.Left)) * p.Speed * deltaTime
	return geom.V(right, -up)
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
