package loop

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/tomz197/capsules/internal/movement"
	"github.com/tomz197/capsules/internal/physics"
)

// Scene is the ordered set of behaviors simulated together. Order matters:
// collisions are resolved in insertion order, and each pair's velocity
// writes are visible to the pairs that follow within the same tick.
//
// Scene is not safe for concurrent use; membership must only change between
// ticks.
type Scene struct {
	behaviors []movement.Behavior
}

// NewScene creates a scene holding behaviors in the given order.
func NewScene(behaviors ...movement.Behavior) *Scene {
	s := &Scene{}
	for _, b := range behaviors {
		s.Add(b)
	}
	return s
}

// Add appends b to the scene. Nil behaviors are ignored.
func (s *Scene) Add(b movement.Behavior) {
	if b == nil {
		return
	}
	s.behaviors = append(s.behaviors, b)
}

// Remove deletes b from the scene, keeping the order of the rest.
// Reports whether b was found.
func (s *Scene) Remove(b movement.Behavior) bool {
	for i, existing := range s.behaviors {
		if existing == b {
			s.behaviors = append(s.behaviors[:i], s.behaviors[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of behaviors in the scene.
func (s *Scene) Len() int { return len(s.behaviors) }

// Behaviors returns the live behavior slice. Callers must not modify it.
func (s *Scene) Behaviors() []movement.Behavior { return s.behaviors }

// Shapes appends the outline of every attached capsule to dst, in scene order.
func (s *Scene) Shapes(dst []physics.Shape) []physics.Shape {
	for _, b := range s.behaviors {
		if c := b.Capsule(); c != nil {
			dst = append(dst, c.Shape())
		}
	}
	return dst
}

// Fingerprint hashes the endpoints, radius and velocity of every attached
// capsule in scene order. Two scenes in the same state hash equal.
func (s *Scene) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	write := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	for _, b := range s.behaviors {
		c := b.Capsule()
		if c == nil {
			continue
		}
		a, bb, v := c.A(), c.B(), c.Velocity()
		write(a.X)
		write(a.Y)
		write(bb.X)
		write(bb.Y)
		write(c.Radius())
		write(v.X)
		write(v.Y)
	}
	return d.Sum64()
}
