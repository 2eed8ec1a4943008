// Package physics provides capsule bodies and pairwise elastic collision
// resolution between them.
package physics

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNegativeRadius is returned when a capsule radius is below zero.
	ErrNegativeRadius = errors.New("radius must be greater than or equal to 0")
	// ErrNonPositiveMass is returned when a finite mass is zero, negative or not a number.
	ErrNonPositiveMass = errors.New("mass must be greater than 0")
)

// Mass is either a finite positive value or Infinite. The zero Mass is not
// valid; build one with NewMass or use Infinite.
type Mass struct {
	value    float64
	infinite bool
}

// Infinite is the mass of an immovable body. It is never changed by a collision.
var Infinite = Mass{infinite: true}

// NewMass returns a finite mass. Values that are not strictly positive and
// finite are rejected; use Infinite for immovable bodies.
func NewMass(value float64) (Mass, error) {
	if !(value > 0) || math.IsInf(value, 1) {
		return Mass{}, fmt.Errorf("%w: got %v", ErrNonPositiveMass, value)
	}
	return Mass{value: value}, nil
}

// MustMass is like NewMass but panics on an invalid value.
// Intended for constants in tests and scene defaults.
func MustMass(value float64) Mass {
	m, err := NewMass(value)
	if err != nil {
		panic(err)
	}
	return m
}

// IsInfinite reports whether m is the immovable sentinel.
func (m Mass) IsInfinite() bool { return m.infinite }

// Value returns the finite mass. It returns +Inf for Infinite.
func (m Mass) Value() float64 {
	if m.infinite {
		return math.Inf(1)
	}
	return m.value
}

func (m Mass) valid() bool {
	return m.infinite || m.value > 0
}

func (m Mass) String() string {
	if m.infinite {
		return "infinite"
	}
	return fmt.Sprintf("%g", m.value)
}

// effectiveMasses maps a pair of masses onto the finite values used by the
// impulse formula. Exactly one infinite side acts as a fixed wall: it gets
// weight 1 and the finite side weight 0. Two infinite sides are treated as
// equal masses.
func effectiveMasses(a, b Mass) (float64, float64) {
	switch {
	case a.infinite && b.infinite:
		return 1, 1
	case a.infinite:
		return 1, 0
	case b.infinite:
		return 0, 1
	default:
		return a.value, b.value
	}
}
