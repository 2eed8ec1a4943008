// Package geom provides the 2D vector and line segment primitives used by the
// physics and movement packages.
package geom

import (
	"fmt"
	"math"
)

// Vec is a 2D vector or point. Screen Y grows downward.
type Vec struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vec{}

// V is shorthand for Vec{x, y}.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

func (v Vec) Equal(other Vec) bool {
	return v.X == other.X && v.Y == other.Y
}

func (v Vec) Add(other Vec) Vec {
	return Vec{v.X + other.X, v.Y + other.Y}
}

func (v Vec) Sub(other Vec) Vec {
	return Vec{v.X - other.X, v.Y - other.Y}
}

func (v Vec) Neg() Vec {
	return Vec{-v.X, -v.Y}
}

func (v Vec) Mult(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

func (v Vec) Dot(other Vec) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the Euclidean length of v.
func (v Vec) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// LengthSq returns the squared length of v.
// Use this when comparing lengths to avoid the sqrt cost.
func (v Vec) LengthSq() float64 {
	return v.Dot(v)
}

// Normalize returns the unit vector in the direction of v.
// The zero vector normalizes to itself.
func (v Vec) Normalize() Vec {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return Vec{v.X / l, v.Y / l}
}

// Distance returns the Euclidean distance between two points.
func (v Vec) Distance(other Vec) float64 {
	return v.Sub(other).Length()
}
