package physics

import (
	"fmt"

	"github.com/tomz197/capsules/internal/geom"
)

// Shape is the drawable outline of a capsule: a segment swept by a radius.
type Shape struct {
	A, B   geom.Vec
	Radius float64
}

// Capsule is a line segment swept by a radius, with mass and velocity.
type Capsule struct {
	geom.Segment
	radius   float64
	mass     Mass
	velocity geom.Vec
}

// NewCapsule creates a capsule at rest between a and b.
func NewCapsule(a, b geom.Vec, radius float64, mass Mass) (*Capsule, error) {
	c := &Capsule{Segment: geom.NewSegment(a, b)}
	if err := c.SetRadius(radius); err != nil {
		return nil, err
	}
	if err := c.SetMass(mass); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Capsule) Radius() float64 { return c.radius }

// SetRadius changes the radius. Negative and NaN values are rejected, never clamped.
func (c *Capsule) SetRadius(radius float64) error {
	if !(radius >= 0) {
		return fmt.Errorf("%w: got %v", ErrNegativeRadius, radius)
	}
	c.radius = radius
	return nil
}

func (c *Capsule) Mass() Mass { return c.mass }

// SetMass changes the mass. A body that becomes immovable loses its velocity.
func (c *Capsule) SetMass(mass Mass) error {
	if !mass.valid() {
		return fmt.Errorf("%w: got %v", ErrNonPositiveMass, mass.value)
	}
	c.mass = mass
	if mass.infinite {
		c.velocity = geom.Zero
	}
	return nil
}

// Velocity returns the current velocity. Immovable bodies always report zero.
func (c *Capsule) Velocity() geom.Vec {
	if c.mass.infinite {
		return geom.Zero
	}
	return c.velocity
}

// SetVelocity sets the velocity. It is ignored for immovable bodies.
func (c *Capsule) SetVelocity(v geom.Vec) {
	if c.mass.infinite {
		return
	}
	c.velocity = v
}

// Move translates both endpoints by offset.
func (c *Capsule) Move(offset geom.Vec) {
	c.Translate(offset)
}

// DistanceToPoint returns the signed distance from the capsule surface to p.
// Negative values mean p is inside the capsule.
func (c *Capsule) DistanceToPoint(p geom.Vec) float64 {
	return c.NearestPoint(p).Distance(p) - c.radius
}

// ShortestSegmentTo returns the shortest of the four endpoint-to-segment
// connections between c and other. The segment starts on c and ends on other.
//
// Only endpoints are projected, so when the two segments cross the true
// minimum (zero, at the crossing) is not found.
func (c *Capsule) ShortestSegmentTo(other *Capsule) geom.Segment {
	candidates := [4]geom.Segment{
		geom.NewSegment(c.A(), other.NearestPoint(c.A())),
		geom.NewSegment(c.B(), other.NearestPoint(c.B())),
		geom.NewSegment(c.NearestPoint(other.A()), other.A()),
		geom.NewSegment(c.NearestPoint(other.B()), other.B()),
	}
	shortest := candidates[0]
	for _, s := range candidates[1:] {
		if s.Length() < shortest.Length() {
			shortest = s
		}
	}
	return shortest
}

// DistanceTo returns the gap between the surfaces of c and other.
// Negative values mean the capsules overlap.
func (c *Capsule) DistanceTo(other *Capsule) float64 {
	return c.ShortestSegmentTo(other).Length() - c.radius - other.radius
}

// Shape returns the current outline for rendering.
func (c *Capsule) Shape() Shape {
	return Shape{A: c.A(), B: c.B(), Radius: c.radius}
}
