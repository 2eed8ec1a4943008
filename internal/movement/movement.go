// Package movement provides the behaviors that drive capsules each tick.
//
// A Behavior is attached to at most one capsule. Each tick the driver calls
// Resolve on every behavior, then Integrate on every behavior. A behavior
// with no capsule attached is detached and all of its operations are no-ops.
package movement

import (
	"github.com/tomz197/capsules/internal/geom"
	"github.com/tomz197/capsules/internal/physics"
)

// Behavior is the closed set of movement strategies: Floating, Static,
// Player and the Accelerated modifier that wraps one of them.
type Behavior interface {
	// Capsule returns the attached capsule, or nil when detached.
	Capsule() *physics.Capsule
	// Attach replaces the attached capsule. Passing nil detaches.
	Attach(c *physics.Capsule)
	// Resolve applies collision impulses against the other behaviors in
	// scene. Velocity changes are visible to later calls immediately.
	Resolve(scene []Behavior)
	// Integrate advances the attached capsule by deltaTime seconds.
	Integrate(deltaTime float64)
	// Velocity returns the current velocity, zero when detached or static.
	Velocity() geom.Vec

	sealed()
}

// attachment is the capsule slot shared by every behavior.
type attachment struct {
	capsule *physics.Capsule
}

func (a *attachment) Capsule() *physics.Capsule  { return a.capsule }
func (a *attachment) Attach(c *physics.Capsule) { a.capsule = c }
func (a *attachment) sealed()                    {}

func (a *attachment) Velocity() geom.Vec {
	if a.capsule == nil {
		return geom.Zero
	}
	return a.capsule.Velocity()
}

// resolveAgainst collides self's capsule with every other attached capsule in
// scene, in scene order.
func resolveAgainst(self Behavior, scene []Behavior) {
	c := self.Capsule()
	if c == nil {
		return
	}
	for i := 0; i < len(scene); i++ {
		other := scene[i]
		if other == nil || other == self {
			continue
		}
		oc := other.Capsule()
		if oc == nil || oc == c {
			continue
		}
		physics.Collide(c, oc)
	}
}

// drift moves c by its velocity over deltaTime.
func drift(c *physics.Capsule, deltaTime float64) {
	if c == nil || deltaTime == 0 {
		return
	}
	c.Move(c.Velocity().Mult(deltaTime))
}

// Floating is a physics-driven body: it collides with every other body and
// drifts with its velocity.
type Floating struct {
	attachment
}

// NewFloating returns a Floating behavior attached to c. c may be nil.
func NewFloating(c *physics.Capsule) *Floating {
	return &Floating{attachment{capsule: c}}
}

func (f *Floating) Resolve(scene []Behavior) {
	resolveAgainst(f, scene)
}

func (f *Floating) Integrate(deltaTime float64) {
	drift(f.capsule, deltaTime)
}

// Static is an immovable anchor. It never resolves or moves on its own, but
// floating bodies still collide with it. Attaching a capsule makes its mass
// Infinite, which also drops any velocity it had.
type Static struct {
	attachment
}

// NewStatic returns a Static behavior attached to c. c may be nil.
func NewStatic(c *physics.Capsule) *Static {
	s := &Static{}
	s.Attach(c)
	return s
}

func (s *Static) Attach(c *physics.Capsule) {
	if c != nil {
		// Infinite is always a valid mass.
		_ = c.SetMass(physics.Infinite)
	}
	s.capsule = c
}

func (s *Static) Resolve([]Behavior) {}
func (s *Static) Integrate(float64)  {}
func (s *Static) Velocity() geom.Vec { return geom.Zero }

// Accelerated adds a constant acceleration to the velocity of the wrapped
// behavior's capsule before every integration (e.g. gravity).
type Accelerated struct {
	Inner        Behavior
	Acceleration geom.Vec
}

// NewAccelerated wraps inner with a constant acceleration.
func NewAccelerated(inner Behavior, acceleration geom.Vec) *Accelerated {
	return &Accelerated{Inner: inner, Acceleration: acceleration}
}

func (a *Accelerated) Capsule() *physics.Capsule  { return a.Inner.Capsule() }
func (a *Accelerated) Attach(c *physics.Capsule) { a.Inner.Attach(c) }
func (a *Accelerated) Velocity() geom.Vec         { return a.Inner.Velocity() }
func (a *Accelerated) sealed()                    {}

// Resolve delegates to the wrapped behavior. The wrapper itself is skipped
// there because it shares the inner capsule.
func (a *Accelerated) Resolve(scene []Behavior) {
	a.Inner.Resolve(scene)
}

func (a *Accelerated) Integrate(deltaTime float64) {
	if c := a.Inner.Capsule(); c != nil {
		c.SetVelocity(c.Velocity().Add(a.Acceleration.Mult(deltaTime)))
	}
	a.Inner.Integrate(deltaTime)
}

var (
	_ Behavior = (*Floating)(nil)
	_ Behavior = (*Static)(nil)
	_ Behavior = (*Player)(nil)
	_ Behavior = (*Accelerated)(nil)
)
