// Package loop drives the simulation: once per frame it resolves every
// collision in the scene and then integrates every body.
package loop

import (
	"time"

	"github.com/tomz197/capsules/internal/physics"
)

// Renderer consumes the shape of every capsule once per tick.
// It has no feedback into the simulation. The slice is only valid for the
// duration of the call.
type Renderer interface {
	Render(shapes []physics.Shape)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(shapes []physics.Shape)

func (f RendererFunc) Render(shapes []physics.Shape) { f(shapes) }

// Driver advances a Scene once per clock callback. It is single-threaded:
// Tick must not run concurrently with itself or with scene mutation.
type Driver struct {
	scene    *Scene
	renderer Renderer

	previous time.Time
	started  bool

	shapes []physics.Shape // reused between ticks
}

// NewDriver creates a driver for scene. renderer may be nil.
func NewDriver(scene *Scene, renderer Renderer) *Driver {
	return &Driver{scene: scene, renderer: renderer}
}

// Scene returns the scene being driven.
func (d *Driver) Scene() *Scene { return d.scene }

// Tick runs one simulation step for the frame at now and returns the delta
// that was applied. The first tick only records the timestamp and moves
// nothing.
func (d *Driver) Tick(now time.Time) time.Duration {
	var delta time.Duration
	if d.started {
		delta = now.Sub(d.previous)
	}
	d.previous = now
	d.started = true

	d.Step(delta.Seconds())
	return delta
}

// Step resolves and integrates the scene over deltaTime seconds, then hands
// the shapes to the renderer.
func (d *Driver) Step(deltaTime float64) {
	behaviors := d.scene.behaviors

	// All resolutions happen before any integration. Indexing the live slice
	// keeps each pair's writes visible to the pairs that follow.
	for i := 0; i < len(behaviors); i++ {
		behaviors[i].Resolve(behaviors)
	}
	for i := 0; i < len(behaviors); i++ {
		behaviors[i].Integrate(deltaTime)
	}

	if d.renderer != nil {
		d.shapes = d.scene.Shapes(d.shapes[:0])
		d.renderer.Render(d.shapes)
	}
}

// Reset forgets the previous timestamp, so the next Tick moves nothing.
func (d *Driver) Reset() {
	d.started = false
	d.previous = time.Time{}
}
