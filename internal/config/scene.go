package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/capsules/internal/geom"
	"github.com/tomz197/capsules/internal/movement"
	"github.com/tomz197/capsules/internal/physics"
)

//go:embed default_scene.yaml
var defaultScene []byte

// Behavior names accepted in scene files.
const (
	BehaviorFloating = "floating"
	BehaviorStatic   = "static"
	BehaviorPlayer   = "player"
)

// Scene describes the initial bodies of a simulation, in simulation order.
type Scene struct {
	Bodies []Body `yaml:"bodies"`
}

// Body describes one capsule and the behavior that drives it.
type Body struct {
	Name         string   `yaml:"name"`
	A            Vec      `yaml:"a"`
	B            Vec      `yaml:"b"`
	Radius       float64  `yaml:"radius"`
	Mass         MassSpec `yaml:"mass"`
	Velocity     Vec      `yaml:"velocity"`
	Behavior     string   `yaml:"behavior"`
	Acceleration *Vec     `yaml:"acceleration,omitempty"`

	// Player only.
	Speed    float64 `yaml:"speed,omitempty"`
	Collides bool    `yaml:"collides,omitempty"`
}

// Vec is a 2-element [x, y] sequence.
type Vec [2]float64

func (v Vec) geom() geom.Vec { return geom.V(v[0], v[1]) }

// MassSpec is a positive number or the string "infinite".
type MassSpec struct {
	Value    float64
	Infinite bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *MassSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: mass must be a number or \"infinite\"", node.Line)
	}
	if strings.EqualFold(node.Value, "infinite") || strings.EqualFold(node.Value, "inf") {
		*m = MassSpec{Infinite: true}
		return nil
	}
	v, err := strconv.ParseFloat(node.Value, 64)
	if err != nil {
		return fmt.Errorf("line %d: mass %q: %w", node.Line, node.Value, err)
	}
	*m = MassSpec{Value: v}
	return nil
}

func (m MassSpec) mass() (physics.Mass, error) {
	if m.Infinite {
		return physics.Infinite, nil
	}
	return physics.NewMass(m.Value)
}

// LoadScene decodes a YAML scene description.
func LoadScene(r io.Reader) (*Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}

// LoadSceneFile reads a scene from path, or the embedded default scene when
// path is empty.
func LoadSceneFile(path string) (*Scene, error) {
	if path == "" {
		return DefaultScene()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := LoadScene(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DefaultScene returns the embedded demo scene.
func DefaultScene() (*Scene, error) {
	return LoadScene(bytes.NewReader(defaultScene))
}

// Build validates every body and creates its capsule and behavior, in file
// order. The first invalid body aborts the build.
func (s *Scene) Build() ([]movement.Behavior, error) {
	behaviors := make([]movement.Behavior, 0, len(s.Bodies))
	for i, body := range s.Bodies {
		b, err := body.build()
		if err != nil {
			name := body.Name
			if name == "" {
				name = "unnamed"
			}
			return nil, fmt.Errorf("body %d (%s): %w", i, name, err)
		}
		behaviors = append(behaviors, b)
	}
	return behaviors, nil
}

func (b Body) build() (movement.Behavior, error) {
	mass, err := b.Mass.mass()
	if err != nil {
		return nil, err
	}
	c, err := physics.NewCapsule(b.A.geom(), b.B.geom(), b.Radius, mass)
	if err != nil {
		return nil, err
	}
	c.SetVelocity(b.Velocity.geom())

	var behavior movement.Behavior
	switch strings.ToLower(b.Behavior) {
	case "", BehaviorFloating:
		behavior = movement.NewFloating(c)
	case BehaviorStatic:
		if !mass.IsInfinite() {
			return nil, fmt.Errorf("static body must have infinite mass, got %v", mass)
		}
		behavior = movement.NewStatic(c)
	case BehaviorPlayer:
		behavior = movement.NewPlayer(c, nil, b.Speed, b.Collides)
	default:
		return nil, fmt.Errorf("unknown behavior %q", b.Behavior)
	}

	if b.Acceleration != nil {
		behavior = movement.NewAccelerated(behavior, b.Acceleration.geom())
	}
	return behavior, nil
}
