package server

import (
	"time"

	"github.com/tomz197/capsules/internal/geom"
	"github.com/tomz197/capsules/internal/input"
	"github.com/tomz197/capsules/internal/movement"
	"github.com/tomz197/capsules/internal/physics"
)

// Snapshot is an immutable copy of the scene for rendering. A new one is
// published after every tick; readers must not modify it.
type Snapshot struct {
	Tick        uint64
	Shapes      []physics.Shape
	Labels      []Label
	Players     int
	Fingerprint uint64
	Delta       time.Duration
}

// Label is a player name anchored above that player's capsule.
type Label struct {
	ClientID string
	Text     string
	At       geom.Vec
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       string
	Username string
	Player   *movement.Player
	EventsCh chan ClientEvent // Events sent to client (shutdown, etc.)

	controls movement.Controls
}

// heldUpdate is the latest unapplied edge per direction for one client.
// Directions are independent, so a later edge supersedes an earlier one for
// the same direction and nothing else needs to be queued.
type heldUpdate struct {
	set     [movement.Right + 1]bool
	pressed [movement.Right + 1]bool
}

func (u *heldUpdate) add(edges []input.Edge) {
	for _, e := range edges {
		if e.Direction < movement.Up || e.Direction > movement.Right {
			continue
		}
		u.set[e.Direction] = true
		u.pressed[e.Direction] = e.Pressed
	}
}

func (u *heldUpdate) apply(controls *movement.Controls) {
	for d := movement.Up; d <= movement.Right; d++ {
		if u.set[d] {
			controls.Set(d, u.pressed[d])
		}
	}
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventPlayerSpawned ClientEventType = iota
	EventServerShutdown
)
