package server

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tomz197/capsules/internal/geom"
	"github.com/tomz197/capsules/internal/input"
	"github.com/tomz197/capsules/internal/loop/config"
	"github.com/tomz197/capsules/internal/movement"
	"github.com/tomz197/capsules/internal/physics"
)

func rock(t *testing.T, at, velocity geom.Vec) movement.Behavior {
	t.Helper()
	c, err := physics.NewCapsule(at, at, 5, physics.MustMass(1))
	require.NoError(t, err)
	c.SetVelocity(velocity)
	return movement.NewFloating(c)
}

func TestServer_StepPublishesSnapshot(t *testing.T) {
	s := NewServer(zaptest.NewLogger(t), []movement.Behavior{
		rock(t, geom.V(100, 100), geom.V(60, 0)),
	})
	initial := s.GetSnapshot()
	require.NotNil(t, initial)
	assert.Empty(t, initial.Shapes)

	start := time.Unix(100, 0)
	s.step(start)
	s.step(start.Add(500 * time.Millisecond))

	snap := s.GetSnapshot()
	assert.Equal(t, uint64(2), snap.Tick)
	require.Len(t, snap.Shapes, 1)
	assert.InDelta(t, 130, snap.Shapes[0].A.X, 1e-9)
	assert.Equal(t, 500*time.Millisecond, snap.Delta)
	assert.NotEqual(t, initial.Fingerprint, snap.Fingerprint)
}

func TestServer_SnapshotIsACopy(t *testing.T) {
	s := NewServer(nil, []movement.Behavior{rock(t, geom.V(10, 10), geom.V(1, 0))})
	start := time.Unix(0, 0)
	s.step(start)
	first := s.GetSnapshot()
	x := first.Shapes[0].A.X

	s.step(start.Add(time.Second))
	assert.Equal(t, x, first.Shapes[0].A.X, "published snapshots never change")
	assert.NotSame(t, first, s.GetSnapshot())
}

func TestServer_RegisterSpawnUnregister(t *testing.T) {
	s := NewServer(zaptest.NewLogger(t), nil)

	h := s.RegisterClient(strings.Repeat("x", config.MaxUsernameSize+5))
	assert.Len(t, h.Username, config.MaxUsernameSize)
	assert.NotEmpty(t, h.ID)
	assert.Nil(t, h.Player)

	s.SpawnPlayer(h.ID)
	require.NotNil(t, h.Player)
	player := h.Player
	c := player.Capsule()
	require.NotNil(t, c)
	assert.Equal(t, config.PlayerRadius, c.Radius())
	assert.InDelta(t, config.PlayerLength, c.Length(), 1e-9)
	assert.Equal(t, 1, s.scene.Len())
	assert.Equal(t, EventPlayerSpawned, (<-h.EventsCh).Type)

	s.step(time.Unix(0, 0))
	snap := s.GetSnapshot()
	assert.Equal(t, 1, snap.Players)
	require.Len(t, snap.Labels, 1)
	assert.Equal(t, h.Username, snap.Labels[0].Text)
	assert.Equal(t, h.ID, snap.Labels[0].ClientID)

	// Respawning replaces the old capsule.
	s.SpawnPlayer(h.ID)
	assert.Equal(t, 1, s.scene.Len())
	assert.Nil(t, player.Capsule(), "old player detached")

	s.UnregisterClient(h.ID)
	assert.Equal(t, 0, s.scene.Len())
	_, open := <-drain(h.EventsCh)
	assert.False(t, open)

	// Unknown IDs are ignored.
	s.UnregisterClient(h.ID)
	s.SpawnPlayer("missing")
	assert.Equal(t, 0, s.scene.Len())
}

// drain empties ch and returns it.
func drain(ch chan ClientEvent) chan ClientEvent {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return ch
			}
		default:
			return ch
		}
	}
}

func TestServer_InputMovesPlayer(t *testing.T) {
	s := NewServer(zaptest.NewLogger(t), nil)
	h := s.RegisterClient("pilot")
	s.SpawnPlayer(h.ID)
	before := h.Player.Capsule().A()

	start := time.Unix(0, 0)
	s.step(start)
	s.SendInput(h.ID, []input.Edge{{Direction: movement.Right, Pressed: true}})
	s.SendInput(h.ID, nil)
	s.step(start.Add(time.Second))

	assert.Equal(t, geom.V(config.PlayerSpeed, 0), h.Player.Velocity())
	assert.InDelta(t, before.X+config.PlayerSpeed, h.Player.Capsule().A().X, 1e-9)

	s.SendInput(h.ID, []input.Edge{{Direction: movement.Right, Pressed: false}})
	s.step(start.Add(2 * time.Second))
	assert.Equal(t, geom.V(config.PlayerSpeed, 0), h.Player.Velocity(), "no drag")
}

func TestServer_ReleaseSurvivesInputBurst(t *testing.T) {
	s := NewServer(zaptest.NewLogger(t), nil)
	h := s.RegisterClient("pilot")
	s.SpawnPlayer(h.ID)

	start := time.Unix(0, 0)
	s.step(start)
	s.SendInput(h.ID, []input.Edge{{Direction: movement.Right, Pressed: true}})
	s.step(start.Add(100 * time.Millisecond))
	require.True(t, h.controls.State().Right)

	// Far more traffic than any single tick would see, then the release.
	for i := 0; i < 300; i++ {
		s.SendInput(h.ID, []input.Edge{{Direction: movement.Up, Pressed: i%2 == 0}})
	}
	s.SendInput(h.ID, []input.Edge{{Direction: movement.Right, Pressed: false}})

	s.step(start.Add(200 * time.Millisecond))
	state := h.controls.State()
	assert.False(t, state.Right, "release applied")
	assert.False(t, state.Up, "last edge per direction wins")

	v := h.Player.Velocity()
	for i := 3; i <= 7; i++ {
		s.step(start.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	assert.Equal(t, v, h.Player.Velocity(), "no acceleration once released")
}

func TestServer_LabelsFollowRegistrationOrder(t *testing.T) {
	s := NewServer(nil, nil)
	var ids []string
	for _, name := range []string{"ann", "bob", "cy", "dee", "eve"} {
		h := s.RegisterClient(name)
		s.SpawnPlayer(h.ID)
		ids = append(ids, h.ID)
	}
	s.UnregisterClient(ids[1])
	want := []string{ids[0], ids[2], ids[3], ids[4]}

	start := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		s.step(start.Add(time.Duration(i) * time.Millisecond))
		var got []string
		for _, l := range s.GetSnapshot().Labels {
			got = append(got, l.ClientID)
		}
		require.Equal(t, want, got)
	}
}

func TestServer_UsernameTruncatedByRune(t *testing.T) {
	s := NewServer(nil, nil)
	name := strings.Repeat("é", config.MaxUsernameSize+3)

	h := s.RegisterClient(name)
	assert.Equal(t, strings.Repeat("é", config.MaxUsernameSize), h.Username)
	assert.True(t, utf8.ValidString(h.Username))
}

func TestServer_InputForUnknownClientIgnored(t *testing.T) {
	s := NewServer(nil, nil)
	s.SendInput("ghost", []input.Edge{{Direction: movement.Up, Pressed: true}})
	assert.NotPanics(t, func() { s.step(time.Unix(0, 0)) })
}

func TestServer_SpawnAvoidsBodies(t *testing.T) {
	// A wall covering the left half of the world.
	wall, err := physics.NewCapsule(
		geom.V(0, config.WorldHeight/2), geom.V(config.WorldWidth/2, config.WorldHeight/2),
		config.WorldHeight/2, physics.Infinite)
	require.NoError(t, err)
	s := NewServer(nil, []movement.Behavior{movement.NewStatic(wall)})

	for i := 0; i < 10; i++ {
		h := s.RegisterClient("p")
		s.SpawnPlayer(h.ID)
		require.NotNil(t, h.Player)
	}
	free := 0
	for _, b := range s.scene.Behaviors()[1:] {
		if b.Capsule().DistanceTo(wall) > 0 {
			free++
		}
	}
	assert.Greater(t, free, 0)
}

func TestServer_LogsStall(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewServer(zap.New(core), nil)

	start := time.Unix(0, 0)
	s.step(start)
	s.step(start.Add(config.StallThreshold / 2))
	assert.Zero(t, logs.Len())

	s.step(start.Add(time.Second))
	require.Equal(t, 1, logs.FilterMessage("tick stalled").Len())
}

func TestServer_ShutdownNotifiesClients(t *testing.T) {
	s := NewServer(zaptest.NewLogger(t), nil)
	h := s.RegisterClient("a")

	done := make(chan struct{})
	go func() {
		s.Shutdown(5 * time.Second)
		close(done)
	}()

	ev := <-h.EventsCh
	assert.Equal(t, EventServerShutdown, ev.Type)
	s.UnregisterClient(h.ID)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Shutdown did not return after the last client left")
	}
}

func TestServer_ShutdownTimesOut(t *testing.T) {
	s := NewServer(nil, nil)
	s.RegisterClient("stays")

	start := time.Now()
	s.Shutdown(300 * time.Millisecond)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := NewServer(zaptest.NewLogger(t), []movement.Behavior{rock(t, geom.V(0, 0), geom.V(1, 0))})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.GetSnapshot().Tick > 0 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
