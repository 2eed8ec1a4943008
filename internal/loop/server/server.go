// Package server owns the shared scene and advances it on a single goroutine.
// Clients talk to it through GameServer: they send direction edges and read
// published snapshots.
package server

import (
	"context"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomz197/capsules/internal/geom"
	"github.com/tomz197/capsules/internal/input"
	"github.com/tomz197/capsules/internal/loop"
	"github.com/tomz197/capsules/internal/loop/config"
	"github.com/tomz197/capsules/internal/movement"
	"github.com/tomz197/capsules/internal/physics"
)

// GameServer is the interface clients use to communicate with the game server.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID string)
	SendInput(clientID string, edges []input.Edge)
	GetSnapshot() *Snapshot
	SpawnPlayer(clientID string)
}

// Server manages the shared scene and processes inputs from all clients.
type Server struct {
	logger *zap.Logger

	// mu guards the scene and the client table. The tick holds it for the
	// whole resolve/integrate pass, so membership only changes between ticks.
	mu      sync.RWMutex
	scene   *loop.Scene
	driver  *loop.Driver
	clients map[string]*ClientHandle
	tick    uint64
	delta   time.Duration

	// order lists client IDs by registration so snapshots label them stably.
	order []string

	// inputMu guards pending. SendInput never blocks on a tick in progress.
	inputMu sync.Mutex
	pending map[string]*heldUpdate

	snapshot atomic.Pointer[Snapshot]
	rng      *rand.Rand
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer creates a server simulating the given behaviors in order.
func NewServer(logger *zap.Logger, behaviors []movement.Behavior) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		logger:  logger,
		scene:   loop.NewScene(behaviors...),
		clients: make(map[string]*ClientHandle),
		pending: make(map[string]*heldUpdate),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.driver = loop.NewDriver(s.scene, loop.RendererFunc(s.publish))
	s.snapshot.Store(&Snapshot{Fingerprint: s.scene.Fingerprint()})
	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(config.ServerTickTime)
	defer ticker.Stop()

	s.logger.Info("simulation started",
		zap.Int("bodies", s.scene.Len()),
		zap.Duration("tick", config.ServerTickTime))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulation stopped", zap.Uint64("ticks", s.tick))
			return
		case now := <-ticker.C:
			s.step(now)
		}
	}
}

// step applies pending input and advances the scene for the frame at now.
func (s *Server) step(now time.Time) {
	s.collectInputs()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	s.delta = s.driver.Tick(now)
	if s.delta > config.StallThreshold {
		s.logger.Warn("tick stalled",
			zap.Uint64("tick", s.tick),
			zap.Duration("delta", s.delta))
	}
}

// publish is the driver's renderer: it copies the tick's shapes into a new
// snapshot. Called with mu held.
func (s *Server) publish(shapes []physics.Shape) {
	snap := &Snapshot{
		Tick:        s.tick,
		Shapes:      append([]physics.Shape(nil), shapes...),
		Players:     len(s.clients),
		Fingerprint: s.scene.Fingerprint(),
		Delta:       s.delta,
	}
	for _, id := range s.order {
		handle := s.clients[id]
		if handle.Player == nil || handle.Player.Capsule() == nil {
			continue
		}
		c := handle.Player.Capsule()
		top := c.A()
		if c.B().Y < top.Y {
			top = c.B()
		}
		snap.Labels = append(snap.Labels, Label{
			ClientID: handle.ID,
			Text:     handle.Username,
			At:       geom.V(top.X, top.Y-c.Radius()),
		})
	}
	s.snapshot.Store(snap)
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	s.logger.Info("notifying clients of shutdown", zap.Int("clients", len(s.clients)))
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.mu.RLock()
			s.logger.Warn("shutdown timed out", zap.Int("remaining", len(s.clients)))
			s.mu.RUnlock()
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	if runes := []rune(username); len(runes) > config.MaxUsernameSize {
		username = string(runes[:config.MaxUsernameSize])
	}
	handle := &ClientHandle{
		ID:       uuid.NewString(),
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.mu.Lock()
	s.clients[handle.ID] = handle
	s.order = append(s.order, handle.ID)
	s.mu.Unlock()

	s.logger.Info("client registered",
		zap.String("client", handle.ID),
		zap.String("user", username))
	return handle
}

// UnregisterClient removes a client and its player from the server.
func (s *Server) UnregisterClient(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	s.removePlayerLocked(handle)
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == clientID })

	s.inputMu.Lock()
	delete(s.pending, clientID)
	s.inputMu.Unlock()

	s.logger.Info("client unregistered", zap.String("client", clientID))
}

// SendInput queues direction edges from a client for the next tick. Edges
// are coalesced per direction, so none is ever lost however many arrive
// between ticks.
func (s *Server) SendInput(clientID string, edges []input.Edge) {
	if len(edges) == 0 {
		return
	}
	s.inputMu.Lock()
	defer s.inputMu.Unlock()

	u, ok := s.pending[clientID]
	if !ok {
		u = &heldUpdate{}
		s.pending[clientID] = u
	}
	u.add(edges)
}

// GetSnapshot returns the current world snapshot.
func (s *Server) GetSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// SpawnPlayer gives the client a fresh player capsule, replacing any it had.
func (s *Server) SpawnPlayer(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	s.removePlayerLocked(handle)

	c, err := s.newPlayerCapsuleLocked()
	if err != nil {
		s.logger.Error("spawn player", zap.String("client", clientID), zap.Error(err))
		return
	}
	handle.controls.Reset()
	s.inputMu.Lock()
	delete(s.pending, clientID)
	s.inputMu.Unlock()
	handle.Player = movement.NewPlayer(c, &handle.controls, config.PlayerSpeed, config.PlayerCollides)
	s.scene.Add(handle.Player)

	select {
	case handle.EventsCh <- ClientEvent{Type: EventPlayerSpawned}:
	default:
	}
	s.logger.Info("player spawned",
		zap.String("client", clientID),
		zap.Stringer("at", c.A()))
}

// spawnAttempts bounds the search for a free spot before giving up and
// spawning on top of whatever is there.
const spawnAttempts = 32

// newPlayerCapsuleLocked creates a vertical player capsule at a random spot,
// preferring one that does not touch any existing body.
func (s *Server) newPlayerCapsuleLocked() (*physics.Capsule, error) {
	mass, err := physics.NewMass(config.PlayerMass)
	if err != nil {
		return nil, err
	}
	margin := config.PlayerRadius * 3
	var c *physics.Capsule
	for i := 0; i < spawnAttempts; i++ {
		x := margin + s.rng.Float64()*(config.WorldWidth-2*margin)
		y := margin + s.rng.Float64()*(config.WorldHeight-2*margin-config.PlayerLength)
		c, err = physics.NewCapsule(geom.V(x, y), geom.V(x, y+config.PlayerLength), config.PlayerRadius, mass)
		if err != nil {
			return nil, err
		}
		if s.isFreeLocked(c) {
			break
		}
	}
	return c, nil
}

func (s *Server) isFreeLocked(c *physics.Capsule) bool {
	for _, b := range s.scene.Behaviors() {
		if other := b.Capsule(); other != nil && c.DistanceTo(other) <= 0 {
			return false
		}
	}
	return true
}

// removePlayerLocked detaches and removes the client's player, if any.
func (s *Server) removePlayerLocked(handle *ClientHandle) {
	if handle.Player == nil {
		return
	}
	s.scene.Remove(handle.Player)
	handle.Player.Attach(nil)
	handle.Player = nil
}

// collectInputs applies all pending direction edges to client controls.
func (s *Server) collectInputs() {
	s.inputMu.Lock()
	pending := s.pending
	s.pending = make(map[string]*heldUpdate, len(pending))
	s.inputMu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, u := range pending {
		if handle, ok := s.clients[id]; ok {
			u.apply(&handle.controls)
		}
	}
}
