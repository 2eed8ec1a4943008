package client

import (
	"time"

	"github.com/tomz197/capsules/internal/input"
)

// GameState represents the current phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Controlling a capsule
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection state: input, phase and what was drawn
// last frame. Each client has its own instance, managed by the Client.
type ClientState struct {
	Input     input.Input
	GameState GameState
	Running   bool // Client loop running

	tracker       input.Tracker // Turns held keys into edges for the server
	delta         time.Duration // Frame delta time (client-side)
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state

	prevGameState GameState
	wasInactive   bool
	labels        []textSpan // Text drawn over the canvas last frame

	// Fingerprint of the scene currently rasterised on the canvas.
	drawnFingerprint uint64
	drawn            bool
}

// textSpan is a run of text cells drawn over the canvas.
type textSpan struct {
	col, row, n int
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
