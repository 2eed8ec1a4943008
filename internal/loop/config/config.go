// Package config centralizes all tunable simulation parameters.
package config

import "time"

// World dimensions in logical units. Bodies are placed in this space and the
// renderer scales it to the terminal.
const (
	WorldWidth  = 1000
	WorldHeight = 500
)

// Terminal rendering limits. Larger terminals get a centered render area.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 50
)

// Players
const (
	PlayerSpeed     = 120.0 // Velocity gained per second while a direction is held
	PlayerRadius    = 12.0
	PlayerLength    = 30.0
	PlayerMass      = 1.0
	PlayerCollides  = true
	MaxUsernameSize = 16 // Maximum display length for player usernames
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate

	// StallThreshold is the tick delta above which the server logs a stall.
	StallThreshold = 250 * time.Millisecond
)
