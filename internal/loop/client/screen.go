package client

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tomz197/capsules/internal/draw"
	"github.com/tomz197/capsules/internal/loop/config"
	"github.com/tomz197/capsules/internal/loop/server"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		draw.ClearScreen(c.chunkWriter)
		c.canvas.ForceRedraw()
		c.state.labels = c.state.labels[:0]
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	// Text from last frame sits on top of canvas cells; repaint them.
	for _, span := range c.state.labels {
		c.canvas.MarkTextDirty(span.col, span.row, span.n)
	}
	c.state.labels = c.state.labels[:0]

	snapshot := c.server.GetSnapshot()

	if !c.state.drawn || snapshot.Fingerprint != c.state.drawnFingerprint {
		c.canvas.Clear()
		for _, shape := range snapshot.Shapes {
			c.canvas.DrawCapsule(
				draw.Point{X: shape.A.X, Y: shape.A.Y},
				draw.Point{X: shape.B.X, Y: shape.B.Y},
				shape.Radius,
			)
		}
		c.state.drawnFingerprint = snapshot.Fingerprint
		c.state.drawn = true
	}
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawPlayerNames(snapshot.Labels)
	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// writeText writes s over the canvas and remembers it for cleanup next frame.
func (c *Client) writeText(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.state.labels = append(c.state.labels, textSpan{col: col, row: row, n: utf8.RuneCountInString(s)})
}

// drawUI draws the UI overlay.
func (c *Client) drawUI(snapshot *server.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	title := "INACTIVITY WARNING"
	c.writeText(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %3d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeText(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	c.writeText(centerX-len(hint)/2, centerY+2, hint)
}

// drawStartScreen draws the title screen over the running scene.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleArt := []string{
		`   ___   _   ___ ___ _   _ _    ___ ___  `,
		`  / __| /_\ | _ \ __| | | | |  | __/ __| `,
		` | (__ / _ \|  _/__ \ |_| | |__| _|\__ \ `,
		`  \___/_/ \_\_| |___/\___/|____|___|___/ `,
	}
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	titleStartY := centerY - 6
	for i, line := range titleArt {
		c.writeText(centerX-titleWidth/2, titleStartY+i, line)
	}

	subtitle := "~ Shared capsule sandbox over SSH ~"
	c.writeText(centerX-len(subtitle)/2, titleStartY+len(titleArt)+1, subtitle)

	controlsY := titleStartY + len(titleArt) + 3
	controlLines := []string{
		"W A S D / arrows . Push",
		"SPACE  . . . .  Respawn",
		"Q  . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.writeText(centerX-len(line)/2, controlsY+i, line)
	}

	prompt := ">>  Press SPACE to Join  <<"
	if time.Now().UnixMilli()/600%2 != 0 {
		prompt = "                           "
	}
	c.writeText(centerX-len(prompt)/2, controlsY+len(controlLines)+1, prompt)
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snapshot *server.Snapshot) {
	players := fmt.Sprintf("Players: %-4d", snapshot.Players)
	c.writeText(termWidth-len(players)-1, 1, players)

	bodies := fmt.Sprintf("Bodies: %-4d", len(snapshot.Shapes))
	c.writeText(2, 1, bodies)

	status := fmt.Sprintf("Tick %-8d %016x", snapshot.Tick, snapshot.Fingerprint)
	c.writeText(2, termHeight, status)

	if snapshot.Delta > config.StallThreshold {
		lag := "LAG"
		c.writeText(termWidth-len(lag)-1, termHeight, lag)
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	title := "SERVER SHUTTING DOWN"
	c.writeText(centerX-len(title)/2, centerY-3, title)

	msg := "Please reconnect in a moment."
	c.writeText(centerX-len(msg)/2, centerY-1, msg)

	remaining := int(c.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	c.writeText(centerX-len(countdown)/2, centerY+1, countdown)

	hint := "Press Q to disconnect now"
	c.writeText(centerX-len(hint)/2, centerY+3, hint)
}

// drawPlayerNames draws usernames above other players' capsules.
func (c *Client) drawPlayerNames(labels []server.Label) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()

	for _, label := range labels {
		if label.ClientID == c.handle.ID || label.Text == "" {
			continue
		}
		width := utf8.RuneCountInString(label.Text)
		col, row := c.canvas.LogicalToTerminal(label.At.X, label.At.Y)
		col -= width / 2
		row--

		if row < 1 || row > termHeight {
			continue
		}
		if col < 1 || col+width > termWidth {
			continue
		}
		c.writeText(col, row, label.Text)
	}
}
