package loop

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/cellbreak/internal/draw"
	"github.com/tomz197/cellbreak/internal/game"
	"github.com/tomz197/cellbreak/internal/object"
)

// drawFrame draws the latest published snapshot.
func (c *Client) drawFrame(now time.Time) error {
	snap := c.session.Snapshot()

	// The canvas only emits set cells, so the previous frame is wiped first.
	c.chunkWriter.ClearFrame()
	c.canvas.Clear()

	if snap.State != game.StateIdle && snap.State != game.StateModeSelect {
		if err := c.drawWorld(snap); err != nil {
			return err
		}
	}

	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap, now)
	return c.chunkWriter.Flush()
}

// HUD styles
var (
	styleTitle   = draw.Style{Ink: draw.InkGreen, Bold: true}
	styleHeading = draw.Style{Ink: draw.InkWhite, Bold: true}
	styleScore   = draw.Style{Ink: draw.InkGold, Bold: true}
	styleWave    = draw.Style{Ink: draw.InkCyan}
	styleCombo   = draw.Style{Ink: draw.InkMagenta, Bold: true}
	styleAlert   = draw.Style{Ink: draw.InkRed, Bold: true}
	styleNotice  = draw.Style{Ink: draw.InkGold}
	styleDim     = draw.Style{Ink: draw.InkGray}
	stylePowerUp = draw.Style{Ink: draw.InkCyan, Bold: true}
)

// drawWorld draws every entity of snap onto the canvas.
func (c *Client) drawWorld(snap *game.Snapshot) error {
	ctx := object.DrawContext{
		Canvas: c.canvas,
		ShakeX: snap.ShakeX,
		ShakeY: snap.ShakeY,
		Tick:   snap.Tick,
	}

	// Golden zone markers along the floor
	floor := snap.Field.Height - 4
	c.canvas.SetInk(draw.InkGold)
	for x := snap.GoldenZone.Left; x < snap.GoldenZone.Right; x += 8 {
		c.canvas.SetFloat(x, floor)
	}

	c.canvas.SetInk(draw.InkRed)
	for _, a := range snap.Active {
		if a.Kind != object.PowerUpLaser {
			continue
		}
		beamX := snap.Player.CenterX()
		for y := snap.Player.Y - 4; y > 0; y -= 6 {
			c.canvas.SetFloat(beamX, y)
		}
	}

	for i := range snap.Particles {
		if err := snap.Particles[i].Draw(ctx); err != nil {
			return err
		}
	}
	for i := range snap.Obstacles {
		if err := snap.Obstacles[i].Draw(ctx); err != nil {
			return err
		}
	}
	for i := range snap.PowerUps {
		if err := snap.PowerUps[i].Draw(ctx); err != nil {
			return err
		}
	}
	for i := range snap.Bullets {
		if err := snap.Bullets[i].Draw(ctx); err != nil {
			return err
		}
	}
	if snap.State != game.StateGameOver {
		if err := snap.Player.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// drawUI draws the text overlay for the current state.
func (c *Client) drawUI(snap *game.Snapshot, now time.Time) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if !c.surfaceOK.Load() {
		// The fitted area may be narrower than the warning, so it is
		// written across the whole terminal. updateScreen restores the area.
		fullW, fullH, _ := c.termSizeFunc()
		c.chunkWriter.SetArea(0, 0, 0)
		c.writeCenteredStyled(fullW/2, max(fullH/2, 1), styleAlert, "terminal too small")
		return
	}
	if c.shuttingDown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}
	if c.isInactive {
		c.drawInactivityScreen(centerX, centerY, now)
		return
	}

	switch snap.State {
	case game.StateIdle:
		c.drawStartScreen(centerX, centerY, now)
	case game.StateModeSelect:
		c.drawModeScreen(centerX, centerY)
	case game.StatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snap)
	case game.StatePaused:
		c.drawPlayingHUD(termWidth, termHeight, snap)
		c.writeCenteredStyled(centerX, centerY-1, styleHeading, "PAUSED")
		c.writeCentered(centerX, centerY+1, "P or SPACE to resume")
	case game.StateGameOver:
		c.drawGameOverScreen(centerX, centerY, snap)
	}

	if c.notice != "" {
		c.writeCenteredStyled(centerX, termHeight-1, styleNotice, c.notice)
	}
}

func (c *Client) writeCentered(centerX, row int, s string) {
	c.chunkWriter.WriteAt(max(centerX-len(s)/2, 1), row, s)
}

func (c *Client) writeCenteredStyled(centerX, row int, style draw.Style, s string) {
	c.chunkWriter.WriteStyled(max(centerX-len(s)/2, 1), row, style, s)
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int, now time.Time) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		`  ___ ___ _    _      ___ ___ ___   _   _  __`,
		` / __| __| |  | |    | _ ) _ \ __| /_\ | |/ /`,
		`| (__| _|| |__| |__  | _ \   / _| / _ \| ' < `,
		` \___|___|____|____| |___/_|_\___/_/ \_\_|\_\`,
	}
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}

	cw := c.chunkWriter
	titleStartY := centerY - 7
	if titleWidth+2 <= c.canvas.TerminalWidth() {
		for i, line := range titleArt {
			cw.WriteStyled(centerX-titleWidth/2, titleStartY+i, styleTitle, line)
		}
	} else {
		titleArt = []string{"CELL BREAK"}
		c.writeCenteredStyled(centerX, titleStartY, styleTitle, titleArt[0])
	}

	controlsY := titleStartY + len(titleArt) + 2
	controlLines := []string{
		"A D / < >  . . .  Move",
		"double tap  . . . Dash",
		"SPACE  . . Dash ahead",
		"K / Up  . . . . Shoot",
		"P  . . . . . . . Pause",
		"M  . . . . . . .  Mute",
		"Q  . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, controlsY+i, line)
	}

	// Blinking start prompt
	if now.UnixMilli()/600%2 == 0 {
		c.writeCenteredStyled(centerX, controlsY+len(controlLines)+1, styleNotice, ">> Press SPACE <<")
	}
	c.drawLeaderboard(centerX, controlsY+len(controlLines)+3, 3)
}

// drawModeScreen lists the rule sets with the highlighted one marked.
func (c *Client) drawModeScreen(centerX, centerY int) {
	c.writeCenteredStyled(centerX, centerY-4, styleHeading, "SELECT MODE")
	for i, v := range variants {
		marker, style := "  ", styleDim
		if v == c.variant {
			marker, style = "> ", styleScore
		}
		c.writeCenteredStyled(centerX, centerY-2+i*2, style, fmt.Sprintf("%s%d %s", marker, i+1, strings.ToUpper(string(v))))
		c.writeCentered(centerX, centerY-1+i*2, variantBlurb[v])
	}
	c.writeCentered(centerX, centerY+5, "1-3 or SPACE to start")
	c.drawNowPlaying(centerX, centerY+7, 3)
}

// drawNowPlaying lists the runs in progress on the hub, best first.
func (c *Client) drawNowPlaying(centerX, row, n int) {
	if c.hub == nil {
		return
	}
	shown := 0
	for _, l := range c.hub.Live() {
		if l.State != game.StatePlaying && l.State != game.StatePaused {
			continue
		}
		if shown == 0 {
			c.writeCenteredStyled(centerX, row, styleWave, "NOW PLAYING")
		}
		shown++
		c.writeCentered(centerX, row+shown, fmt.Sprintf("%-*s %6d", 10, l.Player, l.Score))
		if shown == n {
			return
		}
	}
}

// drawPlayingHUD draws the in-game HUD.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *game.Snapshot) {
	cw := c.chunkWriter

	scoreText := fmt.Sprintf("%d", snap.Score)
	if snap.Multiplier > 1 {
		scoreText += fmt.Sprintf(" x%d", snap.Multiplier)
	}
	cw.WriteStyled(2, 1, styleScore, scoreText)

	waveText := snap.Wave
	if snap.Resting {
		waveText = "REST"
	}
	cw.WriteStyled(max(termWidth-len(waveText), 1), 1, styleWave, waveText)

	if snap.Combo > 1 {
		cw.WriteStyled(2, 2, styleCombo, fmt.Sprintf("combo %d", snap.Combo))
	}
	if snap.Event != "" {
		eventText := strings.ToUpper(snap.Event)
		cw.WriteStyled(max(termWidth-len(eventText), 1), 2, styleAlert, eventText)
	}
	if snap.Notice != "" {
		c.writeCenteredStyled(termWidth/2, 4, styleNotice, snap.Notice)
	}

	// Active power-ups with seconds left
	if len(snap.Active) > 0 {
		parts := make([]string, 0, len(snap.Active))
		for _, a := range snap.Active {
			parts = append(parts, fmt.Sprintf("%s%.0f", a.Kind.Symbol(), a.Remaining/float64(ClientTargetFPS)))
		}
		cw.WriteStyled(2, termHeight-1, stylePowerUp, strings.Join(parts, " "))
	}

	cw.WriteStyled(2, termHeight, styleDim, fmt.Sprintf("best %d", snap.Best))
	if c.hub != nil {
		playersText := fmt.Sprintf("players %d", c.hub.Players())
		cw.WriteStyled(max(termWidth-len(playersText), 1), termHeight, styleDim, playersText)
	}
}

// drawGameOverScreen shows the finished run.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap *game.Snapshot) {
	title, style := "GAME OVER", styleAlert
	if snap.Score > 0 && snap.Score >= snap.Best {
		title, style = "NEW BEST!", styleScore
	}
	c.writeCenteredStyled(centerX, centerY-6, style, title)

	lines := []string{
		fmt.Sprintf("score %d", snap.Score),
		fmt.Sprintf("best %d", snap.Best),
		fmt.Sprintf("survived %.1fs", snap.Seconds),
		fmt.Sprintf("max combo %d", snap.MaxCombo),
		fmt.Sprintf("perfect %d  near %d", snap.PerfectDodges, snap.NearMisses),
		fmt.Sprintf("coins %d", snap.Coins),
	}
	for i, line := range lines {
		c.writeCentered(centerX, centerY-4+i, line)
	}
	c.writeCentered(centerX, centerY+3, "SPACE retry  1-3 mode")
	c.drawLeaderboard(centerX, centerY+5, 5)
}

// drawLeaderboard lists the top n shared scores when connected to a hub.
func (c *Client) drawLeaderboard(centerX, row, n int) {
	if c.hub == nil {
		return
	}
	top := c.hub.TopScores()
	if len(top) == 0 {
		return
	}
	c.writeCenteredStyled(centerX, row, styleHeading, "TOP SCORES")
	for i, e := range top[:min(n, len(top))] {
		c.writeCentered(centerX, row+1+i, fmt.Sprintf("%d. %-*s %6d", i+1, 10, e.Player, e.Score))
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int, now time.Time) {
	c.writeCenteredStyled(centerX, centerY-2, styleAlert, "INACTIVITY WARNING")
	left := int((c.inactivityDisconnect - now.Sub(c.lastInput)).Seconds())
	c.writeCentered(centerX, centerY, fmt.Sprintf("disconnecting in %ds", max(left, 0)))
	c.writeCentered(centerX, centerY+2, "press any key")
}

// drawShutdownScreen draws the server shutdown countdown.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCenteredStyled(centerX, centerY-2, styleAlert, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY, fmt.Sprintf("disconnecting in %.0fs", max(c.shutdownTimer, 0)))
	c.writeCentered(centerX, centerY+2, "thanks for playing")
}
