package object

import (
	"math"

	"github.com/tomz197/cellbreak/internal/draw"
	"github.com/tomz197/cellbreak/internal/physics"
)

// PowerUpKind names a collectible effect.
type PowerUpKind string

const (
	PowerUpShield    PowerUpKind = "shield"
	PowerUpSlow      PowerUpKind = "slow"
	PowerUpNuke      PowerUpKind = "nuke"
	PowerUpSpeed     PowerUpKind = "speed"
	PowerUpScore     PowerUpKind = "score"
	PowerUpLaser     PowerUpKind = "laser"
	PowerUpFreeze    PowerUpKind = "freeze"
	PowerUpCoin      PowerUpKind = "coin"
	PowerUpMagnet    PowerUpKind = "magnet"
	PowerUpMultishot PowerUpKind = "multishot"
)

// Symbol returns a one-letter HUD tag for the kind.
func (k PowerUpKind) Symbol() string {
	switch k {
	case PowerUpShield:
		return "S"
	case PowerUpSlow:
		return "~"
	case PowerUpNuke:
		return "N"
	case PowerUpSpeed:
		return ">"
	case PowerUpScore:
		return "$"
	case PowerUpLaser:
		return "|"
	case PowerUpFreeze:
		return "*"
	case PowerUpCoin:
		return "o"
	case PowerUpMagnet:
		return "U"
	case PowerUpMultishot:
		return "W"
	default:
		return "?"
	}
}

// PowerUp is a collectible drifting down the field.
type PowerUp struct {
	X, Y      float64
	W, H      float64
	VY        float64
	Pulse     float64
	Kind      PowerUpKind
	Collected bool
}

// NewPowerUp creates a power-up with its left edge at x.
func NewPowerUp(kind PowerUpKind, x, y, size, fallSpeed float64) *PowerUp {
	return &PowerUp{
		X:    x,
		Y:    y,
		W:    size,
		H:    size,
		VY:   fallSpeed,
		Kind: kind,
	}
}

// Rect returns the pickup box.
func (p *PowerUp) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// MarkDestroyed implements Destructible.
func (p *PowerUp) MarkDestroyed() {
	p.Collected = true
}

// IsDestroyed implements Destructible.
func (p *PowerUp) IsDestroyed() bool {
	return p.Collected
}

// Update drifts the power-up down. Coins are pulled toward the player while
// a magnet is active and they are within range.
func (p *PowerUp) Update(ctx UpdateContext) (bool, error) {
	if p.Collected {
		return true, nil
	}
	dt := ctx.DT
	p.Pulse += 0.1 * dt
	p.Y += p.VY * dt

	if ctx.MagnetActive && p.Kind == PowerUpCoin {
		cx, cy := p.X+p.W/2, p.Y+p.H/2
		d := physics.Distance(cx, cy, ctx.PlayerX, ctx.PlayerY)
		if d > 0 && d <= ctx.MagnetRadius {
			step := math.Min(ctx.MagnetStrength/d*dt, d)
			p.X += (ctx.PlayerX - cx) / d * step
			p.Y += (ctx.PlayerY - cy) / d * step
		}
	}

	return p.Y > ctx.Field.Height, nil
}

// Draw renders a pulsing diamond.
func (p *PowerUp) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil || p.Collected {
		return nil
	}
	cx := p.X + p.W/2 + ctx.ShakeX
	cy := p.Y + p.H/2 + ctx.ShakeY
	r := p.W / 2 * (0.8 + 0.2*math.Sin(p.Pulse))

	if p.Kind == PowerUpCoin {
		ctx.Canvas.SetInk(ColorGold)
	} else {
		ctx.Canvas.SetInk(ColorShield)
	}
	pts := ctx.Canvas.BorrowPoints(4)
	pts[0] = draw.Point{X: cx, Y: cy - r}
	pts[1] = draw.Point{X: cx + r, Y: cy}
	pts[2] = draw.Point{X: cx, Y: cy + r}
	pts[3] = draw.Point{X: cx - r, Y: cy}
	ctx.Canvas.DrawPolygon(pts, p.Kind == PowerUpCoin)
	return nil
}
