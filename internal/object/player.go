package object

import (
	"math"

	"github.com/tomz197/cellbreak/internal/config"
	"github.com/tomz197/cellbreak/internal/draw"
	"github.com/tomz197/cellbreak/internal/physics"
)

// Dash is the player's short invulnerable burst.
type Dash struct {
	Active       bool
	FramesLeft   float64
	Cooldown     float64
	Dir          float64
	Invulnerable bool
}

// Player is the controllable entity at the bottom of the field.
// X is the left edge; the player only moves horizontally.
type Player struct {
	X, Y   float64
	W, H   float64
	VX     float64
	Facing float64 // -1 or 1

	MaxSpeed      float64
	Accel         float64
	Friction      float64
	StopFriction  float64
	StopThreshold float64
	Bounce        float64
	SpeedBoost    float64
	Boosted       bool // Speed power-up active

	Dash         Dash
	FireCooldown float64

	cfg config.Player
}

// NewPlayer creates a player centered horizontally near the bottom of the field.
func NewPlayer(cfg config.Player, field Field) *Player {
	return &Player{
		X:             field.Width/2 - cfg.Width/2,
		Y:             field.Height - cfg.BottomMargin - cfg.Height,
		W:             cfg.Width,
		H:             cfg.Height,
		Facing:        1,
		MaxSpeed:      cfg.MaxSpeed,
		Accel:         cfg.Accel,
		Friction:      cfg.Friction,
		StopFriction:  cfg.StopFriction,
		StopThreshold: cfg.StopThreshold,
		Bounce:        cfg.Bounce,
		SpeedBoost:    cfg.SpeedBoost,
		cfg:           cfg,
	}
}

// Rect returns the player's bounding box.
func (p *Player) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// CenterX returns the horizontal center of the player.
func (p *Player) CenterX() float64 {
	return p.X + p.W/2
}

// Invulnerable reports whether hits are currently ignored.
func (p *Player) Invulnerable() bool {
	return p.Dash.Active && p.Dash.Invulnerable
}

// TriggerDash starts a dash toward dir (-1/1). A zero dir dashes toward the
// facing direction. Returns false while a dash is active or cooling down.
func (p *Player) TriggerDash(dir float64) bool {
	if p.Dash.Active || p.Dash.Cooldown > 0 {
		return false
	}
	if dir == 0 {
		dir = p.Facing
	}
	if dir == 0 {
		dir = 1
	}
	dir = math.Copysign(1, dir)

	p.Dash = Dash{
		Active:       true,
		FramesLeft:   p.cfg.DashFrames,
		Cooldown:     p.cfg.DashCooldown,
		Dir:          dir,
		Invulnerable: true,
	}
	p.Facing = dir
	return true
}

func (p *Player) endDash() {
	limit := p.maxSpeed()
	p.VX = physics.Clamp(p.Dash.Dir*p.cfg.DashSpeed*p.cfg.DashCarry, -limit, limit)
	p.Dash.Active = false
	p.Dash.Invulnerable = false
	p.Dash.FramesLeft = 0
}

func (p *Player) maxSpeed() float64 {
	if p.Boosted && p.SpeedBoost > 0 {
		return p.MaxSpeed * p.SpeedBoost
	}
	return p.MaxSpeed
}

// Update applies the intent: dash, ice physics, wall bounce and shooting.
func (p *Player) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.DT

	if p.Dash.Cooldown > 0 {
		p.Dash.Cooldown = math.Max(0, p.Dash.Cooldown-dt)
	}
	if p.FireCooldown > 0 {
		p.FireCooldown = math.Max(0, p.FireCooldown-dt)
	}

	if ctx.Input.Dash {
		p.TriggerDash(ctx.Input.DashDir)
	}

	if p.Dash.Active && p.Dash.FramesLeft <= 0 {
		p.endDash()
	}

	if p.Dash.Active {
		p.X += p.Dash.Dir * p.cfg.DashSpeed * dt
		p.Dash.FramesLeft -= dt
		p.X = physics.Clamp(p.X, 0, ctx.Field.Width-p.W)
		if ctx.Particles != nil && ctx.Rand != nil {
			SpawnTrail(ctx.Particles, ctx.Rand, p.CenterX(), p.Y+p.H/2)
		}
	} else {
		p.move(ctx)
	}

	if ctx.Shooting && ctx.Input.Shoot {
		p.fire(ctx)
	}
	return false, nil
}

func (p *Player) move(ctx UpdateContext) {
	dt := ctx.DT
	dir := ctx.Input.Direction()
	if dir != 0 {
		p.VX += dir * p.Accel * dt
		p.Facing = dir
	}

	if dir == 0 && math.Abs(p.VX) < p.StopThreshold {
		p.VX *= math.Pow(p.StopFriction, dt)
	} else {
		p.VX *= math.Pow(p.Friction, dt)
	}
	if math.Abs(p.VX) < 0.01 {
		p.VX = 0
	}

	limit := p.maxSpeed()
	p.VX = physics.Clamp(p.VX, -limit, limit)
	p.X += p.VX * dt

	maxX := ctx.Field.Width - p.W
	switch {
	case p.X < 0:
		p.X = 0
		p.VX = -p.VX * p.Bounce
	case p.X > maxX:
		p.X = maxX
		p.VX = -p.VX * p.Bounce
	}
}

func (p *Player) fire(ctx UpdateContext) {
	if p.FireCooldown > 0 || ctx.Bullets == nil {
		return
	}
	p.FireCooldown = p.cfg.FireCooldown

	x := p.CenterX()
	speed := p.cfg.BulletSpeed
	ctx.Bullets.SpawnBullet(NewBullet(x, p.Y, 0, -speed))
	if ctx.Multishot {
		ctx.Bullets.SpawnBullet(NewBullet(x, p.Y, -speed*0.2, -speed))
		ctx.Bullets.SpawnBullet(NewBullet(x, p.Y, speed*0.2, -speed))
	}
}

// Draw renders the player as a filled trapezoid.
func (p *Player) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil {
		return nil
	}
	if p.Invulnerable() && !ShouldRenderBlink(p.Dash.FramesLeft, 2) {
		return nil
	}

	x := p.X + ctx.ShakeX
	y := p.Y + ctx.ShakeY
	inset := p.W * 0.2

	ctx.Canvas.SetInk(draw.InkWhite)
	pts := ctx.Canvas.BorrowPoints(4)
	pts[0] = draw.Point{X: x + inset, Y: y}
	pts[1] = draw.Point{X: x + p.W - inset, Y: y}
	pts[2] = draw.Point{X: x + p.W, Y: y + p.H}
	pts[3] = draw.Point{X: x, Y: y + p.H}
	ctx.Canvas.DrawPolygon(pts, true)
	return nil
}
