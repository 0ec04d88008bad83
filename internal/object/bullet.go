package object

import "github.com/tomz197/cellbreak/internal/physics"

// Bullet dimensions in logical pixels.
const (
	BulletWidth  = 4.0
	BulletHeight = 10.0
)

// Bullet is a player projectile (mobile variant).
type Bullet struct {
	X, Y      float64
	W, H      float64
	VX, VY    float64
	Destroyed bool
}

// NewBullet creates a bullet centered on x with its top at y.
func NewBullet(x, y, vx, vy float64) *Bullet {
	return &Bullet{
		X:  x - BulletWidth/2,
		Y:  y - BulletHeight,
		W:  BulletWidth,
		H:  BulletHeight,
		VX: vx,
		VY: vy,
	}
}

// Rect returns the bullet's bounding box.
func (b *Bullet) Rect() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// MarkDestroyed implements Destructible.
func (b *Bullet) MarkDestroyed() {
	b.Destroyed = true
}

// IsDestroyed implements Destructible.
func (b *Bullet) IsDestroyed() bool {
	return b.Destroyed
}

// Update moves the bullet; it is removed once it leaves the field.
func (b *Bullet) Update(ctx UpdateContext) (bool, error) {
	if b.Destroyed {
		return true, nil
	}
	b.X += b.VX * ctx.DT
	b.Y += b.VY * ctx.DT
	off := b.Y+b.H < 0 || b.X+b.W < 0 || b.X > ctx.Field.Width
	return off, nil
}

// Draw renders the bullet as a thin filled bar.
func (b *Bullet) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil || b.Destroyed {
		return nil
	}
	ctx.Canvas.SetInk(ColorGold)
	ctx.Canvas.FillRect(b.X+ctx.ShakeX, b.Y+ctx.ShakeY, b.W, b.H)
	return nil
}
