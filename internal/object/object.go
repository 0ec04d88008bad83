// Package object holds the simulated entities of a run: the player,
// obstacles, power-ups, bullets and particles.
package object

import (
	"github.com/tomz197/cellbreak/internal/draw"
	"github.com/tomz197/cellbreak/internal/input"
	"github.com/tomz197/cellbreak/internal/random"
)

// Input is an alias for the input package's Intent type.
type Input = input.Intent

// Field is the logical play area in pixels.
type Field struct {
	Width  float64
	Height float64
}

// Emitter receives visual particles produced during update.
type Emitter interface {
	Emit(p *Particle)
}

// Spawner receives bullets fired during update.
type Spawner interface {
	SpawnBullet(b *Bullet)
}

// UpdateContext provides all the information an object needs during update.
// DT is the normalized frame factor: 1.0 is one frame at 60fps.
type UpdateContext struct {
	DT    float64
	Field Field
	Input Input
	Rand  random.Source

	// Player center, used by homing obstacles and the coin magnet.
	PlayerX float64
	PlayerY float64

	SlowFactor     float64 // Obstacle travel factor; <= 0 means 1
	BounceMax      float64 // Speed cap for bounce obstacles
	MagnetActive   bool
	MagnetRadius   float64
	MagnetStrength float64

	Shooting  bool
	Multishot bool

	Particles Emitter
	Bullets   Spawner
}

func (ctx UpdateContext) slow() float64 {
	if ctx.SlowFactor <= 0 {
		return 1
	}
	return ctx.SlowFactor
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas
	ShakeX float64 // Screen shake offset in logical pixels
	ShakeY float64
	Tick   uint64
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object onto ctx.Canvas.
	Draw(ctx DrawContext) error
}

// Destructible is implemented by entities removed by a hit rather than by
// leaving the field.
type Destructible interface {
	// MarkDestroyed marks the object for removal at the end of the tick.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// ShouldRenderBlink returns true if an object with remaining protection
// time should be rendered this frame (for blinking effect).
// Returns true always if remainingFrames <= 0 (no protection).
func ShouldRenderBlink(remainingFrames float64, period float64) bool {
	if remainingFrames <= 0 || period <= 0 {
		return true
	}
	phase := int(remainingFrames / period)
	return phase%2 != 0
}
