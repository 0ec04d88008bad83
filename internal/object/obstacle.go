package object

import (
	"math"

	"github.com/tomz197/cellbreak/internal/draw"
	"github.com/tomz197/cellbreak/internal/physics"
	"github.com/tomz197/cellbreak/internal/random"
)

// Pattern is an obstacle movement pattern.
type Pattern string

const (
	PatternStraight Pattern = "straight"
	PatternZigzag   Pattern = "zigzag"
	PatternWave     Pattern = "wave"
	PatternSpiral   Pattern = "spiral"
	PatternSine     Pattern = "sine"
	PatternRandom   Pattern = "random"
	PatternHoming   Pattern = "homing"
	PatternBounce   Pattern = "bounce"
)

// ObstacleType tags an obstacle as a buy or sell block.
type ObstacleType string

const (
	Buy  ObstacleType = "buy"
	Sell ObstacleType = "sell"
)

// Side is the edge an obstacle entered from.
type Side int

const (
	SideTop Side = iota
	SideLeft
	SideRight
)

// Pattern motion tuning, per frame.
const (
	phaseStep        = 0.1
	minDescent       = 0.5
	zigzagFrequency  = 3.0
	zigzagAmplitude  = 50.0
	spiralGrowth     = 0.4
	spiralMinRadius  = 10.0
	spiralMaxRadius  = 60.0
	spiralLift       = 1.2
	sineHarmonic     = 2.7
	sineHarmonicAmp  = 0.3
	randomFlipChance = 0.02
	randomDrift      = 1.5
	homingEase       = 0.05
	homingMaxStep    = 3.0
	bounceGrowth     = 0.002
)

// Obstacle is a falling (or side-entering) block the player must avoid.
// X, Y is the top-left corner.
type Obstacle struct {
	X, Y  float64
	W, H  float64
	VX    float64
	Speed float64

	Type    ObstacleType
	Pattern Pattern
	Side    Side

	// Pattern parameters.
	Phase     float64
	Amplitude float64
	Frequency float64
	BaseX     float64
	Radius    float64
	Dir       float64
	BounceVX  float64

	Frozen    bool
	MinGap    float64 // Smallest gap to the player seen while approaching
	Dodged    bool    // Dodge already resolved
	Destroyed bool
	Exited    bool
}

// NewObstacle creates a top-entering obstacle with its left edge at x.
func NewObstacle(x, y, size, speed float64, typ ObstacleType, pattern Pattern, src random.Source) *Obstacle {
	o := &Obstacle{
		X:         x,
		Y:         y,
		W:         size,
		H:         size,
		Speed:     speed,
		Type:      typ,
		Pattern:   pattern,
		Side:      SideTop,
		BaseX:     x,
		Radius:    spiralMinRadius,
		Dir:       1,
		MinGap:    math.Inf(1),
		Amplitude: 40,
		Frequency: 1.2,
		BounceVX:  2,
	}
	if src != nil {
		o.Phase = random.Range(src, 0, 2*math.Pi)
		o.Amplitude = random.Range(src, 20, 60)
		o.Frequency = random.Range(src, 0.8, 1.6)
		o.Dir = random.Sign(src)
		o.BounceVX = random.Sign(src) * random.Range(src, 1.5, 3)
	}
	return o
}

// NewSideObstacle creates an obstacle entering horizontally from side at row y.
// It travels straight across at speed.
func NewSideObstacle(side Side, fieldWidth, y, size, speed float64, typ ObstacleType) *Obstacle {
	o := &Obstacle{
		Y:       y,
		W:       size,
		H:       size,
		Speed:   speed,
		Type:    typ,
		Pattern: PatternStraight,
		Side:    side,
		Dir:     1,
		MinGap:  math.Inf(1),
	}
	if side == SideRight {
		o.X = fieldWidth
		o.VX = -speed
		o.Dir = -1
	} else {
		o.X = -size
		o.VX = speed
	}
	o.BaseX = o.X
	return o
}

// Rect returns the obstacle's bounding box.
func (o *Obstacle) Rect() physics.Rect {
	return physics.Rect{X: o.X, Y: o.Y, W: o.W, H: o.H}
}

// CenterX returns the horizontal center of the obstacle.
func (o *Obstacle) CenterX() float64 {
	return o.X + o.W/2
}

// MarkDestroyed implements Destructible.
func (o *Obstacle) MarkDestroyed() {
	o.Destroyed = true
}

// IsDestroyed implements Destructible.
func (o *Obstacle) IsDestroyed() bool {
	return o.Destroyed
}

// OnScreen reports whether any part of the obstacle is inside the field.
func (o *Obstacle) OnScreen(f Field) bool {
	return o.Right() > 0 && o.X < f.Width && o.Y+o.H > 0 && o.Y < f.Height
}

// Right returns the x-coordinate of the right edge.
func (o *Obstacle) Right() float64 {
	return o.X + o.W
}

// Update advances the obstacle by its pattern. Frozen obstacles don't move.
func (o *Obstacle) Update(ctx UpdateContext) (bool, error) {
	if o.Destroyed {
		return true, nil
	}
	if o.Frozen {
		return false, nil
	}

	dt := ctx.DT
	if o.Side != SideTop {
		o.X += o.VX * ctx.slow() * dt
		if (o.VX > 0 && o.X > ctx.Field.Width) || (o.VX < 0 && o.Right() < 0) {
			o.Exited = true
			return true, nil
		}
		return false, nil
	}

	o.Y += math.Max(o.Speed*ctx.slow(), minDescent) * dt
	o.Phase += phaseStep * dt
	o.applyPattern(ctx)

	o.X = physics.Clamp(o.X, 0, math.Max(0, ctx.Field.Width-o.W))

	if o.Y > ctx.Field.Height {
		o.Exited = true
		return true, nil
	}
	return false, nil
}

func (o *Obstacle) applyPattern(ctx UpdateContext) {
	dt := ctx.DT
	switch o.Pattern {
	case PatternZigzag:
		o.X = o.BaseX + math.Sin(o.Phase*zigzagFrequency)*zigzagAmplitude

	case PatternWave:
		o.X = o.BaseX + math.Sin(o.Phase*o.Frequency)*o.Amplitude

	case PatternSpiral:
		o.Radius += spiralGrowth * dt
		if o.Radius > spiralMaxRadius {
			o.Radius = spiralMinRadius
		}
		o.X = o.BaseX + math.Cos(o.Phase*2)*o.Radius
		o.Y += math.Sin(o.Phase*2) * spiralLift * dt

	case PatternSine:
		o.X = o.BaseX +
			math.Sin(o.Phase*o.Frequency)*o.Amplitude +
			math.Sin(o.Phase*o.Frequency*sineHarmonic)*o.Amplitude*sineHarmonicAmp

	case PatternRandom:
		jitter := 0.0
		if ctx.Rand != nil {
			if ctx.Rand.Float64() < randomFlipChance*dt {
				o.Dir = -o.Dir
			}
			jitter = random.Range(ctx.Rand, -1, 1)
		}
		o.X += (jitter + o.Dir*randomDrift) * dt
		if o.X <= 0 {
			o.Dir = 1
		} else if o.Right() >= ctx.Field.Width {
			o.Dir = -1
		}

	case PatternHoming:
		dx := ctx.PlayerX - o.CenterX()
		o.X += physics.Clamp(dx*homingEase, -homingMaxStep, homingMaxStep) * dt

	case PatternBounce:
		o.X += o.BounceVX * dt
		if o.X <= 0 {
			o.X = 0
			o.BounceVX = math.Abs(o.BounceVX)
		} else if o.Right() >= ctx.Field.Width {
			o.X = ctx.Field.Width - o.W
			o.BounceVX = -math.Abs(o.BounceVX)
		}
		o.Speed *= 1 + bounceGrowth*dt
		if ctx.BounceMax > 0 && o.Speed > ctx.BounceMax {
			o.Speed = ctx.BounceMax
		}
	}
}

// Draw renders buy blocks filled and sell blocks outlined.
func (o *Obstacle) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil || o.Destroyed {
		return nil
	}
	x := o.X + ctx.ShakeX
	y := o.Y + ctx.ShakeY
	cv := ctx.Canvas
	switch {
	case o.Frozen:
		cv.SetInk(ColorFrozen)
		cv.StrokeRect(x, y, o.W, o.H)
		cv.FillRect(x+o.W/3, y+o.H/3, o.W/3, o.H/3)
	case o.Type == Sell:
		// Hatched so sell blocks stay distinct without colour.
		cv.SetInk(ColorSell)
		cv.StrokeRect(x, y, o.W, o.H)
		cv.FillRectChecker(x, y, o.W, o.H)
	default:
		cv.SetInk(ColorBuy)
		cv.FillRect(x, y, o.W, o.H)
	}
	return nil
}

// Color is the ink of the block's debris.
func (o *Obstacle) Color() draw.Ink {
	if o.Type == Sell {
		return ColorSell
	}
	return ColorBuy
}
