package object

import (
	"math"
	"sync"

	"github.com/tomz197/cellbreak/internal/draw"
	"github.com/tomz197/cellbreak/internal/random"
)

// Particle physics, per frame.
const (
	ParticleGravity  = 0.15
	ParticleFriction = 0.96
)

// ParticleKind selects a particle's look and physics.
type ParticleKind int

const (
	ParticleExplosion ParticleKind = iota
	ParticleCollect
	ParticleTrail
	ParticleSparkle
)

// Palette shared by particles and the blocks that emit them.
const (
	ColorBuy     = draw.InkGreen
	ColorSell    = draw.InkRed
	ColorGold    = draw.InkGold
	ColorShield  = draw.InkCyan
	ColorTrail   = draw.InkMagenta
	ColorSparkle = draw.InkWhite
	ColorFrozen  = draw.InkBlue
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64 // 1 when spawned, removed at 0
	Decay  float64 // Life lost per frame
	Size   float64
	Color  draw.Ink
	Kind   ParticleKind
}

// NewParticle creates a single particle from the pool.
func NewParticle(kind ParticleKind, x, y, vx, vy, decay, size float64, color draw.Ink) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Life = 1
	p.Decay = decay
	p.Size = size
	p.Color = color
	p.Kind = kind
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	*p = Particle{}
	particlePool.Put(p)
}

// Update moves the particle and decays its life.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.DT

	p.Life -= p.Decay * dt
	if p.Life <= 0 {
		return true, nil
	}

	if p.Kind == ParticleExplosion || p.Kind == ParticleCollect {
		p.VY += ParticleGravity * dt
	}
	drag := math.Pow(ParticleFriction, dt)
	p.VX *= drag
	p.VY *= drag

	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false, nil
}

// Draw renders the particle as a pixel on the canvas.
func (p *Particle) Draw(ctx DrawContext) error {
	// Skip nearly faded particles
	if ctx.Canvas == nil || p.Life < 0.25 {
		return nil
	}
	ctx.Canvas.SetInk(p.Color)
	ctx.Canvas.SetFloat(p.X+ctx.ShakeX, p.Y+ctx.ShakeY)
	return nil
}

// ParticleSystem owns live particles and enforces a hard cap.
// When full, the oldest particle is evicted to make room.
type ParticleSystem struct {
	max   int
	items []*Particle
}

// NewParticleSystem creates a system holding at most limit particles.
func NewParticleSystem(limit int) *ParticleSystem {
	return &ParticleSystem{max: limit}
}

// Emit adds a particle, evicting the oldest when the cap is reached.
func (s *ParticleSystem) Emit(p *Particle) {
	if p == nil {
		return
	}
	if s.max <= 0 {
		p.Release()
		return
	}
	for len(s.items) >= s.max {
		s.items[0].Release()
		n := copy(s.items, s.items[1:])
		s.items[n] = nil
		s.items = s.items[:n]
	}
	s.items = append(s.items, p)
}

// Update advances every particle and drops the dead ones.
func (s *ParticleSystem) Update(ctx UpdateContext) {
	kept := s.items[:0]
	for _, p := range s.items {
		remove, _ := p.Update(ctx)
		if remove {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(s.items[len(kept):])
	s.items = kept
}

// Enforce trims the oldest particles beyond the cap.
func (s *ParticleSystem) Enforce() {
	if s.max < 0 {
		s.max = 0
	}
	excess := len(s.items) - s.max
	if excess <= 0 {
		return
	}
	for _, p := range s.items[:excess] {
		p.Release()
	}
	n := copy(s.items, s.items[excess:])
	clear(s.items[n:])
	s.items = s.items[:n]
}

// SetMax changes the cap and trims immediately.
func (s *ParticleSystem) SetMax(limit int) {
	s.max = limit
	s.Enforce()
}

// Max returns the cap.
func (s *ParticleSystem) Max() int {
	return s.max
}

// Len returns the number of live particles.
func (s *ParticleSystem) Len() int {
	return len(s.items)
}

// Items returns the live particles, oldest first. The slice is only valid
// until the next mutation.
func (s *ParticleSystem) Items() []*Particle {
	return s.items
}

// Clear releases every particle.
func (s *ParticleSystem) Clear() {
	for _, p := range s.items {
		p.Release()
	}
	clear(s.items)
	s.items = s.items[:0]
}

// SpawnExplosion emits particles in a circular burst.
func SpawnExplosion(e Emitter, src random.Source, x, y float64, count int, color draw.Ink) {
	if e == nil || src == nil {
		return
	}
	for i := 0; i < count; i++ {
		angle := src.Float64() * 2 * math.Pi
		speed := random.Range(src, 1.5, 5)
		decay := random.Range(src, 0.02, 0.04)
		size := random.Range(src, 2, 5)
		e.Emit(NewParticle(ParticleExplosion, x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, decay, size, color))
	}
}

// SpawnCollect emits an upward fountain for a collected power-up.
func SpawnCollect(e Emitter, src random.Source, x, y float64, color draw.Ink) {
	if e == nil || src == nil {
		return
	}
	for i := 0; i < 12; i++ {
		vx := random.Range(src, -2, 2)
		vy := random.Range(src, -5, -2)
		e.Emit(NewParticle(ParticleCollect, x, y, vx, vy, 0.03, 3, color))
	}
}

// SpawnTrail emits a short-lived particle behind a dashing player.
func SpawnTrail(e Emitter, src random.Source, x, y float64) {
	if e == nil || src == nil {
		return
	}
	vx := random.Range(src, -0.5, 0.5)
	vy := random.Range(src, -0.5, 0.5)
	e.Emit(NewParticle(ParticleTrail, x, y, vx, vy, 0.08, 3, ColorTrail))
}

// SpawnSparkle emits a few drifting sparkles, used for dodge rewards.
func SpawnSparkle(e Emitter, src random.Source, x, y float64, count int) {
	if e == nil || src == nil {
		return
	}
	for i := 0; i < count; i++ {
		angle := src.Float64() * 2 * math.Pi
		speed := random.Range(src, 0.5, 2)
		e.Emit(NewParticle(ParticleSparkle, x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, 0.05, 2, ColorSparkle))
	}
}
