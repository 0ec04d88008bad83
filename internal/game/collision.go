package game

import (
	"github.com/tomz197/cellbreak/internal/object"
	"github.com/tomz197/cellbreak/internal/physics"
)

// Screen shake intensities in logical pixels.
const (
	shakeSmall = 3.0
	shakeLarge = 8.0
)

// resolveCollisions applies every overlap outcome for this tick's
// post-movement positions. It reports a fatal hit.
func (w *World) resolveCollisions() bool {
	pr := w.Player.Rect()

	for _, o := range w.Obstacles {
		if o.Destroyed {
			continue
		}
		if !pr.Intersects(o.Rect()) {
			w.trackDodge(o, pr)
			continue
		}
		if w.hitObstacle(o) {
			return true
		}
	}

	w.resolveBullets()
	w.resolveLaser(pr)
	w.resolvePowerUps(pr)
	w.Obstacles = sweep(w.Obstacles)
	return false
}

// hitObstacle applies the outcome of the player overlapping o. Order:
// dash, shield, sell-safe rule, then fatal.
func (w *World) hitObstacle(o *object.Obstacle) bool {
	cx, cy := o.Rect().Center()
	sc := w.cfg.Scoring

	switch {
	case w.Player.Invulnerable():
		o.MarkDestroyed()
		w.Score.Score += sc.DashKill * w.multiplier()
		w.bumpCombo()
		object.SpawnExplosion(w.Particles, w.rand, cx, cy, 16, o.Color())
		w.shakeScreen(shakeSmall)
		w.emit(Event{Kind: EventExplosion})

	case w.consumePowerUp(object.PowerUpShield):
		o.MarkDestroyed()
		w.Score.Score += sc.ShieldBlock
		object.SpawnExplosion(w.Particles, w.rand, cx, cy, 12, object.ColorShield)
		w.shakeScreen(shakeSmall)
		w.emit(Event{Kind: EventExplosion})

	case w.cfg.Rules.SellBlocksSafe && o.Type == object.Sell:
		o.MarkDestroyed()
		points := sc.SellCollect * w.multiplier()
		w.Score.Score += points
		w.bumpCombo()
		object.SpawnCollect(w.Particles, w.rand, cx, cy, object.ColorSell)
		w.emit(Event{Kind: EventScoreBonus, Points: points})

	default:
		object.SpawnExplosion(w.Particles, w.rand, w.Player.CenterX(), w.Player.Y+w.Player.H/2, 40, object.ColorSell)
		w.shakeScreen(shakeLarge)
		w.resetCombo()
		w.emit(Event{Kind: EventDeath})
		return true
	}
	return false
}

// trackDodge records the closest approach of o and, once o has passed the
// player, awards a perfect dodge or near miss for that approach.
func (w *World) trackDodge(o *object.Obstacle, pr physics.Rect) {
	if o.Dodged {
		return
	}
	if gap := pr.Gap(o.Rect()); gap < o.MinGap {
		o.MinGap = gap
	}

	var passed bool
	switch o.Side {
	case object.SideLeft:
		passed = o.X > pr.Right()
	case object.SideRight:
		passed = o.Right() < pr.X
	default:
		passed = o.Y > pr.Bottom()
	}
	if !passed {
		return
	}
	o.Dodged = true

	sc := w.cfg.Scoring
	switch {
	case o.MinGap < sc.PerfectThreshold:
		zone := 1
		if w.goldenZone().Contains(w.Player.CenterX()) {
			zone = 2
		}
		points := sc.PerfectBonus * w.multiplier() * zone
		w.Score.Score += points
		w.Score.PerfectDodges++
		w.bumpCombo()
		object.SpawnSparkle(w.Particles, w.rand, w.Player.CenterX(), w.Player.Y, 8)
		w.emit(Event{Kind: EventPerfectDodge, Distance: o.MinGap, Points: points})

	case o.MinGap < sc.NearMissThreshold:
		w.Score.Score += sc.NearMissBonus
		w.Score.NearMisses++
		w.emit(Event{Kind: EventNearMiss, Distance: o.MinGap})
	}
}

func (w *World) goldenZone() GoldenZone {
	return GoldenZoneAt(w.Seconds(), w.field.Width, w.cfg.Scoring.GoldenCycleSeconds)
}

func (w *World) resolveBullets() {
	if len(w.Bullets) == 0 {
		return
	}
	for _, b := range w.Bullets {
		if b.Destroyed {
			continue
		}
		br := b.Rect()
		for _, o := range w.Obstacles {
			if o.Destroyed || !br.Intersects(o.Rect()) {
				continue
			}
			b.MarkDestroyed()
			o.MarkDestroyed()
			w.Score.Score += w.cfg.Scoring.BulletHit * w.multiplier()
			w.bumpCombo()
			cx, cy := o.Rect().Center()
			object.SpawnExplosion(w.Particles, w.rand, cx, cy, 10, o.Color())
			w.emit(Event{Kind: EventExplosion})
			break
		}
	}

	w.Bullets = sweep(w.Bullets)
}

// resolveLaser destroys obstacles above the player within its column while
// a laser is active.
func (w *World) resolveLaser(pr physics.Rect) {
	if !w.isActive(object.PowerUpLaser) {
		return
	}
	beam := physics.Rect{X: pr.X, Y: 0, W: pr.W, H: pr.Y}
	for _, o := range w.Obstacles {
		if o.Destroyed || !beam.Intersects(o.Rect()) {
			continue
		}
		o.MarkDestroyed()
		w.Score.Score += w.cfg.Scoring.LaserHit
		cx, cy := o.Rect().Center()
		object.SpawnExplosion(w.Particles, w.rand, cx, cy, 6, o.Color())
	}
}

// sweep drops destroyed entries in place.
func sweep[T object.Destructible](items []T) []T {
	kept := items[:0]
	for _, it := range items {
		if !it.IsDestroyed() {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}
