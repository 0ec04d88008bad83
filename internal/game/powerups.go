package game

import (
	"github.com/tomz197/cellbreak/internal/object"
	"github.com/tomz197/cellbreak/internal/physics"
)

// ActivePowerUp is a timed effect. ExpiresAt is on the tick clock (frames).
type ActivePowerUp struct {
	Kind      object.PowerUpKind
	ExpiresAt float64
}

func (w *World) isActive(kind object.PowerUpKind) bool {
	for _, a := range w.Active {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// consumePowerUp removes the entry of kind, reporting whether one existed.
func (w *World) consumePowerUp(kind object.PowerUpKind) bool {
	for i, a := range w.Active {
		if a.Kind == kind {
			w.Active = append(w.Active[:i], w.Active[i+1:]...)
			return true
		}
	}
	return false
}

// activate starts a timed effect. An already active kind is not stacked:
// its expiry is extended to the later of the two and its effect reapplied.
func (w *World) activate(kind object.PowerUpKind, frames int) {
	expires := w.frame + float64(frames)
	refreshed := false
	for i := range w.Active {
		if w.Active[i].Kind == kind {
			w.Active[i].ExpiresAt = max(w.Active[i].ExpiresAt, expires)
			refreshed = true
			break
		}
	}
	if !refreshed {
		w.Active = append(w.Active, ActivePowerUp{Kind: kind, ExpiresAt: expires})
	}

	switch kind {
	case object.PowerUpSpeed:
		w.Player.Boosted = true
	case object.PowerUpFreeze:
		w.setFrozen(true)
	}
}

// expirePowerUps reverses and removes effects whose time is up.
func (w *World) expirePowerUps() {
	kept := w.Active[:0]
	for _, a := range w.Active {
		if a.ExpiresAt > w.frame {
			kept = append(kept, a)
			continue
		}
		switch a.Kind {
		case object.PowerUpSpeed:
			w.Player.Boosted = false
		case object.PowerUpFreeze:
			w.setFrozen(false)
		}
	}
	w.Active = kept
}

func (w *World) setFrozen(frozen bool) {
	for _, o := range w.Obstacles {
		o.Frozen = frozen
	}
}

func (w *World) resolvePowerUps(pr physics.Rect) {
	enlarge := 0.0
	if w.Score.Score >= w.cfg.Scoring.EnlargeScore {
		enlarge = w.cfg.Scoring.EnlargeBy
	}

	kept := w.PowerUps[:0]
	for _, p := range w.PowerUps {
		if p.Collected || !pr.Intersects(p.Rect().Grow(enlarge)) {
			if !p.Collected {
				kept = append(kept, p)
			}
			continue
		}
		p.MarkDestroyed()
		cx, cy := p.Rect().Center()
		object.SpawnCollect(w.Particles, w.rand, cx, cy, object.ColorGold)
		w.applyPowerUp(p.Kind)
	}
	clear(w.PowerUps[len(kept):])
	w.PowerUps = kept
}

// applyPowerUp runs the pickup effect of kind.
func (w *World) applyPowerUp(kind object.PowerUpKind) {
	sc := w.cfg.Scoring
	switch kind {
	case object.PowerUpShield, object.PowerUpSlow, object.PowerUpSpeed,
		object.PowerUpFreeze, object.PowerUpLaser, object.PowerUpMagnet,
		object.PowerUpMultishot:
		w.activate(kind, w.cfg.PowerUps.Duration(string(kind)))

	case object.PowerUpNuke:
		n := 0
		for _, o := range w.Obstacles {
			if o.Destroyed {
				continue
			}
			o.MarkDestroyed()
			n++
			cx, cy := o.Rect().Center()
			object.SpawnExplosion(w.Particles, w.rand, cx, cy, 8, o.Color())
		}
		points := sc.NukePerObstacle*n + sc.NukeFlat
		w.Score.Score += points
		w.shakeScreen(shakeLarge)
		w.emit(Event{Kind: EventExplosion})
		w.emit(Event{Kind: EventScoreBonus, Points: points})

	case object.PowerUpScore:
		w.Score.Score += sc.ScorePowerUp
		w.emit(Event{Kind: EventScoreBonus, Points: sc.ScorePowerUp})

	case object.PowerUpCoin:
		w.Score.Coins++
		points := int(float64(sc.Coin) * w.dailyStreak)
		w.Score.Score += points
		w.emit(Event{Kind: EventScoreBonus, Points: points})

	default:
		w.log.Debug("unknown power-up ignored", "kind", kind)
		return
	}
	w.emit(Event{Kind: EventPowerUp, PowerUp: kind})
}
