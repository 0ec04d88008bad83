package game

import (
	"github.com/tomz197/cellbreak/internal/config"
	"github.com/tomz197/cellbreak/internal/object"
)

// ActiveView is an active power-up with its remaining time in frames.
type ActiveView struct {
	Kind      object.PowerUpKind
	Remaining float64
}

// Snapshot is an immutable copy of a session for rendering. Entities are
// copied by value so readers never observe the next tick's mutations.
type Snapshot struct {
	State   State
	Variant config.Variant
	Field   object.Field
	Tick    uint64

	Player    object.Player
	Obstacles []object.Obstacle
	PowerUps  []object.PowerUp
	Bullets   []object.Bullet
	Particles []object.Particle

	Score         int
	Best          int
	Combo         int
	Multiplier    int
	MaxCombo      int
	NearMisses    int
	PerfectDodges int
	Coins         int
	Seconds       float64

	Active     []ActiveView
	Wave       string
	Danger     int
	Resting    bool
	Event      string
	GoldenZone GoldenZone
	Notice     string
	ShakeX     float64
	ShakeY     float64
}

// snapshot copies the world into a new Snapshot.
func (w *World) snapshot(state State, best int) *Snapshot {
	s := &Snapshot{
		State:         state,
		Variant:       w.cfg.Variant,
		Field:         w.field,
		Tick:          w.ticks,
		Player:        *w.Player,
		Obstacles:     make([]object.Obstacle, 0, len(w.Obstacles)),
		PowerUps:      make([]object.PowerUp, 0, len(w.PowerUps)),
		Bullets:       make([]object.Bullet, 0, len(w.Bullets)),
		Particles:     make([]object.Particle, 0, w.Particles.Len()),
		Score:         w.Score.Score,
		Best:          max(best, w.Score.Score),
		Combo:         w.Score.Combo,
		Multiplier:    w.multiplier(),
		MaxCombo:      w.Score.MaxCombo,
		NearMisses:    w.Score.NearMisses,
		PerfectDodges: w.Score.PerfectDodges,
		Coins:         w.Score.Coins,
		Seconds:       w.Seconds(),
		Wave:          w.difficulty.Label,
		Danger:        w.difficulty.Danger,
		Resting:       w.difficulty.Resting,
		GoldenZone:    w.goldenZone(),
		Notice:        w.note.text,
	}
	for _, o := range w.Obstacles {
		s.Obstacles = append(s.Obstacles, *o)
	}
	for _, p := range w.PowerUps {
		s.PowerUps = append(s.PowerUps, *p)
	}
	for _, b := range w.Bullets {
		s.Bullets = append(s.Bullets, *b)
	}
	for _, p := range w.Particles.Items() {
		s.Particles = append(s.Particles, *p)
	}
	for _, a := range w.Active {
		s.Active = append(s.Active, ActiveView{Kind: a.Kind, Remaining: max(a.ExpiresAt-w.frame, 0)})
	}
	if w.event != nil {
		s.Event = w.event.Name
	}
	s.ShakeX, s.ShakeY = w.shakeOffset()
	return s
}
