package game

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/tomz197/cellbreak/internal/config"
	"github.com/tomz197/cellbreak/internal/difficulty"
	"github.com/tomz197/cellbreak/internal/input"
	"github.com/tomz197/cellbreak/internal/object"
	"github.com/tomz197/cellbreak/internal/random"
	"github.com/tomz197/cellbreak/internal/spawn"
)

// Spawner decides what enters the field. *spawn.Coordinator is the
// production implementation.
type Spawner interface {
	Update(ctx spawn.Context) []*object.Obstacle
	PowerUp(dt float64) *object.PowerUp
	Reset()
}

// Transient feedback durations in frames.
const (
	notificationFrames = 120
	shakeFrames        = 20
)

type activeEvent struct {
	difficulty.Event
	remaining float64
}

type notification struct {
	text       string
	framesLeft float64
}

type shake struct {
	intensity  float64
	framesLeft float64
}

// World is the mutable simulation state of one run. It is owned by a
// Session and stepped from a single goroutine.
type World struct {
	cfg     config.Game
	log     *log.Logger
	spawner Spawner
	field   object.Field
	rand    random.Source

	Player    *object.Player
	Obstacles []*object.Obstacle
	PowerUps  []*object.PowerUp
	Bullets   []*object.Bullet
	Particles *object.ParticleSystem
	Score     ScoreState
	Active    []ActivePowerUp

	pendingBullets []*object.Bullet

	frame       float64 // Tick clock in frames
	ticks       uint64
	difficulty  difficulty.Descriptor
	event       *activeEvent
	comeback    bool
	dailyStreak float64
	note        notification
	shake       shake
	events      []Event
}

func newWorld(cfg config.Game, src random.Source, spawner Spawner, logger *log.Logger) *World {
	w := &World{
		cfg:       cfg,
		log:       logger,
		spawner:   spawner,
		rand:      src,
		field:     object.Field{Width: cfg.Field.Width, Height: cfg.Field.Height},
		Particles: object.NewParticleSystem(cfg.MaxParticles),
	}
	w.reset(false, cfg.Scoring.DailyStreak)
	return w
}

// reset clears every collection, timer and score, and seeds the player.
func (w *World) reset(comeback bool, dailyStreak float64) {
	w.Player = object.NewPlayer(w.cfg.Player, w.field)
	w.Obstacles = w.Obstacles[:0]
	w.PowerUps = w.PowerUps[:0]
	w.Bullets = w.Bullets[:0]
	w.pendingBullets = w.pendingBullets[:0]
	w.Particles.Clear()
	w.Particles.SetMax(w.cfg.MaxParticles)
	w.Score = newScoreState()
	w.Active = w.Active[:0]
	w.frame = 0
	w.ticks = 0
	w.difficulty = difficulty.Get(0, 0)
	w.event = nil
	w.comeback = comeback
	w.dailyStreak = dailyStreak
	if w.dailyStreak <= 0 {
		w.dailyStreak = 1
	}
	w.note = notification{}
	w.shake = shake{}
	w.events = w.events[:0]
	if w.spawner != nil {
		w.spawner.Reset()
	}
}

// Seconds returns the survival time.
func (w *World) Seconds() float64 {
	return w.frame / config.TargetFPS
}

// Frame returns the tick clock in frames.
func (w *World) Frame() float64 {
	return w.frame
}

// Difficulty returns the descriptor computed on the last step.
func (w *World) Difficulty() difficulty.Descriptor {
	return w.difficulty
}

// SpawnBullet implements object.Spawner. Bullets fired during an update
// join the field after the update pass.
func (w *World) SpawnBullet(b *object.Bullet) {
	w.pendingBullets = append(w.pendingBullets, b)
}

func (w *World) emit(e Event) {
	w.events = append(w.events, e)
}

func (w *World) notify(text string) {
	w.note = notification{text: text, framesLeft: notificationFrames}
}

func (w *World) shakeScreen(intensity float64) {
	if intensity >= w.shake.intensity || w.shake.framesLeft <= 0 {
		w.shake = shake{intensity: intensity, framesLeft: shakeFrames}
	}
}

// step advances the run by one tick of dt frames. It reports whether the
// player took a fatal hit.
func (w *World) step(dt float64, in input.Intent) bool {
	w.events = w.events[:0]
	w.frame += dt
	w.ticks++

	seconds := w.Seconds()
	w.difficulty = difficulty.Get(seconds, w.Score.Score)
	w.updateEvent(dt, seconds)
	w.spawn(dt)
	w.simulate(dt, in)

	if w.resolveCollisions() {
		return true
	}

	w.expirePowerUps()
	w.accrue(dt, seconds)
	w.Particles.Enforce()
	w.decayFeedback(dt)
	return false
}

func (w *World) updateEvent(dt, seconds float64) {
	if w.event != nil {
		w.event.remaining -= dt
		if w.event.remaining <= 0 {
			w.event = nil
		}
		return
	}
	if w.rand == nil {
		return
	}
	if ev, ok := difficulty.SpecialEvent(w.rand, seconds, w.difficulty); ok {
		w.event = &activeEvent{Event: ev, remaining: ev.Duration}
		w.notify(eventTitle(ev.Name))
		w.log.Debug("special event", "event", ev.Name, "seconds", seconds)
	}
}

func (w *World) spawn(dt float64) {
	if w.spawner == nil {
		return
	}
	ctx := spawn.Context{
		Frame:      w.frame,
		Difficulty: w.difficulty,
		Obstacles:  w.Obstacles,
		Player:     w.Player.Rect(),
	}
	if w.event != nil {
		ev := w.event.Event
		ctx.Event = &ev
	}
	spawned := w.spawner.Update(ctx)
	if w.isActive(object.PowerUpFreeze) {
		for _, o := range spawned {
			o.Frozen = true
		}
	}
	w.Obstacles = append(w.Obstacles, spawned...)
	if p := w.spawner.PowerUp(dt); p != nil {
		w.PowerUps = append(w.PowerUps, p)
	}
}

func (w *World) updateContext(dt float64, in input.Intent) object.UpdateContext {
	slow := 1.0
	if w.isActive(object.PowerUpSlow) {
		slow = w.cfg.PowerUps.SlowFactor
	}
	return object.UpdateContext{
		DT:             dt,
		Field:          w.field,
		Input:          in,
		Rand:           w.rand,
		PlayerX:        w.Player.CenterX(),
		PlayerY:        w.Player.Y + w.Player.H/2,
		SlowFactor:     slow,
		BounceMax:      w.cfg.Obstacle.BounceMaxSpeed,
		MagnetActive:   w.isActive(object.PowerUpMagnet),
		MagnetRadius:   w.cfg.PowerUps.MagnetRadius,
		MagnetStrength: w.cfg.PowerUps.MagnetStrength,
		Shooting:       w.cfg.Rules.Shooting,
		Multishot:      w.isActive(object.PowerUpMultishot),
		Particles:      w.Particles,
		Bullets:        w,
	}
}

func (w *World) simulate(dt float64, in input.Intent) {
	ctx := w.updateContext(dt, in)

	wasDashing := w.Player.Dash.Active
	w.Player.Update(ctx)
	if w.Player.Dash.Active && !wasDashing {
		w.emit(Event{Kind: EventDash})
	}
	ctx.PlayerX = w.Player.CenterX()

	kept := w.Obstacles[:0]
	for _, o := range w.Obstacles {
		remove, _ := o.Update(ctx)
		if remove {
			if o.Exited && !o.Destroyed {
				w.exitBonus()
			}
			continue
		}
		kept = append(kept, o)
	}
	clear(w.Obstacles[len(kept):])
	w.Obstacles = kept

	keptPowerUps := w.PowerUps[:0]
	for _, p := range w.PowerUps {
		if remove, _ := p.Update(ctx); !remove {
			keptPowerUps = append(keptPowerUps, p)
		}
	}
	clear(w.PowerUps[len(keptPowerUps):])
	w.PowerUps = keptPowerUps

	keptBullets := w.Bullets[:0]
	for _, b := range w.Bullets {
		if remove, _ := b.Update(ctx); !remove {
			keptBullets = append(keptBullets, b)
		}
	}
	clear(w.Bullets[len(keptBullets):])
	w.Bullets = append(keptBullets, w.pendingBullets...)
	clear(w.pendingBullets)
	w.pendingBullets = w.pendingBullets[:0]

	w.Particles.Update(ctx)
}

func (w *World) exitBonus() {
	bonus := w.cfg.Scoring.ExitBonus * w.dailyStreak
	if w.comeback {
		bonus *= w.cfg.Scoring.ComebackFactor
	}
	w.Score.addFraction(bonus)
}

// accrue adds passive score, expires the combo and fires achievements.
func (w *World) accrue(dt, seconds float64) {
	w.Score.addFraction(w.cfg.Scoring.PassiveRate * float64(w.difficulty.Danger) * dt)

	if w.Score.Combo > 0 && w.frame-w.Score.lastComboFrame >= w.cfg.Scoring.ComboTimeoutFrames {
		w.Score.Combo = 0
	}

	for _, a := range w.Score.unlock(SurvivalAchievements, seconds) {
		w.achievement(a)
	}
}

func (w *World) achievement(a Achievement) {
	w.notify(a.String())
	w.emit(Event{Kind: EventAchievement, Achievement: a.ID, Points: a.Bonus})
}

// bumpCombo records a combo event and fires combo achievements.
func (w *World) bumpCombo() {
	before := Multiplier(w.Score.Combo, w.cfg.Scoring)
	w.Score.Combo++
	w.Score.lastComboFrame = w.frame
	if w.Score.Combo > w.Score.MaxCombo {
		w.Score.MaxCombo = w.Score.Combo
	}
	if after := Multiplier(w.Score.Combo, w.cfg.Scoring); after > before {
		w.emit(Event{Kind: EventCombo, Multiplier: after})
	}
	for _, a := range w.Score.unlock(ComboAchievements, float64(w.Score.Combo)) {
		w.achievement(a)
	}
}

func (w *World) resetCombo() {
	w.Score.Combo = 0
}

func (w *World) multiplier() int {
	return Multiplier(w.Score.Combo, w.cfg.Scoring)
}

func (w *World) decayFeedback(dt float64) {
	if w.note.framesLeft > 0 {
		w.note.framesLeft -= dt
		if w.note.framesLeft <= 0 {
			w.note = notification{}
		}
	}
	if w.shake.framesLeft > 0 {
		w.shake.framesLeft -= dt
		if w.shake.framesLeft <= 0 {
			w.shake = shake{}
		}
	}
}

// shakeOffset returns the current screen shake displacement.
func (w *World) shakeOffset() (float64, float64) {
	if w.shake.framesLeft <= 0 {
		return 0, 0
	}
	fade := w.shake.framesLeft / shakeFrames
	amp := w.shake.intensity * fade
	return amp * math.Sin(w.frame*1.7), amp * math.Cos(w.frame*2.3)
}

func eventTitle(name string) string {
	switch name {
	case "speed-burst":
		return "SPEED BURST!"
	case "laser-walls":
		return "LASER WALLS!"
	case "trap-formation":
		return "TRAP FORMATION!"
	case "swarm-attack":
		return "SWARM ATTACK!"
	case "bullet-hell":
		return "BULLET HELL!"
	default:
		return name
	}
}
