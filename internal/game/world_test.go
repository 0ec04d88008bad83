package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tomz197/cellbreak/internal/config"
	"github.com/tomz197/cellbreak/internal/input"
	"github.com/tomz197/cellbreak/internal/object"
	"github.com/tomz197/cellbreak/internal/random"
	"github.com/tomz197/cellbreak/internal/spawn"
)

// noSpawn keeps the field empty so tests control every entity.
type noSpawn struct{}

func (noSpawn) Update(spawn.Context) []*object.Obstacle { return nil }
func (noSpawn) PowerUp(float64) *object.PowerUp         { return nil }
func (noSpawn) Reset()                                  {}

// scriptedSpawn hands out queued obstacles on the next tick.
type scriptedSpawn struct {
	noSpawn
	next []*object.Obstacle
}

func (s *scriptedSpawn) Update(spawn.Context) []*object.Obstacle {
	out := s.next
	s.next = nil
	return out
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestWorld(cfg config.Game) *World {
	return newWorld(cfg, random.Constant(0.99), noSpawn{}, quietLogger())
}

func buyAt(x, y float64) *object.Obstacle {
	return object.NewObstacle(x, y, 28, 3, object.Buy, object.PatternStraight, nil)
}

// overlapPlayer places an obstacle that still overlaps the player after one
// tick of movement.
func overlapPlayer(w *World) *object.Obstacle {
	o := buyAt(w.Player.X, w.Player.Y)
	w.Obstacles = append(w.Obstacles, o)
	return o
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestFatalHitWithoutProtection(t *testing.T) {
	w := newTestWorld(config.Default())
	overlapPlayer(w)

	if !w.step(1, input.Intent{}) {
		t.Fatal("expected fatal hit")
	}
	if countEvents(w.events, EventDeath) != 1 {
		t.Errorf("expected one death event, got %v", w.events)
	}
}

func TestShieldConsumesExactlyOneHit(t *testing.T) {
	w := newTestWorld(config.Default())
	w.activate(object.PowerUpShield, 300)
	first := overlapPlayer(w)

	if w.step(1, input.Intent{}) {
		t.Fatal("shielded hit must not be fatal")
	}
	if !first.Destroyed {
		t.Error("shielded obstacle should be destroyed")
	}
	if len(w.Obstacles) != 0 {
		t.Errorf("destroyed obstacle still in field: %d", len(w.Obstacles))
	}
	if w.Score.Score != w.cfg.Scoring.ShieldBlock {
		t.Errorf("score = %d, want %d", w.Score.Score, w.cfg.Scoring.ShieldBlock)
	}
	if w.isActive(object.PowerUpShield) {
		t.Error("shield should be consumed")
	}

	overlapPlayer(w)
	if !w.step(1, input.Intent{}) {
		t.Fatal("second hit without shield must be fatal")
	}
}

func TestNukeClearsField(t *testing.T) {
	w := newTestWorld(config.Default())
	for i := 0; i < 10; i++ {
		w.Obstacles = append(w.Obstacles, buyAt(float64(i)*45, 10))
	}
	w.PowerUps = append(w.PowerUps, object.NewPowerUp(object.PowerUpNuke, w.Player.X, w.Player.Y, 24, 1.5))
	before := w.Score.Score

	if w.step(1, input.Intent{}) {
		t.Fatal("unexpected fatal hit")
	}
	if len(w.Obstacles) != 0 {
		t.Fatalf("obstacles left after nuke: %d", len(w.Obstacles))
	}
	sc := w.cfg.Scoring
	want := sc.NukePerObstacle*10 + sc.NukeFlat
	if got := w.Score.Score - before; got != want {
		t.Errorf("nuke awarded %d, want %d", got, want)
	}
	if len(w.PowerUps) != 0 {
		t.Error("collected power-up should be removed")
	}
}

// perfectDodge returns the points awarded for an obstacle that passed the
// player with a 4px minimum gap while the player was centered at x.
func perfectDodge(t *testing.T, playerX float64) int {
	t.Helper()
	w := newTestWorld(config.Default())
	w.Player.X = playerX
	o := buyAt(w.Player.X+w.Player.W+4, w.Player.Rect().Bottom()+1)
	o.MinGap = 4
	w.Obstacles = append(w.Obstacles, o)

	w.step(1, input.Intent{})
	for _, e := range w.events {
		if e.Kind == EventPerfectDodge {
			return e.Points
		}
	}
	t.Fatalf("no perfect dodge at x=%.0f: %v", playerX, w.events)
	return 0
}

func TestGoldenZoneDoublesPerfectDodge(t *testing.T) {
	cfg := config.Default()
	zone := GoldenZoneAt(0, cfg.Field.Width, cfg.Scoring.GoldenCycleSeconds)

	inside := perfectDodge(t, zone.Left+10)
	outside := perfectDodge(t, cfg.Field.Width/2-cfg.Player.Width/2)

	if inside != 2*outside {
		t.Errorf("in-zone award %d, want double of %d", inside, outside)
	}
	if outside != cfg.Scoring.PerfectBonus {
		t.Errorf("out-of-zone award %d, want %d", outside, cfg.Scoring.PerfectBonus)
	}
}

func TestGoldenZoneAlternates(t *testing.T) {
	left := GoldenZoneAt(1, 480, 10)
	right := GoldenZoneAt(6, 480, 10)
	if left.Left != 0 || left.Right != 160 {
		t.Errorf("first half zone = %+v", left)
	}
	if right.Left != 320 || right.Right != 480 {
		t.Errorf("second half zone = %+v", right)
	}
	if !GoldenZoneAt(11, 480, 10).Contains(10) {
		t.Error("zone should wrap to the left third in the next cycle")
	}
}

func TestNearMissIsNeverFatal(t *testing.T) {
	w := newTestWorld(config.Default())
	pr := w.Player.Rect()
	o := buyAt(pr.Right()+10, pr.Y)
	w.Obstacles = append(w.Obstacles, o)

	for i := 0; i < 20 && !o.Dodged; i++ {
		if w.step(1, input.Intent{}) {
			t.Fatalf("tick %d: non-overlapping obstacle caused a fatal hit", i)
		}
	}
	if !o.Dodged {
		t.Fatal("obstacle never passed the player")
	}
	if w.Score.NearMisses != 1 || w.Score.PerfectDodges != 0 {
		t.Errorf("near misses = %d, perfect = %d", w.Score.NearMisses, w.Score.PerfectDodges)
	}
}

func TestTouchingEdgesDoNotCollide(t *testing.T) {
	w := newTestWorld(config.Default())
	pr := w.Player.Rect()
	o := buyAt(pr.Right(), pr.Y)
	w.Obstacles = append(w.Obstacles, o)

	if w.step(1, input.Intent{}) {
		t.Fatal("touching edges must not be fatal")
	}
}

func TestDashInvulnerabilityWindow(t *testing.T) {
	w := newTestWorld(config.Default())
	in := input.Intent{Dash: true, DashDir: 1}
	frames := int(w.cfg.Player.DashFrames)

	for i := 0; i < frames; i++ {
		o := buyAt(w.Player.X+10, w.Player.Y)
		w.Obstacles = append(w.Obstacles, o)
		if w.step(1, in) {
			t.Fatalf("dash tick %d: overlap ended the session", i)
		}
		if !o.Destroyed {
			t.Fatalf("dash tick %d: obstacle not destroyed", i)
		}
		in = input.Intent{}
	}

	w.Obstacles = append(w.Obstacles, buyAt(w.Player.X+10, w.Player.Y))
	if !w.step(1, input.Intent{}) {
		t.Fatal("overlap one tick after the dash must be fatal")
	}
}

func TestAchievementFiresOncePerSession(t *testing.T) {
	w := newTestWorld(config.Default())
	w.Score.Combo = 9
	w.bumpCombo()
	after := w.Score.Score
	if after != 500 {
		t.Fatalf("combo-10 bonus = %d, want 500", after)
	}

	w.resetCombo()
	w.Score.Combo = 9
	w.bumpCombo()
	if w.Score.Score != after {
		t.Errorf("combo-10 fired twice: score %d", w.Score.Score)
	}
	if n := countEvents(w.events, EventAchievement); n != 1 {
		t.Errorf("achievement events = %d, want 1", n)
	}
}

func TestSurvivalAchievementOnce(t *testing.T) {
	w := newTestWorld(config.Default())
	w.frame = 30 * config.TargetFPS
	w.accrue(1, w.Seconds())
	w.accrue(1, w.Seconds())
	if w.Score.Score != 300 {
		t.Errorf("score = %d, want 300", w.Score.Score)
	}
}

func TestComboMultiplierCapped(t *testing.T) {
	sc := config.Default().Scoring
	tests := []struct {
		combo int
		want  int
	}{
		{0, 1},
		{4, 1},
		{5, 2},
		{12, 3},
		{1000, sc.MaxMultiplier},
	}
	for _, tt := range tests {
		if got := Multiplier(tt.combo, sc); got != tt.want {
			t.Errorf("Multiplier(%d) = %d, want %d", tt.combo, got, tt.want)
		}
	}
}

func TestComboTimesOut(t *testing.T) {
	w := newTestWorld(config.Default())
	w.bumpCombo()
	for i := 0; i < int(w.cfg.Scoring.ComboTimeoutFrames)+1; i++ {
		w.step(1, input.Intent{})
	}
	if w.Score.Combo != 0 {
		t.Errorf("combo = %d after timeout", w.Score.Combo)
	}
	if w.Score.MaxCombo != 1 {
		t.Errorf("max combo = %d", w.Score.MaxCombo)
	}
}

func TestSellBlocksSafeOnlyInMobile(t *testing.T) {
	desktop := newTestWorld(config.Default())
	o := overlapPlayer(desktop)
	o.Type = object.Sell
	if !desktop.step(1, input.Intent{}) {
		t.Error("sell block should be fatal on desktop")
	}

	mobile := newTestWorld(config.Default().WithVariant(config.VariantMobile))
	o = overlapPlayer(mobile)
	o.Type = object.Sell
	if mobile.step(1, input.Intent{}) {
		t.Fatal("sell block should be safe on mobile")
	}
	if mobile.Score.Score != mobile.cfg.Scoring.SellCollect {
		t.Errorf("sell collect = %d", mobile.Score.Score)
	}
	if mobile.Score.Combo != 1 {
		t.Errorf("combo = %d", mobile.Score.Combo)
	}

	overlapPlayer(mobile)
	if !mobile.step(1, input.Intent{}) {
		t.Error("buy block should stay fatal on mobile")
	}
}

func TestDuplicatePowerUpRefreshesExpiry(t *testing.T) {
	w := newTestWorld(config.Default())
	w.activate(object.PowerUpSlow, 100)
	w.frame = 50
	w.activate(object.PowerUpSlow, 100)
	w.activate(object.PowerUpSlow, 10)

	if len(w.Active) != 1 {
		t.Fatalf("active entries = %d, want 1", len(w.Active))
	}
	if w.Active[0].ExpiresAt != 150 {
		t.Errorf("expires at %v, want 150", w.Active[0].ExpiresAt)
	}
}

func TestTimedEffectsReverseOnExpiry(t *testing.T) {
	w := newTestWorld(config.Default())
	o := buyAt(10, 10)
	w.Obstacles = append(w.Obstacles, o)

	w.activate(object.PowerUpSpeed, 5)
	w.activate(object.PowerUpFreeze, 5)
	if !w.Player.Boosted || !o.Frozen {
		t.Fatal("speed and freeze should apply immediately")
	}

	y := o.Y
	for i := 0; i < 5; i++ {
		w.step(1, input.Intent{})
	}
	if o.Y != y {
		t.Errorf("frozen obstacle moved from %v to %v", y, o.Y)
	}
	if w.Player.Boosted || o.Frozen {
		t.Error("effects should be reversed after expiry")
	}
	if len(w.Active) != 0 {
		t.Errorf("active = %v", w.Active)
	}
}

func TestFreezeHoldsLateSpawns(t *testing.T) {
	sp := &scriptedSpawn{}
	w := newWorld(config.Default(), random.Constant(0.99), sp, quietLogger())
	old := buyAt(10, 10)
	w.Obstacles = append(w.Obstacles, old)
	w.activate(object.PowerUpFreeze, 20)

	late := buyAt(200, 13)
	sp.next = []*object.Obstacle{late}
	w.step(1, input.Intent{})
	w.step(1, input.Intent{})

	if !late.Frozen || late.Y != 13 {
		t.Errorf("late spawn frozen=%v y=%v, want frozen at 13", late.Frozen, late.Y)
	}
	if !old.Frozen || old.Y != 10 {
		t.Errorf("old obstacle frozen=%v y=%v", old.Frozen, old.Y)
	}
}

func TestFreezeRefreshRefreezes(t *testing.T) {
	w := newTestWorld(config.Default())
	w.activate(object.PowerUpFreeze, 20)

	o := buyAt(10, 10)
	w.Obstacles = append(w.Obstacles, o)
	w.activate(object.PowerUpFreeze, 20)
	if !o.Frozen {
		t.Error("second freeze pickup left an obstacle moving")
	}
	if len(w.Active) != 1 || w.Active[0].ExpiresAt != w.frame+20 {
		t.Errorf("active = %+v", w.Active)
	}
}

func TestUnknownPowerUpIsRemovedWithoutEffect(t *testing.T) {
	w := newTestWorld(config.Default())
	w.PowerUps = append(w.PowerUps, object.NewPowerUp("bogus", w.Player.X, w.Player.Y, 24, 1.5))

	w.step(1, input.Intent{})
	if len(w.PowerUps) != 0 {
		t.Error("unknown power-up should still be removed")
	}
	if len(w.Active) != 0 || w.Score.Score != 0 {
		t.Errorf("unknown power-up had an effect: active=%v score=%d", w.Active, w.Score.Score)
	}
	if countEvents(w.events, EventPowerUp) != 0 {
		t.Error("unknown power-up should not emit a powerup event")
	}
}

func TestCoinUsesDailyStreak(t *testing.T) {
	w := newTestWorld(config.Default())
	w.reset(false, 2)
	w.PowerUps = append(w.PowerUps, object.NewPowerUp(object.PowerUpCoin, w.Player.X, w.Player.Y, 24, 1.5))

	w.step(1, input.Intent{})
	if w.Score.Coins != 1 {
		t.Errorf("coins = %d", w.Score.Coins)
	}
	if w.Score.Score != 100 {
		t.Errorf("score = %d, want 100", w.Score.Score)
	}
}

func TestPickupEnlargedAtHighScore(t *testing.T) {
	w := newTestWorld(config.Default())
	pr := w.Player.Rect()
	w.PowerUps = append(w.PowerUps, object.NewPowerUp(object.PowerUpScore, pr.Right()+4, pr.Y, 24, 0))

	w.step(1, input.Intent{})
	if len(w.PowerUps) != 1 {
		t.Fatal("power-up 4px away should not be collected at low score")
	}

	w.Score.Score = w.cfg.Scoring.EnlargeScore
	w.step(1, input.Intent{})
	if len(w.PowerUps) != 0 {
		t.Error("power-up should be collected with the enlarged box")
	}
}

func TestLaserDestroysColumn(t *testing.T) {
	w := newTestWorld(config.Default())
	w.activate(object.PowerUpLaser, 60)
	above := buyAt(w.Player.X, 100)
	aside := buyAt(0, 100)
	w.Obstacles = append(w.Obstacles, above, aside)

	w.step(1, input.Intent{})
	if !above.Destroyed || aside.Destroyed {
		t.Errorf("above destroyed=%v aside destroyed=%v", above.Destroyed, aside.Destroyed)
	}
	if w.Score.Score != w.cfg.Scoring.LaserHit {
		t.Errorf("score = %d", w.Score.Score)
	}
}

func TestBulletsDestroyObstacles(t *testing.T) {
	w := newTestWorld(config.Default().WithVariant(config.VariantMobile))
	o := buyAt(w.Player.CenterX()-14, w.Player.Y-40)
	w.Obstacles = append(w.Obstacles, o)

	for i := 0; i < 10 && !o.Destroyed; i++ {
		w.step(1, input.Intent{Shoot: true})
	}
	if !o.Destroyed {
		t.Fatal("bullet never hit the obstacle")
	}
	if w.Score.Combo == 0 {
		t.Error("bullet hit should bump the combo")
	}
}

func TestExitBonusWithComeback(t *testing.T) {
	w := newTestWorld(config.Default())
	w.reset(true, 1)
	for i := 0; i < 2; i++ {
		o := buyAt(float64(i)*100, w.cfg.Field.Height)
		w.Obstacles = append(w.Obstacles, o)
	}
	w.step(1, input.Intent{})
	if len(w.Obstacles) != 0 {
		t.Fatal("obstacles should exit")
	}
	// 2 × 1.5 plus a fraction of passive score.
	if w.Score.Score != 3 {
		t.Errorf("score = %d, want 3", w.Score.Score)
	}
}

func TestSinkPanicIsRecovered(t *testing.T) {
	var got []Event
	sinks := []EventSink{
		EventSinkFunc(func(Event) { panic("boom") }),
		EventSinkFunc(func(e Event) { got = append(got, e) }),
	}
	dispatch(quietLogger(), sinks, []Event{{Kind: EventDash}, {Kind: EventDeath}})
	if len(got) != 2 {
		t.Errorf("second sink received %d events", len(got))
	}
}

func TestSweepDropsDestroyed(t *testing.T) {
	a, b, c := buyAt(0, 0), buyAt(50, 0), buyAt(100, 0)
	b.MarkDestroyed()
	items := []*object.Obstacle{a, b, c}

	kept := sweep(items)
	if len(kept) != 2 || kept[0] != a || kept[1] != c {
		t.Fatalf("kept = %v", kept)
	}
	if items[2] != nil {
		t.Error("tail slot still holds a reference")
	}

	bullets := []*object.Bullet{object.NewBullet(10, 10, 0, -8)}
	bullets[0].MarkDestroyed()
	if got := sweep(bullets); len(got) != 0 {
		t.Errorf("bullets = %v", got)
	}
}
