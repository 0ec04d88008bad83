// Package spawn decides where, when and how many obstacles and power-ups
// enter the field each tick.
package spawn

import (
	"math"

	"github.com/tomz197/cellbreak/internal/config"
	"github.com/tomz197/cellbreak/internal/difficulty"
	"github.com/tomz197/cellbreak/internal/object"
	"github.com/tomz197/cellbreak/internal/physics"
	"github.com/tomz197/cellbreak/internal/random"
)

// firstSpawnDelay gives the player a short grace period after start.
const firstSpawnDelay = 30

// Context is the per-tick input of the coordinator.
type Context struct {
	Frame      float64 // Tick clock in frames
	Difficulty difficulty.Descriptor
	Event      *difficulty.Event // Active special event, nil when none

	Obstacles []*object.Obstacle // Live obstacles
	Player    physics.Rect
}

// Coordinator owns spawn timers, the coverage map and the behaviour tracker.
type Coordinator struct {
	cfg   config.Game
	src   random.Source
	field object.Field

	grid    *physics.ColumnGrid
	tracker *Tracker

	// RateMultiplier scales the primary spawn rate; <= 0 pauses the timer.
	RateMultiplier float64

	nextSpawnTime   float64
	nextSideTime    float64
	lastColumn      int
	lastCornerCheck float64
	cornerHits      int
}

// New creates a coordinator for cfg drawing randomness from src.
func New(cfg config.Game, src random.Source) *Coordinator {
	c := &Coordinator{
		cfg:            cfg,
		src:            src,
		field:          object.Field{Width: cfg.Field.Width, Height: cfg.Field.Height},
		grid:           physics.NewColumnGrid(cfg.Field.Width, cfg.Field.Columns),
		tracker:        NewTracker(),
		RateMultiplier: cfg.Spawn.RateMultiplier,
	}
	c.Reset()
	return c
}

// Reset clears timers and tracked history.
func (c *Coordinator) Reset() {
	c.nextSpawnTime = firstSpawnDelay
	c.nextSideTime = firstSpawnDelay
	c.lastColumn = -1
	c.lastCornerCheck = 0
	c.cornerHits = 0
	c.grid.Clear()
	c.tracker.Reset()
}

// Tracker exposes the player behaviour tracker.
func (c *Coordinator) Tracker() *Tracker {
	return c.tracker
}

// Coverage exposes the coverage map as rebuilt on the last Update.
func (c *Coordinator) Coverage() *physics.ColumnGrid {
	return c.grid
}

// NextSpawnTime returns the frame of the next primary spawn.
func (c *Coordinator) NextSpawnTime() float64 {
	return c.nextSpawnTime
}

// Update returns the obstacles to add this tick.
func (c *Coordinator) Update(ctx Context) []*object.Obstacle {
	c.rebuildCoverage(ctx.Obstacles)

	px, _ := ctx.Player.Center()
	c.tracker.Observe(ctx.Frame, px, c.field.Width)

	var out []*object.Obstacle
	out = c.primary(ctx, out)
	out = c.cornerTrap(ctx, out)
	out = c.side(ctx, out)
	return out
}

func (c *Coordinator) rebuildCoverage(obstacles []*object.Obstacle) {
	c.grid.Clear()
	for _, o := range obstacles {
		if o.Destroyed || o.Exited || o.Side != object.SideTop || o.Y >= c.field.Height {
			continue
		}
		c.grid.Insert(o.CenterX())
	}
}

// NextInterval returns the frames until the next primary spawn:
// (descInterval + jitter) / RateMultiplier, floored at the minimum interval.
func (c *Coordinator) NextInterval(descInterval float64) float64 {
	jitter := random.Range(c.src, -c.cfg.Spawn.Jitter, c.cfg.Spawn.Jitter)
	mult := c.RateMultiplier
	if mult <= 0 {
		mult = 1
	}
	return math.Max((descInterval+jitter)/mult, c.cfg.Spawn.MinInterval)
}

func (c *Coordinator) primary(ctx Context, out []*object.Obstacle) []*object.Obstacle {
	if c.RateMultiplier <= 0 || ctx.Frame < c.nextSpawnTime {
		return out
	}

	interval := ctx.Difficulty.SpawnInterval
	if ctx.Event != nil && ctx.Event.SpawnInterval > 0 {
		interval = ctx.Event.SpawnInterval
	}
	c.nextSpawnTime = ctx.Frame + c.NextInterval(interval)

	count := 1
	switch {
	case ctx.Event != nil && ctx.Event.Burst > 0:
		count = min(1+ctx.Event.Burst, c.cfg.Spawn.MaxBurst)
	case random.Chance(c.src, ctx.Difficulty.MultiChance):
		count = min(difficulty.BurstCount(c.src, ctx.Difficulty), c.cfg.Spawn.MaxBurst)
	}

	used := make(map[int]bool, count)
	for i := 0; i < count; i++ {
		col := c.chooseDistinct(used)
		used[col] = true
		out = append(out, c.spawnInColumn(ctx, col))
	}
	return out
}

// chooseDistinct picks a column, skipping ones already used this tick while
// unused columns remain.
func (c *Coordinator) chooseDistinct(used map[int]bool) int {
	n := c.grid.Columns()
	col := ChooseColumn(c.grid, c.lastColumn, c.cfg.Spawn, c.src)
	if len(used) >= n || !used[col] {
		return col
	}
	for i := 1; i < n; i++ {
		alt := (col + i) % n
		if !used[alt] {
			return alt
		}
	}
	return col
}

// ChooseColumn picks the spawn column from the coverage map. Columns within
// one of the minimum coverage are candidates, excluding last when another
// candidate exists. When every column is saturated the pick is random,
// avoiding an immediate repeat with probability RepeatAvoidChance.
func ChooseColumn(grid *physics.ColumnGrid, last int, cfg config.Spawn, src random.Source) int {
	n := grid.Columns()
	lo, _ := grid.MinMax()

	if lo >= cfg.SaturatedCoverage {
		col := random.Intn(src, n)
		if col == last && n > 1 && random.Chance(src, cfg.RepeatAvoidChance) {
			col = (col + 1 + random.Intn(src, n-1)) % n
		}
		return col
	}

	candidates := make([]int, 0, n)
	for col := 0; col < n; col++ {
		if grid.Count(col) <= lo+1 && col != last {
			candidates = append(candidates, col)
		}
	}
	if len(candidates) == 0 {
		return last
	}
	return candidates[random.Intn(src, len(candidates))]
}

func (c *Coordinator) spawnInColumn(ctx Context, col int) *object.Obstacle {
	size := c.cfg.Obstacle.Size
	left, width := c.grid.Bounds(col)
	x := left + random.Range(c.src, 0, math.Max(0, width-size))
	x = physics.Clamp(x, 0, math.Max(0, c.field.Width-size))

	typ := object.Buy
	if random.Chance(c.src, 0.5) {
		typ = object.Sell
	}

	speed := c.obstacleSpeed(ctx, typ)

	pattern := difficulty.Pattern(c.src, ctx.Difficulty)
	if ctx.Event != nil {
		if p, ok := ctx.Event.PickPattern(c.src); ok {
			pattern = p
		}
	}

	c.grid.Add(col, 1)
	c.lastColumn = col
	return object.NewObstacle(x, -size, size, speed, typ, pattern, c.src)
}

// obstacleSpeed derives a spawn speed, never below the base speed.
func (c *Coordinator) obstacleSpeed(ctx Context, typ object.ObstacleType) float64 {
	base := c.cfg.Obstacle.BaseSpeed
	speed := base * ctx.Difficulty.SpeedMultiplier
	if typ == object.Sell {
		speed *= c.cfg.Obstacle.SellSpeedFactor
	}
	if c.cfg.Rules.Hardcore {
		speed *= c.cfg.Obstacle.HardcoreFactor
	}
	if ctx.Event != nil && ctx.Event.SpeedFactor > 0 {
		speed *= ctx.Event.SpeedFactor
	}
	speed *= random.Range(c.src, 0.9, 1.1)
	return math.Max(speed, base)
}

// cornerTrap punishes a player parked in a bottom corner: after enough
// consecutive positive checks, a fast homing obstacle drops from the
// opposite top corner and a straight one from the same-side corner.
func (c *Coordinator) cornerTrap(ctx Context, out []*object.Obstacle) []*object.Obstacle {
	if ctx.Frame-c.lastCornerCheck < float64(c.cfg.Spawn.CornerCheckFrames) {
		return out
	}
	c.lastCornerCheck = ctx.Frame

	px, _ := ctx.Player.Center()
	nearLeft := px <= c.cfg.Spawn.CornerDistance
	nearRight := px >= c.field.Width-c.cfg.Spawn.CornerDistance
	if !nearLeft && !nearRight {
		c.cornerHits = 0
		return out
	}
	c.cornerHits++
	if c.cornerHits < c.cfg.Spawn.CornerChecks {
		return out
	}
	c.cornerHits = 0

	size := c.cfg.Obstacle.Size
	sameX, oppositeX := 0.0, c.field.Width-size
	if nearRight {
		sameX, oppositeX = oppositeX, sameX
	}
	fast := c.obstacleSpeed(ctx, object.Buy) * c.cfg.Spawn.CornerTrapSpeed
	out = append(out,
		object.NewObstacle(oppositeX, -size, size, fast, object.Buy, object.PatternHoming, c.src),
		object.NewObstacle(sameX, -size, size, c.obstacleSpeed(ctx, object.Buy), object.Buy, object.PatternStraight, c.src),
	)
	return out
}

// side runs the per-tick side-spawn trial. Side spawns are spaced by at
// least the current spawn interval.
func (c *Coordinator) side(ctx Context, out []*object.Obstacle) []*object.Obstacle {
	d := ctx.Difficulty
	if d.SideChance <= 0 || ctx.Frame < c.nextSideTime {
		return out
	}
	if !random.Chance(c.src, d.SideChance) {
		return out
	}
	c.nextSideTime = ctx.Frame + c.NextInterval(d.SpawnInterval)

	edge := c.chooseEdge()
	size := c.cfg.Obstacle.Size

	// Camping players get the obstacle straight at their row; active ones
	// get a row offset they can still slip past.
	row := ctx.Player.Y + (ctx.Player.H-size)/2
	tendency := c.tracker.CampingTendency()
	if !c.tracker.Camping() {
		row += random.Range(c.src, -1, 1) * size * 0.5 * (1 - tendency)
	}

	typ := object.Buy
	if random.Chance(c.src, 0.5) {
		typ = object.Sell
	}
	speed := math.Max(c.cfg.Obstacle.BaseSpeed*d.SpeedMultiplier*c.cfg.Obstacle.SideSpeedFactor, c.cfg.Obstacle.BaseSpeed)

	out = append(out, object.NewSideObstacle(edge, c.field.Width, row, size, speed, typ))
	if d.Danger >= 7 || tendency > 0.7 {
		out = append(out, object.NewSideObstacle(opposite(edge), c.field.Width, row, size, speed, typ))
	}
	return out
}

// chooseEdge picks the entry edge: 70% toward the side the player tends to
// dodge to, otherwise the edge farther from where the player is heading.
func (c *Coordinator) chooseEdge() object.Side {
	pref := c.tracker.DodgePreference()
	if pref != 0 && random.Chance(c.src, 0.7) {
		if pref > 0 {
			return object.SideRight
		}
		return object.SideLeft
	}
	if c.tracker.PredictedX() < c.field.Width/2 {
		return object.SideRight
	}
	return object.SideLeft
}

func opposite(s object.Side) object.Side {
	if s == object.SideLeft {
		return object.SideRight
	}
	return object.SideLeft
}

// PowerUp runs the per-tick power-up trial and returns the new power-up or nil.
func (c *Coordinator) PowerUp(dt float64) *object.PowerUp {
	kinds := c.cfg.PowerUps.Kinds
	if len(kinds) == 0 || !random.Chance(c.src, c.cfg.Spawn.PowerUpChance*dt) {
		return nil
	}
	kind := object.PowerUpKind(kinds[random.Intn(c.src, len(kinds))])
	size := c.cfg.PowerUps.Size
	x := random.Range(c.src, 0, c.field.Width-size)
	return object.NewPowerUp(kind, x, -size, size, c.cfg.PowerUps.FallSpeed)
}
