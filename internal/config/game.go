package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Simulation clock. All per-tick tunables below are expressed per frame at
// TargetFPS; the session scales them by the normalized delta factor.
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	MaxDeltaFactor  = 3.0 // Clamp after stalls so entities don't teleport
)

// Variant selects a product rule set.
type Variant string

const (
	VariantDesktop  Variant = "desktop"  // Every obstacle is a hazard
	VariantMobile   Variant = "mobile"   // Shooting, sell blocks are safe, particle cap
	VariantHardcore Variant = "hardcore" // Doubled obstacle speed, extra power-ups
)

// ErrInvalidConfig is returned by Validate for unusable tuning values.
var ErrInvalidConfig = errors.New("invalid game config")

// Field is the logical play area in pixels.
type Field struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Columns int     `yaml:"columns"` // Coverage map columns
}

// Player tunes movement (ice physics), dash and shooting.
type Player struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	BottomMargin  float64 `yaml:"bottom_margin"`
	Accel         float64 `yaml:"accel"`
	Friction      float64 `yaml:"friction"`
	StopFriction  float64 `yaml:"stop_friction"`
	StopThreshold float64 `yaml:"stop_threshold"`
	MaxSpeed      float64 `yaml:"max_speed"`
	Bounce        float64 `yaml:"bounce"`
	DashFrames    float64 `yaml:"dash_frames"`
	DashSpeed     float64 `yaml:"dash_speed"`
	DashCooldown  float64 `yaml:"dash_cooldown"`
	DashCarry     float64 `yaml:"dash_carry"`
	FireCooldown  float64 `yaml:"fire_cooldown"`
	BulletSpeed   float64 `yaml:"bullet_speed"`
	SpeedBoost    float64 `yaml:"speed_boost"`
}

// Obstacle tunes obstacle size and speed derivation.
type Obstacle struct {
	Size            float64 `yaml:"size"`
	BaseSpeed       float64 `yaml:"base_speed"`
	SellSpeedFactor float64 `yaml:"sell_speed_factor"`
	HardcoreFactor  float64 `yaml:"hardcore_factor"`
	BounceMaxSpeed  float64 `yaml:"bounce_max_speed"`
	SideSpeedFactor float64 `yaml:"side_speed_factor"`
}

// Spawn tunes the spawn coordinator.
type Spawn struct {
	RateMultiplier    float64 `yaml:"rate_multiplier"`
	Jitter            float64 `yaml:"jitter"`
	MinInterval       float64 `yaml:"min_interval"`
	SaturatedCoverage int     `yaml:"saturated_coverage"`
	RepeatAvoidChance float64 `yaml:"repeat_avoid_chance"`
	MaxBurst          int     `yaml:"max_burst"`
	CornerCheckFrames int     `yaml:"corner_check_frames"`
	CornerDistance    float64 `yaml:"corner_distance"`
	CornerChecks      int     `yaml:"corner_checks"`
	CornerTrapSpeed   float64 `yaml:"corner_trap_speed"`
	PowerUpChance     float64 `yaml:"powerup_chance"`
}

// PowerUps tunes power-up kinds, durations and magnet behaviour.
type PowerUps struct {
	Kinds          []string       `yaml:"kinds"`
	Durations      map[string]int `yaml:"durations"` // Frames
	Size           float64        `yaml:"size"`
	FallSpeed      float64        `yaml:"fall_speed"`
	MagnetRadius   float64        `yaml:"magnet_radius"`
	MagnetStrength float64        `yaml:"magnet_strength"`
	SlowFactor     float64        `yaml:"slow_factor"`
}

// Scoring tunes every score award.
type Scoring struct {
	NearMissThreshold  float64 `yaml:"near_miss_threshold"`
	PerfectThreshold   float64 `yaml:"perfect_threshold"`
	NearMissBonus      int     `yaml:"near_miss_bonus"`
	PerfectBonus       int     `yaml:"perfect_bonus"`
	DashKill           int     `yaml:"dash_kill"`
	ShieldBlock        int     `yaml:"shield_block"`
	SellCollect        int     `yaml:"sell_collect"`
	BulletHit          int     `yaml:"bullet_hit"`
	LaserHit           int     `yaml:"laser_hit"`
	NukePerObstacle    int     `yaml:"nuke_per_obstacle"`
	NukeFlat           int     `yaml:"nuke_flat"`
	ScorePowerUp       int     `yaml:"score_powerup"`
	Coin               int     `yaml:"coin"`
	PassiveRate        float64 `yaml:"passive_rate"`
	ExitBonus          float64 `yaml:"exit_bonus"`
	ComebackFactor     float64 `yaml:"comeback_factor"`
	ComebackScore      int     `yaml:"comeback_score"`
	ComebackSeconds    float64 `yaml:"comeback_seconds"`
	DailyStreak        float64 `yaml:"daily_streak"`
	ComboStep          int     `yaml:"combo_step"`
	MaxMultiplier      int     `yaml:"max_multiplier"`
	ComboTimeoutFrames float64 `yaml:"combo_timeout_frames"`
	GoldenCycleSeconds float64 `yaml:"golden_cycle_seconds"`
	EnlargeScore       int     `yaml:"enlarge_score"`
	EnlargeBy          float64 `yaml:"enlarge_by"`
}

// Rules are the variant-specific outcome rules.
type Rules struct {
	SellBlocksSafe bool `yaml:"sell_blocks_safe"`
	Hardcore       bool `yaml:"hardcore"`
	Shooting       bool `yaml:"shooting"`
}

// Game aggregates every tunable of a session.
type Game struct {
	Variant      Variant  `yaml:"variant"`
	Field        Field    `yaml:"field"`
	Player       Player   `yaml:"player"`
	Obstacle     Obstacle `yaml:"obstacle"`
	Spawn        Spawn    `yaml:"spawn"`
	PowerUps     PowerUps `yaml:"powerups"`
	Scoring      Scoring  `yaml:"scoring"`
	Rules        Rules    `yaml:"rules"`
	MaxParticles int      `yaml:"max_particles"`
}

// Default returns the desktop tuning.
func Default() Game {
	return Game{
		Variant: VariantDesktop,
		Field: Field{
			Width:   480,
			Height:  640,
			Columns: 8,
		},
		Player: Player{
			Width:         40,
			Height:        24,
			BottomMargin:  48,
			Accel:         0.9,
			Friction:      0.92,
			StopFriction:  0.6,
			StopThreshold: 0.3,
			MaxSpeed:      9,
			Bounce:        0.4,
			DashFrames:    12,
			DashSpeed:     18,
			DashCooldown:  45,
			DashCarry:     0.5,
			FireCooldown:  10,
			BulletSpeed:   12,
			SpeedBoost:    1.5,
		},
		Obstacle: Obstacle{
			Size:            28,
			BaseSpeed:       3,
			SellSpeedFactor: 1.1,
			HardcoreFactor:  2,
			BounceMaxSpeed:  12,
			SideSpeedFactor: 1.2,
		},
		Spawn: Spawn{
			RateMultiplier:    1,
			Jitter:            1.5,
			MinInterval:       3,
			SaturatedCoverage: 4,
			RepeatAvoidChance: 0.7,
			MaxBurst:          8,
			CornerCheckFrames: 30,
			CornerDistance:    60,
			CornerChecks:      3,
			CornerTrapSpeed:   1.8,
			PowerUpChance:     0.004,
		},
		PowerUps: PowerUps{
			Kinds: []string{"shield", "slow", "nuke", "speed", "score", "coin", "magnet"},
			Durations: map[string]int{
				"shield":    300,
				"slow":      300,
				"speed":     300,
				"freeze":    180,
				"laser":     120,
				"magnet":    420,
				"multishot": 360,
			},
			Size:           24,
			FallSpeed:      1.5,
			MagnetRadius:   160,
			MagnetStrength: 40,
			SlowFactor:     0.5,
		},
		Scoring: Scoring{
			NearMissThreshold:  25,
			PerfectThreshold:   8,
			NearMissBonus:      10,
			PerfectBonus:       50,
			DashKill:           25,
			ShieldBlock:        15,
			SellCollect:        20,
			BulletHit:          15,
			LaserHit:           5,
			NukePerObstacle:    10,
			NukeFlat:           100,
			ScorePowerUp:       250,
			Coin:               50,
			PassiveRate:        0.05,
			ExitBonus:          1,
			ComebackFactor:     1.5,
			ComebackScore:      500,
			ComebackSeconds:    30,
			DailyStreak:        1,
			ComboStep:          5,
			MaxMultiplier:      8,
			ComboTimeoutFrames: 180,
			GoldenCycleSeconds: 10,
			EnlargeScore:       5000,
			EnlargeBy:          8,
		},
		MaxParticles: 300,
	}
}

// ForVariant returns the default tuning with the variant's rules applied.
func ForVariant(v Variant) Game {
	return Default().WithVariant(v)
}

// variantDefaults is what a variant contributes on top of Default.
type variantDefaults struct {
	rules        Rules
	kinds        []string
	maxParticles int
}

func defaultsFor(v Variant) variantDefaults {
	d := variantDefaults{
		kinds:        []string{"shield", "slow", "nuke", "speed", "score", "coin", "magnet"},
		maxParticles: 300,
	}
	switch v {
	case VariantMobile:
		d.rules = Rules{Shooting: true, SellBlocksSafe: true}
		d.maxParticles = 120
		d.kinds = append(d.kinds, "multishot")
	case VariantHardcore:
		d.rules = Rules{Hardcore: true}
		d.kinds = append(d.kinds, "laser", "freeze")
	}
	return d
}

// WithVariant returns g switched to v. Outcome rules follow the variant.
// Power-up kinds and the particle cap move to v's defaults only while they
// still hold the current variant's defaults, so tuned values survive.
func (g Game) WithVariant(v Variant) Game {
	from, to := defaultsFor(g.Variant), defaultsFor(v)
	if v != g.Variant || g.Rules == from.rules {
		g.Rules = to.rules
	}
	if g.MaxParticles == from.maxParticles {
		g.MaxParticles = to.maxParticles
	}
	if slices.Equal(g.PowerUps.Kinds, from.kinds) {
		g.PowerUps.Kinds = to.kinds
	}
	g.Variant = v
	return g
}

// ParseVariant maps a name to a Variant, defaulting to desktop.
func ParseVariant(name string) Variant {
	switch Variant(name) {
	case VariantMobile, VariantHardcore:
		return Variant(name)
	default:
		return VariantDesktop
	}
}

// LoadGame reads a YAML tuning file on top of the variant defaults found in
// the file (or desktop when the file names none).
func LoadGame(path string) (Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Game{}, fmt.Errorf("read tuning %s: %w", path, err)
	}

	var head struct {
		Variant Variant `yaml:"variant"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Game{}, fmt.Errorf("parse tuning %s: %w", path, err)
	}

	g := ForVariant(ParseVariant(string(head.Variant)))
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Game{}, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return Game{}, err
	}
	return g, nil
}

// Validate rejects tuning that would break the simulation.
func (g Game) Validate() error {
	switch {
	case g.Field.Width <= 0 || g.Field.Height <= 0:
		return fmt.Errorf("%w: field must be positive", ErrInvalidConfig)
	case g.Field.Columns < 1:
		return fmt.Errorf("%w: at least one coverage column required", ErrInvalidConfig)
	case g.Obstacle.BaseSpeed <= 0:
		return fmt.Errorf("%w: obstacle base speed must be positive", ErrInvalidConfig)
	case g.Spawn.MinInterval < 1:
		return fmt.Errorf("%w: spawn min interval must be >= 1 frame", ErrInvalidConfig)
	case g.Scoring.MaxMultiplier < 1:
		return fmt.Errorf("%w: max multiplier must be >= 1", ErrInvalidConfig)
	case g.Scoring.PerfectThreshold > g.Scoring.NearMissThreshold:
		return fmt.Errorf("%w: perfect threshold exceeds near-miss threshold", ErrInvalidConfig)
	case g.MaxParticles < 0:
		return fmt.Errorf("%w: max particles must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Duration returns the configured active duration of a timed power-up kind in
// frames, or 0 when the kind is not timed.
func (p PowerUps) Duration(kind string) int {
	return p.Durations[kind]
}
