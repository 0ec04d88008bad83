package game

import (
	"fmt"
	"math"

	"github.com/tomz197/cellbreak/internal/config"
)

// ScoreState is the score, combo and streak bookkeeping of one session.
type ScoreState struct {
	Score         int
	Combo         int // Consecutive combo events
	MaxCombo      int
	NearMisses    int
	PerfectDodges int
	Coins         int
	Achievements  map[string]bool

	pending        float64 // Fractional points not yet in Score
	lastComboFrame float64
}

func newScoreState() ScoreState {
	return ScoreState{Achievements: make(map[string]bool)}
}

// Multiplier returns 1 + Combo/step, capped at max.
func Multiplier(combo int, cfg config.Scoring) int {
	step := max(cfg.ComboStep, 1)
	return min(1+combo/step, max(cfg.MaxMultiplier, 1))
}

// addFraction accrues fractional points, moving whole points into Score.
func (s *ScoreState) addFraction(points float64) {
	if points <= 0 {
		return
	}
	s.pending += points
	whole := math.Floor(s.pending)
	s.Score += int(whole)
	s.pending -= whole
}

// Achievement is a one-shot bonus.
type Achievement struct {
	ID        string
	Title     string
	Threshold float64
	Bonus     int
}

// Combo and survival achievements, each fired at most once per session.
var (
	ComboAchievements = []Achievement{
		{ID: "combo-10", Title: "COMBO x10", Threshold: 10, Bonus: 500},
		{ID: "combo-25", Title: "COMBO x25", Threshold: 25, Bonus: 1500},
		{ID: "combo-50", Title: "COMBO x50", Threshold: 50, Bonus: 5000},
	}
	SurvivalAchievements = []Achievement{
		{ID: "survive-30", Title: "SURVIVED 30s", Threshold: 30, Bonus: 300},
		{ID: "survive-60", Title: "SURVIVED 60s", Threshold: 60, Bonus: 1000},
		{ID: "survive-120", Title: "SURVIVED 120s", Threshold: 120, Bonus: 3000},
	}
)

// unlock awards every achievement in list whose threshold value has reached
// and that hasn't fired yet. It returns the newly unlocked ones.
func (s *ScoreState) unlock(list []Achievement, value float64) []Achievement {
	var out []Achievement
	for _, a := range list {
		if value < a.Threshold || s.Achievements[a.ID] {
			continue
		}
		s.Achievements[a.ID] = true
		s.Score += a.Bonus
		out = append(out, a)
	}
	return out
}

// GoldenZone is the horizontal band that currently doubles perfect dodges.
type GoldenZone struct {
	Left, Right float64
}

// Contains reports whether x lies within the zone.
func (z GoldenZone) Contains(x float64) bool {
	return x >= z.Left && x < z.Right
}

// GoldenZoneAt returns the active zone: the left third for the first half of
// each cycle, then the right third.
func GoldenZoneAt(seconds, fieldWidth, cycleSeconds float64) GoldenZone {
	third := fieldWidth / 3
	if cycleSeconds <= 0 {
		return GoldenZone{Left: 0, Right: third}
	}
	phase := math.Mod(math.Max(seconds, 0), cycleSeconds)
	if phase < cycleSeconds/2 {
		return GoldenZone{Left: 0, Right: third}
	}
	return GoldenZone{Left: fieldWidth - third, Right: fieldWidth}
}

func (a Achievement) String() string {
	return fmt.Sprintf("%s +%d", a.Title, a.Bonus)
}
