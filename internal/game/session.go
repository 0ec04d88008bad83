// Package game is the Cell Break engine: the world simulation, collision and
// scoring rules, power-up effects and the session state machine that drives
// them from frame callbacks.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/cellbreak/internal/config"
	"github.com/tomz197/cellbreak/internal/input"
	"github.com/tomz197/cellbreak/internal/random"
	"github.com/tomz197/cellbreak/internal/spawn"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota
	StateModeSelect
	StatePlaying
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateModeSelect:
		return "modeSelect"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "gameOver"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrInvalidTransition is returned when a method is called in a state that
// doesn't allow it.
var ErrInvalidTransition = errors.New("invalid session transition")

const submitTimeout = 10 * time.Second

// Record is the final result of a session, handed to the Submitter.
type Record struct {
	SessionID       uuid.UUID
	Score           int
	SurvivalSeconds float64
	Variant         config.Variant
	Coins           int
	MaxCombo        int
	EndedAt         time.Time
}

// Submitter receives final records. It runs off the simulation goroutine and
// its errors are only logged.
type Submitter interface {
	Submit(ctx context.Context, r Record) error
}

// HighScores is the persisted best score.
type HighScores interface {
	Best() (int, error)
	SetBest(score int) error
}

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Config       config.Game
	Rand         random.Source
	Scheduler    Scheduler
	Spawner      Spawner // Defaults to a spawn.Coordinator over Config
	Sinks        []EventSink
	Submitter    Submitter
	HighScores   HighScores
	Logger       *log.Logger
	SurfaceReady func() bool // Ticks are skipped while it reports false
}

// Session owns one World and advances it once per frame callback.
type Session struct {
	mu sync.Mutex

	cfg          config.Game
	rand         random.Source
	sched        Scheduler
	customSpawn  bool
	sinks        []EventSink
	submitter    Submitter
	highScores   HighScores
	log          *log.Logger
	surfaceReady func() bool

	world  *World
	state  State
	gen    uint64
	handle FrameHandle
	last   time.Time
	intent input.Intent
	id     uuid.UUID
	best   int
	record *Record

	snap atomic.Pointer[Snapshot]
	wg   sync.WaitGroup
}

// NewSession creates an idle session.
func NewSession(opts Options) *Session {
	if opts.Config.Field.Width <= 0 {
		opts.Config = config.Default()
	}
	if opts.Rand == nil {
		opts.Rand = random.New(time.Now().UnixNano())
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewFrameQueue()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Session{
		cfg:          opts.Config,
		rand:         opts.Rand,
		sched:        opts.Scheduler,
		customSpawn:  opts.Spawner != nil,
		sinks:        opts.Sinks,
		submitter:    opts.Submitter,
		highScores:   opts.HighScores,
		log:          opts.Logger,
		surfaceReady: opts.SurfaceReady,
	}
	spawner := opts.Spawner
	if spawner == nil {
		spawner = spawn.New(s.cfg, s.rand)
	}
	s.world = newWorld(s.cfg, s.rand, spawner, s.log)
	s.best = s.readBest()
	s.publish()
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns the tuning of the current (or next) run.
func (s *Session) Config() config.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Snapshot returns the latest published snapshot. It is safe to call from
// any goroutine.
func (s *Session) Snapshot() *Snapshot {
	return s.snap.Load()
}

// LastRecord returns the record of the most recently ended run.
func (s *Session) LastRecord() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return Record{}, false
	}
	return *s.record, true
}

// OpenModeSelect moves an idle or finished session to mode selection.
func (s *Session) OpenModeSelect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle, StateGameOver, StateModeSelect:
	default:
		return fmt.Errorf("%w: mode select from %s", ErrInvalidTransition, s.state)
	}
	s.state = StateModeSelect
	s.publish()
	return nil
}

// SelectMode applies variant v and starts a run.
func (s *Session) SelectMode(v config.Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle, StateGameOver, StateModeSelect:
	default:
		return fmt.Errorf("%w: select mode from %s", ErrInvalidTransition, s.state)
	}

	s.cfg = s.cfg.WithVariant(v)
	spawner := s.world.spawner
	if !s.customSpawn {
		spawner = spawn.New(s.cfg, s.rand)
	}
	s.world = newWorld(s.cfg, s.rand, spawner, s.log)
	s.begin()
	return nil
}

// Start resets the world and begins a run. Starting while a run is in
// progress restarts it; the pending frame is cancelled first.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begin()
	return nil
}

func (s *Session) begin() {
	s.cancelFrame()
	s.gen++

	comeback := false
	if r := s.record; r != nil {
		sc := s.cfg.Scoring
		comeback = r.Score < sc.ComebackScore && r.SurvivalSeconds < sc.ComebackSeconds
	}
	s.world.reset(comeback, s.cfg.Scoring.DailyStreak)
	s.id = uuid.New()
	s.best = s.readBest()
	s.last = time.Time{}
	s.intent = input.Intent{}
	s.state = StatePlaying
	s.publish()
	s.requestFrame()

	s.log.Info("session started", "id", s.id, "variant", s.cfg.Variant, "comeback", comeback)
}

// Pause suspends the tick loop without touching the world.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying {
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, s.state)
	}
	s.pause()
	return nil
}

func (s *Session) pause() {
	s.cancelFrame()
	s.state = StatePaused
	s.publish()
}

// Resume continues a paused run from its current state.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, s.state)
	}
	s.state = StatePlaying
	s.last = time.Time{}
	s.publish()
	s.requestFrame()
	return nil
}

// Quit abandons the current run and returns to idle. No record is produced.
func (s *Session) Quit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelFrame()
	s.gen++
	s.state = StateIdle
	s.publish()
}

// SetVisible reports host visibility. Losing visibility pauses a run.
func (s *Session) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !visible && s.state == StatePlaying {
		s.pause()
		s.log.Debug("auto-paused on visibility loss", "id", s.id)
	}
}

// SetIntent records the movement intent read by the next tick. Dash
// requests are latched until a tick consumes them.
func (s *Session) SetIntent(in input.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dash, dir := s.intent.Dash, s.intent.DashDir
	s.intent = in
	if dash && !in.Dash {
		s.intent.Dash, s.intent.DashDir = true, dir
	}
}

// Wait blocks until pending score submissions have returned.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) requestFrame() {
	gen := s.gen
	s.handle = s.sched.RequestFrame(func(now time.Time) {
		s.tick(gen, now)
	})
}

// cancelFrame cancels the pending callback, if any.
func (s *Session) cancelFrame() {
	if s.handle != 0 {
		s.sched.CancelFrame(s.handle)
		s.handle = 0
	}
}

func (s *Session) tick(gen uint64, now time.Time) {
	s.mu.Lock()
	if gen != s.gen || s.state != StatePlaying {
		s.mu.Unlock()
		return
	}
	s.handle = 0

	if s.surfaceReady != nil && !s.surfaceReady() {
		s.log.Debug("render surface unavailable, skipping tick", "id", s.id)
		s.requestFrame()
		s.mu.Unlock()
		return
	}

	dt := s.delta(now)
	in := s.intent
	s.intent.Dash = false

	fatal := s.world.step(dt, in)
	events := append([]Event(nil), s.world.events...)
	if fatal {
		s.endGame(now)
	} else {
		s.publish()
		s.requestFrame()
	}
	s.mu.Unlock()

	dispatch(s.log, s.sinks, events)
}

// delta converts the time since the previous tick into frames, clamped so a
// stall can't teleport entities.
func (s *Session) delta(now time.Time) float64 {
	last := s.last
	s.last = now
	if last.IsZero() {
		return 1
	}
	dt := float64(now.Sub(last)) / float64(config.TargetFrameTime)
	return min(max(dt, 0), config.MaxDeltaFactor)
}

func (s *Session) endGame(now time.Time) {
	s.state = StateGameOver
	r := Record{
		SessionID:       s.id,
		Score:           s.world.Score.Score,
		SurvivalSeconds: s.world.Seconds(),
		Variant:         s.cfg.Variant,
		Coins:           s.world.Score.Coins,
		MaxCombo:        s.world.Score.MaxCombo,
		EndedAt:         now,
	}
	s.record = &r

	if r.Score > s.best {
		s.best = r.Score
		if s.highScores != nil {
			if err := s.highScores.SetBest(r.Score); err != nil {
				s.log.Warn("failed to store best score", "err", err)
			}
		}
	}
	s.publish()
	s.log.Info("session over", "id", r.SessionID, "score", r.Score, "seconds", r.SurvivalSeconds)

	if s.submitter == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		if err := s.submitter.Submit(ctx, r); err != nil {
			s.log.Warn("score submission failed", "id", r.SessionID, "err", err)
		}
	}()
}

func (s *Session) readBest() int {
	if s.highScores == nil {
		return s.best
	}
	best, err := s.highScores.Best()
	if err != nil {
		s.log.Warn("failed to read best score", "err", err)
		return s.best
	}
	return max(best, s.best)
}

func (s *Session) publish() {
	s.snap.Store(s.world.snapshot(s.state, s.best))
}
