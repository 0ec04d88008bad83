package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/cellbreak/internal/arcade"
	"github.com/tomz197/cellbreak/internal/audio"
	"github.com/tomz197/cellbreak/internal/config"
	"github.com/tomz197/cellbreak/internal/draw"
	"github.com/tomz197/cellbreak/internal/game"
	"github.com/tomz197/cellbreak/internal/input"
	"github.com/tomz197/cellbreak/internal/object"
	"github.com/tomz197/cellbreak/internal/random"
)

// Client handles rendering and input for a single terminal.
type Client struct {
	session     *game.Session
	queue       *game.FrameQueue
	hub         *arcade.Hub
	handle      *arcade.ClientHandle
	sound       *audio.SoundManager
	controls    input.Controls
	inputStream *input.Stream
	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter // Accumulates UI text for chunked output
	writer      io.Writer
	field       object.Field
	log         *log.Logger

	termSizeFunc draw.TermSizeFunc
	surfaceOK    atomic.Bool

	running   bool
	variant   config.Variant // Highlighted in the mode menu
	prevKeys  input.Keys
	lastFrame time.Time

	lastInput            time.Time
	isInactive           bool
	inactivityWarn       time.Duration
	inactivityDisconnect time.Duration

	shuttingDown  bool
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	notice        string
	noticeTimer   float64
}

// Options configures the client.
type Options struct {
	Game         config.Game
	TermSizeFunc draw.TermSizeFunc
	Rand         random.Source
	Logger       *log.Logger

	// Hub shares the leaderboard between connected players. Without it the
	// client uses HighScores and Submitter directly.
	Hub        *arcade.Hub
	Username   string
	HighScores game.HighScores
	Submitter  game.Submitter

	Sound *audio.SoundManager

	// Zero disables the inactivity warning and disconnect.
	InactivityWarn       time.Duration
	InactivityDisconnect time.Duration
}

// NewClient creates a client reading keys from r and drawing to w. A nil r
// leaves input to the caller.
func NewClient(r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Game.Field.Width <= 0 {
		opts.Game = config.Default()
	}
	field := object.Field{Width: opts.Game.Field.Width, Height: opts.Game.Field.Height}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := fitField(termWidth, termHeight, field)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, field.Width, field.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		queue:                game.NewFrameQueue(),
		hub:                  opts.Hub,
		sound:                opts.Sound,
		canvas:               canvas,
		chunkWriter:          draw.NewChunkWriter(w, offsetCol, offsetRow, renderWidth),
		writer:               w,
		field:                field,
		log:                  logger,
		termSizeFunc:         termSizeFunc,
		running:              true,
		variant:              opts.Game.Variant,
		prevKeys:             input.Keys{Number: -1},
		lastInput:            time.Now(),
		inactivityWarn:       opts.InactivityWarn,
		inactivityDisconnect: opts.InactivityDisconnect,
	}
	c.surfaceOK.Store(surfaceUsable(renderWidth, renderHeight))
	if r != nil {
		c.inputStream = input.StartStream(r)
	}

	sessionOpts := game.Options{
		Config:       opts.Game,
		Rand:         opts.Rand,
		Scheduler:    c.queue,
		HighScores:   opts.HighScores,
		Submitter:    opts.Submitter,
		Logger:       logger,
		SurfaceReady: c.surfaceOK.Load,
	}
	if c.sound != nil {
		sessionOpts.Sinks = append(sessionOpts.Sinks, c.sound)
	}
	if c.hub != nil {
		c.handle = c.hub.RegisterClient(opts.Username)
		scores := c.hub.Scores(c.handle)
		sessionOpts.HighScores = scores
		sessionOpts.Submitter = scores
	}
	c.session = game.NewSession(sessionOpts)
	if c.handle != nil {
		c.handle.Attach(c.session)
	}
	return c
}

// Session returns the session driven by this client.
func (c *Client) Session() *game.Session {
	return c.session
}

// Run starts the client loop. Blocks until the player quits, ctx is
// cancelled or the server shuts down.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.close()

	for c.running {
		frameStart := time.Now()

		select {
		case <-ctx.Done():
			c.running = false
			continue
		default:
		}

		var keys input.Keys
		if c.inputStream != nil {
			keys = input.ReadKeys(c.inputStream, frameStart)
		}
		if err := c.frame(frameStart, keys); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < ClientTargetFrameTime {
			time.Sleep(ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// frame runs one Input → Update → Draw cycle.
func (c *Client) frame(now time.Time, keys input.Keys) error {
	delta := 0.0
	if !c.lastFrame.IsZero() {
		delta = now.Sub(c.lastFrame).Seconds()
	}
	c.lastFrame = now

	c.processInput(now, keys)
	c.processHubEvents(delta)
	c.updateScreen()
	c.queue.RunFrame(now)
	return c.drawFrame(now)
}

func (c *Client) close() {
	c.session.Quit()
	c.session.Wait()
	if c.handle != nil {
		c.hub.UnregisterClient(c.handle.ID)
	}
	draw.ClearScreen(c.writer)
}

// processInput applies this frame's keys to the session. Menu keys act on
// the press edge so a held key doesn't toggle every frame.
func (c *Client) processInput(now time.Time, keys input.Keys) {
	prev := c.prevKeys
	c.prevKeys = keys
	pressed := func(cur, before bool) bool { return cur && !before }

	if len(keys.Pressed) > 0 {
		c.lastInput = now
		if c.isInactive {
			c.isInactive = false
			c.session.SetVisible(true)
		}
	} else if c.inactivityDisconnect > 0 && now.Sub(c.lastInput) > c.inactivityDisconnect {
		c.log.Info("disconnecting inactive client")
		c.running = false
		return
	} else if c.inactivityWarn > 0 && now.Sub(c.lastInput) > c.inactivityWarn && !c.isInactive {
		c.isInactive = true
		c.session.SetVisible(false)
	}

	if keys.Quit {
		c.running = false
		return
	}
	if pressed(keys.Mute, prev.Mute) && c.sound != nil {
		if c.sound.ToggleMute() {
			c.flash("sound off")
		} else {
			c.flash("sound on")
		}
	}
	if c.shuttingDown {
		return
	}

	confirm := pressed(keys.Space, prev.Space) || pressed(keys.Enter, prev.Enter)
	number := keys.Number
	if number == prev.Number {
		number = -1
	}

	switch c.session.State() {
	case game.StateIdle:
		if number >= 1 && number <= len(variants) {
			c.selectMode(variants[number-1])
		} else if confirm {
			c.session.OpenModeSelect()
		}

	case game.StateModeSelect:
		switch {
		case number >= 1 && number <= len(variants):
			c.selectMode(variants[number-1])
		case pressed(keys.Up, prev.Up) || pressed(keys.LeftTapped, false):
			c.cycleVariant(-1)
		case pressed(keys.Down, prev.Down) || pressed(keys.RightTapped, false):
			c.cycleVariant(1)
		case confirm:
			c.selectMode(c.variant)
		case pressed(keys.Escape, prev.Escape):
			c.session.Quit()
		}

	case game.StatePlaying:
		if pressed(keys.Pause, prev.Pause) || pressed(keys.Escape, prev.Escape) {
			c.session.Pause()
			return
		}
		c.session.SetIntent(c.controls.Intent(keys, now))

	case game.StatePaused:
		if pressed(keys.Pause, prev.Pause) || confirm {
			c.resetInput()
			c.session.Resume()
		}

	case game.StateGameOver:
		switch {
		case number >= 1 && number <= len(variants):
			c.selectMode(variants[number-1])
		case confirm:
			c.resetInput()
			c.session.Start()
		case pressed(keys.Escape, prev.Escape):
			c.session.OpenModeSelect()
		}
	}
}

func (c *Client) selectMode(v config.Variant) {
	c.variant = v
	c.resetInput()
	if err := c.session.SelectMode(v); err != nil {
		c.log.Debug("mode select rejected", "variant", v, "err", err)
	}
}

func (c *Client) cycleVariant(step int) {
	i := 0
	for j, v := range variants {
		if v == c.variant {
			i = j
		}
	}
	c.variant = variants[(i+step+len(variants))%len(variants)]
}

// resetInput forgets held keys so the key that left a menu isn't read as
// gameplay input.
func (c *Client) resetInput() {
	input.ResetKeys(c.inputStream)
	c.controls.Reset()
	c.prevKeys = input.Keys{Number: -1}
}

// processHubEvents handles events from the shared hub.
func (c *Client) processHubEvents(delta float64) {
	if c.handle != nil {
	events:
		for {
			select {
			case event, ok := <-c.handle.Events:
				if !ok {
					c.running = false
					return
				}
				switch event.Type {
				case arcade.EventServerShutdown:
					c.shuttingDown = true
					c.shutdownTimer = ShutdownDisplaySeconds
					c.session.Pause()
				case arcade.EventNewHighScore:
					c.flash(fmt.Sprintf("new high score: %s %d", event.Player, event.Score))
				}
			default:
				break events
			}
		}
	}

	if c.shuttingDown {
		c.shutdownTimer -= delta
		if c.shutdownTimer <= 0 {
			c.running = false
		}
	}
	if c.noticeTimer > 0 {
		c.noticeTimer -= delta
		if c.noticeTimer <= 0 {
			c.notice = ""
		}
	}
}

func (c *Client) flash(msg string) {
	c.notice = msg
	c.noticeTimer = NoticeSeconds
}

// updateScreen handles terminal resize, fitting the field's aspect ratio.
// Ticks are suspended while the fitted area is too small to play on.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		c.surfaceOK.Store(false)
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := fitField(termWidth, termHeight, c.field)
	c.surfaceOK.Store(surfaceUsable(renderWidth, renderHeight))

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetArea(offsetCol, offsetRow, renderWidth)
}

// fitField computes the largest render area with the field's aspect ratio
// and the centering offset for it. Terminal cells hold two square
// sub-pixels stacked vertically.
func fitField(termWidth, termHeight int, field object.Field) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	aspect := field.Width / field.Height
	renderHeight = min(termHeight, MaxTermHeight)
	renderWidth = int(float64(renderHeight*2) * aspect)
	if renderWidth > termWidth {
		renderWidth = termWidth
		renderHeight = int(float64(renderWidth) / aspect / 2)
	}
	renderWidth = max(renderWidth, 1)
	renderHeight = max(renderHeight, 1)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

func surfaceUsable(width, height int) bool {
	return width >= MinTermWidth && height >= MinTermHeight
}
