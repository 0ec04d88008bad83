// Package loop runs Cell Break in a terminal. A Client reads keys, drives a
// game.Session through its frame queue and renders the published snapshots.
package loop

import (
	"time"

	"github.com/tomz197/cellbreak/internal/config"
)

// Render area bounds in terminal cells.
const (
	MaxTermHeight = 60 // Taller terminals get a border instead of a bigger field
	MinTermWidth  = 24 // Below this the session stops ticking
	MinTermHeight = 16
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity defaults for shared servers. Local play leaves them disabled.
const (
	DefaultInactivityWarn       = 90 * time.Second
	DefaultInactivityDisconnect = 120 * time.Second
)

// NoticeSeconds is how long hub notices stay on screen.
const NoticeSeconds = 4.0

// Client rendering
const (
	ClientTargetFPS       = config.TargetFPS
	ClientTargetFrameTime = config.TargetFrameTime
)

// variants in menu order; digit keys 1..3 pick them directly.
var variants = []config.Variant{
	config.VariantDesktop,
	config.VariantMobile,
	config.VariantHardcore,
}

var variantBlurb = map[config.Variant]string{
	config.VariantDesktop:  "every block is a hazard",
	config.VariantMobile:   "shoot, sell blocks are safe",
	config.VariantHardcore: "double speed, more power-ups",
}
