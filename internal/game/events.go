package game

import (
	"github.com/charmbracelet/log"

	"github.com/tomz197/cellbreak/internal/object"
)

// EventKind names an audio/feedback signal emitted by the simulation.
type EventKind string

const (
	EventDash         EventKind = "dash"
	EventExplosion    EventKind = "explosion"
	EventPowerUp      EventKind = "powerup"
	EventDeath        EventKind = "death"
	EventPerfectDodge EventKind = "perfectDodge"
	EventScoreBonus   EventKind = "scoreBonus"
	EventCombo        EventKind = "combo"
	EventNearMiss     EventKind = "nearMiss"
	EventAchievement  EventKind = "achievement"
)

// Event is a side-channel signal. Only the fields relevant to Kind are set.
type Event struct {
	Kind        EventKind
	Multiplier  int                // combo
	Distance    float64            // nearMiss, perfectDodge
	Points      int                // scoreBonus, perfectDodge, achievement
	PowerUp     object.PowerUpKind // powerup
	Achievement string             // achievement
}

// EventSink receives events after each tick. Implementations must not
// block; the simulation never observes their failures.
type EventSink interface {
	HandleEvent(e Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(e Event)

// HandleEvent implements EventSink.
func (f EventSinkFunc) HandleEvent(e Event) {
	f(e)
}

// dispatch delivers events to every sink, recovering from sink panics.
func dispatch(logger *log.Logger, sinks []EventSink, events []Event) {
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		for _, e := range events {
			deliver(logger, sink, e)
		}
	}
}

func deliver(logger *log.Logger, sink EventSink, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("event sink panicked", "event", e.Kind, "panic", r)
		}
	}()
	sink.HandleEvent(e)
}
