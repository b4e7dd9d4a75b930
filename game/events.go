package game

import "github.com/njculpin/feint/model"

// Outcome classifies how a die's transition settled.
type Outcome string

const (
	OutcomeRelocated Outcome = "relocated"
	OutcomeRotated   Outcome = "rotated"
	OutcomeCollided  Outcome = "collided"
	OutcomeCaptured  Outcome = "captured"
)

// EventKind discriminates the event union.
type EventKind int

const (
	EventMoveSettled EventKind = iota
	EventGameOver
)

// Event is a settlement notification for the presentation layer. Events are
// purely cosmetic triggers (explosions, camera, banner text); consuming or
// dropping them has no effect on match state.
type Event struct {
	Kind    EventKind
	DieID   int
	Outcome Outcome
	Winner  model.Side // EventGameOver only; SideNone means a draw
}
