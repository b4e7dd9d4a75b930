package game

import "github.com/njculpin/feint/model"

type transitionKind int

const (
	transitionRoll transitionKind = iota
	transitionRotate
)

// transition is the in-flight state of a die: Idle → Transitioning → Idle,
// advanced one step per Session.Tick. Keeping progress explicit (instead of
// completion callbacks) makes outcomes testable without a clock.
type transition struct {
	kind     transitionKind
	dir      model.Direction
	spin     model.Spin
	from, to model.Cell
	progress int
	total    int
}

// Die is one piece on the board. Cell is its settled grid position; while a
// roll is in flight the die's world position is interpolated between the
// transition endpoints.
type Die struct {
	ID          int
	Side        model.Side
	Cell        model.Cell
	Orientation model.Orientation

	transition *transition
}

// TopFace returns the pip value currently facing up.
func (d *Die) TopFace() int { return d.Orientation.Top() }

// Busy reports whether the die is mid-transition and therefore rejects
// new commands.
func (d *Die) Busy() bool { return d.transition != nil }

// worldPos returns the die's current world position, interpolated along the
// travel path while a roll is in flight. Collision and capture are sampled
// against this position every tick, not just at the endpoints.
func (d *Die) worldPos(b *model.Board) (x, z float64) {
	if t := d.transition; t != nil && t.kind == transitionRoll {
		fx, fz := b.CellToWorld(t.from)
		tx, tz := b.CellToWorld(t.to)
		frac := float64(t.progress) / float64(t.total)
		return fx + (tx-fx)*frac, fz + (tz-fz)*frac
	}
	return b.CellToWorld(d.Cell)
}
