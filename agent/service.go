package agent

import (
	"github.com/njculpin/feint/game"
	"github.com/njculpin/feint/model"
)

// Service is the single arbitration point through which the opponent reads
// and mutates match state. The game session implements it; tests substitute
// fakes. The opponent never holds live squad storage.
type Service interface {
	Snapshot() game.Snapshot
	TryMove(side model.Side, ids []int, dir model.Direction) error
}
