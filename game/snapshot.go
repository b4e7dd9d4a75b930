package game

import "github.com/njculpin/feint/model"

// DieView is a read-only copy of one die for consumers outside the session:
// the renderer reads it once per frame, the AI reads it once per decision.
type DieView struct {
	ID      int
	Side    model.Side
	Cell    model.Cell
	X, Z    float64
	TopFace int
	Faces   model.FaceMap
	Busy    bool
}

// Snapshot is a consistent read-only copy of match state. Mutation only ever
// happens through the session's command methods, so the AI and the renderer
// can never alias live squad storage.
type Snapshot struct {
	Tick     int
	GridSize int
	CellSize float64
	Dice     []DieView
	Selected []int
	FlagA    model.Cell
	FlagB    model.Cell
	GameOver bool
	Winner   model.Side
}

// SquadOf returns the views of one side's live dice.
func (s Snapshot) SquadOf(side model.Side) []DieView {
	var out []DieView
	for _, d := range s.Dice {
		if d.Side == side {
			out = append(out, d)
		}
	}
	return out
}

// HighestRankOf mirrors HighestRank over snapshot views.
func (s Snapshot) HighestRankOf(side model.Side) ([]DieView, int) {
	rank := 0
	for _, d := range s.Dice {
		if d.Side == side && d.TopFace > rank {
			rank = d.TopFace
		}
	}
	if rank == 0 {
		return nil, 0
	}
	var subset []DieView
	for _, d := range s.Dice {
		if d.Side == side && d.TopFace == rank {
			subset = append(subset, d)
		}
	}
	return subset, rank
}

// FlagOf returns the flag anchor for a side.
func (s Snapshot) FlagOf(side model.Side) model.Cell {
	if side == model.SideA {
		return s.FlagA
	}
	return s.FlagB
}

// DieAt returns the view of the die settled on or moving from the given
// cell, if any.
func (s Snapshot) DieAt(c model.Cell) (DieView, bool) {
	for _, d := range s.Dice {
		if d.Cell == c {
			return d, true
		}
	}
	return DieView{}, false
}
