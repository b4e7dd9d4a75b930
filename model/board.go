package model

import (
	"fmt"
	"math"
)

// Side identifies a squad. Side A is the south squad (the human by
// default); side B spawns mirrored at the north edge.
type Side int

const (
	SideNone Side = iota
	SideA
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	}
	return "none"
}

// Opponent returns the opposing side, or SideNone for SideNone.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	}
	return SideNone
}

// Cell is a grid coordinate. Columns grow eastward, rows grow southward.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Step returns the neighboring cell in the given direction.
func (c Cell) Step(d Direction) Cell {
	dc, dr := d.Delta()
	return Cell{Col: c.Col + dc, Row: c.Row + dr}
}

// Manhattan returns the grid distance between two cells.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.Col-o.Col) + abs(c.Row-o.Row)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Board maps between grid cells and world coordinates and anchors the two
// flags. World positions are centered on the origin, so legal cell centers
// lie within ±boundaryLimit on both axes.
type Board struct {
	GridSize int
	CellSize float64

	boundaryLimit float64
}

// NewBoard builds a board of gridSize cells per side.
func NewBoard(gridSize int, cellSize float64) *Board {
	return &Board{
		GridSize:      gridSize,
		CellSize:      cellSize,
		boundaryLimit: float64(gridSize)*cellSize/2 - cellSize/2,
	}
}

// BoundaryLimit is the half-extent of legal cell centers.
func (b *Board) BoundaryLimit() float64 { return b.boundaryLimit }

// InGrid reports whether the cell lies on the board.
func (b *Board) InGrid(c Cell) bool {
	return c.Col >= 0 && c.Col < b.GridSize && c.Row >= 0 && c.Row < b.GridSize
}

// WithinBoundaries reports whether a world position lies on the board.
func (b *Board) WithinBoundaries(x, z float64) bool {
	if !isFinite(x) || !isFinite(z) {
		return false
	}
	// Slack for float error so edge-row cell centers pass the comparison.
	const eps = 1e-9
	return math.Abs(x) <= b.boundaryLimit+eps && math.Abs(z) <= b.boundaryLimit+eps
}

// CellToWorld returns the world-space center of a cell.
func (b *Board) CellToWorld(c Cell) (x, z float64) {
	x = -b.boundaryLimit + float64(c.Col)*b.CellSize
	z = -b.boundaryLimit + float64(c.Row)*b.CellSize
	return x, z
}

// WorldToCell snaps a world position to its grid cell. It is the exact
// inverse of CellToWorld for on-grid positions; non-finite or off-board
// positions are rejected.
func (b *Board) WorldToCell(x, z float64) (Cell, error) {
	if !isFinite(x) || !isFinite(z) {
		return Cell{}, fmt.Errorf("non-finite world position (%v, %v)", x, z)
	}
	c := Cell{
		Col: int(math.Round((x + b.boundaryLimit) / b.CellSize)),
		Row: int(math.Round((z + b.boundaryLimit) / b.CellSize)),
	}
	if !b.InGrid(c) {
		return Cell{}, fmt.Errorf("world position (%v, %v) is off the board", x, z)
	}
	return c, nil
}

// FlagCell returns the flag anchor for a side: the center column of that
// side's home edge. A squad's own flag sits at its spawn origin.
func (b *Board) FlagCell(s Side) Cell {
	mid := b.GridSize / 2
	if s == SideA {
		return Cell{Col: mid, Row: b.GridSize - 1}
	}
	return Cell{Col: mid, Row: 0}
}

// IsFlagCell reports whether the cell is the given side's flag anchor.
func (b *Board) IsFlagCell(c Cell, s Side) bool {
	return c == b.FlagCell(s)
}

// SpawnCells returns a side's initial dice placement: a centered run of
// cells on the row in front of that side's flag.
func (b *Board) SpawnCells(s Side, count int) []Cell {
	row := 1
	if s == SideA {
		row = b.GridSize - 2
	}
	start := (b.GridSize - count) / 2
	cells := make([]Cell, 0, count)
	for i := 0; i < count; i++ {
		cells = append(cells, Cell{Col: start + i, Row: row})
	}
	return cells
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
