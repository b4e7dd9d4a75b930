package model

import (
	"math"
	"testing"
)

func TestCellWorldRoundTrip(t *testing.T) {
	b := NewBoard(9, 1)
	for col := 0; col < 9; col++ {
		for row := 0; row < 9; row++ {
			c := Cell{Col: col, Row: row}
			x, z := b.CellToWorld(c)
			if !b.WithinBoundaries(x, z) {
				t.Errorf("cell %v center (%v, %v) outside boundaries", c, x, z)
			}
			got, err := b.WorldToCell(x, z)
			if err != nil {
				t.Fatalf("WorldToCell(%v, %v): %v", x, z, err)
			}
			if got != c {
				t.Errorf("round trip %v → (%v, %v) → %v", c, x, z, got)
			}
		}
	}
}

func TestBoundaryLimit(t *testing.T) {
	b := NewBoard(9, 1)
	if got := b.BoundaryLimit(); got != 4 {
		t.Errorf("boundary limit = %v, want 4", got)
	}
	if b.WithinBoundaries(4.6, 0) {
		t.Error("position past the boundary accepted")
	}
	if !b.WithinBoundaries(-4, 4) {
		t.Error("corner cell center rejected")
	}
}

func TestWorldToCellRejectsBadInput(t *testing.T) {
	b := NewBoard(9, 1)
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := b.WorldToCell(v, 0); err == nil {
			t.Errorf("WorldToCell(%v, 0) should fail", v)
		}
	}
	if _, err := b.WorldToCell(40, 0); err == nil {
		t.Error("off-board position should fail")
	}
	if b.WithinBoundaries(math.NaN(), 0) {
		t.Error("NaN accepted as within boundaries")
	}
}

func TestFlagCells(t *testing.T) {
	b := NewBoard(9, 1)
	if got := b.FlagCell(SideA); got != (Cell{Col: 4, Row: 8}) {
		t.Errorf("side A flag = %v", got)
	}
	if got := b.FlagCell(SideB); got != (Cell{Col: 4, Row: 0}) {
		t.Errorf("side B flag = %v", got)
	}
	if !b.IsFlagCell(Cell{Col: 4, Row: 8}, SideA) || b.IsFlagCell(Cell{Col: 4, Row: 8}, SideB) {
		t.Error("IsFlagCell mismatch")
	}
}

func TestSpawnCells(t *testing.T) {
	b := NewBoard(9, 1)
	a := b.SpawnCells(SideA, 6)
	bb := b.SpawnCells(SideB, 6)
	if len(a) != 6 || len(bb) != 6 {
		t.Fatalf("spawn counts = %d, %d", len(a), len(bb))
	}
	for _, c := range a {
		if c.Row != 7 || !b.InGrid(c) {
			t.Errorf("side A spawn cell %v not on row 7", c)
		}
	}
	for _, c := range bb {
		if c.Row != 1 || !b.InGrid(c) {
			t.Errorf("side B spawn cell %v not on row 1", c)
		}
	}
}

func TestDirectionSteps(t *testing.T) {
	c := Cell{Col: 3, Row: 3}
	tests := []struct {
		dir  Direction
		want Cell
	}{
		{North, Cell{3, 2}},
		{South, Cell{3, 4}},
		{East, Cell{4, 3}},
		{West, Cell{2, 3}},
	}
	for _, tt := range tests {
		if got := c.Step(tt.dir); got != tt.want {
			t.Errorf("step %s = %v, want %v", tt.dir, got, tt.want)
		}
		if back := c.Step(tt.dir).Step(tt.dir.Opposite()); back != c {
			t.Errorf("step %s then back = %v", tt.dir, back)
		}
	}
}
