package agent

import (
	"testing"

	"github.com/njculpin/feint/model"
)

func openGrid(size int, goal model.Cell) *searchGrid {
	return &searchGrid{
		size:     size,
		blocked:  make(map[model.Cell]bool),
		goalOnly: make(map[model.Cell]bool),
		goal:     goal,
	}
}

func TestFindPathStraightLine(t *testing.T) {
	g := openGrid(5, model.Cell{Col: 3, Row: 0})
	path := findPath(g, model.Cell{Col: 0, Row: 0})
	if len(path) != 4 {
		t.Fatalf("path = %v, want 4 cells", path)
	}
	if path[0] != (model.Cell{Col: 0, Row: 0}) || path[3] != g.goal {
		t.Errorf("path endpoints = %v and %v", path[0], path[3])
	}
	for i := 1; i < len(path); i++ {
		if path[i-1].Manhattan(path[i]) != 1 {
			t.Errorf("non-adjacent step %v → %v", path[i-1], path[i])
		}
	}
}

func TestFindPathStartIsGoal(t *testing.T) {
	start := model.Cell{Col: 2, Row: 2}
	path := findPath(openGrid(5, start), start)
	if len(path) != 1 || path[0] != start {
		t.Errorf("path = %v, want just the start", path)
	}
}

func TestFindPathDetoursAroundWall(t *testing.T) {
	g := openGrid(5, model.Cell{Col: 4, Row: 2})
	for row := 0; row <= 3; row++ {
		g.blocked[model.Cell{Col: 2, Row: row}] = true
	}
	path := findPath(g, model.Cell{Col: 0, Row: 2})
	if path == nil {
		t.Fatal("no path found around the wall")
	}
	// Straight-line distance is 4; the only opening is row 4, so the
	// shortest detour is 8 steps.
	if len(path) != 9 {
		t.Errorf("path length = %d cells, want 9", len(path))
	}
	for _, c := range path {
		if g.blocked[c] {
			t.Errorf("path crosses blocked cell %v", c)
		}
	}
}

func TestFindPathGoalOnlyCells(t *testing.T) {
	// An opposing die on the goal cell terminates the path.
	goal := model.Cell{Col: 2, Row: 0}
	g := openGrid(5, goal)
	g.goalOnly[goal] = true
	if path := findPath(g, model.Cell{Col: 0, Row: 0}); len(path) != 3 {
		t.Errorf("path to occupied goal = %v, want 3 cells", path)
	}

	// The same occupant mid-route cannot be passed through.
	g2 := openGrid(5, model.Cell{Col: 4, Row: 0})
	g2.goalOnly[goal] = true
	path := findPath(g2, model.Cell{Col: 0, Row: 0})
	if path == nil {
		t.Fatal("no path found around the occupied cell")
	}
	for _, c := range path {
		if c == goal {
			t.Errorf("path passes through occupied cell %v", c)
		}
	}
	if len(path) != 7 {
		t.Errorf("detour length = %d cells, want 7", len(path))
	}
}

func TestFindPathUnreachable(t *testing.T) {
	g := openGrid(5, model.Cell{Col: 4, Row: 4})
	for _, c := range []model.Cell{{Col: 1, Row: 0}, {Col: 0, Row: 1}, {Col: 1, Row: 1}} {
		g.blocked[c] = true
	}
	if path := findPath(g, model.Cell{Col: 0, Row: 0}); path != nil {
		t.Errorf("boxed-in start produced path %v", path)
	}
}

func TestFirstStep(t *testing.T) {
	tests := []struct {
		path []model.Cell
		want model.Direction
		ok   bool
	}{
		{[]model.Cell{{Col: 2, Row: 2}, {Col: 2, Row: 1}}, model.North, true},
		{[]model.Cell{{Col: 2, Row: 2}, {Col: 3, Row: 2}}, model.East, true},
		{[]model.Cell{{Col: 2, Row: 2}}, 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		dir, ok := firstStep(tt.path)
		if ok != tt.ok || (ok && dir != tt.want) {
			t.Errorf("firstStep(%v) = %v, %v", tt.path, dir, ok)
		}
	}
}
