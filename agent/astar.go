package agent

import (
	"container/heap"

	"github.com/njculpin/feint/model"
)

// searchGrid is the static view of one pathfinding query: board bounds,
// blocked cells, and cells passable only as the goal (opposing dice —
// stepping onto one is a deliberate collision or capture, never a pass-through).
type searchGrid struct {
	size     int
	blocked  map[model.Cell]bool
	goalOnly map[model.Cell]bool
	goal     model.Cell
}

func (g *searchGrid) passable(c model.Cell) bool {
	if c.Col < 0 || c.Col >= g.size || c.Row < 0 || c.Row >= g.size {
		return false
	}
	if g.blocked[c] {
		return false
	}
	if g.goalOnly[c] && c != g.goal {
		return false
	}
	return true
}

type pathNode struct {
	cell   model.Cell
	g      int // cost from start, 1 per step
	f      int // g + Manhattan heuristic
	index  int
	parent *pathNode
}

type openSet []*pathNode

func (s openSet) Len() int            { return len(s) }
func (s openSet) Less(i, j int) bool  { return s[i].f < s[j].f }
func (s openSet) Swap(i, j int)       { s[i], s[j] = s[j], s[i]; s[i].index = i; s[j].index = j }
func (s *openSet) Push(x any)         { n := x.(*pathNode); n.index = len(*s); *s = append(*s, n) }
func (s *openSet) Pop() any {
	old := *s
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*s = old[:len(old)-1]
	return n
}

// findPath runs 4-connected A* with unit step cost and the Manhattan
// heuristic. It returns the path from start to goal inclusive, or nil when
// the goal is unreachable.
func findPath(g *searchGrid, start model.Cell) []model.Cell {
	if start == g.goal {
		return []model.Cell{start}
	}

	open := &openSet{}
	heap.Init(open)
	heap.Push(open, &pathNode{cell: start, g: 0, f: start.Manhattan(g.goal)})
	bestG := map[model.Cell]int{start: 0}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if cur.cell == g.goal {
			var path []model.Cell
			for n := cur; n != nil; n = n.parent {
				path = append(path, n.cell)
			}
			// reverse: built goal→start
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, dir := range model.Directions {
			next := cur.cell.Step(dir)
			if !g.passable(next) {
				continue
			}
			ng := cur.g + 1
			if prev, seen := bestG[next]; seen && prev <= ng {
				continue
			}
			bestG[next] = ng
			heap.Push(open, &pathNode{
				cell:   next,
				g:      ng,
				f:      ng + next.Manhattan(g.goal),
				parent: cur,
			})
		}
	}
	return nil
}

// firstStep returns the direction of the first step along a path of at
// least two cells.
func firstStep(path []model.Cell) (model.Direction, bool) {
	if len(path) < 2 {
		return 0, false
	}
	from, to := path[0], path[1]
	for _, dir := range model.Directions {
		if from.Step(dir) == to {
			return dir, true
		}
	}
	return 0, false
}
