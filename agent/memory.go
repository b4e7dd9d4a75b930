package agent

import "github.com/njculpin/feint/model"

// memoryDepth bounds the per-die position history; revisitWindow is how far
// back the fallback scorer looks when penalizing backtracking.
const (
	memoryDepth   = 6
	revisitWindow = 3
)

// history is a bounded ring of one die's recent positions, used only to
// detect and break movement loops. It has no effect on legality.
type history struct {
	cells []model.Cell
}

func (h *history) record(c model.Cell) {
	h.cells = append(h.cells, c)
	if len(h.cells) > memoryDepth {
		h.cells = h.cells[len(h.cells)-memoryDepth:]
	}
}

// visitedRecently reports whether the cell appears in the last
// revisitWindow recorded positions.
func (h *history) visitedRecently(c model.Cell) bool {
	start := len(h.cells) - revisitWindow
	if start < 0 {
		start = 0
	}
	for _, p := range h.cells[start:] {
		if p == c {
			return true
		}
	}
	return false
}

// oscillating reports a 2-cycle: the die has been bouncing between the same
// two cells for the last two pairs of moves.
func (h *history) oscillating() bool {
	n := len(h.cells)
	if n < 4 {
		return false
	}
	return h.cells[n-1] == h.cells[n-3] && h.cells[n-2] == h.cells[n-4]
}
