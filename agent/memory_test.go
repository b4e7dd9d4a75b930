package agent

import (
	"testing"

	"github.com/njculpin/feint/model"
)

func TestHistoryOscillating(t *testing.T) {
	a := model.Cell{Col: 2, Row: 2}
	b := model.Cell{Col: 3, Row: 2}
	c := model.Cell{Col: 2, Row: 3}

	var h history
	for _, cell := range []model.Cell{a, b, a} {
		h.record(cell)
	}
	if h.oscillating() {
		t.Error("three entries flagged as oscillating")
	}
	h.record(b)
	if !h.oscillating() {
		t.Error("a,b,a,b not flagged as oscillating")
	}

	var h2 history
	for _, cell := range []model.Cell{a, b, c, b} {
		h2.record(cell)
	}
	if h2.oscillating() {
		t.Error("a,b,c,b flagged as oscillating")
	}
}

func TestHistoryVisitedRecently(t *testing.T) {
	var h history
	if h.visitedRecently(model.Cell{Col: 0, Row: 0}) {
		t.Error("empty history reported a visit")
	}
	for col := 0; col < 5; col++ {
		h.record(model.Cell{Col: col, Row: 0})
	}
	// Window covers the last three entries only.
	if h.visitedRecently(model.Cell{Col: 1, Row: 0}) {
		t.Error("cell outside the window reported as recent")
	}
	if !h.visitedRecently(model.Cell{Col: 2, Row: 0}) || !h.visitedRecently(model.Cell{Col: 4, Row: 0}) {
		t.Error("cell inside the window not reported as recent")
	}
}

func TestHistoryDepthBound(t *testing.T) {
	var h history
	for col := 0; col < 10; col++ {
		h.record(model.Cell{Col: col, Row: 0})
	}
	if len(h.cells) != memoryDepth {
		t.Fatalf("history length = %d, want %d", len(h.cells), memoryDepth)
	}
	if h.cells[0] != (model.Cell{Col: 4, Row: 0}) || h.cells[memoryDepth-1] != (model.Cell{Col: 9, Row: 0}) {
		t.Errorf("history window = %v", h.cells)
	}
}
