package agent

import (
	"math/rand/v2"
	"testing"

	"github.com/njculpin/feint/game"
	"github.com/njculpin/feint/model"
)

type moveCall struct {
	side model.Side
	ids  []int
	dir  model.Direction
}

type fakeService struct {
	snap  game.Snapshot
	calls []moveCall
	err   error
}

func (f *fakeService) Snapshot() game.Snapshot { return f.snap }

func (f *fakeService) TryMove(side model.Side, ids []int, dir model.Direction) error {
	f.calls = append(f.calls, moveCall{side: side, ids: ids, dir: dir})
	return f.err
}

func view(id int, side model.Side, col, row, top int) game.DieView {
	return game.DieView{ID: id, Side: side, Cell: model.Cell{Col: col, Row: row}, TopFace: top}
}

func testSnapshot(dice ...game.DieView) game.Snapshot {
	return game.Snapshot{
		GridSize: 9,
		CellSize: 1,
		Dice:     dice,
		FlagA:    model.Cell{Col: 4, Row: 8},
		FlagB:    model.Cell{Col: 4, Row: 0},
	}
}

func newTestOpponent(t *testing.T, svc Service) *Opponent {
	t.Helper()
	opp, err := NewOpponent(svc, model.SideB, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("NewOpponent: %v", err)
	}
	return opp
}

func TestActMarchesOnEnemyFlag(t *testing.T) {
	// One die, three cells from the human flag, nothing threatening its own.
	svc := &fakeService{snap: testSnapshot(view(1, model.SideB, 4, 5, 6))}
	opp := newTestOpponent(t, svc)

	opp.Act()

	if len(svc.calls) != 1 {
		t.Fatalf("calls = %v, want one move", svc.calls)
	}
	call := svc.calls[0]
	if call.side != model.SideB || len(call.ids) != 1 || call.ids[0] != 1 {
		t.Errorf("moved %v for %s, want die 1 for side B", call.ids, call.side)
	}
	if call.dir != model.South {
		t.Errorf("direction = %s, want south toward the flag", call.dir)
	}

	// The accepted move's destination lands in the loop-detection history.
	opp.mu.Lock()
	h := opp.memory[1]
	opp.mu.Unlock()
	if h == nil || len(h.cells) != 1 || h.cells[0] != (model.Cell{Col: 4, Row: 6}) {
		t.Errorf("history = %+v, want the destination cell", h)
	}
}

func TestActSkipsTerminalMatch(t *testing.T) {
	snap := testSnapshot(view(1, model.SideB, 4, 5, 6))
	snap.GameOver = true
	svc := &fakeService{snap: snap}
	opp := newTestOpponent(t, svc)

	opp.Act()

	if len(svc.calls) != 0 {
		t.Errorf("moved %v in a finished match", svc.calls)
	}
}

func TestActSkipsWhenSubsetBusy(t *testing.T) {
	d := view(1, model.SideB, 4, 5, 6)
	d.Busy = true
	svc := &fakeService{snap: testSnapshot(d, view(2, model.SideB, 0, 1, 3))}
	opp := newTestOpponent(t, svc)

	opp.Act()

	// The rank-3 die is not in the highest-rank subset and may not move.
	if len(svc.calls) != 0 {
		t.Errorf("moved %v while the whole subset was busy", svc.calls)
	}
}

func TestActPicksFromHighestRankOnly(t *testing.T) {
	// The rank-3 die is nearer the flag but outside the movable subset.
	svc := &fakeService{snap: testSnapshot(
		view(1, model.SideB, 0, 4, 6),
		view(2, model.SideB, 4, 5, 3),
	)}
	opp := newTestOpponent(t, svc)

	opp.Act()

	if len(svc.calls) != 1 {
		t.Fatalf("calls = %v, want one move", svc.calls)
	}
	if ids := svc.calls[0].ids; len(ids) != 1 || ids[0] != 1 {
		t.Errorf("moved %v, want the rank-6 die", ids)
	}
}

func TestActInterceptsWhenDefensive(t *testing.T) {
	// A human die three cells from the opponent flag; pin the doctrine to
	// defensive so the die must head for the interception point at (4,2).
	svc := &fakeService{snap: testSnapshot(
		view(1, model.SideB, 2, 2, 6),
		view(2, model.SideA, 4, 3, 6),
	)}
	opp := newTestOpponent(t, svc)
	hold := []*PostureRule{{Name: "hold", ConditionSrc: "true", Posture: PostureDefensive}}
	if err := opp.Doctrine().Swap("test-hold", hold); err != nil {
		t.Fatalf("Swap: %v", err)
	}

	opp.Act()

	if len(svc.calls) != 1 {
		t.Fatalf("calls = %v, want one move", svc.calls)
	}
	if dir := svc.calls[0].dir; dir != model.East {
		t.Errorf("direction = %s, want east toward the interception point", dir)
	}
}

func TestActRejectedMoveLeavesNoHistory(t *testing.T) {
	svc := &fakeService{
		snap: testSnapshot(view(1, model.SideB, 4, 5, 6)),
		err:  game.ErrIllegalMove,
	}
	opp := newTestOpponent(t, svc)

	opp.Act()

	opp.mu.Lock()
	h := opp.memory[1]
	opp.mu.Unlock()
	if h != nil {
		t.Errorf("rejected move recorded history %+v", h)
	}
}

func TestThreatLevelBuckets(t *testing.T) {
	svc := &fakeService{}
	opp := newTestOpponent(t, svc)
	snap := testSnapshot(
		view(1, model.SideA, 4, 1, 6), // distance 1: close bucket + full value
		view(2, model.SideA, 4, 4, 3), // distance 4: mid bucket + half value
		view(3, model.SideA, 4, 6, 6), // distance 6: far bucket + full value
		view(4, model.SideA, 4, 8, 6), // out of range: no contribution
	)
	if got := opp.threatLevel(snap); got != 8.5 {
		t.Errorf("threat level = %v, want 8.5", got)
	}
}

func TestFallbackDirectionPrefersFlag(t *testing.T) {
	svc := &fakeService{}
	opp := newTestOpponent(t, svc)
	die := view(1, model.SideB, 4, 7, 6)
	snap := testSnapshot(die)

	dir, ok := opp.fallbackDirection(snap, die, snap.FlagA)
	if !ok || dir != model.South {
		t.Errorf("fallback = %s, %v; want south onto the flag", dir, ok)
	}
}

func TestFallbackDirectionSkipsOwnSide(t *testing.T) {
	// South is the opponent's own flag, west its own die. The opposing die
	// to the east draws the capture bonus.
	die := view(1, model.SideB, 4, 1, 6)
	svc := &fakeService{}
	opp := newTestOpponent(t, svc)
	snap := testSnapshot(
		die,
		view(2, model.SideB, 3, 1, 4),
		view(3, model.SideA, 5, 1, 2),
	)

	dir, ok := opp.fallbackDirection(snap, die, snap.FlagB)
	if !ok || dir != model.East {
		t.Errorf("fallback = %s, %v; want east onto the opposing die", dir, ok)
	}
}

func TestFallbackDirectionPenalizesRevisit(t *testing.T) {
	die := view(1, model.SideB, 2, 2, 6)
	svc := &fakeService{}
	opp := newTestOpponent(t, svc)
	snap := testSnapshot(die)

	h := &history{}
	h.record(model.Cell{Col: 1, Row: 2})
	opp.mu.Lock()
	opp.memory[1] = h
	opp.mu.Unlock()

	// West is the shortest step toward the goal but was just visited; the
	// penalty pushes the die onto a fresh cell instead.
	dir, ok := opp.fallbackDirection(snap, die, model.Cell{Col: 0, Row: 2})
	if !ok || dir == model.West {
		t.Errorf("fallback = %s, %v; want a direction away from the revisit", dir, ok)
	}
}
