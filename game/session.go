package game

import (
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/njculpin/feint/model"
)

// Options carries the board and pacing parameters for a match. The two
// tolerances are empirically tuned fractions of a cell width; changing them
// changes how aggressively passes and near-misses resolve.
type Options struct {
	GridSize           int
	CellSize           float64
	SquadSize          int
	TransitionTicks    int
	CollisionTolerance float64
	FlagTolerance      float64
	HumanSide          model.Side
}

// DefaultOptions returns the standard 9x9 match setup.
func DefaultOptions() Options {
	return Options{
		GridSize:           9,
		CellSize:           1,
		SquadSize:          6,
		TransitionTicks:    4,
		CollisionTolerance: 0.8,
		FlagTolerance:      0.1,
		HumanSide:          model.SideA,
	}
}

// Session owns all mutable match state and is the single arbitration point
// for both the human command path and the AI. Every read goes through
// Snapshot, every mutation through a command method; nothing else ever
// holds a reference to live squad storage.
type Session struct {
	mu   sync.Mutex
	opts Options

	board    *model.Board
	dice     []*Die
	occupied map[model.Cell]int // ledger: settled cell → die ID
	pending  map[model.Cell]int // in-flight roll destinations → die ID

	selected  map[int]bool
	cursor    model.Cell
	hasCursor bool

	tick     int
	gameOver bool
	winner   model.Side

	events []Event
	rng    *rand.Rand
}

// NewSession sets up a fresh match: both squads on their spawn rows with
// randomized top faces, empty selection, flags at the home edges.
func NewSession(opts Options, rng *rand.Rand) *Session {
	// A single-tick transition only ever samples the endpoints, where two
	// dice swapping cells sit a full cell apart and would slip past the
	// collision check. At least one mid-flight sample is required.
	if opts.TransitionTicks < 2 {
		opts.TransitionTicks = 2
	}
	s := &Session{opts: opts, rng: rng}
	s.setup()
	return s
}

func (s *Session) setup() {
	s.board = model.NewBoard(s.opts.GridSize, s.opts.CellSize)
	s.dice = nil
	s.occupied = make(map[model.Cell]int)
	s.pending = make(map[model.Cell]int)
	s.selected = make(map[int]bool)
	s.hasCursor = false
	s.tick = 0
	s.gameOver = false
	s.winner = model.SideNone
	s.events = nil

	id := 0
	for _, side := range []model.Side{model.SideA, model.SideB} {
		for _, cell := range s.board.SpawnCells(side, s.opts.SquadSize) {
			id++
			o, _ := model.WithTop(s.rng.IntN(6) + 1)
			d := &Die{ID: id, Side: side, Cell: cell, Orientation: o}
			s.dice = append(s.dice, d)
			s.occupied[cell] = d.ID
		}
	}
	s.refreshSelection()
}

// Restart throws away the match and re-initializes squads, board, and
// selection. The AI's oscillation memory is owned by the opponent and must
// be reset by the caller alongside this.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setup()
}

// Winner returns the terminal result. SideNone with gameOver true is a draw.
func (s *Session) Winner() (model.Side, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winner, s.gameOver
}

func (s *Session) findDie(id int) *Die {
	for _, d := range s.dice {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (s *Session) squad(side model.Side) []*Die {
	var out []*Die
	for _, d := range s.dice {
		if d.Side == side {
			out = append(out, d)
		}
	}
	return out
}

func (s *Session) anyBusy(side model.Side) bool {
	for _, d := range s.dice {
		if d.Side == side && d.Busy() {
			return true
		}
	}
	return false
}

// Select replaces the human selection with a single die. The die must be in
// the human squad's highest-rank subset; a stale reference triggers a
// selection refresh instead of a move.
func (s *Session) Select(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver {
		return ErrTerminalState
	}
	d := s.findDie(id)
	if d == nil || d.Side != s.opts.HumanSide {
		return ErrNotControllable
	}
	if !s.inHighestRank(d) {
		s.refreshSelection()
		return ErrNotControllable
	}
	s.selected = map[int]bool{id: true}
	s.cursor = d.Cell
	s.hasCursor = true
	return nil
}

// ToggleSelect adds or removes one die from the multi-selection. Clearing
// the last die is allowed; the selection is not auto-refilled until ranks
// next change.
func (s *Session) ToggleSelect(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver {
		return ErrTerminalState
	}
	if s.selected[id] {
		delete(s.selected, id)
		return nil
	}
	d := s.findDie(id)
	if d == nil || d.Side != s.opts.HumanSide {
		return ErrNotControllable
	}
	if !s.inHighestRank(d) {
		s.refreshSelection()
		return ErrNotControllable
	}
	s.selected[id] = true
	s.cursor = d.Cell
	s.hasCursor = true
	return nil
}

// MoveCursor steps the selection cursor and auto-selects the highest-rank
// die nearest to it. Purely a presentation convenience; it never moves a die.
func (s *Session) MoveCursor(dir model.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver {
		return ErrTerminalState
	}
	if !dir.Valid() {
		return ErrInvalidDirection
	}
	c := s.cursor
	if !s.hasCursor {
		c = model.Cell{Col: s.opts.GridSize / 2, Row: s.opts.GridSize / 2}
	}
	if next := c.Step(dir); s.board.InGrid(next) {
		c = next
	}
	s.cursor = c
	s.hasCursor = true

	subset, _ := HighestRank(s.squad(s.opts.HumanSide))
	if nearest := nearestDie(subset, c); nearest != nil {
		s.selected = map[int]bool{nearest.ID: true}
	}
	return nil
}

// MoveSelected rolls every selected die one cell in the given direction as
// one atomic command: unless every member passes the legality gate, nothing
// moves. New human commands are additionally gated on the whole squad being
// settled, which keeps selection bookkeeping consistent mid-resolution.
func (s *Session) MoveSelected(dir model.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver {
		return ErrTerminalState
	}
	if s.anyBusy(s.opts.HumanSide) {
		return ErrBusy
	}
	return s.tryMoveLocked(s.opts.HumanSide, s.selectedIDs(), dir)
}

// RotateSelected spins every selected die 90° in place. Same atomicity and
// squad-settled gating as MoveSelected.
func (s *Session) RotateSelected(spin model.Spin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver {
		return ErrTerminalState
	}
	if s.anyBusy(s.opts.HumanSide) {
		return ErrBusy
	}
	return s.tryRotateLocked(s.opts.HumanSide, s.selectedIDs(), spin)
}

// TryMove is the shared arbitration entry point: the AI issues its moves
// here, one die at a time, under exactly the same legality gate as the
// human path (minus the squad-level settled gate, which is human-only).
func (s *Session) TryMove(side model.Side, ids []int, dir model.Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver {
		return ErrTerminalState
	}
	return s.tryMoveLocked(side, ids, dir)
}

// TryRotate is the rotation counterpart of TryMove.
func (s *Session) TryRotate(side model.Side, ids []int, spin model.Spin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver {
		return ErrTerminalState
	}
	return s.tryRotateLocked(side, ids, spin)
}

// tryMoveLocked runs the legality gate for every acting die, then commits
// all transitions simultaneously. All-or-nothing: the first rejection
// aborts the whole command with no state touched.
func (s *Session) tryMoveLocked(side model.Side, ids []int, dir model.Direction) error {
	if !dir.Valid() {
		return ErrInvalidDirection
	}
	if len(ids) == 0 {
		return ErrNotControllable
	}

	movers := make(map[int]bool, len(ids))
	for _, id := range ids {
		movers[id] = true
	}

	acting := make([]*Die, 0, len(ids))
	for _, id := range ids {
		d := s.findDie(id)
		if d == nil || d.Side != side {
			return ErrNotControllable
		}
		if d.Busy() {
			return ErrBusy
		}
		if !s.inHighestRank(d) {
			return ErrNotControllable
		}

		candidate := d.Cell.Step(dir)
		if !s.board.InGrid(candidate) {
			return ErrIllegalMove
		}
		// A cell occupied by a co-moving die is being vacated this command
		// and stays legal; any other same-squad occupant blocks.
		if occID, ok := s.occupied[candidate]; ok && !movers[occID] {
			if occ := s.findDie(occID); occ != nil && occ.Side == side {
				return ErrIllegalMove
			}
		}
		if pendID, ok := s.pending[candidate]; ok {
			if p := s.findDie(pendID); p != nil && p.Side == side {
				return ErrIllegalMove
			}
		}
		if s.board.IsFlagCell(candidate, side) {
			return ErrIllegalMove
		}
		// The opponent's flag cell and opposing-die cells pass through:
		// capture and collision are resolved in flight.
		acting = append(acting, d)
	}

	for _, d := range acting {
		to := d.Cell.Step(dir)
		d.transition = &transition{
			kind:  transitionRoll,
			dir:   dir,
			from:  d.Cell,
			to:    to,
			total: s.opts.TransitionTicks,
		}
		s.pending[to] = d.ID
	}
	return nil
}

func (s *Session) tryRotateLocked(side model.Side, ids []int, spin model.Spin) error {
	if len(ids) == 0 {
		return ErrNotControllable
	}
	acting := make([]*Die, 0, len(ids))
	for _, id := range ids {
		d := s.findDie(id)
		if d == nil || d.Side != side {
			return ErrNotControllable
		}
		if d.Busy() {
			return ErrBusy
		}
		if !s.inHighestRank(d) {
			return ErrNotControllable
		}
		acting = append(acting, d)
	}
	for _, d := range acting {
		d.transition = &transition{
			kind:  transitionRotate,
			spin:  spin,
			from:  d.Cell,
			to:    d.Cell,
			total: s.opts.TransitionTicks,
		}
	}
	return nil
}

// Tick advances every in-flight transition one step and resolves outcomes
// in priority order: flag capture, then collision, then settlement. It is
// the only place match state changes after a command is accepted.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver {
		return
	}
	s.tick++

	moving := false
	for _, d := range s.dice {
		if d.transition != nil {
			d.transition.progress++
			moving = true
		}
	}
	if !moving {
		return
	}

	if s.resolveCaptures() {
		return
	}
	changed := s.resolveCollisions()
	changed = s.settleTransitions() || changed

	if changed {
		s.refreshSelection()
		s.evaluateWin()
	}
}

// resolveCaptures checks every rolling die against the opposing flag. A hit
// ends the match immediately: the whole opposing squad is cleared and every
// still-in-flight sibling transition is aborted without settling.
func (s *Session) resolveCaptures() bool {
	tol := s.opts.FlagTolerance * s.opts.CellSize
	for _, d := range s.dice {
		if d.transition == nil || d.transition.kind != transitionRoll {
			continue
		}
		flag := s.board.FlagCell(d.Side.Opponent())
		fx, fz := s.board.CellToWorld(flag)
		x, z := d.worldPos(s.board)
		if math.Hypot(x-fx, z-fz) >= tol {
			continue
		}

		winner := d.Side
		var survivors []*Die
		for _, other := range s.dice {
			if other.Side == winner.Opponent() {
				delete(s.occupied, other.Cell)
				if t := other.transition; t != nil && t.kind == transitionRoll && s.pending[t.to] == other.ID {
					delete(s.pending, t.to)
				}
				delete(s.selected, other.ID)
				continue
			}
			survivors = append(survivors, other)
		}
		s.dice = survivors
		for _, other := range s.dice {
			if t := other.transition; t != nil && t.kind == transitionRoll && s.pending[t.to] == other.ID {
				delete(s.pending, t.to)
			}
			other.transition = nil
		}

		s.events = append(s.events, Event{Kind: EventMoveSettled, DieID: d.ID, Outcome: OutcomeCaptured})
		s.finish(winner)
		return true
	}
	return false
}

// resolveCollisions destroys every rolling die that comes within the
// collision tolerance of a live opposing die, together with that die.
// Positions are the interpolated in-flight ones, so two dice swapping
// through each other's cells in the same tick still collide.
func (s *Session) resolveCollisions() bool {
	tol := s.opts.CollisionTolerance * s.opts.CellSize
	destroyed := make(map[int]bool)

	for _, a := range s.dice {
		if a.transition == nil || a.transition.kind != transitionRoll || destroyed[a.ID] {
			continue
		}
		ax, az := a.worldPos(s.board)
		for _, b := range s.dice {
			if b.Side != a.Side.Opponent() || destroyed[b.ID] {
				continue
			}
			bx, bz := b.worldPos(s.board)
			if math.Hypot(ax-bx, az-bz) < tol {
				destroyed[a.ID] = true
				destroyed[b.ID] = true
				break
			}
		}
	}
	if len(destroyed) == 0 {
		return false
	}

	var survivors []*Die
	for _, d := range s.dice {
		if !destroyed[d.ID] {
			survivors = append(survivors, d)
			continue
		}
		if s.occupied[d.Cell] == d.ID {
			delete(s.occupied, d.Cell)
		}
		if t := d.transition; t != nil && t.kind == transitionRoll && s.pending[t.to] == d.ID {
			delete(s.pending, t.to)
		}
		delete(s.selected, d.ID)
		s.events = append(s.events, Event{Kind: EventMoveSettled, DieID: d.ID, Outcome: OutcomeCollided})
	}
	s.dice = survivors
	return true
}

// settleTransitions finishes transitions that ran their full span: the roll
// transposition (or in-place spin) is applied atomically and the occupancy
// ledger moves in lock-step with the relocation.
func (s *Session) settleTransitions() bool {
	changed := false
	for _, d := range s.dice {
		t := d.transition
		if t == nil || t.progress < t.total {
			continue
		}
		switch t.kind {
		case transitionRoll:
			d.Orientation = d.Orientation.Roll(t.dir)
			if s.occupied[t.from] == d.ID {
				delete(s.occupied, t.from)
			}
			s.occupied[t.to] = d.ID
			if s.pending[t.to] == d.ID {
				delete(s.pending, t.to)
			}
			d.Cell = t.to
			s.events = append(s.events, Event{Kind: EventMoveSettled, DieID: d.ID, Outcome: OutcomeRelocated})
		case transitionRotate:
			d.Orientation = d.Orientation.Rotate(t.spin)
			s.events = append(s.events, Event{Kind: EventMoveSettled, DieID: d.ID, Outcome: OutcomeRotated})
		}
		d.transition = nil
		changed = true
	}
	return changed
}

// evaluateWin applies the squad-emptiness terminal checks. Flag capture
// never reaches here; it short-circuits in resolveCaptures.
func (s *Session) evaluateWin() {
	if s.gameOver {
		return
	}
	countA, countB := 0, 0
	for _, d := range s.dice {
		switch d.Side {
		case model.SideA:
			countA++
		case model.SideB:
			countB++
		}
	}
	switch {
	case countA == 0 && countB > 0:
		s.finish(model.SideB)
	case countB == 0 && countA > 0:
		s.finish(model.SideA)
	case countA == 0 && countB == 0:
		s.finish(model.SideNone) // mutual destruction: a draw
	}
}

// finish latches the terminal state. One-way: nothing un-ends a match.
func (s *Session) finish(winner model.Side) {
	s.gameOver = true
	s.winner = winner
	s.events = append(s.events, Event{Kind: EventGameOver, Winner: winner})
}

func (s *Session) inHighestRank(d *Die) bool {
	subset, _ := HighestRank(s.squad(d.Side))
	for _, m := range subset {
		if m.ID == d.ID {
			return true
		}
	}
	return false
}

// refreshSelection prunes selected dice that fell out of the highest-rank
// subset and, if that empties the selection, auto-selects the subset member
// nearest the cursor (first in subset order when no cursor exists).
func (s *Session) refreshSelection() {
	subset, _ := HighestRank(s.squad(s.opts.HumanSide))
	inSubset := make(map[int]bool, len(subset))
	for _, d := range subset {
		inSubset[d.ID] = true
	}
	for id := range s.selected {
		if !inSubset[id] {
			delete(s.selected, id)
		}
	}
	if len(s.selected) > 0 || len(subset) == 0 {
		return
	}
	pick := subset[0]
	if s.hasCursor {
		if nearest := nearestDie(subset, s.cursor); nearest != nil {
			pick = nearest
		}
	}
	s.selected[pick.ID] = true
}

// nearestDie returns the die closest to the reference cell by Manhattan
// distance, ties broken by subset order.
func nearestDie(dice []*Die, ref model.Cell) *Die {
	var best *Die
	bestDist := 0
	for _, d := range dice {
		dist := d.Cell.Manhattan(ref)
		if best == nil || dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return best
}

func (s *Session) selectedIDs() []int {
	ids := make([]int, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Snapshot returns a consistent read-only copy of the match for the
// renderer and the AI. World positions are the in-flight interpolated ones.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Tick:     s.tick,
		GridSize: s.opts.GridSize,
		CellSize: s.opts.CellSize,
		Dice:     make([]DieView, 0, len(s.dice)),
		Selected: s.selectedIDs(),
		FlagA:    s.board.FlagCell(model.SideA),
		FlagB:    s.board.FlagCell(model.SideB),
		GameOver: s.gameOver,
		Winner:   s.winner,
	}
	for _, d := range s.dice {
		x, z := d.worldPos(s.board)
		snap.Dice = append(snap.Dice, DieView{
			ID:      d.ID,
			Side:    d.Side,
			Cell:    d.Cell,
			X:       x,
			Z:       z,
			TopFace: d.TopFace(),
			Faces:   d.Orientation.Faces(),
			Busy:    d.Busy(),
		})
	}
	return snap
}

// Settled reports whether no transition is in flight on either side.
func (s *Session) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.dice {
		if d.Busy() {
			return false
		}
	}
	return true
}

// DrainEvents returns and clears the pending settlement events.
func (s *Session) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}
