package agent

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/njculpin/feint/game"
	"github.com/njculpin/feint/model"
)

// Fallback scoring constants, applied when A* finds no path. Lower scores
// win. The values are the game's tuned balance; do not re-derive them.
const (
	captureBonus     = -100.0  // candidate cell holds an opposing die
	flagBonus        = -1000.0 // candidate cell is the opposing flag
	revisitPenalty   = 30.0    // candidate was visited within revisitWindow
	oscillationNoise = 25.0    // ± perturbation once a 2-cycle is detected
)

// Threat proximity buckets: how much each opposing die contributes to the
// threat level against the opponent's own flag, by Manhattan distance.
const (
	threatCloseDist  = 2
	threatMidDist    = 4
	threatFarDist    = 6
	threatCloseBonus = 3.0
	threatMidBonus   = 2.0
	threatFarBonus   = 1.0
)

// Opponent drives the non-human squad. On each activation it reads one
// snapshot, picks a die and a direction, and delegates to the same move
// arbitration the human path uses. Failures are silent; the pacing loop
// simply activates it again later.
type Opponent struct {
	svc      Service
	side     model.Side
	doctrine *Doctrine
	rng      *rand.Rand

	mu     sync.Mutex
	memory map[int]*history
}

// NewOpponent builds the AI for one side with the balanced doctrine.
func NewOpponent(svc Service, side model.Side, rng *rand.Rand) (*Opponent, error) {
	doctrine, err := NewDoctrine("balanced", BalancedRules())
	if err != nil {
		return nil, err
	}
	return &Opponent{
		svc:      svc,
		side:     side,
		doctrine: doctrine,
		rng:      rng,
		memory:   make(map[int]*history),
	}, nil
}

// Doctrine exposes the swappable posture rule set (used by the director).
func (o *Opponent) Doctrine() *Doctrine { return o.doctrine }

// Reset clears the oscillation memory; called on match restart.
func (o *Opponent) Reset() {
	o.mu.Lock()
	o.memory = make(map[int]*history)
	o.mu.Unlock()
}

// Act performs one activation: no-op when the match is over, no die is
// controllable, or no direction survives validation.
func (o *Opponent) Act() {
	snap := o.svc.Snapshot()
	if snap.GameOver {
		return
	}

	subset, rank := snap.HighestRankOf(o.side)
	var candidates []game.DieView
	for _, d := range subset {
		if !d.Busy {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return
	}

	threat := o.threatLevel(snap)
	posture := o.doctrine.Evaluate(PostureEnv{
		Threat:   threat,
		Coin:     o.rng.Float64(),
		DiceLead: len(snap.SquadOf(o.side)) - len(snap.SquadOf(o.side.Opponent())),
	})

	die := o.chooseDie(snap, candidates, posture)
	dir, ok := o.chooseDirection(snap, die, posture)
	if !ok {
		return
	}

	if err := o.svc.TryMove(o.side, []int{die.ID}, dir); err != nil {
		slog.Debug("opponent move rejected", "die", die.ID, "dir", dir.String(), "error", err)
		return
	}

	o.mu.Lock()
	h := o.memory[die.ID]
	if h == nil {
		h = &history{}
		o.memory[die.ID] = h
	}
	h.record(die.Cell.Step(dir))
	o.mu.Unlock()

	slog.Debug("opponent moved",
		"die", die.ID, "rank", rank, "dir", dir.String(),
		"posture", posture.String(), "threat", threat)
}

// threatLevel scores the danger to the opponent's own flag: a proximity
// bucket bonus per nearby opposing die plus a value bonus scaled by that
// die's top face. Distant dice contribute nothing.
func (o *Opponent) threatLevel(snap game.Snapshot) float64 {
	ownFlag := snap.FlagOf(o.side)
	level := 0.0
	for _, d := range snap.SquadOf(o.side.Opponent()) {
		dist := d.Cell.Manhattan(ownFlag)
		switch {
		case dist <= threatCloseDist:
			level += threatCloseBonus
		case dist <= threatMidDist:
			level += threatMidBonus
		case dist <= threatFarDist:
			level += threatFarBonus
		default:
			continue
		}
		level += float64(d.TopFace) / 6
	}
	return level
}

// chooseDie picks the acting die. Defensive: shortest distance to the own
// flag, preferring dice with a reachable interception point. Offensive:
// shortest distance to the opposing flag.
func (o *Opponent) chooseDie(snap game.Snapshot, candidates []game.DieView, posture Posture) game.DieView {
	if posture == PostureDefensive {
		best := candidates[0]
		bestDist := best.Cell.Manhattan(snap.FlagOf(o.side))
		bestIntercepts := o.canIntercept(snap, best)
		for _, d := range candidates[1:] {
			dist := d.Cell.Manhattan(snap.FlagOf(o.side))
			intercepts := o.canIntercept(snap, d)
			if intercepts != bestIntercepts {
				if intercepts {
					best, bestDist, bestIntercepts = d, dist, true
				}
				continue
			}
			if dist < bestDist {
				best, bestDist = d, dist
			}
		}
		return best
	}

	enemyFlag := snap.FlagOf(o.side.Opponent())
	best := candidates[0]
	bestDist := best.Cell.Manhattan(enemyFlag)
	for _, d := range candidates[1:] {
		if dist := d.Cell.Manhattan(enemyFlag); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

func (o *Opponent) canIntercept(snap game.Snapshot, d game.DieView) bool {
	target, ok := o.interceptionPoint(snap, d)
	if !ok {
		return false
	}
	return findPath(o.buildGrid(snap, d, target), d.Cell) != nil
}

// chooseDirection runs A* toward the posture's goal and takes the first
// step. With no path it falls back to the scored local search.
func (o *Opponent) chooseDirection(snap game.Snapshot, die game.DieView, posture Posture) (model.Direction, bool) {
	goal := snap.FlagOf(o.side.Opponent())
	if posture == PostureDefensive {
		if target, ok := o.interceptionPoint(snap, die); ok {
			goal = target
		}
	}

	if path := findPath(o.buildGrid(snap, die, goal), die.Cell); path != nil {
		if dir, ok := firstStep(path); ok {
			return dir, true
		}
	}
	return o.fallbackDirection(snap, die, goal)
}

// buildGrid assembles the pathfinding view: the opponent's own other dice
// and its own flag are walls; opposing dice may only terminate a path
// (moving there is a deliberate collision or capture).
func (o *Opponent) buildGrid(snap game.Snapshot, die game.DieView, goal model.Cell) *searchGrid {
	g := &searchGrid{
		size:     snap.GridSize,
		blocked:  make(map[model.Cell]bool),
		goalOnly: make(map[model.Cell]bool),
		goal:     goal,
	}
	g.blocked[snap.FlagOf(o.side)] = true
	for _, d := range snap.Dice {
		if d.ID == die.ID {
			continue
		}
		if d.Side == o.side {
			g.blocked[d.Cell] = true
		} else {
			g.goalOnly[d.Cell] = true
		}
	}
	return g
}

// interceptionPoint finds the cell to defend: the point on the most
// threatening opposing die's straight-line route to the opponent's own flag
// that the given die can reach soonest.
func (o *Opponent) interceptionPoint(snap game.Snapshot, die game.DieView) (model.Cell, bool) {
	ownFlag := snap.FlagOf(o.side)

	var threat *game.DieView
	threatDist := 0
	for _, d := range snap.SquadOf(o.side.Opponent()) {
		dist := d.Cell.Manhattan(ownFlag)
		if dist > threatFarDist {
			continue
		}
		if threat == nil || dist < threatDist {
			dv := d
			threat = &dv
			threatDist = dist
		}
	}
	if threat == nil {
		return model.Cell{}, false
	}

	route := straightRoute(threat.Cell, ownFlag)
	var best model.Cell
	bestDist := -1
	for _, c := range route {
		if c == threat.Cell || c == ownFlag {
			continue
		}
		if _, taken := snap.DieAt(c); taken {
			continue
		}
		if dist := die.Cell.Manhattan(c); bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	if bestDist < 0 {
		return model.Cell{}, false
	}
	return best, true
}

// straightRoute traces the Manhattan route from a cell to a target, longer
// axis first — the straight-line approximation of an attacker's path.
func straightRoute(from, to model.Cell) []model.Cell {
	var route []model.Cell
	c := from
	for c != to {
		dc, dr := to.Col-c.Col, to.Row-c.Row
		if abs(dr) >= abs(dc) && dr != 0 {
			c.Row += sign(dr)
		} else {
			c.Col += sign(dc)
		}
		route = append(route, c)
	}
	return route
}

// fallbackDirection scores the four axis directions locally when no A* path
// exists: distance to the goal, big bonuses for landing on an opposing die
// or the opposing flag, a penalty for backtracking, and random noise once
// the die is caught oscillating.
func (o *Opponent) fallbackDirection(snap game.Snapshot, die game.DieView, goal model.Cell) (model.Direction, bool) {
	o.mu.Lock()
	h := o.memory[die.ID]
	o.mu.Unlock()

	oscillating := h != nil && h.oscillating()

	var bestDir model.Direction
	bestScore := 0.0
	found := false
	for _, dir := range model.Directions {
		candidate := die.Cell.Step(dir)
		if candidate.Col < 0 || candidate.Col >= snap.GridSize ||
			candidate.Row < 0 || candidate.Row >= snap.GridSize {
			continue
		}
		if candidate == snap.FlagOf(o.side) {
			continue
		}
		if occ, taken := snap.DieAt(candidate); taken && occ.Side == o.side {
			continue
		}

		score := float64(candidate.Manhattan(goal))
		if occ, taken := snap.DieAt(candidate); taken && occ.Side != o.side {
			score += captureBonus
		}
		if candidate == snap.FlagOf(o.side.Opponent()) {
			score += flagBonus
		}
		if h != nil && h.visitedRecently(candidate) {
			score += revisitPenalty
		}
		if oscillating {
			score += (o.rng.Float64()*2 - 1) * oscillationNoise
		}

		if !found || score < bestScore {
			bestDir, bestScore, found = dir, score, true
		}
	}
	return bestDir, found
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
