package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/njculpin/feint/game"
	"github.com/njculpin/feint/model"
)

// Director runs in the background and adjusts the opponent's doctrine as
// the match swings: protect a material lead, gamble when behind. It only
// ever touches the opponent through Doctrine.Swap, and a failed swap keeps
// the previous rule set.
type Director struct {
	mu     sync.Mutex
	latest *game.Snapshot

	opp      *Opponent
	side     model.Side
	interval time.Duration
	ready    chan struct{}
}

// NewDirector creates a director re-evaluating doctrine every interval.
func NewDirector(opp *Opponent, side model.Side, interval time.Duration) *Director {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Director{
		opp:      opp,
		side:     side,
		interval: interval,
		ready:    make(chan struct{}, 1),
	}
}

// UpdateState stores the latest snapshot and signals the evaluation loop.
func (d *Director) UpdateState(snap game.Snapshot) {
	d.mu.Lock()
	d.latest = &snap
	d.mu.Unlock()

	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// Start blocks until ctx is cancelled, re-evaluating doctrine on interval
// boundaries whenever fresh state has arrived.
func (d *Director) Start(ctx context.Context) {
	slog.Info("director started", "interval", d.interval)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("director stopped")
			return
		case <-ticker.C:
			select {
			case <-d.ready:
				d.evaluate()
			default:
			}
		}
	}
}

func (d *Director) evaluate() {
	d.mu.Lock()
	snap := d.latest
	d.mu.Unlock()

	if snap == nil || snap.GameOver {
		return
	}

	lead := len(snap.SquadOf(d.side)) - len(snap.SquadOf(d.side.Opponent()))

	name, rules := "balanced", BalancedRules()
	switch {
	case lead >= 2:
		name, rules = "cautious", CautiousRules()
	case lead <= -2:
		name, rules = "reckless", RecklessRules()
	}

	if d.opp.Doctrine().Name() == name {
		return
	}
	if err := d.opp.Doctrine().Swap(name, rules); err != nil {
		slog.Error("doctrine swap failed", "name", name, "error", err)
		return
	}
	slog.Info("doctrine changed", "name", name, "diceLead", lead, "tick", snap.Tick)
}
