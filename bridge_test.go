package main

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/njculpin/feint/agent"
	"github.com/njculpin/feint/config"
	"github.com/njculpin/feint/game"
	"github.com/njculpin/feint/ipc"
	"github.com/njculpin/feint/model"
)

// newTestBridge wires a bridge to one end of an in-memory pipe; the other
// end is drained so sends never block.
func newTestBridge(t *testing.T) *bridge {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	go io.Copy(io.Discard, client)

	rng := rand.New(rand.NewPCG(1, 2))
	session := game.NewSession(game.DefaultOptions(), rng)
	opp, err := agent.NewOpponent(session, model.SideB, rng)
	if err != nil {
		t.Fatalf("NewOpponent: %v", err)
	}
	director := agent.NewDirector(opp, model.SideB, time.Second)
	return newBridge(config.Config{}, server, session, opp, director)
}

func command(t *testing.T, msgType string, msg any) ipc.Envelope {
	t.Helper()
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal %s: %v", msgType, err)
	}
	return ipc.Envelope{Type: msgType, Data: raw}
}

func TestTickAndHandlersShareStateFlag(t *testing.T) {
	// The tick pump and the command handlers run on different goroutines
	// and both touch the dirty flag; this must be race-free.
	b := newTestBridge(t)
	env := command(t, ipc.TypeMove, ipc.MoveCommand{Direction: "north"})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			b.tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if _, err := b.handleMove(env); err != nil {
				t.Errorf("handleMove: %v", err)
				return
			}
		}
	}()
	wg.Wait()
}

func TestSelectSchedulesStateFrame(t *testing.T) {
	b := newTestBridge(t)
	snap := b.session.Snapshot()
	if len(snap.Selected) == 0 {
		t.Fatal("fresh session has no auto-selected die")
	}
	id := snap.Selected[0]

	if _, err := b.handleSelect(command(t, ipc.TypeSelect, ipc.SelectCommand{DieID: id})); err != nil {
		t.Fatalf("handleSelect: %v", err)
	}
	if !b.dirty.Load() {
		t.Error("selection change did not schedule a state frame")
	}

	// Deselecting through toggle is also a visible change.
	b.dirty.Store(false)
	if _, err := b.handleToggleSelect(command(t, ipc.TypeToggleSelect, ipc.SelectCommand{DieID: id})); err != nil {
		t.Fatalf("handleToggleSelect: %v", err)
	}
	if !b.dirty.Load() {
		t.Error("toggle did not schedule a state frame")
	}

	// A rejected command changes nothing and schedules nothing.
	b.dirty.Store(false)
	if _, err := b.handleSelect(command(t, ipc.TypeSelect, ipc.SelectCommand{DieID: 999})); err != nil {
		t.Fatalf("handleSelect rejection: %v", err)
	}
	if b.dirty.Load() {
		t.Error("rejected selection scheduled a state frame")
	}
}
