package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/njculpin/feint/agent"
	"github.com/njculpin/feint/config"
	"github.com/njculpin/feint/game"
	"github.com/njculpin/feint/ipc"
	"github.com/njculpin/feint/model"
)

// bridge wires one renderer connection to its match: inbound commands go to
// the session, the tick pump streams snapshots and settlement events back.
type bridge struct {
	cfg      config.Config
	conn     *ipc.Connection
	session  *game.Session
	opp      *agent.Opponent
	director *agent.Director

	// dirty forces a state frame on the next tick. Handlers set it from the
	// read-loop goroutine while tick reads it on the clock goroutine.
	dirty atomic.Bool
}

func newBridge(cfg config.Config, conn net.Conn, session *game.Session, opp *agent.Opponent, director *agent.Director) *bridge {
	b := &bridge{
		cfg:      cfg,
		session:  session,
		opp:      opp,
		director: director,
	}
	b.conn = ipc.NewConnection(conn, nil)
	b.conn.RegisterHandler(ipc.TypeHello, b.handleHello)
	b.conn.RegisterHandler(ipc.TypeSelect, b.handleSelect)
	b.conn.RegisterHandler(ipc.TypeToggleSelect, b.handleToggleSelect)
	b.conn.RegisterHandler(ipc.TypeMove, b.handleMove)
	b.conn.RegisterHandler(ipc.TypeRotate, b.handleRotate)
	b.conn.RegisterHandler(ipc.TypeCursor, b.handleCursor)
	b.conn.RegisterHandler(ipc.TypeRestart, b.handleRestart)
	return b
}

// run is the engine clock: transitions advance every TickInterval, the
// opponent activates every AIMoveInterval. Both stop with the context.
func (b *bridge) run(ctx context.Context) {
	ticker := time.NewTicker(b.cfg.TickInterval)
	defer ticker.Stop()
	aiTicker := time.NewTicker(b.cfg.AIMoveInterval)
	defer aiTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.tick()
		case <-aiTicker.C:
			b.opp.Act()
		}
	}
}

func (b *bridge) tick() {
	b.session.Tick()
	events := b.session.DrainEvents()
	settled := b.session.Settled()

	if len(events) == 0 && settled && !b.dirty.Load() {
		return
	}
	// Keep streaming until everything is at rest, so the renderer always
	// ends on a settled snapshot.
	b.dirty.Store(!settled)

	snap := b.session.Snapshot()
	b.director.UpdateState(snap)

	if err := b.conn.Send(ipc.TypeState, toStateMessage(snap)); err != nil {
		slog.Debug("state send failed", "error", err)
		return
	}
	for _, ev := range events {
		switch ev.Kind {
		case game.EventMoveSettled:
			b.conn.Send(ipc.TypeMoveSettled, ipc.MoveSettledMessage{
				DieID:   ev.DieID,
				Outcome: string(ev.Outcome),
			})
		case game.EventGameOver:
			b.conn.Send(ipc.TypeGameOver, ipc.GameOverMessage{Winner: sideName(ev.Winner)})
			slog.Info("match over", "winner", ev.Winner.String())
		}
	}
}

func (b *bridge) handleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}
	b.conn.Client = hello.Client
	slog.Info("renderer identified", "client", hello.Client)

	// Greet with a full snapshot so the renderer can draw frame one.
	if err := b.conn.Send(ipc.TypeState, toStateMessage(b.session.Snapshot())); err != nil {
		return nil, err
	}
	return ack(nil)
}

func (b *bridge) handleSelect(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.SelectCommand
	if err := json.Unmarshal(env.Data, &cmd); err != nil {
		return nil, fmt.Errorf("unmarshal select: %w", err)
	}
	err := b.session.Select(cmd.DieID)
	if err == nil {
		b.dirty.Store(true)
	}
	return ack(err)
}

func (b *bridge) handleToggleSelect(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.SelectCommand
	if err := json.Unmarshal(env.Data, &cmd); err != nil {
		return nil, fmt.Errorf("unmarshal toggle_select: %w", err)
	}
	err := b.session.ToggleSelect(cmd.DieID)
	if err == nil {
		b.dirty.Store(true)
	}
	return ack(err)
}

func (b *bridge) handleMove(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.MoveCommand
	if err := json.Unmarshal(env.Data, &cmd); err != nil {
		return nil, fmt.Errorf("unmarshal move: %w", err)
	}
	dir, err := model.ParseDirection(cmd.Direction)
	if err != nil {
		return ack(game.ErrInvalidDirection)
	}
	if err := b.session.MoveSelected(dir); err != nil {
		return ack(err)
	}
	b.dirty.Store(true)
	return ack(nil)
}

func (b *bridge) handleRotate(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.RotateCommand
	if err := json.Unmarshal(env.Data, &cmd); err != nil {
		return nil, fmt.Errorf("unmarshal rotate: %w", err)
	}
	spin, err := model.ParseSpin(cmd.Spin)
	if err != nil {
		return ack(game.ErrInvalidDirection)
	}
	if err := b.session.RotateSelected(spin); err != nil {
		return ack(err)
	}
	b.dirty.Store(true)
	return ack(nil)
}

func (b *bridge) handleCursor(env ipc.Envelope) (*ipc.Envelope, error) {
	var cmd ipc.CursorCommand
	if err := json.Unmarshal(env.Data, &cmd); err != nil {
		return nil, fmt.Errorf("unmarshal cursor: %w", err)
	}
	dir, err := model.ParseDirection(cmd.Direction)
	if err != nil {
		return ack(game.ErrInvalidDirection)
	}
	if err := b.session.MoveCursor(dir); err != nil {
		return ack(err)
	}
	b.dirty.Store(true)
	return ack(nil)
}

func (b *bridge) handleRestart(env ipc.Envelope) (*ipc.Envelope, error) {
	b.session.Restart()
	b.opp.Reset()
	b.dirty.Store(true)
	slog.Info("match restarted", "client", b.conn.Client)
	return ack(nil)
}

// ack wraps a command result. Rejections ride in the ack payload — they are
// expected branches, not transport errors.
func ack(err error) (*ipc.Envelope, error) {
	msg := ipc.AckMessage{Status: "ok"}
	if err != nil {
		msg = ipc.AckMessage{Status: "rejected", Reason: err.Error()}
	}
	env, envErr := ipc.NewEnvelope(ipc.TypeAck, msg)
	if envErr != nil {
		return nil, envErr
	}
	return &env, nil
}

func toStateMessage(snap game.Snapshot) ipc.StateMessage {
	msg := ipc.StateMessage{
		Tick:     snap.Tick,
		GridSize: snap.GridSize,
		CellSize: snap.CellSize,
		Dice:     make([]ipc.DieState, 0, len(snap.Dice)),
		Selected: snap.Selected,
		FlagA:    ipc.CellRef{Col: snap.FlagA.Col, Row: snap.FlagA.Row},
		FlagB:    ipc.CellRef{Col: snap.FlagB.Col, Row: snap.FlagB.Row},
		GameOver: snap.GameOver,
		Winner:   sideName(snap.Winner),
	}
	for _, d := range snap.Dice {
		msg.Dice = append(msg.Dice, ipc.DieState{
			ID:   d.ID,
			Side: d.Side.String(),
			Cell: ipc.CellRef{Col: d.Cell.Col, Row: d.Cell.Row},
			X:    d.X,
			Z:    d.Z,
			TopFace: d.TopFace,
			Faces: ipc.FacesRef{
				Top:    d.Faces.Top,
				Bottom: d.Faces.Bottom,
				Front:  d.Faces.Front,
				Back:   d.Faces.Back,
				Left:   d.Faces.Left,
				Right:  d.Faces.Right,
			},
			Busy: d.Busy,
		})
	}
	return msg
}

func sideName(s model.Side) string {
	if s == model.SideNone {
		return ""
	}
	return s.String()
}
