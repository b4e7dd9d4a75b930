package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/njculpin/feint/agent"
	"github.com/njculpin/feint/config"
	"github.com/njculpin/feint/game"
	"github.com/njculpin/feint/model"
)

const banner = `
███████╗███████╗██╗███╗   ██╗████████╗
██╔════╝██╔════╝██║████╗  ██║╚══██╔══╝
█████╗  █████╗  ██║██╔██╗ ██║   ██║
██╔══╝  ██╔══╝  ██║██║╚██╗██║   ██║
██║     ███████╗██║██║ ╚████║   ██║
╚═╝     ╚══════╝╚═╝╚═╝  ╚═══╝   ╚═╝

Dice Capture-the-Flag Engine`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting feint",
		"grid", cfg.GridSize,
		"squad", cfg.SquadSize,
		"tick", cfg.TickInterval,
		"aiInterval", cfg.AIMoveInterval,
	)

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.SocketPath); err != nil {
		slog.Error("failed to clean up socket", "path", cfg.SocketPath, "error", err)
		os.Exit(1)
	}

	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		slog.Error("failed to listen on socket", "path", cfg.SocketPath, "error", err)
		os.Exit(1)
	}
	defer listener.Close()
	defer os.Remove(cfg.SocketPath)

	slog.Info("listening on domain socket", "path", cfg.SocketPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					slog.Error("failed to accept connection", "error", err)
					continue
				}
			}
			slog.Info("new connection accepted")
			go handleConn(ctx, conn, cfg)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

// handleConn runs one match per renderer connection: a fresh session, a
// fresh opponent, its doctrine director, and the tick pump. Everything
// stops when the renderer disconnects.
func handleConn(ctx context.Context, conn net.Conn, cfg config.Config) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))

	session := game.NewSession(sessionOptions(cfg), rng)
	opp, err := agent.NewOpponent(session, model.SideB, rng)
	if err != nil {
		slog.Error("failed to build opponent", "error", err)
		conn.Close()
		return
	}
	director := agent.NewDirector(opp, model.SideB, cfg.DirectorInterval)

	b := newBridge(cfg, conn, session, opp, director)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go director.Start(connCtx)
	go b.run(connCtx)

	b.conn.ReadLoop()
}

func sessionOptions(cfg config.Config) game.Options {
	return game.Options{
		GridSize:           cfg.GridSize,
		CellSize:           cfg.CellSize,
		SquadSize:          cfg.SquadSize,
		TransitionTicks:    cfg.TransitionTicks,
		CollisionTolerance: cfg.CollisionTolerance,
		FlagTolerance:      cfg.FlagTolerance,
		HumanSide:          model.SideA,
	}
}
