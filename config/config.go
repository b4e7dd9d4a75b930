package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the engine. The collision tolerance and the
// AI pacing values are empirically tuned; changing them changes game balance.
type Config struct {
	SocketPath string `env:"FEINT_SOCKET" envDefault:"/tmp/feint.sock"`

	// Board dimensions. GridSize is cells per side and must be odd so the
	// flag anchors sit on the center column.
	GridSize int     `env:"FEINT_GRID_SIZE" envDefault:"9"`
	CellSize float64 `env:"FEINT_CELL_SIZE" envDefault:"1"`

	// Dice per squad.
	SquadSize int `env:"FEINT_SQUAD_SIZE" envDefault:"6"`

	// TickInterval is the clock driving in-flight transitions;
	// TransitionTicks is how many ticks one roll or rotation spans.
	TickInterval    time.Duration `env:"FEINT_TICK_INTERVAL" envDefault:"50ms"`
	TransitionTicks int           `env:"FEINT_TRANSITION_TICKS" envDefault:"4"`

	// AIMoveInterval paces the opponent; DirectorInterval paces doctrine
	// re-evaluation.
	AIMoveInterval   time.Duration `env:"FEINT_AI_INTERVAL" envDefault:"1200ms"`
	DirectorInterval time.Duration `env:"FEINT_DIRECTOR_INTERVAL" envDefault:"10s"`

	// CollisionTolerance is the fraction of a cell width within which two
	// opposing dice count as colliding. FlagTolerance likewise for reaching
	// a flag cell.
	CollisionTolerance float64 `env:"FEINT_COLLISION_TOLERANCE" envDefault:"0.8"`
	FlagTolerance      float64 `env:"FEINT_FLAG_TOLERANCE" envDefault:"0.1"`

	// Seed for the match RNG; 0 means seed from the clock.
	Seed int64 `env:"FEINT_SEED" envDefault:"0"`
}

// Load parses configuration from environment variables and validates it.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects configurations the engine cannot run on.
func (c Config) Validate() error {
	if c.GridSize < 5 || c.GridSize%2 == 0 {
		return fmt.Errorf("grid size must be odd and at least 5, got %d", c.GridSize)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %v", c.CellSize)
	}
	if c.SquadSize < 1 || c.SquadSize > c.GridSize-2 {
		return fmt.Errorf("squad size must fit on a spawn row, got %d", c.SquadSize)
	}
	// Two ticks minimum: in-flight collision sampling needs at least one
	// interpolated position between the transition endpoints.
	if c.TransitionTicks < 2 {
		return fmt.Errorf("transition ticks must be at least 2, got %d", c.TransitionTicks)
	}
	if c.CollisionTolerance <= 0 || c.CollisionTolerance >= 1 {
		return fmt.Errorf("collision tolerance must be in (0,1), got %v", c.CollisionTolerance)
	}
	if c.FlagTolerance <= 0 || c.FlagTolerance >= 1 {
		return fmt.Errorf("flag tolerance must be in (0,1), got %v", c.FlagTolerance)
	}
	return nil
}
