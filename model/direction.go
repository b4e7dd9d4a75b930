package model

import "fmt"

// Direction is one of the four axis-aligned single-step moves. The board
// plane is x/z with +y up: north is -z, south is +z, east is +x, west is -x.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Delta returns the grid-cell step for the direction. Rows grow southward.
func (d Direction) Delta() (dCol, dRow int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Valid reports whether d is one of the four axis-aligned directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// ParseDirection maps a wire-format direction name to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "north":
		return North, nil
	case "south":
		return South, nil
	case "east":
		return East, nil
	case "west":
		return West, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Directions lists all four directions in a stable order, for iteration.
var Directions = [4]Direction{North, South, East, West}

// Spin is a quarter-turn about the vertical axis.
type Spin int

const (
	SpinLeft Spin = iota
	SpinRight
)

func (s Spin) String() string {
	if s == SpinLeft {
		return "left"
	}
	return "right"
}

// ParseSpin maps a wire-format spin name to a Spin.
func ParseSpin(s string) (Spin, error) {
	switch s {
	case "left":
		return SpinLeft, nil
	case "right":
		return SpinRight, nil
	}
	return 0, fmt.Errorf("unknown spin %q", s)
}
