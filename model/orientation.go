package model

import "fmt"

// vec3 is an integer unit vector. Face normals only ever point along an
// axis, and quarter-turn rotations keep them exact, so orientation math
// never accumulates floating-point drift.
type vec3 struct{ X, Y, Z int }

var (
	axisUp    = vec3{0, 1, 0}
	axisDown  = vec3{0, -1, 0}
	axisNorth = vec3{0, 0, -1}
	axisSouth = vec3{0, 0, 1}
	axisEast  = vec3{1, 0, 0}
	axisWest  = vec3{-1, 0, 0}
)

func (v vec3) dot(w vec3) int { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Orientation is the full rotational frame of a die: one outward normal per
// pip value. Named faces (top, front, ...) are always derived by projecting
// the normals onto the world axes, so the roll transposition table and the
// "face most aligned with up" re-derivation can never disagree.
//
// normals[v-1] is the facing of the face showing v pips.
type Orientation struct {
	normals [6]vec3
}

// Canonical returns the reference frame: top=2 bottom=5 front=3 back=4
// right=1 left=6. Front faces north. Opposite faces sum to 7 by construction.
func Canonical() Orientation {
	return Orientation{normals: [6]vec3{
		axisEast,  // 1
		axisUp,    // 2
		axisNorth, // 3
		axisSouth, // 4
		axisDown,  // 5
		axisWest,  // 6
	}}
}

// WithTop returns the canonical frame rotated by the minimal single-axis
// roll sequence that brings value to the top.
func WithTop(value int) (Orientation, error) {
	if value < 1 || value > 6 {
		return Orientation{}, fmt.Errorf("top face must be 1..6, got %d", value)
	}
	o := Canonical()
	switch value {
	case 2:
		// already up
	case 3:
		o = o.Roll(North)
	case 4:
		o = o.Roll(South)
	case 1:
		o = o.Roll(West)
	case 6:
		o = o.Roll(East)
	case 5:
		o = o.Roll(North).Roll(North)
	}
	return o, nil
}

// Roll tips the die over one edge in the given direction: an exact 90°
// rotation of every face normal about the horizontal axis perpendicular to
// the travel direction. Rolling the same way four times is the identity.
func (o Orientation) Roll(d Direction) Orientation {
	var out Orientation
	for i, n := range o.normals {
		switch d {
		case North: // front comes up, top tips over to the back
			out.normals[i] = vec3{n.X, -n.Z, n.Y}
		case South:
			out.normals[i] = vec3{n.X, n.Z, -n.Y}
		case West: // right comes up
			out.normals[i] = vec3{-n.Y, n.X, n.Z}
		case East:
			out.normals[i] = vec3{n.Y, -n.X, n.Z}
		default:
			out.normals[i] = n
		}
	}
	return out
}

// Rotate spins the die 90° about the vertical axis. Top and bottom are
// invariant; a left spin brings the right face around to the front.
func (o Orientation) Rotate(s Spin) Orientation {
	var out Orientation
	for i, n := range o.normals {
		if s == SpinLeft {
			out.normals[i] = vec3{n.Z, n.Y, -n.X}
		} else {
			out.normals[i] = vec3{-n.Z, n.Y, n.X}
		}
	}
	return out
}

// faceToward returns the pip value whose normal is most aligned with the
// given axis. For an axis-aligned frame the winner has dot product 1.
func (o Orientation) faceToward(axis vec3) int {
	best, bestDot := 1, o.normals[0].dot(axis)
	for i := 1; i < 6; i++ {
		if d := o.normals[i].dot(axis); d > bestDot {
			bestDot = d
			best = i + 1
		}
	}
	return best
}

// Top returns the pip value currently facing up, re-derived from the
// rotational frame rather than tracked separately.
func (o Orientation) Top() int { return o.faceToward(axisUp) }

// FaceMap names all six faces of the current frame.
type FaceMap struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Front  int `json:"front"`
	Back   int `json:"back"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Faces projects the frame onto the six world axes. Front faces north.
func (o Orientation) Faces() FaceMap {
	return FaceMap{
		Top:    o.faceToward(axisUp),
		Bottom: o.faceToward(axisDown),
		Front:  o.faceToward(axisNorth),
		Back:   o.faceToward(axisSouth),
		Left:   o.faceToward(axisWest),
		Right:  o.faceToward(axisEast),
	}
}
