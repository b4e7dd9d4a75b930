package game

import "errors"

// Command rejections. None of these are fatal: a rejected command leaves
// match state untouched and the caller simply tries again later.
var (
	// ErrInvalidDirection rejects a non-axis-aligned or unknown direction.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrIllegalMove rejects a boundary violation, a same-squad occupied
	// destination, or a move onto the acting squad's own flag.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNotControllable rejects a command against a die that is not in the
	// acting squad's highest-rank subset, or not in the acting squad at all.
	ErrNotControllable = errors.New("die not controllable")

	// ErrBusy rejects a command against a die mid-transition.
	ErrBusy = errors.New("die is mid-transition")

	// ErrTerminalState rejects any command issued after the match ended.
	ErrTerminalState = errors.New("match is over")
)
