package ipc

// Renderer → engine message types. Every command is answered with an ack;
// rejected commands leave the match untouched.
const (
	TypeHello        = "hello"
	TypeSelect       = "select"
	TypeToggleSelect = "toggle_select"
	TypeMove         = "move"
	TypeRotate       = "rotate"
	TypeCursor       = "cursor"
	TypeRestart      = "restart"
)

// HelloMessage opens the session and identifies the renderer.
type HelloMessage struct {
	Client string `json:"client"`
}

// SelectCommand replaces the selection with one die; ToggleSelect uses the
// same shape to add or remove a die from the multi-selection.
type SelectCommand struct {
	DieID int `json:"die_id"`
}

// MoveCommand rolls the whole selection one cell. Direction is one of
// "north", "south", "east", "west".
type MoveCommand struct {
	Direction string `json:"direction"`
}

// RotateCommand spins the whole selection 90° in place. Spin is "left" or
// "right".
type RotateCommand struct {
	Spin string `json:"spin"`
}

// CursorCommand steps the selection cursor; the engine auto-selects the
// highest-rank die nearest the cursor.
type CursorCommand struct {
	Direction string `json:"direction"`
}

// RestartCommand throws the match away and re-initializes everything.
type RestartCommand struct{}
