package ipc

// Engine → renderer message types. Renderer bindings must keep these in
// sync with their decoder.
const (
	TypeAck         = "ack"
	TypeState       = "state"
	TypeMoveSettled = "move_settled"
	TypeGameOver    = "game_over"
)

// AckMessage answers every inbound command. A rejected command is not an
// error: Status "rejected" plus the reason, and the match is unchanged.
type AckMessage struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// CellRef is a grid coordinate on the wire.
type CellRef struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// FacesRef names all six faces of a die's current frame.
type FacesRef struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Front  int `json:"front"`
	Back   int `json:"back"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// DieState is one die in a state snapshot. X/Z are the interpolated world
// position, so a renderer can place meshes without tweening on its own.
type DieState struct {
	ID      int      `json:"id"`
	Side    string   `json:"side"`
	Cell    CellRef  `json:"cell"`
	X       float64  `json:"x"`
	Z       float64  `json:"z"`
	TopFace int      `json:"topFace"`
	Faces   FacesRef `json:"faces"`
	Busy    bool     `json:"busy"`
}

// StateMessage is the full read-only match snapshot streamed to the
// renderer whenever something is in motion or has changed.
type StateMessage struct {
	Tick     int        `json:"tick"`
	GridSize int        `json:"gridSize"`
	CellSize float64    `json:"cellSize"`
	Dice     []DieState `json:"dice"`
	Selected []int      `json:"selected"`
	FlagA    CellRef    `json:"flagA"`
	FlagB    CellRef    `json:"flagB"`
	GameOver bool       `json:"gameOver"`
	Winner   string     `json:"winner,omitempty"`
}

// MoveSettledMessage reports one die's transition outcome: relocated,
// rotated, collided, or captured. Purely a cosmetic trigger.
type MoveSettledMessage struct {
	DieID   int    `json:"dieId"`
	Outcome string `json:"outcome"`
}

// GameOverMessage reports the terminal result. An empty winner is a draw.
type GameOverMessage struct {
	Winner string `json:"winner,omitempty"`
}
