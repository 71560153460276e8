package connect4

import (
	"encoding/json"
	"fmt"
)

// Color identifies one of the two players. The zero value is Red, which
// is also the color that opens every game.
type Color int

const (
	Red Color = iota
	Blue
)

// Toggle returns the opposing color.
func (c Color) Toggle() Color {
	if c == Red {
		return Blue
	}
	return Red
}

func (c Color) String() string {
	if c == Red {
		return "Red"
	}
	return "Blue"
}

// MarshalJSON encodes the color as "Red" or "Blue" on the wire.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes "Red" or "Blue" and rejects anything else.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Red":
		*c = Red
	case "Blue":
		*c = Blue
	default:
		return fmt.Errorf("unknown color %q", s)
	}
	return nil
}

// Move records one placed chip. Row 0 is the bottom of the grid.
type Move struct {
	Color  Color `json:"color"`
	Column int   `json:"col"`
	Row    int   `json:"row"`
}

// Phase is the discriminator of a BoardState.
type Phase int

const (
	PhaseTurn Phase = iota
	PhaseWon
	PhaseStalemate
)

// BoardState is the tagged game status: whose turn it is, who won, or a
// stalemate. Color carries the next mover for PhaseTurn and the winner
// for PhaseWon; it is meaningless for PhaseStalemate.
type BoardState struct {
	Phase Phase
	Color Color
}

// Turn returns the in-progress state with color to move next.
func Turn(color Color) BoardState {
	return BoardState{Phase: PhaseTurn, Color: color}
}

// Won returns the terminal state for a decided game.
func Won(winner Color) BoardState {
	return BoardState{Phase: PhaseWon, Color: winner}
}

// Stalemate returns the terminal state for a full board with no winner.
func Stalemate() BoardState {
	return BoardState{Phase: PhaseStalemate}
}

// Terminal reports whether no further moves are allowed.
func (s BoardState) Terminal() bool {
	return s.Phase != PhaseTurn
}

// DropResult describes a successful move: the chip that was placed and
// the board state it produced.
type DropResult struct {
	LastMove Move
	State    BoardState
}
