package connect4

import "fmt"

// PlayCode classifies why a drop was refused.
type PlayCode string

const (
	CodeWrongColorChip PlayCode = "WrongColorChip"
	CodeOutOfRange     PlayCode = "OutOfRange"
	CodeChipOverflow   PlayCode = "ChipOverflow"
	CodeGameOver       PlayCode = "GameOver"
	CodeStalemate      PlayCode = "Stalemate"
)

// PlayError is a rules violation reported back to the offending player.
// Winner is set only for CodeGameOver. Rules errors never mutate the
// board and never terminate a session.
type PlayError struct {
	Code   PlayCode `json:"code"`
	Winner *Color   `json:"winner,omitempty"`
}

func (e *PlayError) Error() string {
	switch e.Code {
	case CodeWrongColorChip:
		return "wrong color chip"
	case CodeOutOfRange:
		return "move outside of board"
	case CodeChipOverflow:
		return "too many chips in column"
	case CodeGameOver:
		return fmt.Sprintf("game already finished, winner %s", *e.Winner)
	case CodeStalemate:
		return "game already ended in stalemate"
	}
	return string(e.Code)
}

func playError(code PlayCode) *PlayError {
	return &PlayError{Code: code}
}

func gameOverError(winner Color) *PlayError {
	return &PlayError{Code: CodeGameOver, Winner: &winner}
}
