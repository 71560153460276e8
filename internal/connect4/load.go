package connect4

import (
	"errors"
	"strings"
)

// Load fixture errors.
var (
	ErrInvalidSize   = errors.New("layout must be 6 rows of 7 symbols")
	ErrInvalidText   = errors.New("layout contains an unrecognized symbol")
	ErrInvalidMoves  = errors.New("layout breaks turn alternation")
	ErrNoLastMove    = errors.New("layout marks no last move")
	ErrExtraLastMove = errors.New("layout marks more than one last move")
)

// Load builds a board from a fixed-size text grid so the rules engine
// can be driven from literal fixtures without replaying history move by
// move. Symbols: 'r'/'b' an ordinary chip, 'R'/'B' the single most
// recent chip, '.' empty. The first text row is the top of the grid.
// On success the state is recomputed from the marked last move exactly
// as a live drop would have computed it.
func Load(layout string) (*Board, error) {
	board := New()

	lines := strings.Split(layout, "\n")
	if len(lines) != Rows {
		return nil, ErrInvalidSize
	}

	var redMoves, blueMoves int
	var last *Move
	for i, line := range lines {
		row := (Rows - 1) - i
		if len(line) != Columns {
			return nil, ErrInvalidSize
		}
		for col, sym := range []byte(line) {
			switch sym {
			case 'r':
				redMoves++
				board.chips[col][row] = cellFor(Red)
			case 'b':
				blueMoves++
				board.chips[col][row] = cellFor(Blue)
			case 'R':
				redMoves++
				if last != nil {
					return nil, ErrExtraLastMove
				}
				last = &Move{Color: Red, Column: col, Row: row}
				board.chips[col][row] = cellFor(Red)
			case 'B':
				blueMoves++
				if last != nil {
					return nil, ErrExtraLastMove
				}
				last = &Move{Color: Blue, Column: col, Row: row}
				board.chips[col][row] = cellFor(Blue)
			case '.':
			default:
				return nil, ErrInvalidText
			}
		}
	}

	diff := redMoves - blueMoves
	if diff < -1 || diff > 1 {
		return nil, ErrInvalidMoves
	}
	board.moves.red = redMoves
	board.moves.blue = blueMoves

	if last == nil {
		return nil, ErrNoLastMove
	}
	board.last = last

	winner, won := board.findWin(*last)
	board.state = board.nextState(last.Color, winner, won)

	return board, nil
}
