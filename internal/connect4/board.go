package connect4

import "strings"

// Board dimensions. A standard Connect-4 grid.
const (
	Columns = 7
	Rows    = 6
)

// cell encodes one slot of the grid: 0 = empty, 1 = red, 2 = blue.
type cell int8

const cellEmpty cell = 0

func cellFor(c Color) cell {
	return cell(c) + 1
}

// Board is the rules engine. It owns the grid, the per-color move
// counters, the last applied move and the current state. A cell never
// changes color once set and columns fill bottom-up. The board is not
// safe for concurrent use; the session mutates it from a single
// goroutine.
type Board struct {
	chips [Columns][Rows]cell
	moves struct {
		red  int
		blue int
	}
	last  *Move
	state BoardState
}

// New returns an empty board with Red to move.
func New() *Board {
	return &Board{state: Turn(Red)}
}

// State returns the current board state.
func (b *Board) State() BoardState {
	return b.state
}

// LastMove returns the most recently placed chip, if any.
func (b *Board) LastMove() (Move, bool) {
	if b.last == nil {
		return Move{}, false
	}
	return *b.last, true
}

// MoveCounts returns how many chips each color has placed.
func (b *Board) MoveCounts() (red, blue int) {
	return b.moves.red, b.moves.blue
}

// Drop places a chip of the given color into a column, resolving it to
// the lowest empty row. It is the board's single mutation entry point.
// On failure the board is left untouched and the error is a *PlayError.
func (b *Board) Drop(color Color, column int) (DropResult, error) {
	if column < 0 || column >= Columns {
		return DropResult{}, playError(CodeOutOfRange)
	}

	switch b.state.Phase {
	case PhaseWon:
		return DropResult{}, gameOverError(b.state.Color)
	case PhaseStalemate:
		return DropResult{}, playError(CodeStalemate)
	}

	current := b.state.Color
	if color != current {
		return DropResult{}, playError(CodeWrongColorChip)
	}

	row := -1
	for r := 0; r < Rows; r++ {
		if b.chips[column][r] == cellEmpty {
			row = r
			break
		}
	}
	if row < 0 {
		return DropResult{}, playError(CodeChipOverflow)
	}

	b.chips[column][row] = cellFor(current)
	move := Move{Color: current, Column: column, Row: row}
	if current == Red {
		b.moves.red++
	} else {
		b.moves.blue++
	}

	winner, won := b.findWin(move)
	b.state = b.nextState(current, winner, won)
	b.last = &move

	return DropResult{LastMove: move, State: b.state}, nil
}

// nextState derives the state following a successful move by mover.
func (b *Board) nextState(mover Color, winner Color, won bool) BoardState {
	if won {
		return Won(winner)
	}
	if b.moves.red+b.moves.blue >= Columns*Rows {
		return Stalemate()
	}
	return Turn(mover.Toggle())
}

// findWin scans only the four lines through the just-placed chip. Each
// scan keeps a running length of the mover's color, reset on a gap or
// an opposing chip; reaching 4 wins immediately.
func (b *Board) findWin(last Move) (Color, bool) {
	turn := last.Color
	col := last.Column
	row := last.Row

	// vertical: the column, clamped to at most 4 cells each side
	length := 0
	for r := row - min(4, row); r < row+min(4, Rows-row); r++ {
		if b.countRun(&length, turn, b.chips[col][r]) {
			return turn, true
		}
	}

	// horizontal: the row, clamped to at most 4 cells each side
	length = 0
	for c := col - min(4, col); c < col+min(4, Columns-col); c++ {
		if b.countRun(&length, turn, b.chips[c][row]) {
			return turn, true
		}
	}

	// rising diagonal
	length = 0
	dist := min(3, min(col, row))
	invDist := min(3, min((Rows-1)-row, (Columns-1)-col))
	for d := 0; d <= dist+invDist; d++ {
		if b.countRun(&length, turn, b.chips[col-dist+d][row-dist+d]) {
			return turn, true
		}
	}

	// falling diagonal
	length = 0
	dist = min(3, min(col, (Rows-1)-row))
	invDist = min(3, min((Columns-1)-col, row))
	for d := 0; d <= dist+invDist; d++ {
		if b.countRun(&length, turn, b.chips[col-dist+d][row+dist-d]) {
			return turn, true
		}
	}

	return turn, false
}

func (b *Board) countRun(length *int, turn Color, chip cell) bool {
	if chip == cellFor(turn) {
		*length++
		return *length >= 4
	}
	*length = 0
	return false
}

// String renders the grid top-down with a trailing status line. The
// output is deterministic and is the exact board text embedded in
// outbound protocol messages.
func (b *Board) String() string {
	var out strings.Builder
	out.WriteString("Connect4\n")
	out.WriteString("+━━━━━━━━━━━━━━━+\n")
	for row := Rows - 1; row >= 0; row-- {
		out.WriteString("| ")
		for col := 0; col < Columns; col++ {
			switch b.chips[col][row] {
			case cellFor(Red):
				out.WriteString("r ")
			case cellFor(Blue):
				out.WriteString("b ")
			default:
				out.WriteString("- ")
			}
		}
		out.WriteString("|\n")
	}
	out.WriteString("+━━━━━━━━━━━━━━━+\n")
	switch b.state.Phase {
	case PhaseTurn:
		out.WriteString("Turn: " + b.state.Color.String())
	case PhaseWon:
		out.WriteString("Winner: " + b.state.Color.String())
	case PhaseStalemate:
		out.WriteString("Stalemate :/")
	}
	return out.String()
}
