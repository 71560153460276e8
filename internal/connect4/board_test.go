package connect4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWinVertical(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		"R......\n" +
		"rb.....\n" +
		"rb.....\n" +
		"rb....."

	board, err := Load(layout)
	require.NoError(t, err)
	require.Equal(t, Won(Red), board.State())
}

func TestWinHorizontal(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		"...bb.b\n" +
		"...rrRr"

	board, err := Load(layout)
	require.NoError(t, err)
	require.Equal(t, Won(Red), board.State())
}

func TestWinDiagonal(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		"......r\n" +
		".....rb\n" +
		"....rbb\n" +
		"...Rrbb"

	board, err := Load(layout)
	require.NoError(t, err)
	require.Equal(t, Won(Red), board.State())
}

func TestWinDiagonalInverse(t *testing.T) {
	layout := ".......\n" +
		"r......\n" +
		"bR.....\n" +
		"brr....\n" +
		"rbbr...\n" +
		"rbbb..."

	board, err := Load(layout)
	require.NoError(t, err)
	require.Equal(t, Won(Red), board.State())
}

func TestLoadWithoutWinKeepsPlaying(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		"...r...\n" +
		"...rB.."

	board, err := Load(layout)
	require.NoError(t, err)
	require.Equal(t, Turn(Red), board.State())

	last, ok := board.LastMove()
	require.True(t, ok)
	require.Equal(t, Move{Color: Blue, Column: 4, Row: 0}, last)
}

func TestWinByLiveDrops(t *testing.T) {
	board := New()

	drops := []struct {
		color  Color
		column int
	}{
		{Red, 0}, {Blue, 1}, {Red, 0}, {Blue, 1}, {Red, 0}, {Blue, 1},
	}
	for _, d := range drops {
		res, err := board.Drop(d.color, d.column)
		require.NoError(t, err)
		require.Equal(t, PhaseTurn, res.State.Phase)
	}

	res, err := board.Drop(Red, 0)
	require.NoError(t, err)
	require.Equal(t, Won(Red), res.State)
	require.Equal(t, Move{Color: Red, Column: 0, Row: 3}, res.LastMove)
	require.Equal(t, Won(Red), board.State())
}

func TestDropOutOfRange(t *testing.T) {
	board := New()

	for _, column := range []int{-1, 7, 42} {
		_, err := board.Drop(Red, column)
		var perr *PlayError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, CodeOutOfRange, perr.Code)
	}
}

func TestDropWrongColorLeavesBoardUntouched(t *testing.T) {
	board := New()

	_, err := board.Drop(Blue, 3)
	var perr *PlayError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, CodeWrongColorChip, perr.Code)

	red, blue := board.MoveCounts()
	require.Zero(t, red)
	require.Zero(t, blue)
	require.Equal(t, Turn(Red), board.State())
	_, ok := board.LastMove()
	require.False(t, ok)
}

func TestDropChipOverflow(t *testing.T) {
	board := New()

	colors := []Color{Red, Blue, Red, Blue, Red, Blue}
	for _, c := range colors {
		_, err := board.Drop(c, 3)
		require.NoError(t, err)
	}

	_, err := board.Drop(Red, 3)
	var perr *PlayError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, CodeChipOverflow, perr.Code)
}

func TestDropAfterWinReportsWinner(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		"R......\n" +
		"rb.....\n" +
		"rb.....\n" +
		"rb....."

	board, err := Load(layout)
	require.NoError(t, err)

	_, err = board.Drop(Blue, 1)
	var perr *PlayError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, CodeGameOver, perr.Code)
	require.NotNil(t, perr.Winner)
	require.Equal(t, Red, *perr.Winner)
}

// A 41-chip position with no four-in-a-row anywhere; the 42nd chip must
// be the one that triggers the stalemate.
func TestStalemateOnFinalDrop(t *testing.T) {
	layout := "rbrbrb.\n" +
		"rbrbrbB\n" +
		"brbrbrr\n" +
		"brbrbrr\n" +
		"rbrbrbb\n" +
		"rbrbrbb"

	board, err := Load(layout)
	require.NoError(t, err)
	require.Equal(t, Turn(Red), board.State())

	res, err := board.Drop(Red, 6)
	require.NoError(t, err)
	require.Equal(t, Stalemate(), res.State)

	_, err = board.Drop(Blue, 0)
	var perr *PlayError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, CodeStalemate, perr.Code)
}

func TestString(t *testing.T) {
	board := New()
	_, err := board.Drop(Red, 3)
	require.NoError(t, err)

	want := "Connect4\n" +
		"+━━━━━━━━━━━━━━━+\n" +
		"| - - - - - - - |\n" +
		"| - - - - - - - |\n" +
		"| - - - - - - - |\n" +
		"| - - - - - - - |\n" +
		"| - - - - - - - |\n" +
		"| - - - r - - - |\n" +
		"+━━━━━━━━━━━━━━━+\n" +
		"Turn: Blue"
	require.Equal(t, want, board.String())
}
