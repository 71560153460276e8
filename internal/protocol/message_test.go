package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winecraft-dev/connect4/internal/connect4"
)

func TestDecodeDropChip(t *testing.T) {
	m, err := Decode([]byte(`{"type":"DropChip","column":3}`))
	require.NoError(t, err)
	require.Equal(t, KindDropChip, m.Type)
	require.NotNil(t, m.Column)
	require.Equal(t, 3, *m.Column)
}

func TestDecodeInvalidFormat(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{"column":3}`,
		`{"type":"LaunchMissiles"}`,
		`{"type":"DropChip"}`,
		`42`,
	}
	for _, raw := range cases {
		_, err := Decode([]byte(raw))
		require.ErrorIs(t, err, ErrInvalidFormat, "payload: %s", raw)
	}
}

func TestDecodeKnownKindIsNotFormatError(t *testing.T) {
	// Contextually illegal but perfectly decodable; the session decides
	// what to do with it.
	m, err := Decode([]byte(`{"type":"TooManyPlayers"}`))
	require.NoError(t, err)
	require.Equal(t, KindTooManyPlayers, m.Type)
}

func TestBoardMessageMatchesSnapshot(t *testing.T) {
	board := connect4.New()
	_, err := board.Drop(connect4.Red, 0)
	require.NoError(t, err)

	m, err := BoardMessage(board)
	require.NoError(t, err)
	require.Equal(t, KindBoard, m.Type)
	require.NotNil(t, m.Turn)
	require.Equal(t, connect4.Blue, *m.Turn)
	require.Equal(t, board.String(), m.Board)
	require.Contains(t, m.Board, "Turn: Blue")
}

func TestBoardMessageRejectsFinishedGame(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		"R......\n" +
		"rb.....\n" +
		"rb.....\n" +
		"rb....."
	board, err := connect4.Load(layout)
	require.NoError(t, err)

	_, err = BoardMessage(board)
	require.Error(t, err)
}

func TestWonMessageWire(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		"R......\n" +
		"rb.....\n" +
		"rb.....\n" +
		"rb....."
	board, err := connect4.Load(layout)
	require.NoError(t, err)

	data, err := Encode(WonMessage(board, connect4.Red))
	require.NoError(t, err)

	m, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindWon, m.Type)
	require.NotNil(t, m.Winner)
	require.Equal(t, connect4.Red, *m.Winner)
	require.NotNil(t, m.LastMove)
	require.Equal(t, connect4.Move{Color: connect4.Red, Column: 0, Row: 3}, *m.LastMove)
	require.Contains(t, m.Board, "Winner: Red")
}

func TestInvalidMoveCarriesReason(t *testing.T) {
	board := connect4.New()
	_, err := board.Drop(connect4.Blue, 0)
	require.Error(t, err)

	var perr *connect4.PlayError
	require.ErrorAs(t, err, &perr)

	data, err := Encode(InvalidMoveMessage(perr))
	require.NoError(t, err)
	require.Contains(t, string(data), `"WrongColorChip"`)

	m, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, KindInvalidMove, m.Type)
	require.NotNil(t, m.Reason)
	require.Equal(t, connect4.CodeWrongColorChip, m.Reason.Code)
}
