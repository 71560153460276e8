package connect4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadInvalidSize(t *testing.T) {
	_, err := Load(".......\n.......")
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = Load("...\n...\n...\n...\n...\n...")
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestLoadInvalidText(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		"..x...R"
	_, err := Load(layout)
	require.ErrorIs(t, err, ErrInvalidText)
}

func TestLoadNoLastMove(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		"rb....."
	_, err := Load(layout)
	require.ErrorIs(t, err, ErrNoLastMove)
}

func TestLoadExtraLastMove(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		"RB....."
	_, err := Load(layout)
	require.ErrorIs(t, err, ErrExtraLastMove)
}

func TestLoadInvalidMoves(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		"r......\n" +
		"rR....."
	_, err := Load(layout)
	require.ErrorIs(t, err, ErrInvalidMoves)
}

func TestLoadCountsAndTurn(t *testing.T) {
	layout := ".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		".r.....\n" +
		"brB...."

	board, err := Load(layout)
	require.NoError(t, err)

	red, blue := board.MoveCounts()
	require.Equal(t, 2, red)
	require.Equal(t, 2, blue)
	require.Equal(t, Turn(Red), board.State())
}
