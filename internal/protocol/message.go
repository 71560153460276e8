// Package protocol defines the closed set of messages exchanged with a
// player. Every message carries an explicit "type" discriminator on the
// wire; payload shape alone never identifies a message.
package protocol

import (
	"encoding/json"
	"errors"

	"github.com/winecraft-dev/connect4/internal/connect4"
)

// Kind discriminates the message variants.
type Kind string

const (
	// inbound
	KindDropChip Kind = "DropChip"

	// outbound
	KindBoard          Kind = "Board"
	KindMoved          Kind = "Moved"
	KindWon            Kind = "Won"
	KindStalemate      Kind = "Stalemate"
	KindInvalidMove    Kind = "InvalidMove"
	KindInvalidFormat  Kind = "InvalidFormat"
	KindInvalidMessage Kind = "InvalidMessage"
	KindTooManyPlayers Kind = "TooManyPlayers"
)

// ErrInvalidFormat reports a payload that could not be decoded as any
// known message. It is answered with an InvalidFormat message by the
// transport loop and is never surfaced to the session.
var ErrInvalidFormat = errors.New("payload is not a recognized message")

// Message is the wire representation of every protocol variant. Fields
// other than Type are populated per kind and omitted otherwise.
type Message struct {
	Type Kind `json:"type"`

	// DropChip
	Column *int `json:"column,omitempty"`

	// Board
	Turn *connect4.Color `json:"turn,omitempty"`

	// Moved
	LastMover *connect4.Color `json:"last_mover,omitempty"`

	// Won
	Winner *connect4.Color `json:"winner,omitempty"`

	// Moved, Won, Stalemate
	LastMove *connect4.Move `json:"last_move,omitempty"`
	Board    string         `json:"board,omitempty"`

	// InvalidMove
	Reason *connect4.PlayError `json:"reason,omitempty"`
}

var knownKinds = map[Kind]bool{
	KindDropChip:       true,
	KindBoard:          true,
	KindMoved:          true,
	KindWon:            true,
	KindStalemate:      true,
	KindInvalidMove:    true,
	KindInvalidFormat:  true,
	KindInvalidMessage: true,
	KindTooManyPlayers: true,
}

// Decode parses a raw frame. It fails with ErrInvalidFormat when the
// payload is not valid JSON, names no known kind, or names DropChip
// without a column. A well-formed message of an inappropriate kind is
// not Decode's concern; the session answers those with InvalidMessage.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, ErrInvalidFormat
	}
	if !knownKinds[m.Type] {
		return Message{}, ErrInvalidFormat
	}
	if m.Type == KindDropChip && m.Column == nil {
		return Message{}, ErrInvalidFormat
	}
	return m, nil
}

// Encode renders a message for the wire.
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// errNotInProgress guards the Board constructor, which is only sensible
// while the game is running.
var errNotInProgress = errors.New("board message requires a game in progress")

// BoardMessage announces the initial state once both seats are filled.
// The board text and turn are taken from the same snapshot so they can
// never disagree.
func BoardMessage(b *connect4.Board) (Message, error) {
	state := b.State()
	if state.Phase != connect4.PhaseTurn {
		return Message{}, errNotInProgress
	}
	turn := state.Color
	return Message{Type: KindBoard, Turn: &turn, Board: b.String()}, nil
}

// MovedMessage announces a successful non-terminal move.
func MovedMessage(b *connect4.Board, last connect4.Move, mover connect4.Color) Message {
	return Message{
		Type:      KindMoved,
		LastMover: &mover,
		LastMove:  &last,
		Board:     b.String(),
	}
}

// WonMessage announces the decided game.
func WonMessage(b *connect4.Board, winner connect4.Color) Message {
	m := Message{Type: KindWon, Winner: &winner, Board: b.String()}
	if last, ok := b.LastMove(); ok {
		m.LastMove = &last
	}
	return m
}

// StalemateMessage announces a full board with no winner.
func StalemateMessage(b *connect4.Board) Message {
	m := Message{Type: KindStalemate, Board: b.String()}
	if last, ok := b.LastMove(); ok {
		m.LastMove = &last
	}
	return m
}

// DropChipMessage builds the inbound move command; used by tests and
// the frontend documentation.
func DropChipMessage(column int) Message {
	return Message{Type: KindDropChip, Column: &column}
}

// InvalidMoveMessage reports a rules error back to its sender only.
func InvalidMoveMessage(reason *connect4.PlayError) Message {
	return Message{Type: KindInvalidMove, Reason: reason}
}

// InvalidFormatMessage reports an undecodable payload to its sender.
func InvalidFormatMessage() Message {
	return Message{Type: KindInvalidFormat}
}

// InvalidMessageMessage reports a decodable but contextually illegal
// message to its sender.
func InvalidMessageMessage() Message {
	return Message{Type: KindInvalidMessage}
}

// TooManyPlayersMessage rejects a connection beyond the second seat.
func TooManyPlayersMessage() Message {
	return Message{Type: KindTooManyPlayers}
}
