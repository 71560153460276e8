// Package session drives one Connect-4 game between two connected
// players: it admits them from the admission stream, arbitrates whose
// move is accepted, applies moves to the board and broadcasts results.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/winecraft-dev/connect4/internal/analytics"
	"github.com/winecraft-dev/connect4/internal/connect4"
	"github.com/winecraft-dev/connect4/internal/logger"
	"github.com/winecraft-dev/connect4/internal/protocol"
)

// State is the session's lifecycle phase.
type State int

const (
	StateAwaitingRed State = iota
	StateAwaitingBlue
	StatePlaying
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateAwaitingRed:
		return "awaiting_red"
	case StateAwaitingBlue:
		return "awaiting_blue"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	}
	return "unknown"
}

// Session-fatal errors. These terminate the run loop and are surfaced
// to the owning process; players never see their detail.
var (
	ErrEventsClosed    = errors.New("admission stream closed")
	ErrUnexpectedEvent = errors.New("admission event impossible in current state")
)

// EventSink receives analytics events. *analytics.Producer satisfies
// it; a nil sink disables recording.
type EventSink interface {
	SendEvent(event analytics.GameEvent) error
}

// Session owns one board and up to two connections. All board access
// happens on the goroutine running Step, so the board needs no locking.
type Session struct {
	id      string
	state   State
	events  <-chan Event
	board   *connect4.Board
	red     *Connection
	blue    *Connection
	sink    EventSink
	started time.Time
}

// New creates a session consuming the given admission stream.
func New(events <-chan Event) *Session {
	return &Session{
		id:     uuid.New().String(),
		state:  StateAwaitingRed,
		events: events,
		board:  connect4.New(),
	}
}

// SetEventSink attaches an optional analytics sink.
func (s *Session) SetEventSink(sink EventSink) {
	s.sink = sink
}

// ID returns the session's identifier, used for log and analytics
// correlation.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// Board exposes the board for inspection; the session remains its only
// writer.
func (s *Session) Board() *connect4.Board {
	return s.board
}

// Run steps the session until the game is over or a fatal error occurs.
// On return both seats are closed; the session is spent either way and
// the owner decides whether to exit or start over.
func (s *Session) Run(ctx context.Context) error {
	defer s.retire()
	for s.state != StateGameOver {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step performs one blocking state-machine transition: it waits for
// whichever relevant event source becomes ready first and reacts to it.
func (s *Session) Step(ctx context.Context) error {
	switch s.state {
	case StateAwaitingRed, StateAwaitingBlue:
		return s.awaitSeats(ctx)
	case StatePlaying:
		return s.play(ctx)
	default:
		return nil
	}
}

func (s *Session) retire() {
	if s.red != nil {
		s.red.Close()
	}
	if s.blue != nil {
		s.blue.Close()
	}
}

// awaitSeats fills the red then the blue seat from the admission
// stream. Once blue is seated both players receive the initial Board
// message and play begins.
func (s *Session) awaitSeats(ctx context.Context) error {
	var ev Event
	var ok bool
	select {
	case ev, ok = <-s.events:
		if !ok {
			return ErrEventsClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	switch ev.Type {
	case EventConnected:
		if s.state == StateAwaitingRed {
			s.red = ev.Conn
			s.state = StateAwaitingBlue
			logger.Info("red seat filled", map[string]any{"session": s.id, "username": ev.Conn.Username()})
			s.record(analytics.CreatePlayerEvent(analytics.EventPlayerJoin, s.id, ev.Conn.Username()))
			return nil
		}
		s.blue = ev.Conn
		logger.Info("blue seat filled", map[string]any{"session": s.id, "username": ev.Conn.Username()})
		s.record(analytics.CreatePlayerEvent(analytics.EventPlayerJoin, s.id, ev.Conn.Username()))

		msg, err := protocol.BoardMessage(s.board)
		if err != nil {
			return err
		}
		if err := s.broadcast(msg); err != nil {
			return err
		}
		s.state = StatePlaying
		s.started = time.Now()
		s.record(analytics.CreateGameStartEvent(s.id, s.red.Username(), s.blue.Username()))
		return nil

	case EventDisconnected:
		if s.state != StateAwaitingBlue {
			return fmt.Errorf("%w: disconnect of %q while %s", ErrUnexpectedEvent, ev.Username, s.state)
		}
		if s.red.Username() == ev.Username {
			s.red = nil
			s.state = StateAwaitingRed
			logger.Info("red seat vacated", map[string]any{"session": s.id, "username": ev.Username})
			s.record(analytics.CreatePlayerEvent(analytics.EventPlayerLeave, s.id, ev.Username))
		}
		// A rejected or unrelated connection going away is nobody's
		// business here.
		return nil
	}
	return fmt.Errorf("%w: event type %d", ErrUnexpectedEvent, ev.Type)
}

// play races red's inbound messages, blue's inbound messages and the
// admission stream. No priority ordering is guaranteed between sources
// that are ready at the same time.
func (s *Session) play(ctx context.Context) error {
	select {
	case msg, ok := <-s.red.Inbound():
		if !ok {
			return s.seatLost(s.red.Username())
		}
		return s.playMessage(connect4.Red, msg)
	case msg, ok := <-s.blue.Inbound():
		if !ok {
			return s.seatLost(s.blue.Username())
		}
		return s.playMessage(connect4.Blue, msg)
	case ev, ok := <-s.events:
		if !ok {
			return ErrEventsClosed
		}
		return s.playEvent(ev)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// playMessage handles one inbound message from a seated player. Rules
// and protocol errors go back to the sender only; a failed send to a
// seated peer is fatal because it means the peer tore down behind the
// session's back.
func (s *Session) playMessage(from connect4.Color, msg protocol.Message) error {
	conn := s.seat(from)

	if msg.Type != protocol.KindDropChip {
		logger.Debug("contextually illegal message", map[string]any{
			"session": s.id, "from": from.String(), "kind": string(msg.Type),
		})
		return conn.Send(protocol.InvalidMessageMessage())
	}

	result, err := s.board.Drop(from, *msg.Column)
	if err != nil {
		var perr *connect4.PlayError
		if !errors.As(err, &perr) {
			return err
		}
		switch perr.Code {
		case connect4.CodeGameOver:
			// A move racing the end of the game; repeat the outcome to
			// the late sender, informationally.
			return conn.Send(protocol.WonMessage(s.board, *perr.Winner))
		case connect4.CodeStalemate:
			return conn.Send(protocol.StalemateMessage(s.board))
		default:
			return conn.Send(protocol.InvalidMoveMessage(perr))
		}
	}

	s.record(analytics.CreateMoveEvent(s.id, conn.Username(), result.LastMove.Row, result.LastMove.Column))

	switch result.State.Phase {
	case connect4.PhaseTurn:
		return s.broadcast(protocol.MovedMessage(s.board, result.LastMove, from))
	case connect4.PhaseWon:
		if err := s.broadcast(protocol.WonMessage(s.board, result.State.Color)); err != nil {
			return err
		}
		s.finish("won", result.State.Color.String())
		return nil
	case connect4.PhaseStalemate:
		if err := s.broadcast(protocol.StalemateMessage(s.board)); err != nil {
			return err
		}
		s.finish("stalemate", "")
		return nil
	}
	return nil
}

// playEvent handles an admission event while the game is running.
func (s *Session) playEvent(ev Event) error {
	switch ev.Type {
	case EventConnected:
		// Both seats are taken; turn the newcomer away. The send may
		// fail if they are already gone, which is their prerogative.
		if err := ev.Conn.Send(protocol.TooManyPlayersMessage()); err != nil {
			logger.Debug("rejected connection already gone", map[string]any{
				"session": s.id, "username": ev.Conn.Username(),
			})
		}
		ev.Conn.Close()
		logger.Info("connection rejected, table is full", map[string]any{
			"session": s.id, "username": ev.Conn.Username(),
		})
		return nil
	case EventDisconnected:
		if ev.Username == s.red.Username() || ev.Username == s.blue.Username() {
			return s.seatLost(ev.Username)
		}
		return nil
	}
	return fmt.Errorf("%w: event type %d", ErrUnexpectedEvent, ev.Type)
}

// seatLost ends the match when a seated player's transport goes away
// mid-game. The survivor receives no forfeit notice; the match simply
// stops accepting moves.
func (s *Session) seatLost(username string) error {
	s.record(analytics.CreatePlayerEvent(analytics.EventPlayerLeave, s.id, username))
	s.finish("abandoned", "")
	logger.Info("player disconnected mid-game", map[string]any{"session": s.id, "username": username})
	return nil
}

func (s *Session) finish(outcome, winner string) {
	s.state = StateGameOver
	logger.Info("game over", map[string]any{"session": s.id, "outcome": outcome, "winner": winner})
	s.record(analytics.CreateGameEndEvent(s.id, outcome, winner, time.Since(s.started)))
}

func (s *Session) seat(color connect4.Color) *Connection {
	if color == connect4.Red {
		return s.red
	}
	return s.blue
}

// broadcast sends the same message to red then blue. Either failure is
// fatal: it means a peer's outbound path tore down inconsistently with
// the seat bookkeeping.
func (s *Session) broadcast(msg protocol.Message) error {
	if err := s.red.Send(msg); err != nil {
		return fmt.Errorf("broadcast to red %q: %w", s.red.Username(), err)
	}
	if err := s.blue.Send(msg); err != nil {
		return fmt.Errorf("broadcast to blue %q: %w", s.blue.Username(), err)
	}
	return nil
}

// record forwards an event to the analytics sink; recording is best
// effort and never affects gameplay.
func (s *Session) record(event analytics.GameEvent) {
	if s.sink == nil {
		return
	}
	if err := s.sink.SendEvent(event); err != nil {
		logger.Warn("analytics event dropped", map[string]any{"session": s.id, "error": err.Error()})
	}
}
