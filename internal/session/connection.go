package session

import (
	"context"
	"errors"

	"github.com/winecraft-dev/connect4/internal/protocol"
)

// ErrConnectionClosed reports a send on a connection whose outbound
// path has already torn down.
var ErrConnectionClosed = errors.New("connection closed")

// Connection abstracts one player's transport as an inbound message
// source and an outbound message sink with cooperative cancellation.
// The session holds it exclusively while the player is seated; once a
// seat is vacated or an extra connection is rejected, the connection is
// closed and never reused.
type Connection struct {
	username string
	inbound  <-chan protocol.Message
	outbound chan<- protocol.Message
	done     <-chan struct{}
	cancel   context.CancelFunc
	stopRead context.CancelFunc
}

// ConnectionConfig wires a Connection to its transport loops. Done is
// closed when the whole connection is cancelled; Cancel cancels it.
// StopRead cancels only the inbound loop so the outbound loop can still
// flush during asymmetric teardown. Cancel and StopRead may be nil.
type ConnectionConfig struct {
	Username string
	Inbound  <-chan protocol.Message
	Outbound chan<- protocol.Message
	Done     <-chan struct{}
	Cancel   context.CancelFunc
	StopRead context.CancelFunc
}

// NewConnection builds a connection handle around transport queues.
func NewConnection(cfg ConnectionConfig) *Connection {
	return &Connection{
		username: cfg.Username,
		inbound:  cfg.Inbound,
		outbound: cfg.Outbound,
		done:     cfg.Done,
		cancel:   cfg.Cancel,
		stopRead: cfg.StopRead,
	}
}

// Username returns the name the player connected under.
func (c *Connection) Username() string {
	return c.username
}

// Inbound exposes the decoded message stream so the session can race it
// against other event sources. The channel is closed when the transport
// closes; malformed frames never appear on it.
func (c *Connection) Inbound() <-chan protocol.Message {
	return c.inbound
}

// Send enqueues a message onto the outbound path. A full queue blocks
// the caller; that is the backpressure policy for a slow peer. Send
// fails only once the connection has torn down.
func (c *Connection) Send(m protocol.Message) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.outbound <- m:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	}
}

// Close requests cooperative shutdown: the inbound loop stops yielding
// messages and the outbound loop flushes what is queued and closes the
// transport.
func (c *Connection) Close() {
	if c.stopRead != nil {
		c.stopRead()
	}
	if c.cancel != nil {
		c.cancel()
	}
}
