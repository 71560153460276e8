package session

// EventType discriminates admission stream events.
type EventType int

const (
	EventConnected EventType = iota
	EventDisconnected
)

// Event is one seat-occupancy change on the admission stream. Conn is
// set for EventConnected, Username for EventDisconnected.
type Event struct {
	Type     EventType
	Conn     *Connection
	Username string
}

// Connected wraps a freshly admitted connection.
func Connected(conn *Connection) Event {
	return Event{Type: EventConnected, Conn: conn}
}

// Disconnected records that the named player's transport went away.
func Disconnected(username string) Event {
	return Event{Type: EventDisconnected, Username: username}
}
