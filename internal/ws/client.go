// Package ws is the transport boundary: it upgrades HTTP requests to
// websockets and runs the per-player pump loops that feed the session's
// admission stream and message queues.
package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/winecraft-dev/connect4/internal/logger"
	"github.com/winecraft-dev/connect4/internal/protocol"
	"github.com/winecraft-dev/connect4/internal/session"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Send pings to peer with this period. Must be less than pongWait.
	maxMessageSize = 512                 // Maximum message size allowed from peer.

	queueSize = 256
)

// Gateway accepts player connections and posts admission events to the
// session. Any number of handlers may produce events; the session is
// the single consumer.
type Gateway struct {
	events         chan<- session.Event
	allowedOrigins []string
}

// NewGateway builds a gateway posting onto the given admission stream.
// An empty origin list allows every origin.
func NewGateway(events chan<- session.Event, allowedOrigins []string) *Gateway {
	return &Gateway{events: events, allowedOrigins: allowedOrigins}
}

func (g *Gateway) checkOrigin(r *http.Request) bool {
	if len(g.allowedOrigins) == 0 {
		return true
	}
	origin := strings.TrimSuffix(r.Header.Get("Origin"), "/")
	for _, allowed := range g.allowedOrigins {
		if origin == strings.TrimSuffix(allowed, "/") {
			return true
		}
	}
	logger.Warn("websocket origin rejected", map[string]any{"origin": origin})
	return false
}

// HandlePlay upgrades /play/{username} and wires the connection's two
// pump loops. The loops share one cancellation signal; the read loop
// additionally observes a derived child signal so it can be stopped
// without waiting for the write loop's teardown, and vice versa.
func (g *Gateway) HandlePlay(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if username == "" {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", map[string]any{
			"username": username, "remote": r.RemoteAddr, "error": err.Error(),
		})
		return
	}
	logger.Info("websocket connection upgraded", map[string]any{
		"username": username, "remote": r.RemoteAddr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	readCtx, stopRead := context.WithCancel(ctx)

	inbound := make(chan protocol.Message, queueSize)
	outbound := make(chan protocol.Message, queueSize)

	c := session.NewConnection(session.ConnectionConfig{
		Username: username,
		Inbound:  inbound,
		Outbound: outbound,
		Done:     ctx.Done(),
		Cancel:   cancel,
		StopRead: stopRead,
	})

	// Seat the player before the pumps start so a Disconnected event can
	// never precede its Connected event.
	g.events <- session.Connected(c)

	go writePump(ctx, conn, outbound)
	go g.readPump(readCtx, cancel, conn, username, inbound, outbound)
}

// readPump decodes inbound frames onto the connection's message queue.
// Malformed frames are answered with InvalidFormat on the spot and
// never reach the session. When the transport closes, the queue is
// closed and a Disconnected event is posted.
func (g *Gateway) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, username string, inbound chan<- protocol.Message, outbound chan<- protocol.Message) {
	defer func() {
		close(inbound)
		g.events <- session.Disconnected(username)
		cancel()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if ctx.Err() != nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Warn("websocket read error", map[string]any{"username": username, "error": err.Error()})
			} else {
				logger.Debug("websocket closed", map[string]any{"username": username})
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			logger.Debug("undecodable frame", map[string]any{"username": username, "payload": string(data)})
			select {
			case outbound <- protocol.InvalidFormatMessage():
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case inbound <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// writePump encodes queued outbound messages onto the socket and keeps
// the peer alive with pings. On cancellation it flushes whatever is
// still queued, sends a close frame and closes the transport.
func writePump(ctx context.Context, conn *websocket.Conn, outbound <-chan protocol.Message) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	write := func(msg protocol.Message) error {
		data, err := protocol.Encode(msg)
		if err != nil {
			return err
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	for {
		select {
		case msg := <-outbound:
			if err := write(msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			for {
				select {
				case msg := <-outbound:
					if err := write(msg); err != nil {
						return
					}
				default:
					conn.SetWriteDeadline(time.Now().Add(writeWait))
					conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		}
	}
}
