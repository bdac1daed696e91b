package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait.
	pingPeriod = 54 * time.Second

	// Outbound queue size per client. A client that falls this far behind
	// starts losing frames.
	sendBuffer = 256
)

// Client is one live websocket connection. It implements router.Conn: the
// identity is bound on login and all identity access happens on the hub's
// dispatch goroutine.
type Client struct {
	conn     *websocket.Conn
	hub      *Hub
	send     chan []byte
	done     chan struct{}
	addr     string
	identity string
	log      zerolog.Logger

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, hub *Hub, log zerolog.Logger) *Client {
	return &Client{
		conn: conn,
		hub:  hub,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
		addr: conn.RemoteAddr().String(),
		log:  log,
	}
}

// Identity implements router.Conn.
func (c *Client) Identity() string { return c.identity }

// SetIdentity implements router.Conn.
func (c *Client) SetIdentity(cpf string) { c.identity = cpf }

// Send implements router.Conn. It queues the frame for the write pump and
// never blocks; when the queue is full the frame is dropped, matching the
// fire-and-forget delivery contract.
func (c *Client) Send(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// shutdown stops the write pump. Safe to call more than once.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump reads frames from the connection and forwards them to the hub's
// dispatch loop. It exits when the peer closes or the read fails, and hands
// the client to the hub for cleanup.
func (c *Client) readPump(maxMessageSize int64) {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Warn().Err(err).Str("addr", c.addr).Msg("setting read deadline failed")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Str("addr", c.addr).Msg("websocket read failed")
			}
			return
		}
		if !c.hub.deliver(c, raw) {
			return
		}
	}
}

// writePump serializes all writes to the connection: queued frames and
// keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			// Best-effort close frame; the peer may already be gone.
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		}
	}
}
