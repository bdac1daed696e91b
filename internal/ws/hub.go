// Package ws is the websocket transport: it upgrades connections, runs the
// per-client read/write pumps, and serializes every inbound frame through a
// single dispatch loop.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/SergioPauloA/Volpz/internal/metrics"
	"github.com/SergioPauloA/Volpz/internal/router"
)

type inboundFrame struct {
	client  *Client
	payload []byte
}

// Hub owns every live client. Registrations, disconnects, and inbound frames
// all flow through Run's single goroutine, so each frame is processed to
// completion before the next and the stores never see concurrent mutation.
type Hub struct {
	router         *router.Router
	log            zerolog.Logger
	maxMessageSize int64

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame

	stopped chan struct{}
	wg      sync.WaitGroup

	upgrader websocket.Upgrader
}

// NewHub creates a hub. SetRouter must be called before Run.
func NewHub(log zerolog.Logger, maxMessageSize int64) *Hub {
	return &Hub{
		log:            log,
		maxMessageSize: maxMessageSize,
		clients:        make(map[*Client]struct{}),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		inbound:        make(chan inboundFrame, 256),
		stopped:        make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Intranet deployment; the frontend is served from another
			// origin on the same network.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// SetRouter wires the dispatcher. Separate from NewHub because the router
// needs the hub as its Broadcaster.
func (h *Hub) SetRouter(r *router.Router) {
	h.router = r
}

// Run is the dispatch loop. It returns when ctx is canceled, after closing
// every client connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Int("clients", len(h.clients)).Msg("closing client connections")
			for c := range h.clients {
				c.shutdown()
				c.conn.Close()
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.ActiveConnections.Inc()
			h.log.Info().Str("addr", c.addr).Int("clients", len(h.clients)).Msg("client connected")

			h.wg.Add(2)
			go func() {
				defer h.wg.Done()
				c.readPump(h.maxMessageSize)
			}()
			go func() {
				defer h.wg.Done()
				c.writePump()
			}()

		case c := <-h.unregister:
			if _, ok := h.clients[c]; !ok {
				continue
			}
			delete(h.clients, c)
			c.shutdown()
			metrics.ActiveConnections.Dec()
			h.router.Disconnect(c)
			h.log.Info().Str("addr", c.addr).Int("clients", len(h.clients)).Msg("client disconnected")

		case in := <-h.inbound:
			h.router.Dispatch(in.client, in.payload)
		}
	}
}

// Shutdown waits for the dispatch loop to exit and the client pumps to
// finish, up to timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	<-h.stopped

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}

// BroadcastAll implements router.Broadcaster. Only called from the dispatch
// loop, so the client set needs no locking.
func (h *Hub) BroadcastAll(payload []byte) {
	for c := range h.clients {
		if !c.Send(payload) {
			metrics.EventsDropped.WithLabelValues("backpressure").Inc()
		}
	}
}

// deliver hands an inbound frame to the dispatch loop. It reports false when
// the hub is shutting down and the reader should exit.
func (h *Hub) deliver(c *Client, payload []byte) bool {
	select {
	case h.inbound <- inboundFrame{client: c, payload: payload}:
		return true
	case <-h.stopped:
		return false
	}
}

// drop asks the dispatch loop to unregister a client whose reader exited.
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

// ServeWS upgrades the HTTP request and registers the connection with the
// hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := newClient(conn, h, h.log)
	select {
	case h.register <- client:
	case <-h.stopped:
		conn.Close()
	}
}
