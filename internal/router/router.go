// Package router dispatches inbound typed frames to their handlers, keeps
// the connection registry, and fans resulting events out to the affected
// live channels.
package router

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/SergioPauloA/Volpz/internal/metrics"
	"github.com/SergioPauloA/Volpz/internal/models"
	"github.com/SergioPauloA/Volpz/internal/store"
)

// Router holds the stores and the presence registry shared by all handlers.
// It carries no per-request state: session state is the identity bound to
// each Conn.
type Router struct {
	identities    store.Identities
	conversations store.Conversations
	presence      *Presence
	broadcaster   Broadcaster
	log           zerolog.Logger
}

// New creates a Router over the given stores. broadcaster backs the legacy
// raw-broadcast path for unrecognized frame types.
func New(identities store.Identities, conversations store.Conversations, presence *Presence, broadcaster Broadcaster, log zerolog.Logger) *Router {
	return &Router{
		identities:    identities,
		conversations: conversations,
		presence:      presence,
		broadcaster:   broadcaster,
		log:           log,
	}
}

// Presence exposes the connection registry for health reporting.
func (r *Router) Presence() *Presence {
	return r.presence
}

// Dispatch handles one inbound frame from c. The hub calls it from a single
// goroutine and every frame runs to completion before the next one, so store
// mutations are never concurrent.
//
// Unparseable frames are logged and swallowed: the channel stays open and
// the caller gets no feedback.
func (r *Router) Dispatch(c Conn, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		metrics.MalformedFrames.Inc()
		r.log.Warn().Err(err).Msg("discarding malformed frame")
		return
	}

	switch frame.Type {
	case TypeLogin:
		r.handleLogin(c, frame.Data)
	case TypeRegister:
		r.handleRegister(c, frame.Data)
	case TypeGetUsers:
		r.handleGetUsers(c)
	case TypeStartConversation:
		r.handleStartConversation(c, frame.Data)
	case TypeSendMessage:
		r.handleSendMessage(c, frame.Data)
	case TypeCreateGroup:
		r.handleCreateGroup(c, frame.Data)
	case TypeJoinGroup:
		r.handleJoinGroup(c, frame.Data)
	default:
		// Legacy clients speak untyped frames; relay them verbatim to every
		// connected channel.
		r.broadcaster.BroadcastAll(raw)
	}
}

// Disconnect clears the channel's presence binding after the transport
// reports a close.
func (r *Router) Disconnect(c Conn) {
	if cpf, ok := r.presence.Unbind(c); ok {
		r.log.Info().Str("cpf", cpf).Msg("user disconnected")
	}
}

// caller resolves the account bound to c. Protected requests on an anonymous
// or stale channel return nil and the handler stays silent, by contract.
func (r *Router) caller(c Conn) *models.Account {
	cpf := c.Identity()
	if cpf == "" {
		return nil
	}
	account, ok := r.identities.Get(cpf)
	if !ok {
		return nil
	}
	return account
}

// send delivers a single event to one channel.
func (r *Router) send(c Conn, eventType string, data any) {
	payload, err := marshalEvent(eventType, data)
	if err != nil {
		r.log.Error().Err(err).Str("event", eventType).Msg("marshaling event failed")
		return
	}
	if !c.Send(payload) {
		metrics.EventsDropped.WithLabelValues("backpressure").Inc()
	}
}

// fanout delivers one event to every participant that is currently online,
// in participant-list order. Offline participants are skipped without error.
func (r *Router) fanout(participants []string, eventType string, data any) {
	payload, err := marshalEvent(eventType, data)
	if err != nil {
		r.log.Error().Err(err).Str("event", eventType).Msg("marshaling event failed")
		return
	}
	for _, cpf := range participants {
		ch, ok := r.presence.Resolve(cpf)
		if !ok {
			metrics.EventsDropped.WithLabelValues("offline").Inc()
			continue
		}
		if !ch.Send(payload) {
			metrics.EventsDropped.WithLabelValues("backpressure").Inc()
		}
	}
}

// displayName resolves a CPF to its display name, or "" when the CPF was
// never registered (group invitations are not validated against the
// identity store).
func (r *Router) displayName(cpf string) string {
	account, ok := r.identities.Get(cpf)
	if !ok {
		return ""
	}
	return account.Name
}

// malformed records an unparseable request payload. Same policy as the
// envelope: log, count, no response.
func (r *Router) malformed(requestType string, err error) {
	metrics.MalformedFrames.Inc()
	r.log.Warn().Err(err).Str("request", requestType).Msg("discarding malformed payload")
}
