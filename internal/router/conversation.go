package router

import (
	"encoding/json"
	"errors"

	"github.com/SergioPauloA/Volpz/internal/metrics"
	"github.com/SergioPauloA/Volpz/internal/store"
)

// handleStartConversation lazily creates the direct conversation between the
// caller and the target and answers the caller with its id and history. The
// target is not notified until a message is actually sent.
func (r *Router) handleStartConversation(c Conn, data json.RawMessage) {
	var req startConversationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		r.malformed(TypeStartConversation, err)
		return
	}

	account := r.caller(c)
	if account == nil {
		return
	}
	target, ok := r.identities.Get(req.TargetCPF)
	if !ok {
		return
	}

	conv := r.conversations.GetOrCreateDirect(account.CPF, target.CPF)

	r.send(c, TypeConversationStarted, conversationStartedEvent{
		ConversationID: conv.ID,
		TargetUser: targetUser{
			CPF:    target.CPF,
			Name:   target.Name,
			Sector: target.Sector,
		},
		Messages: conv.Messages,
	})
}

// handleSendMessage appends a message with a server-assigned id and
// timestamp and fans it out to every participant currently online, sender
// included. When isGroup is set but no such group exists, the id is retried
// against the direct conversations, mirroring the historical relay.
func (r *Router) handleSendMessage(c Conn, data json.RawMessage) {
	var req sendMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		r.malformed(TypeSendMessage, err)
		return
	}

	account := r.caller(c)
	if account == nil {
		return
	}

	msg := r.conversations.NewMessage(account.CPF, account.Name, req.Content)

	if req.IsGroup {
		participants, err := r.conversations.AppendGroup(req.ConversationID, msg)
		if err == nil {
			metrics.MessagesRelayed.WithLabelValues("group").Inc()
			r.fanout(participants, TypeNewMessage, newMessageEvent{
				ConversationID: req.ConversationID,
				Message:        msg,
				IsGroup:        true,
			})
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			r.log.Error().Err(err).Str("group", req.ConversationID).Msg("appending group message failed")
			return
		}
	}

	participants, err := r.conversations.AppendDirect(req.ConversationID, msg)
	if err != nil {
		// Unknown conversation id: silent no-op.
		return
	}

	metrics.MessagesRelayed.WithLabelValues("direct").Inc()
	r.fanout(participants, TypeNewMessage, newMessageEvent{
		ConversationID: req.ConversationID,
		Message:        msg,
		IsGroup:        false,
	})
}
