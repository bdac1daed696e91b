package router

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/SergioPauloA/Volpz/internal/metrics"
)

// handleCreateGroup creates a group whose membership is fixed at creation:
// the caller plus the invited CPFs verbatim. Every participant currently
// online is notified. Invited CPFs are not validated against the identity
// store; unknown ones simply show up with an empty display name.
func (r *Router) handleCreateGroup(c Conn, data json.RawMessage) {
	var req createGroupRequest
	if err := json.Unmarshal(data, &req); err != nil {
		r.malformed(TypeCreateGroup, err)
		return
	}

	account := r.caller(c)
	if account == nil {
		return
	}

	group := r.conversations.CreateGroup(account.CPF, req.GroupName, req.Participants)

	metrics.GroupsCreated.Inc()
	r.log.Info().Str("group", group.ID).Str("name", group.Name).Int("participants", len(group.Participants)).Msg("group created")

	r.fanout(group.Participants, TypeGroupCreated, groupCreatedEvent{Group: groupInfo{
		ID:           group.ID,
		Name:         group.Name,
		Participants: r.participantInfos(group.Participants),
	}})
}

// handleJoinGroup answers the caller with a snapshot of the group: name,
// history, and membership. It does not add the caller to the participant
// list; joining is a view-only operation.
func (r *Router) handleJoinGroup(c Conn, data json.RawMessage) {
	var req joinGroupRequest
	if err := json.Unmarshal(data, &req); err != nil {
		r.malformed(TypeJoinGroup, err)
		return
	}

	if r.caller(c) == nil {
		return
	}

	group, err := r.conversations.GetGroup(req.GroupID)
	if err != nil {
		return
	}

	r.send(c, TypeGroupJoined, groupJoinedEvent{
		GroupID:      group.ID,
		GroupName:    group.Name,
		Messages:     group.Messages,
		Participants: r.participantInfos(group.Participants),
	})
}

func (r *Router) participantInfos(cpfs []string) []participantInfo {
	return lo.Map(cpfs, func(cpf string, _ int) participantInfo {
		return participantInfo{CPF: cpf, Name: r.displayName(cpf)}
	})
}
