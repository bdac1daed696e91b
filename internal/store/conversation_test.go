package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirectIDSymmetric(t *testing.T) {
	require.Equal(t, "111-222", DirectID("111", "222"))
	require.Equal(t, "111-222", DirectID("222", "111"))
	require.Equal(t, DirectID("20030321778", "11111111111"), DirectID("11111111111", "20030321778"))
}

func TestGetOrCreateDirectIdempotent(t *testing.T) {
	s := NewMemoryConversationStore()

	first := s.GetOrCreateDirect("222", "111")
	second := s.GetOrCreateDirect("111", "222")

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.Participants, second.Participants)
	require.Empty(t, second.Messages)
	require.NotNil(t, second.Messages, "history must serialize as [], not null")
}

func TestAppendDirect(t *testing.T) {
	s := NewMemoryConversationStore()
	conv := s.GetOrCreateDirect("111", "222")

	participants, err := s.AppendDirect(conv.ID, s.NewMessage("111", "Alice", "hi"))
	require.NoError(t, err)
	require.Equal(t, []string{"111", "222"}, participants)

	_, err = s.AppendDirect("no-such-id", s.NewMessage("111", "Alice", "hi"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAppendNStoresNInOrder(t *testing.T) {
	s := NewMemoryConversationStore()
	conv := s.GetOrCreateDirect("111", "222")

	const n = 50
	for i := 0; i < n; i++ {
		_, err := s.AppendDirect(conv.ID, s.NewMessage("111", "Alice", fmt.Sprintf("msg %d", i)))
		require.NoError(t, err)
	}

	stored := s.GetOrCreateDirect("111", "222").Messages
	require.Len(t, stored, n)
	for i := 1; i < n; i++ {
		require.Equal(t, fmt.Sprintf("msg %d", i), stored[i].Content)
		require.Greater(t, stored[i].ID, stored[i-1].ID,
			"message ids must be strictly increasing")
	}
}

func TestMessageIDsUniqueAndMonotonic(t *testing.T) {
	s := NewMemoryConversationStore()

	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 1000; i++ {
		msg := s.NewMessage("111", "Alice", "x")
		require.False(t, seen[msg.ID], "duplicate id %s", msg.ID)
		seen[msg.ID] = true
		require.Greater(t, msg.ID, prev)
		prev = msg.ID
	}
}

func TestCreateGroupKeepsParticipantsVerbatim(t *testing.T) {
	s := NewMemoryConversationStore()

	group := s.CreateGroup("111", "plantão", []string{"222", "333", "222", "999"})

	require.NotEmpty(t, group.ID)
	require.Equal(t, "plantão", group.Name)
	require.Equal(t, "111", group.Creator)
	// Creator first, invitees verbatim: duplicates and unknown CPFs are kept.
	require.Equal(t, []string{"111", "222", "333", "222", "999"}, group.Participants)
	require.False(t, group.CreatedAt.IsZero())

	other := s.CreateGroup("111", "plantão", []string{"222"})
	require.NotEqual(t, group.ID, other.ID)
}

func TestAppendGroup(t *testing.T) {
	s := NewMemoryConversationStore()
	group := s.CreateGroup("111", "ti", []string{"222"})

	participants, err := s.AppendGroup(group.ID, s.NewMessage("222", "Bob", "oi"))
	require.NoError(t, err)
	require.Equal(t, []string{"111", "222"}, participants)

	got, err := s.GetGroup(group.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	require.Equal(t, "oi", got.Messages[0].Content)

	_, err = s.AppendGroup("no-such-group", s.NewMessage("111", "Alice", "x"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetGroupSnapshotIsolated(t *testing.T) {
	s := NewMemoryConversationStore()
	group := s.CreateGroup("111", "ti", []string{"222"})

	snap, err := s.GetGroup(group.ID)
	require.NoError(t, err)
	snap.Participants[0] = "mutated"
	snap.Messages = append(snap.Messages, s.NewMessage("x", "x", "x"))

	again, err := s.GetGroup(group.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"111", "222"}, again.Participants)
	require.Empty(t, again.Messages)

	_, err = s.GetGroup("missing")
	require.ErrorIs(t, err, ErrNotFound)
}
