package store

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/SergioPauloA/Volpz/internal/models"
)

// MemoryConversationStore keeps direct conversations and groups in maps
// keyed by id. Conversations are created lazily and never destroyed.
type MemoryConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
	groups        map[string]*models.Group

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// NewMemoryConversationStore creates an empty store.
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		conversations: make(map[string]*models.Conversation),
		groups:        make(map[string]*models.Group),
		entropy:       ulid.Monotonic(rand.Reader, 0),
	}
}

// DirectID derives the deterministic conversation id for a pair of CPFs.
// Both orderings of the pair map to the same id.
func DirectID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}

// GetOrCreateDirect implements Conversations.
func (s *MemoryConversationStore) GetOrCreateDirect(a, b string) *models.Conversation {
	id := DirectID(a, b)

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		conv = &models.Conversation{
			ID:           id,
			Participants: [2]string{a, b},
			Messages:     []models.Message{},
		}
		s.conversations[id] = conv
	}
	return snapshotConversation(conv)
}

// AppendDirect implements Conversations.
func (s *MemoryConversationStore) AppendDirect(conversationID string, msg models.Message) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	conv.Messages = append(conv.Messages, msg)
	return []string{conv.Participants[0], conv.Participants[1]}, nil
}

// CreateGroup implements Conversations. The group id is a UUIDv7, which is
// time-ordered and unique across process lifetimes.
func (s *MemoryConversationStore) CreateGroup(creator, name string, participants []string) *models.Group {
	group := &models.Group{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         name,
		Creator:      creator,
		Participants: append([]string{creator}, participants...),
		CreatedAt:    time.Now(),
		Messages:     []models.Message{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups[group.ID] = group
	return snapshotGroup(group)
}

// AppendGroup implements Conversations.
func (s *MemoryConversationStore) AppendGroup(groupID string, msg models.Message) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupID]
	if !ok {
		return nil, ErrNotFound
	}
	group.Messages = append(group.Messages, msg)

	participants := make([]string, len(group.Participants))
	copy(participants, group.Participants)
	return participants, nil
}

// GetGroup implements Conversations.
func (s *MemoryConversationStore) GetGroup(groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[groupID]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshotGroup(group), nil
}

// NewMessage implements Conversations. The monotonic ULID entropy source
// guarantees strictly increasing ids even for messages created within the
// same millisecond.
func (s *MemoryConversationStore) NewMessage(senderCPF, senderName, content string) models.Message {
	s.entropyMu.Lock()
	id := ulid.MustNew(ulid.Now(), s.entropy).String()
	s.entropyMu.Unlock()

	return models.Message{
		ID:        id,
		Sender:    models.Sender{CPF: senderCPF, Name: senderName},
		Content:   content,
		Timestamp: time.Now(),
	}
}

// snapshotConversation copies the entity so callers cannot mutate store-owned
// message history.
func snapshotConversation(conv *models.Conversation) *models.Conversation {
	cp := *conv
	cp.Messages = make([]models.Message, len(conv.Messages))
	copy(cp.Messages, conv.Messages)
	return &cp
}

func snapshotGroup(group *models.Group) *models.Group {
	cp := *group
	cp.Participants = make([]string, len(group.Participants))
	copy(cp.Participants, group.Participants)
	cp.Messages = make([]models.Message, len(group.Messages))
	copy(cp.Messages, group.Messages)
	return &cp
}
