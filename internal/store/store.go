package store

import (
	"github.com/SergioPauloA/Volpz/internal/models"
)

// Identities holds registered accounts and answers credential checks.
// MemoryIdentityStore implements this interface; a persistent backend can be
// swapped in without touching the router.
type Identities interface {
	// VerifyCredentials succeeds only on an exact CPF+password match and
	// returns ErrInvalidCredentials otherwise.
	VerifyCredentials(cpf, password string) (*models.Account, error)

	// Register inserts a new account on behalf of requestingCPF. It returns
	// ErrPermissionDenied unless the requester belongs to the privileged
	// sector, and ErrDuplicateIdentity if the CPF is already taken.
	Register(account models.Account, requestingCPF string) (*models.Account, error)

	// Get returns the account for cpf, or false when it is not registered.
	Get(cpf string) (*models.Account, bool)

	// ListOthers returns every account except the caller's, in registration
	// order.
	ListOthers(excludingCPF string) []models.Account

	// Count returns the number of registered accounts.
	Count() int
}

// Conversations owns direct conversations and group chats, which in turn own
// their message history.
type Conversations interface {
	// GetOrCreateDirect resolves the conversation for the unordered pair
	// (a, b), creating it on first use. The returned value is a snapshot.
	GetOrCreateDirect(a, b string) *models.Conversation

	// AppendDirect appends msg to a direct conversation and returns its
	// participants, or ErrNotFound.
	AppendDirect(conversationID string, msg models.Message) ([]string, error)

	// CreateGroup creates a group owned by creator. The participant list is
	// creator followed by participants verbatim; callers are responsible for
	// the CPFs being real accounts.
	CreateGroup(creator, name string, participants []string) *models.Group

	// AppendGroup appends msg to a group and returns its participants, or
	// ErrNotFound.
	AppendGroup(groupID string, msg models.Message) ([]string, error)

	// GetGroup returns a snapshot of the group, or ErrNotFound.
	GetGroup(groupID string) (*models.Group, error)

	// NewMessage builds a message with a server-assigned id and timestamp.
	// Ids are unique and monotonically increasing within the process.
	NewMessage(senderCPF, senderName, content string) models.Message
}
