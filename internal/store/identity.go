package store

import (
	"crypto/subtle"
	"sync"

	"github.com/SergioPauloA/Volpz/internal/models"
)

// MemoryIdentityStore keeps accounts in a map keyed by CPF. Accounts are
// never deleted, and credentials are effectively immutable after creation.
type MemoryIdentityStore struct {
	mu         sync.RWMutex
	accounts   map[string]*models.Account
	order      []string
	privileged string
}

// NewMemoryIdentityStore creates the store seeded with the bootstrap account.
// privilegedSector names the organizational unit allowed to register new
// accounts.
func NewMemoryIdentityStore(privilegedSector string, seed models.Account) *MemoryIdentityStore {
	s := &MemoryIdentityStore{
		accounts:   make(map[string]*models.Account),
		privileged: privilegedSector,
	}
	if seed.CPF != "" {
		cp := seed
		s.accounts[seed.CPF] = &cp
		s.order = append(s.order, seed.CPF)
	}
	return s
}

// VerifyCredentials implements Identities. The password comparison is
// constant-time even though secrets are stored in the clear.
func (s *MemoryIdentityStore) VerifyCredentials(cpf, password string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[cpf]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(account.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}
	cp := *account
	return &cp, nil
}

// Register implements Identities.
func (s *MemoryIdentityStore) Register(account models.Account, requestingCPF string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requester, ok := s.accounts[requestingCPF]
	if !ok || requester.Sector != s.privileged {
		return nil, ErrPermissionDenied
	}
	if _, exists := s.accounts[account.CPF]; exists {
		return nil, ErrDuplicateIdentity
	}

	cp := account
	s.accounts[account.CPF] = &cp
	s.order = append(s.order, account.CPF)

	out := cp
	return &out, nil
}

// Get implements Identities.
func (s *MemoryIdentityStore) Get(cpf string) (*models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[cpf]
	if !ok {
		return nil, false
	}
	cp := *account
	return &cp, true
}

// ListOthers implements Identities. Registration order keeps listings stable
// across calls.
func (s *MemoryIdentityStore) ListOthers(excludingCPF string) []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	others := make([]models.Account, 0, len(s.order))
	for _, cpf := range s.order {
		if cpf == excludingCPF {
			continue
		}
		others = append(others, *s.accounts[cpf])
	}
	return others
}

// Count implements Identities.
func (s *MemoryIdentityStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
