package store

import "errors"

// Error taxonomy surfaced by the stores. Handlers match these with
// errors.Is and translate them to wire events (or silence, for the
// guard-clause paths).
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrDuplicateIdentity  = errors.New("identity already registered")
	ErrNotFound           = errors.New("not found")
)
