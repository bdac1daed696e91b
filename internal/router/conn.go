package router

// Conn is one live client channel as seen by the router. Identity is empty
// until a successful login binds the connection to an account.
type Conn interface {
	// Send queues a frame for delivery and reports whether it was accepted.
	// It must never block: delivery is fire-and-forget, and a recipient that
	// cannot keep up loses the frame.
	Send(payload []byte) bool

	// Identity returns the CPF bound to this channel, or "" when anonymous.
	Identity() string

	// SetIdentity binds the channel to an account after login.
	SetIdentity(cpf string)
}

// Broadcaster fans a raw payload out to every connected channel, bound or
// anonymous. It backs the legacy compatibility path for unrecognized frame
// types.
type Broadcaster interface {
	BroadcastAll(payload []byte)
}
