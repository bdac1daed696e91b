package router

import "sync"

// Presence is the connection registry: it maps an authenticated CPF to its
// single live channel. A later login for the same CPF silently replaces the
// earlier binding; the previous holder is not notified. The reverse index
// keyed by channel makes removal on disconnect O(1).
type Presence struct {
	mu     sync.RWMutex
	byCPF  map[string]Conn
	byConn map[Conn]string
}

// NewPresence creates an empty registry.
func NewPresence() *Presence {
	return &Presence{
		byCPF:  make(map[string]Conn),
		byConn: make(map[Conn]string),
	}
}

// Bind records the mapping, overwriting any previous channel for cpf and any
// previous identity for c.
func (p *Presence) Bind(cpf string, c Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.byCPF[cpf]; ok {
		delete(p.byConn, prev)
	}
	if prevCPF, ok := p.byConn[c]; ok {
		delete(p.byCPF, prevCPF)
	}
	p.byCPF[cpf] = c
	p.byConn[c] = cpf
}

// Unbind removes the entry for c and returns the CPF that was bound to it.
// It is a no-op on channels that never logged in.
func (p *Presence) Unbind(c Conn) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cpf, ok := p.byConn[c]
	if !ok {
		return "", false
	}
	delete(p.byConn, c)

	// Only drop the forward entry if it still points at this channel; a
	// replacement login may have rebound the CPF already.
	if current, ok := p.byCPF[cpf]; ok && current == c {
		delete(p.byCPF, cpf)
	}
	return cpf, true
}

// Resolve returns the live channel for cpf. Absence means the user is
// offline and events for them are silently dropped.
func (p *Presence) Resolve(cpf string) (Conn, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.byCPF[cpf]
	return c, ok
}

// IsOnline reports whether cpf has a live channel.
func (p *Presence) IsOnline(cpf string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.byCPF[cpf]
	return ok
}

// Count returns the number of bound channels.
func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byCPF)
}
