package verification

import "sync"

// Identity carries the passport fields returned by a successful proof.
type Identity struct {
	Nationality    string
	PassportNumber string
}

// State records whether the wallet owner has verified their identity. It
// gates access to verification-restricted funding sources and holds the
// verified passport fields until the owner forgets them.
type State struct {
	mu       sync.RWMutex
	identity *Identity
}

// NewState returns an unverified state holder.
func NewState() *State {
	return &State{}
}

// IsVerified reports whether a verified identity is currently held.
func (s *State) IsVerified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Identity returns the verified identity, if any.
func (s *State) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Set stores the verified identity.
func (s *State) Set(identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := identity
	s.identity = &id
}

// Forget clears the verified identity, returning the wallet to the
// unverified state.
func (s *State) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
}
