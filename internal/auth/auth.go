// Package auth defines the authentication-provider boundary: the current
// learner identity, if any, and change notification.
//
// The real identity provider lives outside this system; the CLI drives the
// Static implementation from persisted login state.
package auth

import "sync"

// Provider exposes the current identity and fires a callback whenever it
// changes. The sync coordinator subscribes to trigger migration and reload.
type Provider interface {
	// Identity returns the current learner id, or ok=false when anonymous.
	Identity() (id string, ok bool)

	// OnChange registers a callback invoked on every identity change,
	// including logout (called with ok=false).
	OnChange(fn func(id string, ok bool))
}

// Static is a Provider whose identity is set explicitly (CLI login/logout).
type Static struct {
	mu   sync.Mutex
	id   string
	subs []func(id string, ok bool)
}

// NewStatic returns a provider with the given initial identity; empty means
// anonymous. The initial value does not fire callbacks.
func NewStatic(id string) *Static {
	return &Static{id: id}
}

// Identity implements Provider.
func (s *Static) Identity() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.id != ""
}

// OnChange implements Provider.
func (s *Static) OnChange(fn func(id string, ok bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// SetIdentity changes the identity and notifies subscribers. Setting the
// same identity again is a no-op.
func (s *Static) SetIdentity(id string) {
	s.mu.Lock()
	if s.id == id {
		s.mu.Unlock()
		return
	}
	s.id = id
	subs := make([]func(string, bool), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(id, id != "")
	}
}

// Clear drops the identity (logout) and notifies subscribers.
func (s *Static) Clear() {
	s.SetIdentity("")
}
