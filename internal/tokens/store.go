package tokens

import "sync"

// Store is an in-memory mapping of GitHub App installation IDs to personal
// access tokens supplied by users who would rather not install the App. Entries
// live only as long as the process does.
type Store interface {
	// Set binds a token to an installation ID, replacing any token previously
	// bound to it.
	Set(installationID int64, token string)
	// Get returns the token bound to the installation ID, if any.
	Get(installationID int64) (string, bool)
	// Delete unbinds the installation ID's token and reports whether one
	// existed.
	Delete(installationID int64) bool
	// Has reports whether a token is bound to the installation ID.
	Has(installationID int64) bool
}

type store struct {
	mu     sync.RWMutex
	tokens map[int64]string
}

// NewStore returns an empty, ready to use Store.
func NewStore() Store {
	return &store{
		tokens: map[int64]string{},
	}
}

func (s *store) Set(installationID int64, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[installationID] = token
}

func (s *store) Get(installationID int64) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[installationID]
	return token, ok
}

func (s *store) Delete(installationID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[installationID]
	delete(s.tokens, installationID)
	return ok
}

func (s *store) Has(installationID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[installationID]
	return ok
}
