// Package session holds the bearer token for the running process.
package session

import (
	"log"
	"sync"

	"github.com/naveenspark/saasdash/internal/prefs"
)

// Store is the single owner of the auth token. The token is read from the
// preference store on first use and cached; writes go to both.
type Store struct {
	prefs prefs.Store

	mu     sync.Mutex
	loaded bool
	token  string
	envTok string
}

// Option configures a Store.
type Option func(*Store)

// WithEnvToken seeds the token from the environment. It takes precedence over
// the persisted value and is never written back.
func WithEnvToken(tok string) Option {
	return func(s *Store) { s.envTok = tok }
}

// New creates a session store backed by p.
func New(p prefs.Store, opts ...Option) *Store {
	s := &Store{prefs: p}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token returns the current token and whether one is present.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	return s.token, s.token != ""
}

// Authenticated reports token presence. No validation is done.
func (s *Store) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// SetToken stores tok in memory and persists it. An empty tok clears the session.
func (s *Store) SetToken(tok string) {
	if tok == "" {
		s.ClearToken()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.token = tok
	if err := s.prefs.Set(prefs.KeyToken, tok); err != nil {
		log.Printf("session: persist token: %v", err)
	}
}

// ClearToken forgets the token in memory and in storage.
func (s *Store) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.token = ""
	s.envTok = ""
	if err := s.prefs.Delete(prefs.KeyToken); err != nil {
		log.Printf("session: clear token: %v", err)
	}
}

// load fills the cache on first use. Caller holds s.mu.
func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	if s.envTok != "" {
		s.token = s.envTok
		return
	}
	tok, ok, err := s.prefs.Get(prefs.KeyToken)
	if err != nil {
		log.Printf("session: read token: %v", err)
		return
	}
	if ok {
		s.token = tok
	}
}
