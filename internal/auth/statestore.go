package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/tingleshq/tingles/internal/model"
)

type pendingState struct {
	provider  model.AuthProvider
	expiresAt time.Time
}

// StateStore holds the single-use CSRF state tokens for in-flight OAuth
// attempts. Tokens expire after the configured TTL and are removed the first
// time they are consumed, so a replayed callback always fails. The clock and
// token source are injectable for deterministic tests.
type StateStore struct {
	mu       sync.Mutex
	pending  map[string]pendingState
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

type StateOption func(*StateStore)

// WithClock replaces the store's time source.
func WithClock(now func() time.Time) StateOption {
	return func(s *StateStore) { s.now = now }
}

// WithTokenSource replaces the random token generator.
func WithTokenSource(gen func() string) StateOption {
	return func(s *StateStore) { s.newToken = gen }
}

func NewStateStore(ttl time.Duration, opts ...StateOption) *StateStore {
	s := &StateStore{
		pending:  make(map[string]pendingState),
		ttl:      ttl,
		now:      time.Now,
		newToken: randomToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue registers a new pending attempt for the provider and returns its
// state token. Expired entries are swept here to keep the map bounded.
func (s *StateStore) Issue(provider model.AuthProvider) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, st := range s.pending {
		if now.After(st.expiresAt) {
			delete(s.pending, token)
		}
	}

	token := s.newToken()
	s.pending[token] = pendingState{
		provider:  provider,
		expiresAt: now.Add(s.ttl),
	}
	return token
}

// Consume validates and invalidates a state token. It returns false when the
// token is unknown, expired, or issued for a different provider. The entry is
// deleted in every case, so a second presentation of the same token fails.
func (s *StateStore) Consume(token string, provider model.AuthProvider) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.pending[token]
	if !ok {
		return false
	}
	delete(s.pending, token)

	if s.now().After(st.expiresAt) {
		return false
	}
	return st.provider == provider
}

// Provider reports which provider a live token was issued for without
// consuming it. The shared callback endpoint uses it to route the exchange;
// the token is still single-use and is invalidated by Consume.
func (s *StateStore) Provider(token string) (model.AuthProvider, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.pending[token]
	if !ok || s.now().After(st.expiresAt) {
		return "", false
	}
	return st.provider, true
}

// Len reports the number of pending attempts. Used by tests.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func randomToken() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
