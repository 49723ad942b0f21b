// Package tokenstore holds password-reset tokens in memory.
package tokenstore

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type ResetToken struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store keeps at most one live token per user. Expiry is checked on every
// read; the cache janitor only reclaims memory.
type Store struct {
	mu      sync.Mutex
	byToken *cache.Cache
	byUser  *cache.Cache
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		byToken: cache.New(ttl, time.Minute),
		byUser:  cache.New(ttl, time.Minute),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue creates a fresh token for userID, replacing any earlier one.
func (s *Store) Issue(userID string) ResetToken {
	now := s.now()
	t := ResetToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.Put(t)
	return t
}

func (s *Store) Put(t ResetToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byUser.Get(t.UserID); ok {
		s.byToken.Delete(old.(string))
	}
	s.byToken.Set(t.Token, t, cache.DefaultExpiration)
	s.byUser.Set(t.UserID, t.Token, cache.DefaultExpiration)
}

func (s *Store) Get(token string) (ResetToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(token)
}

// Consume returns the token and removes it, so it works only once.
func (s *Store) Consume(token string) (ResetToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lookup(token)
	if ok {
		s.remove(t)
	}
	return t, ok
}

func (s *Store) DeleteByKey(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.byToken.Get(token); ok {
		s.remove(v.(ResetToken))
	}
}

func (s *Store) DeleteByUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.byUser.Get(userID); ok {
		s.byToken.Delete(v.(string))
		s.byUser.Delete(userID)
	}
}

// caller holds mu
func (s *Store) lookup(token string) (ResetToken, bool) {
	v, ok := s.byToken.Get(token)
	if !ok {
		return ResetToken{}, false
	}
	t := v.(ResetToken)
	if !s.now().Before(t.ExpiresAt) {
		s.remove(t)
		return ResetToken{}, false
	}
	return t, true
}

// caller holds mu
func (s *Store) remove(t ResetToken) {
	s.byToken.Delete(t.Token)
	if cur, ok := s.byUser.Get(t.UserID); ok && cur.(string) == t.Token {
		s.byUser.Delete(t.UserID)
	}
}
