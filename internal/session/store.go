// Package session persists the session token under a well-known key.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"society-platform/internal/claims"
)

// DefaultTokenKey is the key the token is stored under unless configured.
const DefaultTokenKey = "auth:token"

var (
	// ErrNoToken is returned by Get when no token is stored.
	ErrNoToken = errors.New("session: no token stored")
	// ErrEmptyToken is returned by Set for blank tokens.
	ErrEmptyToken = errors.New("session: token cannot be empty")
)

// Store is a key-value home for the session token. The token is written on
// login, read on demand and deleted on logout; it is never modified in place.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// MemoryStore keeps the token in process memory. Useful for tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Get(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// TokenSource reads the stored token for request building.
type TokenSource struct {
	store Store
}

func NewTokenSource(store Store) *TokenSource { return &TokenSource{store: store} }

// Token returns the stored token with any double JSON encoding removed.
// A missing token, or a store failure, yields "": callers proceed without
// contextual identifiers.
func (s *TokenSource) Token(ctx context.Context) string {
	if s == nil || s.store == nil {
		return ""
	}
	raw, err := s.store.Get(ctx)
	if err != nil {
		return ""
	}
	return claims.UnwrapStored(raw)
}
