package store

import (
	"context"
	"errors"
	"sync"

	"github.com/raushankrgupta/printlabs/models"
)

// ErrSessionNotFound is returned when a shop has not installed the app
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps one offline session per shop
type SessionStore interface {
	Get(ctx context.Context, shop string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, shop string) error
}

// MemoryStore is a process-local SessionStore
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.Session)}
}

func (m *MemoryStore) Get(_ context.Context, shop string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[shop]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.sessions[session.Shop]; ok && session.CreatedAt.IsZero() {
		session.CreatedAt = prev.CreatedAt
	}
	m.sessions[session.Shop] = *session
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, shop)
	return nil
}
