package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

// MockConnectionStore is an in-memory ConnectionStore for testing.
type MockConnectionStore struct {
	mu          sync.RWMutex
	connections map[string]*domain.Connection

	// UpdateCalls records every partial update applied, in order.
	UpdateCalls []domain.ConnectionUpdate

	// GetErr and UpdateErr force errors when set.
	GetErr    error
	UpdateErr error
}

// NewMockConnectionStore creates a new MockConnectionStore.
func NewMockConnectionStore() *MockConnectionStore {
	return &MockConnectionStore{
		connections: make(map[string]*domain.Connection),
	}
}

// Seed inserts a connection directly, bypassing update semantics.
func (m *MockConnectionStore) Seed(conn *domain.Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *conn
	m.connections[conn.ID] = &cp
}

func (m *MockConnectionStore) Get(ctx context.Context, id string) (*domain.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}
	conn, ok := m.connections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *conn
	return &cp, nil
}

func (m *MockConnectionStore) Update(ctx context.Context, id string, update domain.ConnectionUpdate) (*domain.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	conn, ok := m.connections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	m.UpdateCalls = append(m.UpdateCalls, update)

	if update.AccessToken != nil {
		conn.AccessToken = *update.AccessToken
	}
	if update.RefreshToken != nil {
		conn.RefreshToken = *update.RefreshToken
	}
	if update.TokenExpiresAt != nil {
		conn.TokenExpiresAt = *update.TokenExpiresAt
	}
	if update.IsActive != nil {
		conn.IsActive = *update.IsActive
	}
	if update.LastError != nil {
		conn.LastError = *update.LastError
	}
	if update.ErrorCount != nil {
		conn.ErrorCount = *update.ErrorCount
	}
	conn.UpdatedAt = time.Now()

	cp := *conn
	return &cp, nil
}

func (m *MockConnectionStore) ListExpiring(ctx context.Context, within time.Duration) ([]*domain.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := time.Now().Add(within)
	var result []*domain.Connection
	for _, conn := range m.connections {
		if conn.IsActive && conn.TokenExpiresAt.Before(cutoff) {
			cp := *conn
			result = append(result, &cp)
		}
	}
	return result, nil
}

// Helper methods for testing

func (m *MockConnectionStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Current returns the stored record without copy-on-read error injection.
func (m *MockConnectionStore) Current(id string) *domain.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.connections[id]
	if !ok {
		return nil
	}
	cp := *conn
	return &cp
}
