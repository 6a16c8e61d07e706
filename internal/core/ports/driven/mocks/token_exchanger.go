package mocks

import (
	"context"
	"sync"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

// MockTokenExchanger is a configurable TokenExchanger for testing.
type MockTokenExchanger struct {
	mu sync.Mutex

	// RefreshFunc is invoked for each Refresh call when set.
	RefreshFunc func(ctx context.Context, cfg domain.ProviderConfig, refreshToken string) (*domain.TokenSet, error)

	calls []string // refresh tokens seen, in order
}

// NewMockTokenExchanger creates a new MockTokenExchanger.
func NewMockTokenExchanger() *MockTokenExchanger {
	return &MockTokenExchanger{}
}

func (m *MockTokenExchanger) Refresh(ctx context.Context, cfg domain.ProviderConfig, refreshToken string) (*domain.TokenSet, error) {
	m.mu.Lock()
	m.calls = append(m.calls, refreshToken)
	fn := m.RefreshFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, cfg, refreshToken)
	}
	return &domain.TokenSet{AccessToken: "new-access-token", ExpiresIn: 3600}, nil
}

// Calls returns the refresh tokens passed to Refresh, in order.
func (m *MockTokenExchanger) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns the number of Refresh invocations.
func (m *MockTokenExchanger) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
