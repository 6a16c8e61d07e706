package mocks

import (
	"sync"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

// MockProviderRegistry is an in-memory ProviderRegistry for testing.
type MockProviderRegistry struct {
	mu      sync.RWMutex
	configs map[domain.Platform]domain.ProviderConfig
}

// NewMockProviderRegistry creates a registry pre-populated with the given configs.
func NewMockProviderRegistry(configs ...domain.ProviderConfig) *MockProviderRegistry {
	m := &MockProviderRegistry{
		configs: make(map[domain.Platform]domain.ProviderConfig),
	}
	for _, cfg := range configs {
		m.configs[cfg.Platform] = cfg
	}
	return m
}

// Add registers or replaces a provider config.
func (m *MockProviderRegistry) Add(cfg domain.ProviderConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[cfg.Platform] = cfg
}

func (m *MockProviderRegistry) ConfigFor(platform domain.Platform) (domain.ProviderConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.configs[platform]
	if !ok {
		return domain.ProviderConfig{}, domain.ErrUnsupportedPlatform
	}
	return cfg, nil
}
