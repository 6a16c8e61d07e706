package driven

import (
	"context"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

// TokenExchanger performs the provider-side OAuth2 refresh-token exchange.
// A single attempt per call: retries, if any, belong to the caller.
// Implementations must bound the request with a timeout and return
// *domain.RefreshExchangeError for non-2xx responses, timeouts, and
// malformed response bodies.
type TokenExchanger interface {
	Refresh(ctx context.Context, cfg domain.ProviderConfig, refreshToken string) (*domain.TokenSet, error)
}

// ProviderRegistry resolves the static endpoint/credential bundle for a platform.
type ProviderRegistry interface {
	// ConfigFor returns the provider config for a platform.
	// Returns domain.ErrUnsupportedPlatform for unknown platforms, so
	// callers can tell a misconfiguration from a transient failure.
	ConfigFor(platform domain.Platform) (domain.ProviderConfig, error)
}
