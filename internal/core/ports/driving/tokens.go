package driving

import (
	"context"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

// TokenService is the entry point for callers that need a usable access
// token for a connected social account (e.g., the post-publishing job).
type TokenService interface {
	// GetValidAccessToken returns a plaintext access token for the connection.
	// If the stored token is still fresh it is decrypted and returned without
	// any network call; otherwise a refresh exchange is performed first.
	GetValidAccessToken(ctx context.Context, connectionID string) (string, error)

	// RefreshConnection forces a refresh-token exchange for the connection
	// and returns the updated record. On failure the connection is marked
	// inactive before the error is returned.
	RefreshConnection(ctx context.Context, connectionID string) (*domain.Connection, error)

	// GetConnection returns a safe summary of the connection (no token material).
	GetConnection(ctx context.Context, connectionID string) (*domain.ConnectionSummary, error)
}
