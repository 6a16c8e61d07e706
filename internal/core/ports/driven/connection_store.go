package driven

import (
	"context"
	"time"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

// ConnectionStore is the sole point of contact with the persisted
// connection records. The token service never talks to storage directly,
// so the backing store can be swapped without touching orchestration.
type ConnectionStore interface {
	// Get retrieves a connection by ID.
	// Returns domain.ErrNotFound if the connection doesn't exist.
	Get(ctx context.Context, id string) (*domain.Connection, error)

	// Update applies a partial update: only non-nil fields change, and
	// updated_at is always refreshed as a side effect.
	// Returns the updated record, or domain.ErrNotFound.
	Update(ctx context.Context, id string, update domain.ConnectionUpdate) (*domain.Connection, error)

	// ListExpiring returns active connections whose access token expires
	// within the given window. Used by the background refresher.
	ListExpiring(ctx context.Context, within time.Duration) ([]*domain.Connection, error)
}
