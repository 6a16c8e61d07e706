package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driven"
)

// Ensure ConnectionStore implements the interface.
var _ driven.ConnectionStore = (*ConnectionStore)(nil)

// connectionColumns is the column list every read uses, in scan order.
const connectionColumns = `id, platform, account_id, account_name,
	access_token, refresh_token, token_expires_at,
	is_active, last_error, error_count, created_at, updated_at`

// ConnectionStore implements driven.ConnectionStore using PostgreSQL.
type ConnectionStore struct {
	db *DB
}

// NewConnectionStore creates a new PostgreSQL-backed connection store.
func NewConnectionStore(db *DB) *ConnectionStore {
	return &ConnectionStore{db: db}
}

// Get retrieves a connection by ID.
func (s *ConnectionStore) Get(ctx context.Context, id string) (*domain.Connection, error) {
	query := `SELECT ` + connectionColumns + `
		FROM social_connections
		WHERE id = $1`

	conn, err := scanConnection(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	return conn, nil
}

// Update applies a partial update: only set fields are written, and
// updated_at always moves. RETURNING keeps the read-back in the same
// round trip, so callers see exactly what was persisted.
func (s *ConnectionStore) Update(ctx context.Context, id string, update domain.ConnectionUpdate) (*domain.Connection, error) {
	sets := []string{"updated_at = NOW()"}
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.AccessToken != nil {
		add("access_token", *update.AccessToken)
	}
	if update.RefreshToken != nil {
		add("refresh_token", *update.RefreshToken)
	}
	if update.TokenExpiresAt != nil {
		add("token_expires_at", *update.TokenExpiresAt)
	}
	if update.IsActive != nil {
		add("is_active", *update.IsActive)
	}
	if update.LastError != nil {
		add("last_error", *update.LastError)
	}
	if update.ErrorCount != nil {
		add("error_count", *update.ErrorCount)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE social_connections
		SET %s
		WHERE id = $%d
		RETURNING `+connectionColumns,
		strings.Join(sets, ", "), len(args))

	conn, err := scanConnection(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update connection: %w", err)
	}
	return conn, nil
}

// ListExpiring returns active connections whose access token expires within
// the given window, soonest first. Already-expired tokens are included:
// they are the most urgent to refresh.
func (s *ConnectionStore) ListExpiring(ctx context.Context, within time.Duration) ([]*domain.Connection, error) {
	query := `SELECT ` + connectionColumns + `
		FROM social_connections
		WHERE is_active AND token_expires_at <= $1
		ORDER BY token_expires_at ASC`

	rows, err := s.db.QueryContext(ctx, query, time.Now().Add(within))
	if err != nil {
		return nil, fmt.Errorf("list expiring connections: %w", err)
	}
	defer rows.Close()

	var conns []*domain.Connection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		conns = append(conns, conn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connections: %w", err)
	}

	return conns, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (*domain.Connection, error) {
	var conn domain.Connection
	var platform string

	err := row.Scan(
		&conn.ID,
		&platform,
		&conn.AccountID,
		&conn.AccountName,
		&conn.AccessToken,
		&conn.RefreshToken,
		&conn.TokenExpiresAt,
		&conn.IsActive,
		&conn.LastError,
		&conn.ErrorCount,
		&conn.CreatedAt,
		&conn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	conn.Platform = domain.Platform(platform)
	return &conn, nil
}
