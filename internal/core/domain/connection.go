package domain

import "time"

// DefaultExpiryBuffer is how long before the stored expiry a token is
// already treated as expired, so a caller never receives a token that
// expires mid-use.
const DefaultExpiryBuffer = 5 * time.Minute

// Connection is one user's link to a social platform account.
// AccessToken and RefreshToken always hold ciphertext produced by the
// token cipher; plaintext never crosses the persistence boundary.
type Connection struct {
	ID       string   `json:"id"`
	Platform Platform `json:"platform"`

	// AccountID and AccountName identify the remote account, for display.
	AccountID   string `json:"account_id,omitempty"`
	AccountName string `json:"account_name,omitempty"`

	// Token material (ciphertext). RefreshToken may be empty: some
	// providers and flows never issue one.
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`

	// TokenExpiresAt is the expiry of the currently stored access token.
	TokenExpiresAt time.Time `json:"token_expires_at"`

	// IsActive is false once a refresh has failed; the connection is
	// unusable until re-authorized.
	IsActive   bool   `json:"is_active"`
	LastError  string `json:"last_error,omitempty"`
	ErrorCount int    `json:"error_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConnectionState names the lifecycle state of a connection.
type ConnectionState string

const (
	// StateActive means the stored token pair is usable (possibly after a refresh).
	StateActive ConnectionState = "active"

	// StateInactive means refreshing failed and the connection needs re-authorization.
	StateInactive ConnectionState = "inactive"
)

// ConnectionStatus is the explicit view of the is_active/last_error/error_count
// triple. Deriving it here keeps illegal combinations (active with a stored
// error) out of the rest of the codebase.
type ConnectionStatus struct {
	State        ConnectionState `json:"state"`
	Reason       string          `json:"reason,omitempty"`
	FailureCount int             `json:"failure_count,omitempty"`
}

// Status derives the explicit state from the persisted record.
func (c *Connection) Status() ConnectionStatus {
	if c.IsActive {
		return ConnectionStatus{State: StateActive}
	}
	return ConnectionStatus{
		State:        StateInactive,
		Reason:       c.LastError,
		FailureCount: c.ErrorCount,
	}
}

// HasRefreshToken reports whether a refresh token is stored.
func (c *Connection) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// TokenExpired reports whether a token with the given expiry should be
// treated as expired. A token is expired once the current time is within
// buffer of expiresAt, not only after it.
func TokenExpired(expiresAt time.Time, buffer time.Duration) bool {
	return time.Now().Add(buffer).After(expiresAt)
}

// ConnectionSummary is a safe view of a connection without token material.
type ConnectionSummary struct {
	ID             string           `json:"id"`
	Platform       Platform         `json:"platform"`
	AccountName    string           `json:"account_name,omitempty"`
	Status         ConnectionStatus `json:"status"`
	TokenExpiresAt time.Time        `json:"token_expires_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToSummary converts a Connection to a ConnectionSummary.
func (c *Connection) ToSummary() *ConnectionSummary {
	return &ConnectionSummary{
		ID:             c.ID,
		Platform:       c.Platform,
		AccountName:    c.AccountName,
		Status:         c.Status(),
		TokenExpiresAt: c.TokenExpiresAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ConnectionUpdate is a partial update of a connection record.
// Only non-nil fields are written; updated_at is always refreshed by the store.
type ConnectionUpdate struct {
	AccessToken    *string
	RefreshToken   *string
	TokenExpiresAt *time.Time
	IsActive       *bool
	LastError      *string // pointer to empty string clears the column
	ErrorCount     *int
}

// TokenSet is a normalized, plaintext refresh-exchange result.
// RefreshToken is empty when the provider did not rotate it.
// ExpiresIn is in seconds; zero means the provider omitted it.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	TokenType    string
	Scope        string
}
