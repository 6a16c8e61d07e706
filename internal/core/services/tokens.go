package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driven"
	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driving"
)

// Ensure tokenService implements TokenService
var _ driving.TokenService = (*tokenService)(nil)

const (
	// defaultExpiryFallback applies when a provider returns no expires_in.
	// Several supported platforms issue long-lived tokens without an
	// explicit field.
	defaultExpiryFallback = 60 * 24 * time.Hour

	// refreshLockTTL bounds how long a per-connection refresh lock is held.
	refreshLockTTL = 30 * time.Second
)

// TokenServiceConfig holds configuration for the token service.
type TokenServiceConfig struct {
	// Store is the sole path to persisted connection records.
	Store driven.ConnectionStore

	// Cipher protects token material at rest.
	Cipher driven.TokenCipher

	// Registry resolves per-platform OAuth configuration.
	Registry driven.ProviderRegistry

	// Exchanger performs the provider refresh exchange.
	Exchanger driven.TokenExchanger

	// Lock, when set, serializes concurrent refreshes of the same
	// connection. Optional: without it, concurrent callers race and the
	// loser fails through the normal failure path.
	Lock driven.DistributedLock

	// ExpiryBuffer overrides how early a token counts as expired.
	// Zero means domain.DefaultExpiryBuffer.
	ExpiryBuffer time.Duration

	Logger *slog.Logger
}

// tokenService drives the token lifecycle for social connections:
// expiry checks, refresh exchanges, re-encryption, and failure bookkeeping.
type tokenService struct {
	store     driven.ConnectionStore
	cipher    driven.TokenCipher
	registry  driven.ProviderRegistry
	exchanger driven.TokenExchanger
	lock      driven.DistributedLock
	buffer    time.Duration
	logger    *slog.Logger
}

// NewTokenService creates a new token service.
func NewTokenService(cfg TokenServiceConfig) driving.TokenService {
	buffer := cfg.ExpiryBuffer
	if buffer <= 0 {
		buffer = domain.DefaultExpiryBuffer
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &tokenService{
		store:     cfg.Store,
		cipher:    cfg.Cipher,
		registry:  cfg.Registry,
		exchanger: cfg.Exchanger,
		lock:      cfg.Lock,
		buffer:    buffer,
		logger:    logger,
	}
}

// GetValidAccessToken returns a plaintext access token for the connection,
// refreshing first when the stored token is inside the expiry buffer.
func (s *tokenService) GetValidAccessToken(ctx context.Context, connectionID string) (string, error) {
	conn, err := s.store.Get(ctx, connectionID)
	if err != nil {
		return "", fmt.Errorf("get connection %s: %w", connectionID, err)
	}

	if !conn.IsActive {
		return "", fmt.Errorf("connection %s: %w", connectionID, domain.ErrConnectionInactive)
	}

	// Fast path: token still fresh, no network call, no mutation.
	if !domain.TokenExpired(conn.TokenExpiresAt, s.buffer) {
		token, err := s.cipher.Decrypt(conn.AccessToken)
		if err != nil {
			return "", fmt.Errorf("decrypt access token: %w", err)
		}
		return token, nil
	}

	_, token, err := s.refresh(ctx, conn)
	if err != nil {
		return "", err
	}
	return token, nil
}

// RefreshConnection forces a refresh exchange regardless of stored expiry.
// An inactive connection is attempted too: a successful exchange reactivates it.
func (s *tokenService) RefreshConnection(ctx context.Context, connectionID string) (*domain.Connection, error) {
	conn, err := s.store.Get(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("get connection %s: %w", connectionID, err)
	}

	updated, _, err := s.refresh(ctx, conn)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetConnection returns a safe summary of the connection.
func (s *tokenService) GetConnection(ctx context.Context, connectionID string) (*domain.ConnectionSummary, error) {
	conn, err := s.store.Get(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("get connection %s: %w", connectionID, err)
	}
	return conn.ToSummary(), nil
}

// refresh performs one refresh-token exchange for the loaded connection and
// persists the outcome. It returns the updated record and the plaintext
// access token. On exchange failure the connection is marked inactive
// before the error is returned; that write and the error are both required.
func (s *tokenService) refresh(ctx context.Context, conn *domain.Connection) (*domain.Connection, string, error) {
	if !conn.HasRefreshToken() {
		return nil, "", fmt.Errorf("connection %s: %w", conn.ID, domain.ErrMissingRefreshToken)
	}

	providerCfg, err := s.registry.ConfigFor(conn.Platform)
	if err != nil {
		return nil, "", fmt.Errorf("resolve provider for %s: %w", conn.ID, err)
	}

	if s.lock != nil {
		lockName := "connection:" + conn.ID
		acquired, lockErr := s.lock.Acquire(ctx, lockName, refreshLockTTL)
		if lockErr != nil {
			s.logger.Warn("refresh lock unavailable, proceeding unlocked",
				"connection_id", conn.ID, "error", lockErr)
		} else if !acquired {
			// Another caller is refreshing this connection right now.
			// Proceeding is the accepted trade-off: providers with
			// single-use refresh tokens will reject the loser, which then
			// fails through the normal failure path.
			s.logger.Warn("concurrent refresh detected", "connection_id", conn.ID)
		} else {
			defer func() {
				if relErr := s.lock.Release(context.WithoutCancel(ctx), lockName); relErr != nil {
					s.logger.Warn("release refresh lock", "connection_id", conn.ID, "error", relErr)
				}
			}()
		}
	}

	refreshToken, err := s.cipher.Decrypt(conn.RefreshToken)
	if err != nil {
		s.persistFailure(ctx, conn, "stored refresh token unreadable")
		return nil, "", fmt.Errorf("decrypt refresh token: %w", err)
	}

	tokens, err := s.exchanger.Refresh(ctx, providerCfg, refreshToken)
	if err != nil {
		s.persistFailure(ctx, conn, shortDiagnostic(err))
		return nil, "", err
	}

	accessCiphertext, err := s.cipher.Encrypt(tokens.AccessToken)
	if err != nil {
		return nil, "", fmt.Errorf("encrypt access token: %w", err)
	}

	expiresIn := time.Duration(tokens.ExpiresIn) * time.Second
	if tokens.ExpiresIn <= 0 {
		expiresIn = defaultExpiryFallback
	}
	expiresAt := time.Now().Add(expiresIn)

	active := true
	noError := ""
	zero := 0
	update := domain.ConnectionUpdate{
		AccessToken:    &accessCiphertext,
		TokenExpiresAt: &expiresAt,
		IsActive:       &active,
		LastError:      &noError,
		ErrorCount:     &zero,
	}

	// Only rotate the stored refresh token when the provider returned one;
	// many providers do not always issue a new refresh token.
	if tokens.RefreshToken != "" {
		refreshCiphertext, err := s.cipher.Encrypt(tokens.RefreshToken)
		if err != nil {
			return nil, "", fmt.Errorf("encrypt refresh token: %w", err)
		}
		update.RefreshToken = &refreshCiphertext
	}

	updated, err := s.store.Update(ctx, conn.ID, update)
	if err != nil {
		return nil, "", fmt.Errorf("persist refreshed tokens for %s: %w", conn.ID, err)
	}

	s.logger.Info("access token refreshed",
		"connection_id", conn.ID,
		"platform", conn.Platform,
		"expires_at", expiresAt,
		"refresh_token_rotated", tokens.RefreshToken != "",
	)

	return updated, tokens.AccessToken, nil
}

// persistFailure records a refresh failure on the connection so subsequent
// callers see it as unusable instead of retrying blindly. It runs on a
// cancellation-free context: the write must land even when the caller's
// context is already done (e.g., after a provider timeout).
func (s *tokenService) persistFailure(ctx context.Context, conn *domain.Connection, diagnostic string) {
	inactive := false
	count := conn.ErrorCount + 1
	update := domain.ConnectionUpdate{
		IsActive:   &inactive,
		LastError:  &diagnostic,
		ErrorCount: &count,
	}

	if _, err := s.store.Update(context.WithoutCancel(ctx), conn.ID, update); err != nil {
		s.logger.Error("persist refresh failure state",
			"connection_id", conn.ID, "error", err)
		return
	}

	s.logger.Warn("connection marked inactive after refresh failure",
		"connection_id", conn.ID,
		"platform", conn.Platform,
		"error_count", count,
		"last_error", diagnostic,
	)
}

// shortDiagnostic truncates an error to a storable diagnostic string.
func shortDiagnostic(err error) string {
	msg := err.Error()
	const maxLen = 250
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
