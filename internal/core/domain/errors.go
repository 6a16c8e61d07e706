package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested connection was not found
	ErrNotFound = errors.New("not found")

	// ErrMissingRefreshToken indicates the connection has no refresh token
	// and cannot be refreshed without a new authorization flow
	ErrMissingRefreshToken = errors.New("missing refresh token")

	// ErrUnsupportedPlatform indicates the platform is not in the provider registry
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrConnectionInactive indicates the connection was disabled after a
	// refresh failure and needs re-authorization before its tokens are usable
	ErrConnectionInactive = errors.New("connection inactive")

	// ErrCiphertextFormat indicates a stored ciphertext does not match the
	// expected nonce:tag:body serialization
	ErrCiphertextFormat = errors.New("malformed ciphertext")

	// ErrCiphertextAuth indicates a ciphertext failed integrity verification
	// (tampered, corrupted, or encrypted under a different key)
	ErrCiphertextAuth = errors.New("ciphertext authentication failed")

	// ErrInvalidKeySize is returned when the encryption key is not 32 bytes
	ErrInvalidKeySize = errors.New("encryption key must be 32 bytes")
)

// RefreshExchangeError indicates the provider rejected or failed the
// refresh-token exchange. The failed connection state has already been
// persisted by the time this error surfaces.
type RefreshExchangeError struct {
	Platform   Platform
	StatusCode int
	Detail     string
}

func (e *RefreshExchangeError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("token refresh failed for %s: status %d: %s", e.Platform, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("token refresh failed for %s: %s", e.Platform, e.Detail)
}
