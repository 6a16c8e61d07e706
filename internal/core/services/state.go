package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driving"
)

// Ensure authStateService implements AuthStateService
var _ driving.AuthStateService = (*authStateService)(nil)

// stateEntropyBytes is the raw entropy per generated value (256 bits).
const stateEntropyBytes = 32

// authStateService generates CSRF-state and PKCE values for the
// authorization flow.
type authStateService struct{}

// NewAuthStateService creates a new auth state service.
func NewAuthStateService() driving.AuthStateService {
	return &authStateService{}
}

// GenerateState returns a hex-encoded random token for CSRF protection.
func (s *authStateService) GenerateState() (string, error) {
	bytes := make([]byte, stateEntropyBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GeneratePKCE returns a fresh code verifier and its S256 challenge.
func (s *authStateService) GeneratePKCE() (*driving.PKCEPair, error) {
	bytes := make([]byte, stateEntropyBytes)
	if _, err := rand.Read(bytes); err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}

	verifier := base64.RawURLEncoding.EncodeToString(bytes)
	hash := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(hash[:])

	return &driving.PKCEPair{
		Verifier:  verifier,
		Challenge: challenge,
	}, nil
}
