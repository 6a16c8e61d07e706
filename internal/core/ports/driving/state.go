package driving

// PKCEPair holds a PKCE code verifier and its S256 challenge.
// Re-hashing Verifier (SHA-256, base64url without padding) must reproduce
// Challenge exactly.
type PKCEPair struct {
	Verifier  string `json:"verifier"`
	Challenge string `json:"challenge"`
}

// AuthStateService generates the opaque random values the authorization
// flow binds to a single attempt. The flow itself runs outside this core;
// generation lives here because it shares the cipher's randomness source
// and trust boundary.
type AuthStateService interface {
	// GenerateState returns a hex-encoded anti-CSRF token with at least
	// 256 bits of entropy.
	GenerateState() (string, error)

	// GeneratePKCE returns a fresh verifier/challenge pair.
	GeneratePKCE() (*PKCEPair, error)
}
