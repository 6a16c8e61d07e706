package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
	"github.com/brandloop-labs/brandloop-core/internal/core/ports/driven"
)

// Ensure TokenCipher implements the interface.
var _ driven.TokenCipher = (*TokenCipher)(nil)

const (
	// nonceSize is 16 bytes (128-bit IV), matching the stored format.
	nonceSize = 16

	// tagSize is the GCM authentication tag size.
	tagSize = 16

	// keySize is the required key size for AES-256.
	keySize = 32

	// segmentSep separates the nonce, tag, and body segments.
	segmentSep = ":"
)

// TokenCipher encrypts token strings with AES-256-GCM.
// The serialized format is hex(nonce):hex(tag):hex(ciphertext) — exactly
// three colon-separated segments.
type TokenCipher struct {
	gcm cipher.AEAD
}

// NewTokenCipher creates a cipher with the given 32-byte key.
// A wrong-sized key is a configuration error, never truncated or padded.
func NewTokenCipher(key []byte) (*TokenCipher, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: got %d bytes", domain.ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &TokenCipher{gcm: gcm}, nil
}

// KeyFromHex decodes a 64-hex-character encryption key.
func KeyFromHex(s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: not valid hex", domain.ErrInvalidKeySize)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("%w: got %d bytes", domain.ErrInvalidKeySize, len(key))
	}
	return key, nil
}

// Encrypt seals a plaintext token under a fresh random nonce.
// Nonce reuse under the same key breaks GCM, so one is generated per call.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// Seal appends the tag to the ciphertext body.
	sealed := c.gcm.Seal(nil, nonce, []byte(plaintext), nil)
	body := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return hex.EncodeToString(nonce) + segmentSep +
		hex.EncodeToString(tag) + segmentSep +
		hex.EncodeToString(body), nil
}

// Decrypt parses the three-segment format and verifies the tag.
// A wrong segment count is domain.ErrCiphertextFormat; any integrity
// failure is domain.ErrCiphertextAuth — garbage plaintext is never returned.
func (c *TokenCipher) Decrypt(ciphertext string) (string, error) {
	segments := strings.Split(ciphertext, segmentSep)
	if len(segments) != 3 {
		return "", fmt.Errorf("%w: expected 3 segments, got %d", domain.ErrCiphertextFormat, len(segments))
	}

	nonce, err := hex.DecodeString(segments[0])
	if err != nil {
		return "", fmt.Errorf("%w: nonce segment is not hex", domain.ErrCiphertextFormat)
	}
	if len(nonce) != nonceSize {
		return "", fmt.Errorf("%w: nonce is %d bytes, want %d", domain.ErrCiphertextFormat, len(nonce), nonceSize)
	}

	tag, err := hex.DecodeString(segments[1])
	if err != nil {
		return "", fmt.Errorf("%w: tag segment is not hex", domain.ErrCiphertextFormat)
	}
	if len(tag) != tagSize {
		return "", fmt.Errorf("%w: tag is %d bytes, want %d", domain.ErrCiphertextFormat, len(tag), tagSize)
	}

	body, err := hex.DecodeString(segments[2])
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext segment is not hex", domain.ErrCiphertextFormat)
	}

	plaintext, err := c.gcm.Open(nil, nonce, append(body, tag...), nil)
	if err != nil {
		return "", domain.ErrCiphertextAuth
	}

	return string(plaintext), nil
}
