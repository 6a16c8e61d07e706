package mocks

import (
	"strings"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

const fakeCipherPrefix = "enc:"

// FakeTokenCipher is a reversible, deterministic stand-in for the real
// cipher so tests can assert on stored "ciphertext" values directly.
type FakeTokenCipher struct{}

// NewFakeTokenCipher creates a new FakeTokenCipher.
func NewFakeTokenCipher() *FakeTokenCipher {
	return &FakeTokenCipher{}
}

func (f *FakeTokenCipher) Encrypt(plaintext string) (string, error) {
	return fakeCipherPrefix + plaintext, nil
}

func (f *FakeTokenCipher) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, fakeCipherPrefix) {
		return "", domain.ErrCiphertextFormat
	}
	return strings.TrimPrefix(ciphertext, fakeCipherPrefix), nil
}
