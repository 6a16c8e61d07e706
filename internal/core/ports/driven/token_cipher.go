package driven

// TokenCipher encrypts and decrypts opaque token strings for storage.
// Implementations must use authenticated encryption: Decrypt fails with
// domain.ErrCiphertextAuth on any integrity failure rather than returning
// garbage plaintext, and with domain.ErrCiphertextFormat when the stored
// serialization is malformed.
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}
