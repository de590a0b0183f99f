package secure

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrDecryptionFailure is returned for any ciphertext that is malformed or
// fails authentication. Callers never see partial plaintext.
var ErrDecryptionFailure = errors.New("decryption failure")

// Cipher encrypts account passwords with ChaCha20-Poly1305. Each call uses
// a fresh random nonce, so encrypting the same plaintext twice yields
// different ciphertexts that both decrypt back to the original.
type Cipher struct {
	key []byte
}

// NewCipher expects a hex-encoded 32-byte key.
func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &Cipher{key: key}, nil
}

// Encrypt returns base64(nonce || sealed).
func (c *Cipher) Encrypt(plain string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt is the exact inverse of Encrypt.
func (c *Cipher) Decrypt(opaque string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(opaque)
	if err != nil {
		return "", ErrDecryptionFailure
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrDecryptionFailure
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailure
	}
	return string(plain), nil
}
