// Package cryptoutil seals values kept in shared storage so that a leaked
// Redis snapshot does not expose bearer tokens.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Encryptor seals and opens values. The associated data binds a ciphertext
// to the entry it was written for; opening it under another entry fails.
type Encryptor interface {
	Encrypt(plaintext []byte, associated string) (string, error)
	Decrypt(ciphertext, associated string) ([]byte, error)
}

// Versioned prefix so the algorithm can change without a flag day.
const cipherPrefixV1 = "v1:"

// ErrNotSealed is returned when decrypting a value that was stored in the clear.
var ErrNotSealed = errors.New("value is not sealed")

// AESGCMEncryptor implements Encryptor using AES-256-GCM.
type AESGCMEncryptor struct {
	aead cipher.AEAD
}

// NewAESGCMEncryptor constructs an AESGCMEncryptor. Key must be 32 bytes.
func NewAESGCMEncryptor(key []byte) (*AESGCMEncryptor, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes-gcm key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCMEncryptor{aead: aead}, nil
}

// NewEncryptorFromKey accepts a 64-character hex key as-is; any other
// non-empty string is hashed to 32 bytes.
func NewEncryptorFromKey(key string) (*AESGCMEncryptor, error) {
	if key == "" {
		return nil, errors.New("encryption key is required")
	}
	if decoded, err := hex.DecodeString(key); err == nil && len(decoded) == 32 {
		return NewAESGCMEncryptor(decoded)
	}
	sum := sha256.Sum256([]byte(key))
	return NewAESGCMEncryptor(sum[:])
}

// Encrypt seals plaintext with a random nonce and returns "v1:" + base64(nonce||ciphertext).
func (e *AESGCMEncryptor) Encrypt(plaintext []byte, associated string) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := e.aead.Seal(nonce, nonce, plaintext, []byte(associated))
	return cipherPrefixV1 + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt under the same associated data.
func (e *AESGCMEncryptor) Decrypt(ciphertext, associated string) ([]byte, error) {
	if !strings.HasPrefix(ciphertext, cipherPrefixV1) {
		return nil, ErrNotSealed
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext[len(cipherPrefixV1):])
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	pt, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], []byte(associated))
	if err != nil {
		return nil, fmt.Errorf("open ciphertext: %w", err)
	}
	return pt, nil
}
