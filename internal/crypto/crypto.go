// Package crypto encrypts documents stored in remote backends.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	iterations = 100000
	keySize    = 32 // AES-256

	// Prefix marks an encrypted payload so plaintext documents written before
	// encryption was enabled can still be read.
	Prefix = "enc:v1:"
)

// Encryptor seals and opens payloads with a passphrase-derived AES-GCM key.
// A nil *Encryptor passes data through unchanged.
type Encryptor struct {
	passphrase []byte
}

// NewEncryptor returns nil for an empty passphrase
func NewEncryptor(passphrase string) *Encryptor {
	if passphrase == "" {
		return nil
	}
	return &Encryptor{passphrase: []byte(passphrase)}
}

func (e *Encryptor) gcm(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(e.passphrase, salt, iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext into Prefix + base64(salt | nonce | ciphertext).
func (e *Encryptor) Seal(plaintext []byte) (string, error) {
	if e == nil {
		return string(plaintext), nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	gcm, err := e.gcm(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	out := append(salt, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)
	return Prefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Payloads without Prefix are returned as plaintext.
func (e *Encryptor) Open(payload string) ([]byte, error) {
	if !strings.HasPrefix(payload, Prefix) {
		return []byte(payload), nil
	}
	if e == nil {
		return nil, errors.New("payload is encrypted but no encryption key is configured")
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(payload, Prefix))
	if err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	if len(data) < saltSize {
		return nil, errors.New("ciphertext too short")
	}

	salt, rest := data[:saltSize], data[saltSize:]
	gcm, err := e.gcm(salt)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(rest) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, rest[:nonceSize], rest[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decrypting payload: %w", err)
	}
	return plaintext, nil
}
