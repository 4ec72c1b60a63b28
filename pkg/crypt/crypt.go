// Package crypt is AES-256-GCM authenticated encryption with a key derived
// from a caller-supplied secret. The client state file is sealed with it.
//
//	c, err := crypt.New(secret)
//	sealed, err := c.Seal(data)
//	data, err := c.Open(sealed)
//
// Sealed output is nonce || ciphertext || tag, base64url-encoded.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrDecrypt is returned when decryption or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

// ErrNoKey is returned by New for an empty secret.
var ErrNoKey = errors.New("crypt: empty key")

// Cipher seals and opens payloads under one key.
type Cipher struct {
	aead cipher.AEAD
}

// New derives a 32-byte key from secret with SHA-256.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, ErrNoKey
	}
	k := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return &Cipher{aead: gcm}, nil
}

// Seal encrypts data with a fresh random nonce.
func (c *Cipher) Seal(data []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("crypt: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, data, nil)

	out := make([]byte, base64.URLEncoding.EncodedLen(len(sealed)))
	base64.URLEncoding.Encode(out, sealed)
	return out, nil
}

// Open reverses Seal. Any tampering or a wrong key yields ErrDecrypt.
func (c *Cipher) Open(encoded []byte) ([]byte, error) {
	data := make([]byte, base64.URLEncoding.DecodedLen(len(encoded)))
	n, err := base64.URLEncoding.Decode(data, encoded)
	if err != nil {
		return nil, ErrDecrypt
	}
	data = data[:n]

	size := c.aead.NonceSize()
	if len(data) < size {
		return nil, ErrDecrypt
	}
	plain, err := c.aead.Open(nil, data[:size], data[size:], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// SealJSON marshals v and seals it.
func (c *Cipher) SealJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("crypt: marshal: %w", err)
	}
	return c.Seal(raw)
}

// OpenJSON opens encoded and unmarshals it into dest.
func (c *Cipher) OpenJSON(encoded []byte, dest any) error {
	raw, err := c.Open(encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("crypt: unmarshal: %w", err)
	}
	return nil
}
