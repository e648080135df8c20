package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashhooshy/flux-labs/pkg/ports"
)

// envelopePrefix marks a field value as an AES-GCM envelope.
const envelopePrefix = "enc:v1:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new writes. Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot decrypt a
	// value. This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.DocumentStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts every field
// value with AES-GCM before it reaches the underlying store.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) SetField(ctx context.Context, userID, field, value string) error {
	ciphertext, err := encrypt([]byte(value), m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt field: %w", err)
	}
	sealed := envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext)
	return m.next.SetField(ctx, userID, field, sealed)
}

func (m *encryptionMiddleware) GetField(ctx context.Context, userID, field string) (string, error) {
	sealed, err := m.next.GetField(ctx, userID, field)
	if err != nil {
		return "", err
	}
	return m.open(sealed)
}

func (m *encryptionMiddleware) Fields(ctx context.Context, userID string) (map[string]string, error) {
	sealed, err := m.next.Fields(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(sealed))
	for field, value := range sealed {
		plain, err := m.open(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		out[field] = plain
	}
	return out, nil
}

func (m *encryptionMiddleware) DeleteField(ctx context.Context, userID, field string) error {
	return m.next.DeleteField(ctx, userID, field)
}

// open unseals one stored value. Values without an envelope fail rather than
// pass through: once encryption is configured, plaintext at rest is a bug.
func (m *encryptionMiddleware) open(sealed string) (string, error) {
	encoded, ok := strings.CutPrefix(sealed, envelopePrefix)
	if !ok {
		return "", errors.New("stored value is not an encrypted envelope")
	}
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode envelope base64: %w", err)
	}
	plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
