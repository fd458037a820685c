// Package secrets encrypts setting values at rest. Provider API keys stored in
// the app_settings table go through an Encryptor so a database copy alone never
// leaks them.
package secrets

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// ErrDecryptFailed indicates the token could not be verified with the
// configured key, either because it was tampered with or because the key
// changed since encryption.
var ErrDecryptFailed = errors.New("failed to decrypt value")

// Encryptor wraps a fernet key for symmetric encrypt/decrypt of short strings.
type Encryptor struct {
	key *fernet.Key
}

// NewEncryptor parses a base64-encoded fernet key.
func NewEncryptor(encodedKey string) (*Encryptor, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode secret key: %w", err)
	}
	return &Encryptor{key: key}, nil
}

// GenerateKey produces a new base64-encoded fernet key, for provisioning.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return key.Encode(), nil
}

// Encrypt returns the fernet token for value.
func (e *Encryptor) Encrypt(value string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(value), e.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt value: %w", err)
	}
	return string(token), nil
}

// Decrypt verifies and opens a fernet token. Tokens do not expire; the stored
// provider key stays valid until replaced.
func (e *Encryptor) Decrypt(token string) (string, error) {
	plain := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{e.key})
	if plain == nil {
		return "", ErrDecryptFailed
	}
	return string(plain), nil
}
