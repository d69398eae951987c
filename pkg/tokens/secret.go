package tokens

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// MinSecretLen is the HMAC key size for HS256.
const MinSecretLen = 32

var (
	ErrSecretRequired = errors.New("tokens: JWT_SECRET is required")
	ErrWeakSecret     = errors.New("tokens: signing secret too short")
)

// LoadSecret resolves the signing key from configuration. An empty value
// yields a random per-process key unless requireFixed is set; generated
// reports that case so the caller can warn about it.
func LoadSecret(raw string, requireFixed bool) (secret []byte, generated bool, err error) {
	if raw != "" {
		if len(raw) < MinSecretLen {
			return nil, false, fmt.Errorf("got %d bytes, need %d: %w", len(raw), MinSecretLen, ErrWeakSecret)
		}
		return []byte(raw), false, nil
	}
	if requireFixed {
		return nil, false, ErrSecretRequired
	}

	secret = make([]byte, MinSecretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, fmt.Errorf("tokens: generate secret: %w", err)
	}
	return secret, true, nil
}
