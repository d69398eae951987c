package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultUserTTL  = 30 * time.Minute
	DefaultAdminTTL = 60 * time.Minute
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues and verifies HS256 access tokens with a single shared key.
// It holds no mutable state after construction and is safe for concurrent use.
type Service struct {
	secret []byte

	// Now is the clock used for expiry; tests replace it.
	Now func() time.Time
}

func NewService(secret []byte) (*Service, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("tokens: secret must be at least %d bytes: %w", MinSecretLen, ErrWeakSecret)
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Service{secret: key, Now: time.Now}, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Issue signs claims with an absolute expiry of now+ttl. A non-positive ttl
// falls back to DefaultUserTTL.
func (s *Service) Issue(c Claims, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	exp := s.now().Add(ttl)

	claims := AccessClaims{
		Admin:      c.Admin,
		AdminLevel: c.AdminLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("tokens: sign: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// Verify checks signature, algorithm and expiry. Every failure wraps
// ErrInvalidToken; the cause is kept for logging only.
func (s *Service) Verify(raw string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
