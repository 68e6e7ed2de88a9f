// Package token issues and verifies the two classes of signed tokens used by
// the session flows: short-lived access tokens and long-lived refresh tokens.
// Verification is stateless; whether a refresh token is still the current one
// for its user is decided by the session usecase against the store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("token malformed")
	ErrSignature = errors.New("token signature invalid")
	ErrWrongKind = errors.New("unexpected token type")
)

// Claims is the signed payload. Subject carries the user ID.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Service signs and verifies JWTs. Each token kind has its own HMAC secret.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// WithClock overrides the time source. Used by tests to force expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) IssueAccess(userID string) (string, time.Time, error) {
	return s.issue(userID, KindAccess, s.accessSecret, s.accessTTL)
}

func (s *Service) IssueRefresh(userID string) (string, time.Time, error) {
	return s.issue(userID, KindRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *Service) issue(userID string, kind Kind, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		TokenType: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			// The ID makes every issued token distinct, even two minted for
			// the same user within the same second. Rotation compares stored
			// and presented refresh tokens byte for byte and needs that.
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses tokenStr against the secret for the expected kind and returns
// its claims. Failures are reported as ErrExpired, ErrSignature, ErrWrongKind
// or ErrMalformed.
func (s *Service) Verify(tokenStr string, kind Kind) (*Claims, error) {
	secret := s.accessSecret
	if kind == KindRefresh {
		secret = s.refreshSecret
	}

	parsed, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignature
		default:
			return nil, ErrMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if claims.TokenType != string(kind) {
		return nil, ErrWrongKind
	}
	if claims.Subject == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}
