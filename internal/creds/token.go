package creds

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "smartshop"

// DefaultTokenTTL is the expiry horizon applied when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// Token rejection reasons, distinguished so the gate can answer precisely.
var (
	ErrTokenMalformed = errors.New("creds: malformed token")
	ErrTokenSignature = errors.New("creds: bad token signature")
	ErrTokenExpired   = errors.New("creds: token expired")
)

// Claims are the JWT claims baked into every issued token.
type Claims struct {
	jwt.RegisteredClaims
}

// Issuer signs and validates the bearer tokens that gate protected
// requests. The signing key is process-wide configuration; rotating it
// invalidates every outstanding token.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewIssuer builds an Issuer from the configured signing key and TTL.
// A non-positive ttl falls back to DefaultTokenTTL.
func NewIssuer(key []byte, ttl time.Duration) (*Issuer, error) {
	if len(key) == 0 {
		return nil, errors.New("creds: signing key is not configured")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock overrides the clock. Only intended for test use.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue signs an HS256 token bound to identity, stamped with the current
// time and the configured expiry horizon.
func (i *Issuer) Issue(identity string) (string, time.Time, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", time.Time{}, errors.New("creds: identity is required")
	}

	now := i.now().UTC()
	expiresAt := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate verifies signature and expiry and returns the bound identity.
// Failures map onto ErrTokenMalformed, ErrTokenSignature or ErrTokenExpired.
func (i *Issuer) Validate(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrTokenMalformed
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenSignature
		}
		return i.key, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now().UTC() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenSignature):
			return "", ErrTokenSignature
		default:
			return "", ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrTokenMalformed
	}
	if claims.Issuer != issuer {
		return "", ErrTokenMalformed
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrTokenMalformed
	}
	return subject, nil
}
