package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired indicates a structurally valid token past its
	// expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid indicates a token that failed signature or
	// structural validation.
	ErrTokenInvalid = errors.New("invalid token")
)

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = 10 * time.Minute

// Claims is the verified content of a token.
type Claims struct {
	UserID    int64
	ExpiresAt time.Time
}

// Tokens issues and verifies HS256-signed tokens with a symmetric
// secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration

	now func() time.Time // injected in tests
}

// NewTokens creates a token issuer/verifier. ttl <= 0 falls back to
// DefaultTokenTTL.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the user; the subject is the decimal user id.
func (t *Tokens) Issue(userID int64) (string, error) {
	now := t.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, distinguishing expiry from any
// other validation failure.
func (t *Tokens) Verify(token string) (*Claims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: non-numeric subject %q", ErrTokenInvalid, claims.Subject)
	}

	out := &Claims{UserID: userID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
