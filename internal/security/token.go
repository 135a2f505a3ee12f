package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ainews/apiserver/config"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for every rejection cause:
// bad signature, expiry, malformed structure, or a foreign signing
// method. Callers cannot tell these apart.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints and verifies signed bearer tokens carrying a
// subject and an absolute expiry. Tokens are stateless; there is no
// revocation, a token stays valid until it expires.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenIssuer builds a TokenIssuer from the process configuration.
// The configured algorithm identifier must name an HMAC method.
func NewTokenIssuer(cfg config.Config) (*TokenIssuer, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if len(cfg.SecretKey) == 0 {
		return nil, errors.New("signing secret is required")
	}
	return &TokenIssuer{
		secret: []byte(cfg.SecretKey),
		method: method,
		ttl:    time.Duration(cfg.AccessTokenExpireMinutes) * time.Minute,
	}, nil
}

// Issue mints a token for the subject with the default TTL.
func (t *TokenIssuer) Issue(subject string) (string, error) {
	return t.IssueWithTTL(subject, t.ttl)
}

// IssueWithTTL mints a token for the subject expiring after ttl.
func (t *TokenIssuer) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token string and returns its subject.
// Any failure is reported as ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != t.method.Alg() {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
