package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned by Validate for every rejected token.
// Malformed, expired, and badly signed tokens are deliberately
// indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and validates signed bearer tokens. Tokens are
// stateless: validity is determined entirely by signature and expiry,
// so an issued token cannot be revoked before it expires. The secret
// and algorithm are fixed at construction and cannot be rotated
// without a restart.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService builds a token service for the given HMAC algorithm
// name, e.g. "HS256".
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("signing secret must not be empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not HMAC-based", algorithm)
	}
	return &TokenService{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// Issue signs a token carrying subject, expiring TTL from now.
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.New().String(),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Validate checks signature and expiry and returns the subject claim.
// Every failure mode collapses to ErrInvalidToken.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
