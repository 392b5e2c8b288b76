package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wingo/internal/wingo"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSecret     = errors.New("signing secret is not configured")
)

// Claims carries the caller's principal in the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for the principal.
func GenerateToken(p wingo.Principal, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	if p == wingo.Anonymous {
		return "", errors.New("cannot issue a token for the anonymous principal")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(p),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token and returns the principal it was issued for.
// With no secret configured every token is rejected.
func ParseToken(tokenStr, secret string) (wingo.Principal, error) {
	if secret == "" {
		return wingo.Anonymous, errors.Join(ErrInvalidToken, ErrNoSecret)
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return wingo.Anonymous, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return wingo.Anonymous, ErrInvalidToken
	}
	return wingo.Principal(claims.Subject), nil
}
