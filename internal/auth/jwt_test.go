package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	p, err := ParseToken(token, secret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if p != "alice" {
		t.Errorf("ParseToken() = %q, want alice", p)
	}
}

func TestGenerateToken_Anonymous(t *testing.T) {
	if _, err := GenerateToken("", secret, time.Hour); err == nil {
		t.Error("expected error for anonymous principal")
	}
}

func TestGenerateToken_NoSecret(t *testing.T) {
	if _, err := GenerateToken("alice", "", time.Hour); !errors.Is(err, ErrNoSecret) {
		t.Errorf("GenerateToken() error = %v, want ErrNoSecret", err)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	valid, _ := GenerateToken("alice", secret, time.Hour)
	expired, _ := GenerateToken("alice", secret, -time.Minute)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}).SignedString([]byte(secret))

	wrongAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))

	emptyKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(""))

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"empty secret", emptyKey, ""},
		{"valid token without configured secret", valid, ""},
		{"wrong secret", valid, "other"},
		{"expired", expired, secret},
		{"missing subject", noSubject, secret},
		{"missing expiry", noExpiry, secret},
		{"unexpected algorithm", wrongAlg, secret},
		{"garbage", "not-a-token", secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseToken(tt.token, tt.secret)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ParseToken() error = %v, want ErrInvalidToken", err)
			}
			if p != "" {
				t.Errorf("ParseToken() principal = %q, want anonymous", p)
			}
		})
	}
}
