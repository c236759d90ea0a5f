// Package auth issues and validates the HS256 bearer tokens guarding the
// invoice API, and hashes user passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var ErrInvalidToken = errors.New("could not validate credentials")

type claims struct {
	jwt.StandardClaims
}

// TokenManager signs and parses access tokens.
type TokenManager struct {
	secret   []byte
	lifespan time.Duration
}

func NewTokenManager(secret string, lifespan time.Duration) *TokenManager {
	if lifespan <= 0 {
		lifespan = 30 * time.Minute
	}
	return &TokenManager{secret: []byte(secret), lifespan: lifespan}
}

// Generate issues a token with the username as subject.
func (m *TokenManager) Generate(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.lifespan).Unix(),
		},
	})
	return token.SignedString(m.secret)
}

// Parse validates a token and returns its subject username.
func (m *TokenManager) Parse(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	parsed, ok := token.Claims.(*claims)
	if !ok || parsed.Subject == "" {
		return "", ErrInvalidToken
	}
	return parsed.Subject, nil
}
