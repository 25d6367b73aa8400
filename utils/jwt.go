package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the identity claims the backend reads from the hosted
// auth provider's access token.
type TokenClaims struct {
	Subject string
	Email   string
}

// ParseToken validates an HS256 token and extracts the identity claims.
// Token issuance belongs to the auth provider; this side only verifies.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" && email == "" {
		return nil, errors.New("token carries no identity")
	}

	return &TokenClaims{Subject: sub, Email: email}, nil
}

// GenerateToken mints an HS256 token. Used by tests and local tooling; in
// production tokens come from the auth provider.
func GenerateToken(secret, subject, email string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
