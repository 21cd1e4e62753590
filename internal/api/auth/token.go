package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/courtsidehq/courtside/internal/api/authz"
)

// TokenIssuer signs and verifies the access tokens this service issues.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

type claims struct {
	CustomerID int64  `json:"customer_id,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the given principal.
func (t *TokenIssuer) Issue(user *authz.AuthUser) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		CustomerID: user.CustomerID,
		Role:       user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	return token.SignedString(t.secret)
}

// Verify parses a signed token and reconstructs the principal.
func (t *TokenIssuer) Verify(tokenString string) (*authz.AuthUser, error) {
	var parsed claims
	token, err := jwt.ParseWithClaims(tokenString, &parsed, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	var userID int64
	if _, err := fmt.Sscanf(parsed.Subject, "%d", &userID); err != nil {
		return nil, fmt.Errorf("invalid token subject: %w", err)
	}

	return &authz.AuthUser{
		UserID:     userID,
		CustomerID: parsed.CustomerID,
		Role:       parsed.Role,
	}, nil
}
