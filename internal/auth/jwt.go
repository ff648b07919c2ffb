// Package auth validates bearer tokens issued by the identity service.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kindra-app/kindra-backend/internal/config"
	"github.com/kindra-app/kindra-backend/internal/domain"
)

// JWTManager validates HS256 access tokens. The subject claim carries the
// user ID.
type JWTManager struct {
	secret []byte
	issuer string
}

func NewJWTManager(cfg config.AuthConfig) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
	}
}

// GenerateToken signs a short-lived access token for the given user. Token
// issuance normally happens in the identity service; this is used by tests
// and the local dev tooling.
func (m *JWTManager) GenerateToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks the signature, issuer and expiry of an access token
// and returns the user ID from its subject claim.
func (m *JWTManager) ValidateToken(_ context.Context, token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return m.secret, nil
		},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject claim", domain.ErrUnauthorized)
	}
	return userID, nil
}
