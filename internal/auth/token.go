package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/demand-analytics/internal/domain"
)

// TokenVerifier validates bearer tokens issued by the identity service.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier builds a verifier. An empty secret disables verification.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Enabled reports whether tokens are checked at all.
func (v *TokenVerifier) Enabled() bool {
	return v != nil && len(v.secret) > 0
}

// Claims describes JWT payload.
type Claims struct {
	Role   domain.Role `json:"role"`
	UnitID *string     `json:"unit_id,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken validates and returns claims.
func (v *TokenVerifier) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if !claims.Role.Valid() {
		return nil, errors.New("unknown role")
	}
	return claims, nil
}
