// Package auth issues and validates the bearer tokens the HTTP layer uses to
// tie requests back to the logged-in principal.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okavango-bank/corebank/internal/domain"
)

// Claims represents the JWT claims carried by a session token.
type Claims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and validates session tokens.
type TokenService struct {
	secretKey   []byte
	tokenExpiry time.Duration
	issuer      string
}

// NewTokenService creates a TokenService with the given signing secret.
func NewTokenService(secretKey string, tokenExpiry time.Duration) *TokenService {
	return &TokenService{
		secretKey:   []byte(secretKey),
		tokenExpiry: tokenExpiry,
		issuer:      "corebank",
	}
}

// Generate issues a signed token for the user and returns it with its expiry.
func (s *TokenService) Generate(user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.tokenExpiry)

	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses a token and returns its claims when the signature and
// expiry check out.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
