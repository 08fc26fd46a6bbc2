// backend/src/security/auth.go
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/misehero/HeroWizzard-version2/src/config"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongScope   = errors.New("token used outside its scope")
)

// AuthService issues and validates the HS256 JWTs used by the API. Access
// and refresh tokens share the signing key but carry a scope claim so one
// can never stand in for the other.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret)}
}

type tokenClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func (s *AuthService) generate(userID string, scope string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// GenerateToken issues a short-lived access token for the given user ID.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	return s.generate(userID, "access", config.Cfg.AccessTokenExpiry)
}

// GenerateRefreshToken issues a long-lived refresh token.
func (s *AuthService) GenerateRefreshToken(userID string) (string, error) {
	return s.generate(userID, "refresh", config.Cfg.RefreshTokenExpiry)
}

func (s *AuthService) validate(tokenString, wantScope string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Scope != wantScope {
		return "", ErrWrongScope
	}
	return claims.Subject, nil
}

// ValidateToken checks an access token and returns the user ID it was issued
// for.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	return s.validate(tokenString, "access")
}

// ValidateRefreshToken checks a refresh token and returns the user ID.
func (s *AuthService) ValidateRefreshToken(tokenString string) (string, error) {
	return s.validate(tokenString, "refresh")
}
