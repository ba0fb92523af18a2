package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims carries the borrower identity plus the staff capability used
// to gate override paths (overdue listing, bulk mark-returned).
type AccessClaims struct {
	Staff bool `json:"staff,omitempty"`
	jwt.RegisteredClaims
}

var cfg = LoadConfig()

// ParseAccess verifies HS256 signature and leeway, returning claims.
func ParseAccess(tokenStr string) (*AccessClaims, error) {
	parser := jwt.NewParser(jwt.WithLeeway(cfg.ClockSkew), jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		return cfg.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// SignAccess mints a token with the given subject. The real issuer is the
// external identity service; this exists for tests and local tooling.
func SignAccess(userID string, staff bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Staff: staff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(cfg.Secret)
}
