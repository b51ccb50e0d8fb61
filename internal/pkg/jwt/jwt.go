package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims carries the identity fields the API server puts into its id tokens.
// Parsed claims are unverified: they may reject a token early, never vouch
// for one.
type Claims struct {
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

func (c *Claims) LoginID() string {
	if c == nil {
		return ""
	}
	if v := strings.TrimSpace(c.PreferredUsername); v != "" {
		return v
	}
	if v := strings.TrimSpace(c.Email); v != "" {
		return v
	}
	return strings.TrimSpace(c.Subject)
}

func (c *Claims) ExpiredAt(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

func ParseUnverified(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	claims := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
