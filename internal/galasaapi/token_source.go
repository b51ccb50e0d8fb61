package galasaapi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/galasaui/internal/pkg/jwt"
)

// TokenSource turns a personal access token into bearer JWTs for background
// work and reuses each JWT until shortly before it expires.
type TokenSource struct {
	client       *Client
	refreshToken string
	clientID     string
	now          func() time.Time

	mu      sync.Mutex
	jwt     string
	expires time.Time
}

// NewTokenSource parses a "refreshToken:clientId" personal access token.
func NewTokenSource(client *Client, accessToken string) (*TokenSource, error) {
	parts := strings.SplitN(strings.TrimSpace(accessToken), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("access token must have the form refreshToken:clientId")
	}
	return &TokenSource{client: client, refreshToken: parts[0], clientID: parts[1], now: time.Now}, nil
}

func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jwt != "" && s.now().Before(s.expires) {
		return s.jwt, nil
	}
	out, err := s.client.PostAuthTokens(ctx, TokenRequest{ClientID: s.clientID, RefreshToken: s.refreshToken})
	if err != nil {
		return "", err
	}
	if out.RefreshToken != "" {
		s.refreshToken = out.RefreshToken
	}
	expires := s.now().Add(5 * time.Minute)
	if claims, err := jwt.ParseUnverified(out.JWT); err == nil && claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time.Add(-time.Minute)
	}
	s.jwt = out.JWT
	s.expires = expires
	return s.jwt, nil
}

// Context returns ctx carrying a fresh bearer token.
func (s *TokenSource) Context(ctx context.Context) (context.Context, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	return WithBearer(ctx, token), nil
}
