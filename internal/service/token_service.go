package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/model"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
	"github.com/xxxsen/galasaui/internal/pkg/jwt"
)

const (
	CookieClientID         = "clientId"
	CookieTokenDescription = "tokenDescription"
	CookieIDToken          = "id_token"

	CallbackPath = "/auth/callback"
)

var ErrTokenCreate = errors.New("failed to create personal access token")

// CookieStore is the browser cookie jar of the current request.
type CookieStore interface {
	Get(name string) (string, bool)
	Set(name, value string)
	Delete(name string)
}

type TokenService struct {
	api           TokenAPI
	webUIURL      string
	webUIClientID string
}

func NewTokenService(api TokenAPI, webUIURL, webUIClientID string) *TokenService {
	return &TokenService{
		api:           api,
		webUIURL:      strings.TrimSuffix(webUIURL, "/"),
		webUIClientID: webUIClientID,
	}
}

func (s *TokenService) callbackURL() string {
	return s.webUIURL + CallbackPath
}

// Create registers a new auth client and starts the login that will mint a
// personal access token for it. The returned URL is where the browser has to
// go next. Errors from the API server are returned untouched.
func (s *TokenService) Create(ctx context.Context, cookies CookieStore, description string) (string, error) {
	client, err := s.api.PostClients(ctx)
	if err != nil {
		return "", err
	}
	if client == nil || strings.TrimSpace(client.ClientID) == "" {
		return "", ErrTokenCreate
	}
	cookies.Set(CookieClientID, client.ClientID)
	cookies.Set(CookieTokenDescription, description)

	target, err := s.api.Authenticate(ctx, client.ClientID, s.callbackURL())
	if err != nil {
		return "", err
	}
	logutil.GetLogger(ctx).Info("personal access token login started", zap.String("client_id", client.ClientID))
	return target, nil
}

// LoginURL is where an anonymous browser starts its session login.
func (s *TokenService) LoginURL() string {
	return s.api.LoginURL(s.webUIClientID, s.callbackURL())
}

// List returns the tokens owned by the caller.
func (s *TokenService) List(ctx context.Context) ([]model.AuthToken, error) {
	users, err := s.api.GetUserByLoginID(ctx, "me")
	if err != nil {
		return nil, err
	}
	if len(users) == 0 || users[0].LoginID == "" {
		return nil, fmt.Errorf("resolve current user: %w", appErr.ErrUnauthorized)
	}
	tokens, err := s.api.GetTokens(ctx, users[0].LoginID)
	if err != nil {
		return nil, err
	}
	if tokens == nil || tokens.Tokens == nil {
		return []model.AuthToken{}, nil
	}
	return tokens.Tokens, nil
}

func (s *TokenService) Delete(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return appErr.ErrInvalid
	}
	return s.api.DeleteToken(ctx, tokenID)
}

type CallbackResult struct {
	// AccessToken is set when the login minted a personal access token. It is
	// shown to the user once and never stored.
	AccessToken string
	Description string
	// IDToken is set for a session login.
	IDToken   string
	ExpiresAt time.Time
}

// Callback finishes a login started by Create or LoginURL.
func (s *TokenService) Callback(ctx context.Context, cookies CookieStore, code string) (*CallbackResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, appErr.ErrInvalid
	}
	clientID, pending := cookies.Get(CookieClientID)
	description, _ := cookies.Get(CookieTokenDescription)
	if pending && clientID != "" {
		out, err := s.api.PostAuthTokens(ctx, galasaapi.TokenRequest{
			ClientID:    clientID,
			Code:        code,
			Description: description,
		})
		if err != nil {
			return nil, err
		}
		cookies.Delete(CookieClientID)
		cookies.Delete(CookieTokenDescription)
		if out.RefreshToken == "" {
			return nil, ErrTokenCreate
		}
		return &CallbackResult{
			AccessToken: out.RefreshToken + ":" + clientID,
			Description: description,
		}, nil
	}

	out, err := s.api.PostAuthTokens(ctx, galasaapi.TokenRequest{ClientID: s.webUIClientID, Code: code})
	if err != nil {
		return nil, err
	}
	claims, err := jwt.ParseUnverified(out.JWT)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", appErr.ErrUnauthorized)
	}
	result := &CallbackResult{IDToken: out.JWT}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	logutil.GetLogger(ctx).Info("session login finished", zap.String("login_id", claims.LoginID()))
	return result, nil
}
