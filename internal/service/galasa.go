package service

import (
	"context"

	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/model"
)

// TokenAPI is the part of the API server used for personal access tokens
// and browser sessions.
type TokenAPI interface {
	PostClients(ctx context.Context) (*model.AuthClient, error)
	Authenticate(ctx context.Context, clientID, callbackURL string) (string, error)
	LoginURL(clientID, callbackURL string) string
	PostAuthTokens(ctx context.Context, req galasaapi.TokenRequest) (*model.TokenExchange, error)
	GetUserByLoginID(ctx context.Context, loginID string) ([]model.User, error)
	GetTokens(ctx context.Context, loginID string) (*model.AuthTokens, error)
	DeleteToken(ctx context.Context, tokenID string) error
}

// RunsAPI is the part of the API server that serves the result archive.
type RunsAPI interface {
	GetAllRuns(ctx context.Context, q galasaapi.RunQuery, max int) ([]model.Run, error)
	GetRunByID(ctx context.Context, runID string) (*model.Run, error)
	GetRequestors(ctx context.Context) ([]string, error)
	GetResultNames(ctx context.Context) ([]string, error)
}

// ContextSource attaches credentials to contexts of background work.
type ContextSource interface {
	Context(ctx context.Context) (context.Context, error)
}
