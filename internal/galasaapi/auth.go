package galasaapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/xxxsen/galasaui/internal/model"
)

func (c *Client) PostClients(ctx context.Context) (*model.AuthClient, error) {
	var out model.AuthClient
	if err := c.do(ctx, "post clients", http.MethodPost, "/auth/clients", nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTokens(ctx context.Context, loginID string) (*model.AuthTokens, error) {
	query := url.Values{}
	if loginID != "" {
		query.Set("loginId", loginID)
	}
	var out model.AuthTokens
	if err := c.do(ctx, "get tokens", http.MethodGet, "/auth/tokens", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteToken(ctx context.Context, tokenID string) error {
	return c.do(ctx, "delete token", http.MethodDelete, "/auth/tokens/"+url.PathEscape(tokenID), nil, nil, nil)
}

type TokenRequest struct {
	ClientID     string `json:"client_id"`
	Code         string `json:"code,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Description  string `json:"description,omitempty"`
}

// PostAuthTokens trades an authorization code or a refresh token for a JWT.
func (c *Client) PostAuthTokens(ctx context.Context, req TokenRequest) (*model.TokenExchange, error) {
	var out model.TokenExchange
	if err := c.do(ctx, "post auth tokens", http.MethodPost, "/auth/tokens", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LoginURL(clientID, callbackURL string) string {
	query := url.Values{}
	query.Set("client_id", clientID)
	query.Set("callback_url", callbackURL)
	return c.baseURL + "/auth/login?" + query.Encode()
}

// Authenticate starts a login for clientID and returns the identity
// provider URL the browser has to visit. Redirects are not followed.
func (c *Client) Authenticate(ctx context.Context, clientID, callbackURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.LoginURL(clientID, callbackURL), nil)
	if err != nil {
		return "", err
	}
	if c.apiVersion != "" {
		req.Header.Set(headerClientAPIVersion, c.apiVersion)
	}
	noRedirect := *c.client
	noRedirect.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := noRedirect.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", decodeError("authenticate", resp)
	}
	if loc := strings.TrimSpace(resp.Header.Get("Location")); loc != "" {
		target, err := resp.Request.URL.Parse(loc)
		if err != nil {
			return "", err
		}
		return target.String(), nil
	}
	return resp.Request.URL.String(), nil
}
