package service

import (
	"context"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/model"
)

func TestTokenServiceCreate(t *testing.T) {
	api := &fakeTokenAPI{
		client:  &model.AuthClient{ClientID: "dummy-id"},
		authURL: "http://my-connector/auth",
	}
	svc := NewTokenService(api, "http://webui/", "galasa-webui")
	cookies := mapCookies{}

	target, err := svc.Create(context.Background(), cookies, "my token")
	require.NoError(t, err)
	require.Equal(t, "http://my-connector/auth", target)
	require.Equal(t, "dummy-id", cookies[CookieClientID])
	require.Equal(t, "my token", cookies[CookieTokenDescription])
	require.Equal(t, "dummy-id", api.authClientID)
	require.Equal(t, "http://webui/auth/callback", api.authCallback)
}

func TestTokenServiceCreateWithoutClientID(t *testing.T) {
	api := &fakeTokenAPI{client: &model.AuthClient{}}
	svc := NewTokenService(api, "http://webui", "galasa-webui")
	cookies := mapCookies{}

	_, err := svc.Create(context.Background(), cookies, "my token")
	require.ErrorIs(t, err, ErrTokenCreate)
	require.Contains(t, err.Error(), "failed to create personal access token")
	require.Empty(t, cookies)
}

func TestTokenServiceCreatePropagatesUpstreamError(t *testing.T) {
	upstream := &galasaapi.Error{Op: "post clients", StatusCode: 500, Message: "there was an error!"}
	api := &fakeTokenAPI{clientErr: upstream}
	svc := NewTokenService(api, "http://webui", "galasa-webui")

	_, err := svc.Create(context.Background(), mapCookies{}, "my token")
	require.Same(t, upstream, err)
}

func TestTokenServiceList(t *testing.T) {
	api := &fakeTokenAPI{
		users:  []model.User{{LoginID: "alice"}},
		tokens: &model.AuthTokens{Tokens: []model.AuthToken{{TokenID: "t1", Description: "ci"}}},
	}
	svc := NewTokenService(api, "http://webui", "galasa-webui")
	tokens, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", api.tokensFor)
	require.Len(t, tokens, 1)

	require.Error(t, svc.Delete(context.Background(), " "))
	require.NoError(t, svc.Delete(context.Background(), "t1"))
	require.Equal(t, []string{"t1"}, api.deleted)
}

func TestTokenServiceCallbackMintsAccessToken(t *testing.T) {
	api := &fakeTokenAPI{exchange: &model.TokenExchange{JWT: "jwt", RefreshToken: "refresh"}}
	svc := NewTokenService(api, "http://webui", "galasa-webui")
	cookies := mapCookies{CookieClientID: "client-1", CookieTokenDescription: "ci"}

	out, err := svc.Callback(context.Background(), cookies, "code-1")
	require.NoError(t, err)
	require.Equal(t, "refresh:client-1", out.AccessToken)
	require.Equal(t, "ci", out.Description)
	require.Equal(t, galasaapi.TokenRequest{ClientID: "client-1", Code: "code-1", Description: "ci"}, api.lastExchange)
	require.Empty(t, cookies)
}

func TestTokenServiceCallbackSessionLogin(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"preferred_username": "alice",
		"exp":                exp.Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	api := &fakeTokenAPI{exchange: &model.TokenExchange{JWT: signed}}
	svc := NewTokenService(api, "http://webui", "galasa-webui")

	out, err := svc.Callback(context.Background(), mapCookies{}, "code-2")
	require.NoError(t, err)
	require.Equal(t, signed, out.IDToken)
	require.True(t, exp.Equal(out.ExpiresAt))
	require.Equal(t, "galasa-webui", api.lastExchange.ClientID)

	_, err = svc.Callback(context.Background(), mapCookies{}, "")
	require.Error(t, err)
}
