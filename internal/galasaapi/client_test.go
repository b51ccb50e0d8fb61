package galasaapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, "0.43.0", srv.Client())
}

func TestPostClients_SendsHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/clients", r.URL.Path)
		require.Equal(t, "0.43.0", r.Header.Get("ClientApiVersion"))
		require.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"clientId":"dummy-id"}`))
	})
	out, err := c.PostClients(WithBearer(context.Background(), "jwt-1"))
	require.NoError(t, err)
	require.Equal(t, "dummy-id", out.ClientID)
}

func TestUpstreamErrorIsTyped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error_code":5401,"error_message":"GAL5401E: not allowed"}`))
	})
	_, err := c.GetTokens(context.Background(), "admin")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, "GAL5401E: not allowed", apiErr.Message)
}

func TestGetTokensAndDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/auth/tokens":
			require.Equal(t, "admin", r.URL.Query().Get("loginId"))
			_, _ = w.Write([]byte(`{"tokens":[{"tokenId":"token_123","description":"test_token","creationTime":"2024-09-23","owner":{"loginId":"admin"}}]}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/auth/tokens/token_123":
			_, _ = w.Write([]byte(`Token deleted`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	tokens, err := c.GetTokens(context.Background(), "admin")
	require.NoError(t, err)
	require.Len(t, tokens.Tokens, 1)
	require.Equal(t, "admin", tokens.Tokens[0].Owner.LoginID)
	require.NoError(t, c.DeleteToken(context.Background(), "token_123"))
	require.Error(t, c.DeleteToken(context.Background(), "missing"))
}

func TestAuthenticate_ReturnsRedirectLocation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "dummy-id", r.URL.Query().Get("client_id"))
		require.Equal(t, "https://ui/auth/callback", r.URL.Query().Get("callback_url"))
		http.Redirect(w, r, "http://my-connector/auth", http.StatusFound)
	})
	target, err := c.Authenticate(context.Background(), "dummy-id", "https://ui/auth/callback")
	require.NoError(t, err)
	require.Equal(t, "http://my-connector/auth", target)
}

func TestGetAllRuns_FollowsCursor(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/ras/runs", r.URL.Path)
		require.Equal(t, "Passed,Failed", r.URL.Query().Get("result"))
		require.Equal(t, "from:desc", r.URL.Query().Get("sort"))
		if r.URL.Query().Get("cursor") == "" {
			_, _ = w.Write([]byte(`{"pageSize":2,"nextCursor":"c1","runs":[{"runId":"a"},{"runId":"b"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"pageSize":2,"runs":[{"runId":"c"}]}`))
	})
	runs, err := c.GetAllRuns(context.Background(), RunQuery{Results: []string{"Passed", "Failed"}, Size: 2}, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.Equal(t, 2, calls)

	runs, err = c.GetAllRuns(context.Background(), RunQuery{Results: []string{"Passed", "Failed"}}, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestRunQueryValues(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v := RunQuery{From: from, RunName: "U1", Statuses: []string{"Finished"}}.values()
	require.Equal(t, "2025-01-01T00:00:00Z", v.Get("from"))
	require.Equal(t, "U1", v.Get("runname"))
	require.Equal(t, "Finished", v.Get("status"))
	require.Empty(t, v.Get("requestor"))
}

func TestOptionLists(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ras/requestors":
			_, _ = w.Write([]byte(`{"requestors":["req1","req2"]}`))
		case "/ras/resultnames":
			_, _ = w.Write([]byte(`{"resultnames":["result1","result2"]}`))
		case "/users":
			_, _ = w.Write([]byte(`[{"loginId":"admin"}]`))
		}
	})
	req, err := c.GetRequestors(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"req1", "req2"}, req)
	res, err := c.GetResultNames(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"result1", "result2"}, res)
	users, err := c.GetUserByLoginID(context.Background(), "me")
	require.NoError(t, err)
	require.Equal(t, "admin", users[0].LoginID)
}

func TestTokenSource_CachesUntilExpiry(t *testing.T) {
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"preferred_username": "svc",
		"exp":                time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	exchanges := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		var body TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "client-1", body.ClientID)
		require.Equal(t, "refresh-1", body.RefreshToken)
		_ = json.NewEncoder(w).Encode(map[string]string{"jwt": token})
	})
	src, err := NewTokenSource(c, "refresh-1:client-1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := src.Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, token, got)
	}
	require.Equal(t, 1, exchanges)

	_, err = NewTokenSource(c, "no-colon")
	require.Error(t, err)
}
