package service

import (
	"context"
	"sync"

	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/model"
)

type fakeTokenAPI struct {
	client       *model.AuthClient
	clientErr    error
	authURL      string
	authErr      error
	authClientID string
	authCallback string
	exchange     *model.TokenExchange
	exchangeErr  error
	lastExchange galasaapi.TokenRequest
	users        []model.User
	tokens       *model.AuthTokens
	tokensFor    string
	deleted      []string
}

func (f *fakeTokenAPI) PostClients(ctx context.Context) (*model.AuthClient, error) {
	return f.client, f.clientErr
}

func (f *fakeTokenAPI) Authenticate(ctx context.Context, clientID, callbackURL string) (string, error) {
	f.authClientID = clientID
	f.authCallback = callbackURL
	return f.authURL, f.authErr
}

func (f *fakeTokenAPI) LoginURL(clientID, callbackURL string) string {
	return "http://api/auth/login?client_id=" + clientID + "&callback_url=" + callbackURL
}

func (f *fakeTokenAPI) PostAuthTokens(ctx context.Context, req galasaapi.TokenRequest) (*model.TokenExchange, error) {
	f.lastExchange = req
	return f.exchange, f.exchangeErr
}

func (f *fakeTokenAPI) GetUserByLoginID(ctx context.Context, loginID string) ([]model.User, error) {
	return f.users, nil
}

func (f *fakeTokenAPI) GetTokens(ctx context.Context, loginID string) (*model.AuthTokens, error) {
	f.tokensFor = loginID
	return f.tokens, nil
}

func (f *fakeTokenAPI) DeleteToken(ctx context.Context, tokenID string) error {
	f.deleted = append(f.deleted, tokenID)
	return nil
}

type mapCookies map[string]string

func (m mapCookies) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m mapCookies) Set(name, value string) {
	m[name] = value
}

func (m mapCookies) Delete(name string) {
	delete(m, name)
}

type fakeRunsAPI struct {
	mu          sync.Mutex
	runs        []model.Run
	err         error
	queries     []galasaapi.RunQuery
	requestors  []string
	resultNames []string
	optionErr   error
	optionCalls int
}

func (f *fakeRunsAPI) GetAllRuns(ctx context.Context, q galasaapi.RunQuery, max int) ([]model.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.runs, nil
}

func (f *fakeRunsAPI) GetRunByID(ctx context.Context, runID string) (*model.Run, error) {
	for _, r := range f.runs {
		if r.RunID == runID {
			run := r
			return &run, nil
		}
	}
	return nil, &galasaapi.Error{Op: "get run", StatusCode: 404}
}

func (f *fakeRunsAPI) GetRequestors(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.optionCalls++
	return f.requestors, f.optionErr
}

func (f *fakeRunsAPI) GetResultNames(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.optionCalls++
	return f.resultNames, f.optionErr
}
