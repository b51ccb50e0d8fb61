package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/galasaui/internal/config"
	"github.com/xxxsen/galasaui/internal/featureflag"
	"github.com/xxxsen/galasaui/internal/filestore"
	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/handler"
	"github.com/xxxsen/galasaui/internal/i18n"
	"github.com/xxxsen/galasaui/internal/middleware"
	"github.com/xxxsen/galasaui/internal/optcache"
	"github.com/xxxsen/galasaui/internal/repo"
	"github.com/xxxsen/galasaui/internal/service"
	"github.com/xxxsen/galasaui/internal/view"
)

// fakeGalasa stands in for the API server.
type fakeGalasa struct {
	mu            sync.Mutex
	clientID      string
	clientsStatus int
	clientsBody   string
	lastBearer    string
	exchange      map[string]string
	userLookups   int
}

const sessionSecret = "test-secret"

// verifySession checks a session token the way the API server does.
func verifySession(token string) (string, bool) {
	claims := jwtlib.MapClaims{}
	_, err := jwtlib.ParseWithClaims(token, claims, func(tok *jwtlib.Token) (interface{}, error) {
		return []byte(sessionSecret), nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", false
	}
	login, _ := claims["preferred_username"].(string)
	return login, login != ""
}

func (f *fakeGalasa) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/clients", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastBearer = r.Header.Get("Authorization")
		status, body, clientID := f.clientsStatus, f.clientsBody, f.clientID
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"clientId": clientID})
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "http://my-connector/auth?client_id="+r.URL.Query().Get("client_id"))
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			f.mu.Lock()
			out := f.exchange
			f.mu.Unlock()
			_ = json.NewEncoder(w).Encode(out)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens": []map[string]interface{}{{"tokenId": "t1", "description": "ci", "owner": map[string]string{"loginId": r.URL.Query().Get("loginId")}}},
		})
	})
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.userLookups++
		f.mu.Unlock()
		login, ok := verifySession(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error_code":5401,"error_message":"invalid jwt"}`))
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{{"loginId": login}})
	})
	mux.HandleFunc("/ras/runs", func(w http.ResponseWriter, r *http.Request) {
		runs := []map[string]interface{}{
			{"runId": "r1", "testStructure": map[string]interface{}{
				"runName": "U1", "testName": "dev.galasa.simbank.BasicAccountCreditTest", "testShortName": "BasicAccountCreditTest",
				"requestor": "alice", "status": "finished", "result": "Passed", "queued": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
			}},
			{"runId": "r2", "testStructure": map[string]interface{}{
				"runName": "U2", "result": "Failed", "queued": time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC3339),
			}},
		}
		if name := r.URL.Query().Get("runname"); name != "" {
			filtered := runs[:0]
			for _, run := range runs {
				if run["testStructure"].(map[string]interface{})["runName"] == name {
					filtered = append(filtered, run)
				}
			}
			runs = filtered
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"pageSize": 100, "amountOfRuns": len(runs), "runs": runs})
	})
	mux.HandleFunc("/ras/runs/r1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"runId": "r1", "testStructure": map[string]interface{}{"runName": "U1", "result": "Passed", "tags": []string{"smoke"}},
		})
	})
	mux.HandleFunc("/ras/runs/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error_code":5091,"error_message":"run not found"}`))
	})
	mux.HandleFunc("/ras/requestors", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"requestors": []string{"alice", "bob"}})
	})
	mux.HandleFunc("/ras/resultnames", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"resultnames": []string{"Failed", "Passed"}})
	})
	return mux
}

type testEnv struct {
	router  http.Handler
	galasa  *fakeGalasa
	session string
}

func sessionToken(t *testing.T) string {
	t.Helper()
	return sessionTokenFor(t, "alice")
}

func sessionTokenFor(t *testing.T, loginID string) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"preferred_username": loginID,
		"exp":                time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(sessionSecret))
	require.NoError(t, err)
	return s
}

func forgedSessionToken(t *testing.T, loginID string) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{
		"preferred_username": loginID,
		"exp":                time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	return s
}

func setupRouter(t *testing.T, flags map[string]bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	galasa := &fakeGalasa{clientID: "dummy-id"}
	upstream := httptest.NewServer(galasa.handler())
	t.Cleanup(upstream.Close)

	db, err := repo.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repo.ApplyMigrations(db))

	store, err := filestore.New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)

	catalog, err := i18n.Load()
	require.NoError(t, err)
	renderer, err := view.New()
	require.NoError(t, err)
	flagSet := featureflag.New(flags)

	client := galasaapi.New(upstream.URL, config.DefaultClientAPIVersion, upstream.Client())
	tokenService := service.NewTokenService(client, "http://webui.example.com", "galasa-webui")
	runService := service.NewRunService(client, optcache.New(8, time.Minute), config.DefaultMaxRecords)
	savedService := service.NewSavedQueryService(repo.NewSavedQueryRepo(db))
	exportService := service.NewExportService(runService, repo.NewExportRepo(db), store, time.UTC)

	deps := handler.RouterDeps{
		Pages:          handler.NewPageHandler(runService, savedService, renderer, catalog, flagSet, time.UTC),
		Tokens:         handler.NewTokenHandler(tokenService, renderer, catalog),
		Runs:           handler.NewRunsHandler(runService, time.UTC),
		Flags:          handler.NewFeatureFlagHandler(flagSet),
		SavedQueries:   handler.NewSavedQueryHandler(savedService),
		Exports:        handler.NewExportHandler(exportService),
		FeatureFlags:   flagSet,
		Identity:       service.NewIdentityService(client, 64, time.Minute),
		LoginURL:       tokenService.LoginURL,
		TokenRateLimit: 0,
	}
	engine, err := webapi.NewEngine(
		"/",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return &testEnv{router: engine, galasa: galasa, session: sessionToken(t)}
}

func (e *testEnv) do(req *http.Request, withSession bool) *httptest.ResponseRecorder {
	if withSession {
		req.AddCookie(&http.Cookie{Name: middleware.CookieIDToken, Value: e.session})
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}
