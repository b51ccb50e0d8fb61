package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/pkg/errcode"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
	"github.com/xxxsen/galasaui/internal/pkg/jwt"
	"github.com/xxxsen/galasaui/internal/pkg/response"
)

const (
	ContextLoginIDKey = "login_id"
	CookieIDToken     = "id_token"
)

type AuthFailMode int

const (
	// FailRedirect sends the browser to the login page.
	FailRedirect AuthFailMode = iota
	// FailPlain answers 401 with a bare JSON error.
	FailPlain
	// FailEnvelope answers with the API error envelope.
	FailEnvelope
)

// Identity maps a bearer token to the login id of its owner. Only the API
// server can vouch for a token, so implementations ask it.
type Identity interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Auth accepts the session cookie or a bearer header. Malformed and expired
// tokens are turned away locally; the owner of any other token comes from
// identity. The token travels on in the request context.
func Auth(mode AuthFailMode, loginURL func() string, identity Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			authFail(c, mode, loginURL, "missing credentials")
			return
		}
		claims, err := jwt.ParseUnverified(token)
		if err != nil {
			authFail(c, mode, loginURL, "invalid token")
			return
		}
		if claims.ExpiredAt(time.Now()) {
			authFail(c, mode, loginURL, "token expired")
			return
		}
		if identity == nil {
			authFail(c, mode, loginURL, "invalid token")
			return
		}
		loginID, err := identity.Resolve(c.Request.Context(), token)
		if errors.Is(err, appErr.ErrUnauthorized) {
			authFail(c, mode, loginURL, "invalid token")
			return
		}
		if err != nil {
			logutil.GetLogger(c.Request.Context()).Error("resolve identity failed", zap.Error(err))
			identityUnavailable(c, mode)
			return
		}
		c.Set(ContextLoginIDKey, loginID)
		c.Request = c.Request.WithContext(galasaapi.WithBearer(c.Request.Context(), token))
		c.Next()
	}
}

// LoginID returns the authenticated login id, empty when Auth did not run.
func LoginID(c *gin.Context) string {
	v, ok := c.Get(ContextLoginIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	cookie, err := c.Cookie(CookieIDToken)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie)
}

func authFail(c *gin.Context, mode AuthFailMode, loginURL func() string, msg string) {
	switch mode {
	case FailRedirect:
		if loginURL != nil {
			c.Redirect(http.StatusFound, loginURL())
			c.Abort()
			return
		}
		response.PlainError(c, http.StatusUnauthorized, msg)
	case FailPlain:
		response.PlainError(c, http.StatusUnauthorized, msg)
	default:
		response.Error(c, errcode.ErrUnauthorized, msg)
		c.Abort()
	}
}

func identityUnavailable(c *gin.Context, mode AuthFailMode) {
	if mode == FailEnvelope {
		response.Error(c, errcode.ErrUpstream, "identity lookup failed")
		c.Abort()
		return
	}
	response.PlainError(c, http.StatusBadGateway, "identity lookup failed")
}
