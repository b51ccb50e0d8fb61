package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/middleware"
	"github.com/xxxsen/galasaui/internal/pkg/errcode"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
	"github.com/xxxsen/galasaui/internal/pkg/response"
	"github.com/xxxsen/galasaui/internal/service"
	"github.com/xxxsen/galasaui/internal/view"
)

func getLoginID(c *gin.Context) string {
	return middleware.LoginID(c)
}

func logError(c *gin.Context, err error) {
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("login_id", getLoginID(c)),
		zap.Error(err),
	)
}

// handleError answers /api/v1 calls with the error envelope.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logError(c, err)
	var upstream *galasaapi.Error
	switch {
	case errors.As(err, &upstream):
		response.Error(c, errcode.ErrUpstream, upstream.Error())
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrDisabled):
		response.Error(c, errcode.ErrDisabled, "feature disabled")
	case errors.Is(err, service.ErrTokenCreate):
		response.Error(c, errcode.ErrTokenCreate, err.Error())
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}

// handlePlainError answers browser routes with an HTTP status and a bare
// {"error": ...} body. Errors from the API server keep their status.
func handlePlainError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logError(c, err)
	var upstream *galasaapi.Error
	switch {
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		response.PlainError(c, status, upstream.Error())
	case errors.Is(err, appErr.ErrUnauthorized):
		response.PlainError(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrForbidden):
		response.PlainError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, appErr.ErrNotFound):
		response.PlainError(c, http.StatusNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.PlainError(c, http.StatusBadRequest, "invalid request")
	default:
		response.PlainError(c, http.StatusInternalServerError, err.Error())
	}
}

func atoiDefault(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

// cookieJar adapts gin cookies to service.CookieStore.
type cookieJar struct {
	c      *gin.Context
	secure bool
}

func newCookieJar(c *gin.Context) *cookieJar {
	return &cookieJar{c: c, secure: c.Request.TLS != nil}
}

func (j *cookieJar) Get(name string) (string, bool) {
	v, err := j.c.Cookie(name)
	if err != nil {
		return "", false
	}
	return v, true
}

func (j *cookieJar) Set(name, value string) {
	j.setWithAge(name, value, 0)
}

func (j *cookieJar) Delete(name string) {
	j.setWithAge(name, "", -1)
}

func (j *cookieJar) setWithAge(name, value string, maxAge int) {
	j.c.SetSameSite(http.SameSiteLaxMode)
	j.c.SetCookie(name, value, maxAge, "/", "", j.secure, true)
}

// renderPage renders into memory first so a template error can still be
// answered with a clean 500.
func renderPage(c *gin.Context, r *view.Renderer, page string, data interface{}) {
	var buf bytes.Buffer
	if err := r.Render(&buf, page, data); err != nil {
		handlePlainError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
