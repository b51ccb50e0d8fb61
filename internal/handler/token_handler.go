package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/galasaui/internal/i18n"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
	"github.com/xxxsen/galasaui/internal/pkg/response"
	"github.com/xxxsen/galasaui/internal/service"
	"github.com/xxxsen/galasaui/internal/view"
)

type TokenHandler struct {
	tokens   *service.TokenService
	renderer *view.Renderer
	catalog  *i18n.Catalog
}

func NewTokenHandler(tokens *service.TokenService, renderer *view.Renderer, catalog *i18n.Catalog) *TokenHandler {
	return &TokenHandler{tokens: tokens, renderer: renderer, catalog: catalog}
}

type tokenCreateRequest struct {
	TokenDescription string `json:"tokenDescription"`
}

func (h *TokenHandler) Create(c *gin.Context) {
	var req tokenCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlePlainError(c, appErr.ErrInvalid)
		return
	}
	target, err := h.tokens.Create(c.Request.Context(), newCookieJar(c), req.TokenDescription)
	if err != nil {
		handlePlainError(c, err)
		return
	}
	response.Plain(c, http.StatusOK, gin.H{"url": target})
}

func (h *TokenHandler) List(c *gin.Context) {
	tokens, err := h.tokens.List(c.Request.Context())
	if err != nil {
		handlePlainError(c, err)
		return
	}
	response.Plain(c, http.StatusOK, gin.H{"tokens": tokens})
}

func (h *TokenHandler) Delete(c *gin.Context) {
	if err := h.tokens.Delete(c.Request.Context(), c.Param("tokenId")); err != nil {
		handlePlainError(c, err)
		return
	}
	response.Plain(c, http.StatusOK, gin.H{"ok": true})
}

// Callback finishes a login. A personal access token is shown once; a
// session login sets the id_token cookie and goes back to the start page.
func (h *TokenHandler) Callback(c *gin.Context) {
	jar := newCookieJar(c)
	result, err := h.tokens.Callback(c.Request.Context(), jar, c.Query("code"))
	if err != nil {
		handlePlainError(c, err)
		return
	}
	if result.AccessToken != "" {
		c.Header("Cache-Control", "no-store")
		l := h.catalog.DefaultLocalizer()
		renderPage(c, h.renderer, view.PageTokenCreated, view.TokenCreatedPage{
			L:           l,
			Lang:        l.Language().String(),
			Description: result.Description,
			Token:       result.AccessToken,
		})
		return
	}
	maxAge := 0
	if !result.ExpiresAt.IsZero() {
		maxAge = int(time.Until(result.ExpiresAt).Seconds())
		if maxAge <= 0 {
			handlePlainError(c, appErr.ErrUnauthorized)
			return
		}
	}
	jar.setWithAge(service.CookieIDToken, result.IDToken, maxAge)
	c.Redirect(http.StatusFound, "/")
}
