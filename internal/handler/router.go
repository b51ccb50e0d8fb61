package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/galasaui/internal/featureflag"
	"github.com/xxxsen/galasaui/internal/middleware"
	"github.com/xxxsen/galasaui/internal/pkg/response"
)

type RouterDeps struct {
	Pages          *PageHandler
	Tokens         *TokenHandler
	Runs           *RunsHandler
	Flags          *FeatureFlagHandler
	SavedQueries   *SavedQueryHandler
	Exports        *ExportHandler
	FeatureFlags   *featureflag.Set
	Identity       middleware.Identity
	LoginURL       func() string
	TokenRateLimit time.Duration
}

func RegisterRoutes(root *gin.RouterGroup, deps RouterDeps) {
	root.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	root.GET("/", deps.Pages.Home)
	root.GET("/auth/callback", deps.Tokens.Callback)

	pages := root.Group("/test-runs")
	pages.Use(requireFlag(deps.FeatureFlags, featureflag.TestRuns), middleware.Auth(middleware.FailRedirect, deps.LoginURL, deps.Identity))
	pages.GET("", deps.Pages.TestRuns)
	pages.GET("/:id", deps.Pages.RunDetail)
	pages.POST("/criteria", deps.Pages.Criteria)
	pages.POST("/design", deps.Pages.Design)

	auth := root.Group("/auth")
	auth.Use(middleware.Auth(middleware.FailPlain, nil, deps.Identity))
	auth.POST("/tokens", middleware.RateLimit(deps.TokenRateLimit), deps.Tokens.Create)
	auth.GET("/tokens", deps.Tokens.List)
	auth.DELETE("/tokens/:tokenId", deps.Tokens.Delete)

	api := root.Group("/api/v1")
	api.GET("/feature-flags", deps.Flags.List)

	authed := api.Group("")
	authed.Use(middleware.Auth(middleware.FailEnvelope, nil, deps.Identity))
	authed.GET("/runs", deps.Runs.List)
	authed.GET("/runs/:id", deps.Runs.Get)
	authed.GET("/options", deps.Runs.Options)
	authed.GET("/saved-queries", deps.SavedQueries.List)
	authed.POST("/saved-queries", deps.SavedQueries.Create)
	authed.DELETE("/saved-queries/:id", deps.SavedQueries.Delete)
	authed.POST("/exports", deps.Exports.Create)
	authed.GET("/exports/:key", deps.Exports.Get)
}

// requireFlag hides a route behind a feature flag; while the flag is off the
// route does not exist.
func requireFlag(flags *featureflag.Set, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !flags.Enabled(name) {
			response.PlainError(c, http.StatusNotFound, "not found")
			return
		}
		c.Next()
	}
}
