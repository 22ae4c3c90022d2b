package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pentyflix/pentyflix-api/internal/auth"
	"github.com/pentyflix/pentyflix-api/internal/reddit"
	"github.com/pentyflix/pentyflix-api/pkg/logging"
)

// KeywordLister exposes the read-only moderation keyword table
type KeywordLister interface {
	ListAll(ctx context.Context) ([]string, error)
}

// HealthCheck probes one dependency of the service
type HealthCheck func(ctx context.Context) error

// Router sets up API routes
type Router struct {
	media      *reddit.Service
	categories *reddit.CategoryService
	authSvc    *auth.Service
	tokens     *auth.TokenManager
	keywords   KeywordLister
	checks     map[string]HealthCheck
	logger     *zap.Logger
}

// NewRouter creates a new API router. authSvc and tokens may be nil, in
// which case the auth and keyword endpoints are not registered.
func NewRouter(media *reddit.Service, categories *reddit.CategoryService, authSvc *auth.Service, tokens *auth.TokenManager, keywords KeywordLister) *Router {
	return &Router{
		media:      media,
		categories: categories,
		authSvc:    authSvc,
		tokens:     tokens,
		keywords:   keywords,
		checks:     make(map[string]HealthCheck),
		logger:     logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// AddHealthCheck registers a named dependency probe run by the health
// endpoints
func (r *Router) AddHealthCheck(name string, check HealthCheck) {
	r.checks[name] = check
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	api := engine.Group("/api")

	if r.authSvc != nil {
		authGroup := api.Group("/auth")
		authGroup.POST("/register", r.register)
		authGroup.POST("/login", r.login)
	}

	redditGroup := api.Group("/reddit")
	redditGroup.GET("/media/:subreddit", r.subredditMedia)
	redditGroup.GET("/media/:subreddit/filter/:mediaType", r.filteredSubredditMedia)
	redditGroup.GET("/category/popular", r.popularCategories)
	redditGroup.GET("/category/search", r.searchCategories)
	redditGroup.GET("/category/:name", r.categoryDetails)

	if r.keywords != nil && r.tokens != nil {
		api.GET("/nsfwkeywords", auth.Middleware(r.tokens), r.listKeywords)
	}
}

// healthHandler handles health check requests. Every registered dependency
// probe runs; any failure degrades the response to a 503.
func (r *Router) healthHandler(c *gin.Context) {
	status := "OK"
	code := http.StatusOK

	dependencies := gin.H{}
	for name, check := range r.checks {
		if err := check(c.Request.Context()); err != nil {
			r.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			dependencies[name] = err.Error()
			status = "DEGRADED"
			code = http.StatusServiceUnavailable
		} else {
			dependencies[name] = "OK"
		}
	}

	response := gin.H{
		"status":  status,
		"service": "pentyflix-api",
	}
	if len(dependencies) > 0 {
		response["dependencies"] = dependencies
	}
	c.JSON(code, response)
}
