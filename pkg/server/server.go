// Package server exposes the completion and symbol query API over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/DanielEbert/lineCompletion/pkg/common/errors"
	"github.com/DanielEbert/lineCompletion/pkg/resolver"
	"github.com/DanielEbert/lineCompletion/pkg/suggest"
	"github.com/DanielEbert/lineCompletion/pkg/treecache"
)

// Server holds the HTTP router and the services the handlers delegate to.
type Server struct {
	router   *gin.Engine
	cache    *treecache.Cache
	resolver *resolver.Resolver
	suggest  *suggest.Service
}

// New creates a Server. suggestSvc may be nil, in which case the suggestion
// endpoint reports the service as unconfigured.
func New(cache *treecache.Cache, suggestSvc *suggest.Service) *Server {
	s := &Server{
		router:   gin.New(),
		cache:    cache,
		resolver: resolver.New(cache),
		suggest:  suggestSvc,
	}
	s.router.Use(gin.Recovery())
	s.router.Use(requestID())
	s.router.Use(cors())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/suggest", s.handleSuggest)

	v1 := s.router.Group("/v1")
	{
		v1.POST("/symbols/resolve", s.handleResolveSymbols)
		v1.POST("/symbols/calls", s.handleListCalls)
	}
}

// Run starts the HTTP server on the given address, blocking until it exits.
func (s *Server) Run(addr string) error {
	slog.Info("starting http server", "addr", addr)
	return s.router.Run(addr)
}

// Handler returns the underlying http.Handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// handleError maps an application error to an HTTP status and logs it with
// the request ID.
func handleError(c *gin.Context, err error) {
	appErr := apperrors.MapError(err)
	slog.Error("request failed",
		"request_id", c.GetString("request_id"),
		"path", c.Request.URL.Path,
		"status", appErr.Code,
		"error", err,
	)
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}
