// Package server exposes the webhook endpoint GitHub delivers issue_comment
// events to.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/config"
	"github.com/Kavirubc/gh-scout/internal/github"
	"github.com/Kavirubc/gh-scout/internal/logger"
	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
)

// Processor runs a validated delivery through the scoring pipeline
type Processor interface {
	Process(ctx context.Context, event *github.Event, deliveryID string) (*core.Result, error)
}

// Server wires the webhook handler into a gin engine
type Server struct {
	cfg     config.ServerConfig
	webhook *WebhookHandler
	logger  *zap.Logger
}

// New creates a server for the given configuration
func New(cfg config.ServerConfig, proc Processor, log *zap.Logger) *Server {
	log = logger.OrNop(log)
	return &Server{
		cfg:     cfg,
		webhook: NewWebhookHandler(cfg.WebhookSecret, proc, cfg.Async, log),
		logger:  log,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	s.SetupRoutes(router)
	return router
}

// SetupRoutes registers the health and webhook routes on router
func (s *Server) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	path := s.cfg.WebhookPath
	if path == "" {
		path = config.DefaultWebhookPath
	}
	router.POST(path, s.webhook.HandleEvent)
}

// Wait blocks until in-flight async deliveries finish
func (s *Server) Wait() {
	s.webhook.Wait()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Debug("request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
