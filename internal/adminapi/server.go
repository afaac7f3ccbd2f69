package adminapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"goaround-bot/internal/services"
)

// TokenHeader carries the admin token
const TokenHeader = "X-Admin-Token"

// Server exposes bot-wide settings over HTTP
type Server struct {
	engine   *gin.Engine
	server   *http.Server
	settings *services.SettingsService
	token    string
	logger   *logrus.Logger
}

type searchMode struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// NewServer creates a new admin API server listening on addr
func NewServer(addr, token string, settings *services.SettingsService, logger *logrus.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   gin.New(),
		settings: settings,
		token:    token,
		logger:   logger,
	}
	s.engine.Use(gin.Recovery(), s.logRequests())
	s.routes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler of the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Infof("Starting admin API on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping admin API")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api", s.authorize())
	api.GET("/search", s.getSearch)
	api.PUT("/search", s.putSearch)
}

func (s *Server) getSearch(c *gin.Context) {
	enabled, err := s.settings.SearchEnabled(c.Request.Context())
	if err != nil {
		s.logger.Errorf("Failed to read search switch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read search switch"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": enabled})
}

func (s *Server) putSearch(c *gin.Context) {
	var req searchMode
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"enabled\": true|false}"})
		return
	}

	if err := s.settings.SetSearchEnabled(c.Request.Context(), *req.Enabled); err != nil {
		s.logger.Errorf("Failed to write search switch: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write search switch"})
		return
	}

	s.logger.Infof("Search enabled set to %v via admin API", *req.Enabled)
	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}

// authorize accepts the token in the X-Admin-Token header or as a bearer token
func (s *Server) authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if s.token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("Admin API request")
	}
}
