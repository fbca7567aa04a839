// Package server assembles the policy gateway: the /api/chat endpoint, the
// static marketing site and the hardening middleware around both.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/correia-crespo/triagem/internal/config"
	"github.com/correia-crespo/triagem/internal/policy"
	"github.com/correia-crespo/triagem/internal/server/handlers"
	"github.com/correia-crespo/triagem/internal/server/llm"
	"github.com/correia-crespo/triagem/internal/server/middleware"
)

// maxBodyBytes bounds the /api/chat request body.
const maxBodyBytes = 32 << 10 // 32 KiB

// New builds the gin engine. completer may be nil when no credentials are
// configured; the chat endpoint then answers 503 without calling upstream.
func New(cfg *config.Config, completer llm.Completer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())

	limiter := middleware.NewRateLimiter(
		cfg.Server.RateLimitRequests,
		time.Duration(cfg.Server.RateLimitMinutes)*time.Minute,
	)

	detector := policy.NewRegexDetector()
	upstreamTimeout := time.Duration(cfg.Server.UpstreamTimeoutS) * time.Second

	api := router.Group("/api")
	api.Use(limiter.Middleware(), bodyLimit(maxBodyBytes))
	api.POST("/chat", handlers.HandleChat(completer, detector, upstreamTimeout))

	registerStatic(router, cfg.Server.StaticDir)

	return router
}

// Run starts the gateway on the configured port.
func Run(cfg *config.Config, completer llm.Completer) error {
	router := New(cfg, completer)
	addr := ":" + cfg.Server.Port
	slog.Info("gateway listening", "addr", addr)
	if completer == nil {
		slog.Warn("OPENAI_API_KEY not configured, the assistant endpoint will answer 503")
	}
	if err := router.Run(addr); err != nil {
		return fmt.Errorf("gateway stopped: %w", err)
	}
	return nil
}

// bodyLimit caps the request body read by the JSON binder.
func bodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}

// registerStatic serves the marketing site with an index fallback for every
// non-API path, and keeps the index itself out of caches.
func registerStatic(router *gin.Engine, dir string) {
	index := filepath.Join(dir, "index.html")

	router.GET("/", func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.File(index)
	})
	router.Static("/assets", filepath.Join(dir, "assets"))

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(index)
	})
}
