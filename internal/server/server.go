// file: internal/server/server.go
// version: 1.0.0
// guid: 7f9b1d3e-5a7c-4d9e-8f2a-6b8c0d2e4f6a

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/librorank/librorank/internal/config"
	"github.com/librorank/librorank/internal/database"
	"github.com/librorank/librorank/internal/library"
	"github.com/librorank/librorank/internal/metrics"
	"github.com/librorank/librorank/internal/resolve"
	"github.com/librorank/librorank/internal/server/middleware"
)

// Server wires the reading list and the resolver behind a Gin router.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	lib        *library.Library
	resolver   *resolve.Resolver
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new server instance. resolver may be nil, in which
// case the catalog endpoints report 503.
func NewServer(lib *library.Library, resolver *resolve.Resolver) *Server {
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.NewClientLimiter(120, 30).Middleware())

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		router:   router,
		lib:      lib,
		resolver: resolver,
	}

	server.setupRoutes()

	return server
}

// Router exposes the underlying Gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Printf("[INFO] Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (both paths for compatibility)
	s.router.GET("/api/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	api := s.router.Group("/api/v1")
	{
		api.GET("/books", s.listBooks)
		api.POST("/books", s.addBook)
		api.PATCH("/books/progress", s.updateProgress)
		api.PATCH("/books/finish", s.finishBook)
		api.PATCH("/books/dnf", s.dnfBook)

		api.GET("/recommend", s.recommend)

		api.POST("/resolve", s.resolveBook)
		api.GET("/records", s.listRecords)
		api.GET("/records/:id", s.getRecord)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	var recordCount int
	var dbErr error
	if database.GlobalStore != nil {
		if n, err := database.GlobalStore.CountRecords(); err == nil {
			recordCount = n
		} else {
			dbErr = err
		}
	}
	resp := gin.H{
		"status":        "ok",
		"timestamp":     time.Now().Unix(),
		"version":       "1.0.0",
		"database_type": config.AppConfig.DatabaseType,
		"metrics": gin.H{
			"books":   s.lib.Len(),
			"records": recordCount,
		},
	}
	if dbErr != nil {
		resp["partial_error"] = dbErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}
