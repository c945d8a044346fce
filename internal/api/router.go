package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/handlers"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/repository/memory"
)

// NewRouter creates and configures the Gin router for the stub cart API.
// The routes follow the storefront AJAX cart wire contract.
func NewRouter(cfg *config.Config, store *memory.CartStore, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Cart resource API
	router.GET("/cart.js", handlers.HandleGetCart(store, logger))
	router.POST("/cart/add.js", handlers.HandleAddItem(store, logger))
	router.POST("/cart/change.js", handlers.HandleChangeLine(store, logger))
	router.POST("/cart/update.js", handlers.HandleUpdateNote(store, logger))

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
