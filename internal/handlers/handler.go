package handlers

import (
	"fmt"
	"net/http"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/logger"
	"bookstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 10 << 20

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger

	// exposeErrors returns internal error text to clients (development only).
	exposeErrors bool
	upgrader     websocket.Upgrader
}

// NewHandler constructs a new HTTP handler with dependencies. cfg may be nil in tests.
func NewHandler(services *service.Service, log *logger.Logger, cfg *config.Config) *Handler {
	h := &Handler{services: services, log: log}
	allowedOrigin := ""
	if cfg != nil {
		h.exposeErrors = cfg.IsDevelopment()
		allowedOrigin = cfg.CORS.AllowedOrigin
	}
	h.upgrader = newUpgrader(allowedOrigin)
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.accessLog, limitBody(maxBodyBytes))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Catalog endpoints (protected)
	h.registerStoreRoutes(router)

	router.NoRoute(h.notFound)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/user")
	{
		auth.POST("/signup", h.signUp)
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerStoreRoutes(r *gin.Engine) {
	store := r.Group("/api/store")

	// Browsers cannot set headers on websocket upgrades, so the stream also takes ?token=.
	store.GET("/ws", h.authMiddleware(true), h.wsConnect)

	api := store.Group("", h.authMiddleware(false))
	{
		api.GET("", h.listBooks)
		api.POST("", h.createBook)
		api.GET("/title/:title", h.getBooksByTitle)
		api.GET("/summary", h.getSummary)
		api.GET("/activity", h.getActivity)
		api.GET("/:id", h.getBook)
		api.PUT("/:id", h.updateBook)
		api.DELETE("/:id", h.deleteBook)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse{
		Error:   codeNotFound,
		Message: fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path),
	})
}

// accessLog writes one structured line per request once the handler chain has finished.
func (h *Handler) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start).String(),
		"ip", c.ClientIP(),
	)
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
