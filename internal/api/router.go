package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/auth"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/service"
)

const serviceName = "portfolio-api"

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, store HealthChecker, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.CORS))

	admin := auth.RequireAdmin(auth.NewTokenService(cfg.Auth.JWTSecret), abortWithError(log))

	// Handlers
	projectHandler := NewProjectHandler(services.Projects, log)
	blogHandler := NewBlogHandler(services.Posts, log)
	contactHandler := NewContactHandler(services.Contact, log)
	exportHandler := NewExportHandler(services, log)
	importHandler := NewImportHandler(services, log)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Backend is running!")
	})

	// Health check
	router.GET("/health", healthCheck(store))
	router.GET("/metrics", metricsHandler(services, log))

	apiGroup := router.Group("/api")
	{
		projects := apiGroup.Group("/projects")
		{
			projects.GET("", projectHandler.List)
			projects.GET("/:id", projectHandler.Get)
			projects.POST("", admin, projectHandler.Create)
			projects.PUT("/:id", admin, projectHandler.Update)
			projects.DELETE("/:id", admin, projectHandler.Delete)
		}

		blog := apiGroup.Group("/blog")
		{
			blog.GET("", blogHandler.List)
			blog.GET("/slug/:slug", blogHandler.GetBy("slug"))
			blog.GET("/:id", blogHandler.Get)
			blog.POST("", admin, blogHandler.Create)
			blog.PUT("/:id", admin, blogHandler.Update)
			blog.DELETE("/:id", admin, blogHandler.Delete)
		}

		apiGroup.POST("/contact", rateLimitMiddleware(cfg.Contact.RateLimit), contactHandler.Submit)

		apiGroup.GET("/exports", admin, exportHandler.StreamExport)
		apiGroup.POST("/imports", admin, importHandler.CreateImport)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(store HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code, storeState := "healthy", http.StatusOK, "up"
		if err := store.HealthCheck(ctx); err != nil {
			status, code, storeState = "unhealthy", http.StatusServiceUnavailable, "down"
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
			"store":     storeState,
		})
	}
}

// metricsHandler returns content counts
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		featured := repository.Where("featured", true)

		counts := make(map[string]int, 4)
		for name, count := range map[string]func() (int, error){
			"projects":         func() (int, error) { return services.Projects.Count(ctx, repository.Filter{}) },
			"featuredProjects": func() (int, error) { return services.Projects.Count(ctx, featured) },
			"blogPosts":        func() (int, error) { return services.Posts.Count(ctx, repository.Filter{}) },
			"featuredPosts":    func() (int, error) { return services.Posts.Count(ctx, featured) },
		} {
			n, err := count()
			if err != nil {
				respondError(c, log, err)
				return
			}
			counts[name] = n
		}

		c.JSON(http.StatusOK, gin.H{
			"content":   counts,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": internalErrorMessage,
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		if claims, ok := auth.ClaimsFromContext(c); ok {
			event = event.Str("admin", claims.Subject)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.AllowAll() {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(cc)
}
