package routes

import (
	"time"

	"accessibility-admin-api/internal/handlers"
	"accessibility-admin-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Options controls optional route behavior.
type Options struct {
	// EnforceAllowList turns on IP allow-list checks for /api routes.
	EnforceAllowList bool
	// AllowListCacheTTL bounds how stale the cached allow-list may be.
	AllowListCacheTTL time.Duration
}

// SetupRoutes wires the full API surface of the admin panel.
func SetupRoutes(opts Options) *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Accessibility Admin API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	if opts.EnforceAllowList {
		api.Use(middleware.IPAllowListMiddleware(opts.AllowListCacheTTL))
	}
	{
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Production template endpoints
		protectedRoutes.GET("/templates/media-types", handlers.GetMediaTypes)
		protectedRoutes.GET("/templates/:mediaType", handlers.GetTemplates)
		protectedRoutes.PUT("/templates/:mediaType/bulk", handlers.BulkSaveTemplates)
		protectedRoutes.POST("/templates/initialize-defaults", handlers.InitializeDefaultTemplates)
		protectedRoutes.GET("/templates/:mediaType/hours-estimation", handlers.GetHoursEstimation)

		// Template editor sessions
		protectedRoutes.POST("/editor/sessions", handlers.OpenEditorSession)
		protectedRoutes.GET("/editor/sessions/:id", handlers.GetEditorSession)
		protectedRoutes.PUT("/editor/sessions/:id/field", handlers.SetEditorField)
		protectedRoutes.POST("/editor/sessions/:id/tasks", handlers.AddEditorTask)
		protectedRoutes.DELETE("/editor/sessions/:id/tasks", handlers.DeleteEditorTask)
		protectedRoutes.POST("/editor/sessions/:id/reorder", handlers.ReorderEditorTasks)
		protectedRoutes.POST("/editor/sessions/:id/media-type", handlers.SwitchEditorMediaType)
		protectedRoutes.POST("/editor/sessions/:id/save", handlers.SaveEditorSession)
		protectedRoutes.DELETE("/editor/sessions/:id", handlers.CloseEditorSession)

		// Movie endpoints
		protectedRoutes.GET("/movies", handlers.GetMovies)
		protectedRoutes.GET("/movies/:id", handlers.GetMovieByID)
		protectedRoutes.POST("/movies", handlers.CreateMovie)
		protectedRoutes.PUT("/movies/:id", handlers.UpdateMovie)
		protectedRoutes.DELETE("/movies/:id", handlers.DeleteMovie)

		// Distributor endpoints
		protectedRoutes.GET("/distributors", handlers.GetDistributors)
		protectedRoutes.POST("/distributors", handlers.CreateDistributor)

		// Personnel endpoints
		protectedRoutes.GET("/personnel", handlers.GetPersonnel)
		protectedRoutes.POST("/personnel", handlers.CreatePersonnel)
		protectedRoutes.PUT("/personnel/:id", handlers.UpdatePersonnel)
		protectedRoutes.DELETE("/personnel/:id", handlers.DeletePersonnel)

		// Admin endpoints
		protectedRoutes.GET("/admin/allowed-ips", handlers.GetAllowedIPs)
		protectedRoutes.POST("/admin/allowed-ips", handlers.AddAllowedIP)
		protectedRoutes.DELETE("/admin/allowed-ips/:id", handlers.DeleteAllowedIP)
		protectedRoutes.POST("/admin/backups", handlers.CreateBackup)
		protectedRoutes.GET("/admin/backups", handlers.ListBackups)

		// Realtime change notifications
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
