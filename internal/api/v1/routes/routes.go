package routes

import (
	"github.com/gin-gonic/gin"

	"mom-generator/internal/api/middleware"
	"mom-generator/internal/api/v1/handlers"
	"mom-generator/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	AuthService     services.AuthService
	MeetingService  services.MeetingService
	ProviderService services.ProviderService
	Tokens          middleware.TokenValidator
	CookieName      string
	MaxUploadBytes  int64
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	authHandler := handlers.NewAuthHandler(container.AuthService)
	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("")
	protected.Use(middleware.RequireAuth(container.Tokens, container.CookieName))

	meetingHandler := handlers.NewMeetingHandler(container.MeetingService, container.MaxUploadBytes)
	protected.GET("/languages", meetingHandler.Languages)

	minutes := protected.Group("/minutes")
	{
		minutes.POST("", meetingHandler.Create)
		minutes.GET("", meetingHandler.List)
		minutes.GET("/export", meetingHandler.Export)
		minutes.GET("/:id", meetingHandler.Get)
		minutes.GET("/:id/download", meetingHandler.Download)
		minutes.GET("/:id/transcript", meetingHandler.Transcript)
		minutes.DELETE("/:id", meetingHandler.Delete)
	}

	if container.ProviderService != nil {
		providerHandler := handlers.NewProviderHandler(container.ProviderService)
		protected.GET("/providers", providerHandler.List)
	}
}
