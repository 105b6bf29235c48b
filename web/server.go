package web

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mom-generator/internal/api/middleware"
	"mom-generator/internal/api/v1/services"
	"mom-generator/web/handlers"
)

// Dependencies are the services behind the pages
type Dependencies struct {
	Auth     services.AuthService
	Tokens   middleware.TokenValidator
	Meetings services.MeetingService
}

// RegisterRoutes mounts the login, upload and result pages on router
func RegisterRoutes(router gin.IRouter, deps Dependencies, config handlers.Config, logger *zap.Logger) error {
	templates, err := Templates()
	if err != nil {
		return err
	}

	ui := handlers.NewUIHandler(templates, deps.Auth, deps.Tokens, deps.Meetings, config, logger)
	static := handlers.NewStaticHandler(Static())

	router.GET("/static/*filepath", static.ServeStatic)
	router.GET(handlers.LoginPath, ui.LoginPage)
	router.POST(handlers.LoginPath, ui.Login)
	router.POST("/logout", ui.Logout)

	pages := router.Group("")
	pages.Use(middleware.RequireLogin(deps.Tokens, config.CookieName, handlers.LoginPath))
	{
		pages.GET("/", ui.Index)
		pages.POST("/minutes", ui.Create)
		pages.GET("/minutes/:id", ui.Show)
		pages.GET("/minutes/:id/download", ui.Download)
	}
	return nil
}
