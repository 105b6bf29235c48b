package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "mom-generator/docs" // generated swagger docs
	"mom-generator/internal/api/auth"
	"mom-generator/internal/api/metrics"
	"mom-generator/internal/api/middleware"
	v1routes "mom-generator/internal/api/v1/routes"
	"mom-generator/internal/api/v1/services"
	"mom-generator/internal/app"
	appconfig "mom-generator/internal/app/config"
	"mom-generator/web"
	webhandlers "mom-generator/web/handlers"
)

// Config represents API server configuration
type Config struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	Environment    string
	MaxUploadBytes int64
	CookieName     string
	SecureCookie   bool
}

// ConfigFrom derives the server settings from the application config
func ConfigFrom(cfg *appconfig.AppConfig) Config {
	return Config{
		Host:           cfg.Server.Host,
		Port:           strconv.Itoa(cfg.Server.Port),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:    120 * time.Second,
		Environment:    cfg.Server.Environment,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		CookieName:     cfg.Auth.CookieName,
		SecureCookie:   cfg.Auth.SecureCookie,
	}
}

// Dependencies are the services behind the routes
type Dependencies struct {
	Meetings  services.MeetingService
	Providers services.ProviderService
	Auth      *auth.Service
	Metrics   *prometheus.Registry
}

// DependenciesFrom adapts the wired application services
func DependenciesFrom(cfg *appconfig.AppConfig, svc *app.Services, registry *prometheus.Registry) Dependencies {
	return Dependencies{
		Meetings:  services.NewMeetingService(svc.Pipeline, svc.DAO),
		Providers: services.NewProviderService(svc.Registry),
		Auth: auth.NewService(auth.Config{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
			Secret:   cfg.Auth.Secret,
			TTL:      cfg.TokenTTL(),
		}),
		Metrics: registry,
	}
}

// Server represents the API server
//
// @title Minutes of Meeting API
// @version 1.0
// @description Turns meeting recordings into speaker diarized transcripts and downloadable minutes of meeting.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by the token from /auth/login
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger
}

// NewServer creates a new API server
func NewServer(config Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	if deps.Metrics != nil {
		router.Use(metrics.NewHTTP(deps.Metrics).Middleware())
		router.GET("/metrics", metrics.Handler(deps.Metrics))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1routes.RegisterRoutes(router.Group("/api/v1"), &v1routes.ServiceContainer{
		AuthService:     deps.Auth,
		MeetingService:  deps.Meetings,
		ProviderService: deps.Providers,
		Tokens:          deps.Auth,
		CookieName:      config.CookieName,
		MaxUploadBytes:  config.MaxUploadBytes,
	})

	err := web.RegisterRoutes(router, web.Dependencies{
		Auth:     deps.Auth,
		Tokens:   deps.Auth,
		Meetings: deps.Meetings,
	}, webhandlers.Config{
		CookieName:     config.CookieName,
		SecureCookie:   config.SecureCookie,
		MaxUploadBytes: config.MaxUploadBytes,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		config: config,
		router: router,
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(config.Host, config.Port),
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger,
	}, nil
}

// Start binds the listener and serves in the background. errc receives
// the serve error if the server stops for any reason other than Shutdown.
func (s *Server) Start() (<-chan error, error) {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, err
	}
	s.listener = listener

	errc := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", zap.Error(err))
			errc <- err
		}
		close(errc)
	}()

	s.logger.Info("API server started",
		zap.String("address", listener.Addr().String()),
		zap.String("environment", s.config.Environment),
	)
	return errc, nil
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
