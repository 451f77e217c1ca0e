package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lawhelp/auth-service/config"
	"github.com/lawhelp/auth-service/internal/handler"
	"github.com/lawhelp/auth-service/internal/middleware"
	"github.com/lawhelp/auth-service/pkg/redis"
)

type Router struct {
	authHandler   *handler.AuthHandler
	healthHandler *handler.HealthHandler

	jwtMw       *middleware.JWTMiddleware
	redisClient *redis.Client
	cfg         *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	health *handler.HealthHandler,
	jwtMw *middleware.JWTMiddleware,
	redisClient *redis.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		healthHandler: health,
		jwtMw:         jwtMw,
		redisClient:   redisClient,
		cfg:           cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if !r.cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTimeoutMiddleware(r.cfg.App.Timeout))
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.BasicHealth)
		api.GET("/health/detailed", r.healthHandler.HealthCheck)

		api.Use(middleware.RateLimit(r.redisClient, r.cfg.RateLimit.Request, r.cfg.RateLimit.Duration))

		r.authRoutes(api)
	}

	return router
}
