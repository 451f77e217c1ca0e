package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/lawhelp/auth-service/config"
	"github.com/lawhelp/auth-service/internal/handler"
	"github.com/lawhelp/auth-service/internal/mailer"
	"github.com/lawhelp/auth-service/internal/middleware"
	"github.com/lawhelp/auth-service/internal/repository"
	"github.com/lawhelp/auth-service/internal/router"
	"github.com/lawhelp/auth-service/internal/service"
	"github.com/lawhelp/auth-service/pkg/database"
	"github.com/lawhelp/auth-service/pkg/logger"
	"github.com/lawhelp/auth-service/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Redis backs rate limiting only; the service runs without it
	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	codeRepo := repository.NewVerificationCodeRepository(db)

	// Periodic hygiene: expired codes are dead rows once past their TTL
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if deleted, err := codeRepo.DeleteExpired(sweepCtx, time.Now().UTC()); err != nil {
					logger.GetLogger().Warn("Expired code sweep failed", zap.Error(err))
				} else if deleted > 0 {
					logger.GetLogger().Info("Expired codes swept", zap.Int64("deleted", deleted))
				}
			}
		}
	}()

	// Services
	credentialService := service.NewCredentialService(accountRepo, config.Password)
	codeService := service.NewVerificationCodeService(codeRepo)
	totpService := service.NewTOTPService(config.TOTP.Issuer, config.TOTP.Period, config.TOTP.Skew)
	tokenService := service.NewTokenService(config.JWT)
	smtpMailer := mailer.NewSMTPMailer(config.SMTP)

	authService := service.NewAuthService(
		credentialService,
		codeService,
		totpService,
		tokenService,
		smtpMailer,
		accountRepo,
		config.Codes,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Middleware
	jwtMiddleware := middleware.NewJWTMiddleware(tokenService)

	r := router.NewRouter(
		authHandler,
		healthHandler,
		jwtMiddleware,
		redisClient,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
