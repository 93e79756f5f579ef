package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eduway/config"
	"eduway/internal/application/usecase"
	"eduway/internal/domain"
	"eduway/internal/infrastructure/cache"
	"eduway/internal/infrastructure/repository"
	"eduway/internal/infrastructure/security"
	"eduway/internal/middleware"
	handlers "eduway/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalw("Failed to load config", "error", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalw("Failed to connect to DB", "error", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Profile{}, &domain.Badge{}); err != nil {
		log.Fatalw("Failed to migrate DB", "error", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalw("Failed to connect to Redis", "error", err)
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	tokenCache := cache.NewTokenCache(rdb)
	hasher := security.NewPasswordHasher()
	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret)

	authUC := usecase.NewAuthUseCase(userRepo, tokenCache, hasher, tokenManager, log)
	profileUC := usecase.NewProfileUseCase(userRepo, profileRepo, badgeRepo, log)

	authHandler := handlers.NewAuthHandler(authUC)
	profileHandler := handlers.NewProfileHandler(profileUC)
	rateLimiter := middleware.NewRateLimiter(rdb)
	authMW := middleware.AuthMiddleware(authUC)

	router := handlers.NewRouter(authHandler, profileHandler, rateLimiter, authMW, cfg.FrontendURL)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Infow("Server running", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("Failed to serve", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Forced shutdown", "error", err)
	}
}
