package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apihttp "library-lending/internal/backend/http"
	"library-lending/internal/backend/repository"
	"library-lending/internal/backend/service"
	"library-lending/internal/config"
	"library-lending/internal/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadServerConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	gin.SetMode(gin.ReleaseMode)

	var (
		users      repository.UserRepository
		books      repository.BookRepository
		borrowings repository.BorrowingRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
		users = repository.NewPgUserRepository(pool)
		books = repository.NewPgBookRepository(pool)
		borrowings = repository.NewPgBorrowingRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		store := repository.NewMemoryStore()
		users, books, borrowings = store, store, store
	}

	limiter := service.NewLoginLimiter(cfg.LoginWindow, cfg.LoginMaxAttempts)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			limiter = service.NewRedisLoginLimiter(redisClient, cfg.LoginWindow, cfg.LoginMaxAttempts)
		}
		cancel()
	}

	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}
	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)

	catalogSvc := service.NewCatalogService(logger, books)
	if cfg.SeedCatalog {
		if _, err := catalogSvc.Seed(ctx, service.DefaultCatalog()); err != nil {
			logger.Fatal("seed catalog", zap.Error(err))
		}
	}
	authSvc := service.NewAuthService(logger, users, jwtSvc, limiter)
	lendingSvc := service.NewLendingService(logger, books, borrowings)

	router := apihttp.NewRouter(logger, jwtSvc,
		apihttp.NewAuthHandler(logger, authSvc),
		apihttp.NewBookHandler(logger, catalogSvc),
		apihttp.NewBorrowingHandler(logger, lendingSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
