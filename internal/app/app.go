package app

import (
	"os"
	"time"

	"oklok/internal/middleware"
	"oklok/internal/shared/apperror"
	"oklok/internal/shared/connection"
	"oklok/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var startedAt = time.Now()

// BuildApp connects infrastructure and registers every module on the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		// Redis is a cache and idempotency layer, not a source of truth.
		// The API degrades to uncached reads without it.
		zap.L().Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	} else {
		zap.L().Info("redis connection established")
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	// General budget: 100 requests per 15 minutes per IP.
	router.Use(middleware.RateLimitByIP(0.112, 100))

	router.NoRoute(func(c *gin.Context) {
		e := apperror.ErrNotFound
		response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
	})

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, 200, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"uptime":      time.Since(startedAt).String(),
			"environment": os.Getenv("APP_ENV"),
		}, nil)
	})

	return registerModules(router, sqlDB, gormDB, redisClient)
}
