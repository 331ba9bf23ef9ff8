package app

import (
	"database/sql"

	"oklok/internal/auth"
	"oklok/internal/messaging/kafka"
	"oklok/internal/rbac"
	"oklok/internal/rbac/infra"
	"oklok/internal/report"
	"oklok/internal/tenant"
	"oklok/internal/timeentry"
	"oklok/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	tenantRepo := tenant.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	entryRepo := timeentry.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	tenantService := tenant.NewService(tenantRepo, rdb)
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo)
	entryService := timeentry.NewServiceWithOutbox(db, entryRepo, tenantService, outboxRepo)
	reportService := report.NewService(entryRepo, userRepo, tenantService, rdb)

	// --- Handlers ---
	tenantHandler := tenant.NewHandler(tenantService)
	userHandler := user.NewHandler(userService)
	authHandler := auth.NewHandler(authService)
	entryHandler := timeentry.NewHandlerWithRedis(entryService, rbacService, rdb)
	reportHandler := report.NewHandler(reportService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		tenant.RegisterRoutes(api, tenantHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
		timeentry.RegisterRoutes(api, entryHandler, rbacService, rdb)
		report.RegisterRoutes(api, reportHandler, rbacService)
	}

	return nil
}
