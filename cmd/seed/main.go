package main

import (
	"os"

	"oklok/internal/shared/connection"
	"oklok/internal/tenant"
	"oklok/internal/timeentry"
	"oklok/internal/user"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const outboxTableDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id UUID PRIMARY KEY,
	request_id VARCHAR(64),
	aggregate_type VARCHAR(50) NOT NULL,
	aggregate_id UUID NOT NULL,
	event_type VARCHAR(100) NOT NULL,
	topic VARCHAR(200) NOT NULL,
	payload JSONB NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	retry_count INT NOT NULL DEFAULT 0,
	error_message VARCHAR(500),
	next_retry_at TIMESTAMPTZ,
	processed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type seedUser struct {
	Name  string
	Email string
	PIN   string
	Role  string
}

// Demo data for local development. PINs are plain here on purpose; this
// binary never runs against production.
var demoUsers = []seedUser{
	{Name: "Avery Admin", Email: "admin@demo.oklok.app", PIN: "1234", Role: "admin"},
	{Name: "Morgan Manager", Email: "manager@demo.oklok.app", PIN: "2345", Role: "manager"},
	{Name: "Sam Staff", Email: "staff@demo.oklok.app", PIN: "3456", Role: "staff"},
	{Name: "Casey Contractor", Email: "contractor@demo.oklok.app", PIN: "4567", Role: "contractor"},
}

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&tenant.Tenant{},
		&user.User{},
		&timeentry.TimeEntry{},
		&timeentry.BreakInterval{},
	); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	if err := db.Exec(outboxTableDDL).Error; err != nil {
		logger.Fatal("create outbox table failed", zap.Error(err))
	}

	demoTenant := tenant.Tenant{
		Name:         "Demo Coffee Co",
		BusinessType: "hospitality",
		Timezone:     "America/New_York",
		Currency:     "USD",
		Settings:     tenant.DefaultSettings(),
		ContactEmail: "ops@demo.oklok.app",
		IsActive:     true,
	}
	if err := db.Where("name = ?", demoTenant.Name).FirstOrCreate(&demoTenant).Error; err != nil {
		logger.Fatal("seed tenant failed", zap.Error(err))
	}
	logger.Info("tenant ready", zap.String("tenant_id", demoTenant.ID.String()))

	for _, su := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.PIN), bcrypt.DefaultCost)
		if err != nil {
			logger.Fatal("hash pin failed", zap.Error(err))
		}

		u := user.User{
			ID:       uuid.New(),
			TenantID: demoTenant.ID,
			Name:     su.Name,
			Email:    su.Email,
			PINHash:  string(hash),
			Role:     su.Role,
			IsActive: true,
		}
		if err := db.Where("email = ?", su.Email).FirstOrCreate(&u).Error; err != nil {
			logger.Fatal("seed user failed", zap.String("email", su.Email), zap.Error(err))
		}
		logger.Info("user ready",
			zap.String("email", su.Email),
			zap.String("role", su.Role),
			zap.String("pin", su.PIN),
		)
	}

	logger.Info("seed complete")
}
