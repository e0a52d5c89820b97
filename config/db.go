package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"campsite-backend/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case DriverMySQL:
		return mysql.Open(cfg.DBDSN), nil
	case DriverPostgres:
		return postgres.Open(cfg.DBDSN), nil
	case DriverSQLite:
		return sqlite.Open(cfg.DBDSN), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// NewGormLogger routes gorm output through zap. Record-not-found is an
// expected outcome for lookups and is not logged.
func NewGormLogger(lg *zap.Logger, env string) logger.Interface {
	level := logger.Warn
	if env != "production" {
		level = logger.Info
	}
	return logger.New(
		zap.NewStdLog(lg.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ConnectDatabase opens the configured database and applies AutoMigrate.
func ConnectDatabase(cfg *Config, lg *zap.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         NewGormLogger(lg, cfg.Environment),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := pinEmailCollation(db, cfg.DBDriver); err != nil {
		return nil, err
	}
	return db, nil
}

// MySQL's default collations fold case, which would make users.email
// unique and matched case-insensitively. Postgres and SQLite compare bytes.
const mysqlEmailCollationSQL = "ALTER TABLE users MODIFY email VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"

func pinEmailCollation(db *gorm.DB, driver string) error {
	if driver != DriverMySQL {
		return nil
	}
	if err := db.Exec(mysqlEmailCollationSQL).Error; err != nil {
		return fmt.Errorf("set users.email collation: %w", err)
	}
	return nil
}

// AutoMigrate creates tables in parent->child order.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Campsite{},
		&models.Booking{},
	)
}

// SeedDatabase makes sure at least one admin account exists.
func SeedDatabase(db *gorm.DB, cfg *Config, lg *zap.Logger) error {
	var adminCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if adminCount > 0 {
		return nil
	}

	email := strings.TrimSpace(cfg.AdminEmail)
	if email == "" || cfg.AdminPassword == "" {
		return errors.New("no admin account exists and ADMIN_EMAIL/ADMIN_PASSWORD are empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	admin := models.User{
		Email:              email,
		PasswordHash:       string(hash),
		FullName:           "Admin User",
		Role:               models.RoleAdmin,
		RegistrationStatus: models.RegistrationApproved,
		IsActive:           true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	lg.Info("Default admin seeded", zap.String("email", email), zap.Uint("user_id", admin.ID))
	return nil
}
