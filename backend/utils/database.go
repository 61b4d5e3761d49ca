package utils

import (
	"fmt"
	"germanlearn/backend/config"
	"germanlearn/backend/models"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the configured database. For sqlite DBName is the file path
// or DSN (e.g. "file:test?mode=memory&cache=shared").
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.DBDriver) {
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(cfg.DBName)
	case "", "postgres", "postgresql":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
		)
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}

	if strings.HasPrefix(strings.ToLower(cfg.DBDriver), "sqlite") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// One connection keeps in-memory databases shared and serializes writers.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate creates or updates every table the platform owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Module{},
		&models.Lesson{},
		&models.Vocabulary{},
		&models.Exercise{},
		&models.UserProgress{},
		&models.UserStreak{},
		&models.Achievement{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
}
