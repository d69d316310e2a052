package database

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/chartcyanvas/backend/internal/config"
	"github.com/chartcyanvas/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	db, err := Open(postgres.Open(cfg.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	DB = db
	slog.Info("database connected")
	return nil
}

// Open wraps gorm.Open with the logger settings shared by every dialect.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return OpenWith(dialector, Logger(os.Stdout))
}

func OpenWith(dialector gorm.Dialector, l logger.Interface) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{Logger: l})
}

// Logger reports slow queries and failures to w. Missing rows are an
// expected outcome of lookups and are not logged.
func Logger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Chart{},
		&models.UserWarning{},
		&models.FileResource{},
		&models.SystemLog{},
	)
}

func MigrateShared() error {
	return Migrate(DB)
}

// PromoteAdmin marks the configured admin handle as an admin account.
func PromoteAdmin(ctx context.Context, db *gorm.DB, handle string) error {
	if handle == "" {
		return nil
	}
	result := db.WithContext(ctx).Model(&models.User{}).
		Where("handle = ?", handle).
		Update("admin", true)
	if result.Error != nil {
		return fmt.Errorf("failed to promote admin %q: %w", handle, result.Error)
	}
	if result.RowsAffected == 0 {
		slog.Warn("admin handle not found", "handle", handle)
	}
	return nil
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
