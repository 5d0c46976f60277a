package database

import (
	"context"
	"fmt"

	"github.com/hairbystephanie/site/backend/go-services/internal/content/repository"
	"github.com/hairbystephanie/site/backend/go-services/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectPostgres opens a gorm connection and verifies it with a ping.
func ConnectPostgres(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// ConnectPostgresWithRetry retries ConnectPostgres with exponential backoff.
func ConnectPostgresWithRetry(ctx context.Context, dsn string, p RetryPolicy) (*gorm.DB, error) {
	return withRetry(ctx, "postgres", p, func(ctx context.Context) (*gorm.DB, error) {
		return ConnectPostgres(ctx, dsn)
	})
}

// Migrate creates the user and content tables.
func Migrate(db *gorm.DB) error {
	tables := append([]interface{}{&models.User{}}, repository.GormModels()...)
	return db.AutoMigrate(tables...)
}
