package infra

import (
	"fmt"
	"time"

	"shoptrack/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection pool and runs migrations.
func NewDatabase(url string, env string) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if env == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Supplier{},
		&model.Employee{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Msg("database ready")
	return db, nil
}
