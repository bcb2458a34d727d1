package config

import (
	"fmt"

	"github.com/kendall-kelly/pizzeria-api/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the database selected by DATABASE_DRIVER
func ConnectDatabase(cfg *Config, log *zap.Logger) error {
	dialector, err := Dialector(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DatabaseDriver == DriverSQLite {
		// a single connection keeps in-memory databases shared and serialises writers
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	DB = db
	log.Info("Database connection established", zap.String("driver", cfg.DatabaseDriver))
	return nil
}

// Dialector returns the gorm dialector for a driver name
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		if dsn == "" {
			dsn = "file:pizzeria.db?_foreign_keys=on"
		}
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
