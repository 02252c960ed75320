package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"musehub/config"
	"musehub/logger"
)

var sqlDB *sql.DB

// ConnectDB opens the raw MySQL connection pool and verifies it with a
// ping. The gorm handle in gorm.go shares the same database; this pool is
// for the handful of places that want plain SQL.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	sqlDB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("mysql ping: %w", err)
	}
	logger.Info("connected to mysql",
		logger.String("host", cfg.DBHost),
		logger.String("database", cfg.DBName))
	return nil
}

// GetDB returns the shared *sql.DB, nil before ConnectDB.
func GetDB() *sql.DB {
	return sqlDB
}

// CloseDB closes the raw connection pool.
func CloseDB() error {
	if sqlDB == nil {
		return nil
	}
	return sqlDB.Close()
}
