package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"musehub/config"
	"musehub/logger"
)

var gormDB *gorm.DB

// StoreSnapshot is the single-row table the MySQL persister writes the
// aggregate snapshot into. ID is always 1.
type StoreSnapshot struct {
	ID        uint64 `gorm:"primaryKey"`
	Data      []byte `gorm:"type:longblob"`
	UpdatedAt time.Time
}

// ConnectGormDB opens the gorm handle used for snapshot persistence and
// migrates its schema.
func ConnectGormDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	gormDB, err = gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open gorm: %w", err)
	}
	if err := gormDB.AutoMigrate(&StoreSnapshot{}); err != nil {
		return fmt.Errorf("migrate snapshot table: %w", err)
	}
	logger.Info("connected to mysql via gorm",
		logger.String("host", cfg.DBHost),
		logger.String("database", cfg.DBName))
	return nil
}

// GetGormDB returns the shared gorm handle, nil before ConnectGormDB.
func GetGormDB() *gorm.DB {
	return gormDB
}

// GormPersister stores the aggregate snapshot in a single MySQL row.
type GormPersister struct {
	db *gorm.DB
}

// NewGormPersister wraps an existing gorm handle.
func NewGormPersister(db *gorm.DB) *GormPersister {
	return &GormPersister{db: db}
}

// SaveSnapshot upserts the snapshot row.
func (p *GormPersister) SaveSnapshot(ctx context.Context, data []byte) error {
	row := StoreSnapshot{ID: 1, Data: data, UpdatedAt: time.Now()}
	return p.db.WithContext(ctx).Save(&row).Error
}

// LoadSnapshot reads the snapshot row, (nil, nil) when none exists.
func (p *GormPersister) LoadSnapshot(ctx context.Context) ([]byte, error) {
	var row StoreSnapshot
	err := p.db.WithContext(ctx).First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.Data, nil
}
