package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitstore/fitstore-backend/config"
	appLogger "github.com/fitstore/fitstore-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// kvEntry is a single versioned row in the key-value table.
type kvEntry struct {
	Key       string `gorm:"primaryKey;column:key;type:varchar(255)"`
	Value     string `gorm:"type:text;not null"`
	Version   int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

type gormKV struct {
	db *gorm.DB
}

// NewPostgresKV opens a Postgres-backed key-value store.
func NewPostgresKV(cfg *config.DatabaseConfig) (KV, error) {
	appLogger.Info("Connecting to database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
	})

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Use silent mode, we'll use our own logger
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return NewGormKV(db)
}

// NewGormKV wraps an existing gorm connection and migrates the entry table.
func NewGormKV(db *gorm.DB) (KV, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &gormKV{db: db}, nil
}

func (g *gormKV) Get(ctx context.Context, key string) (string, int64, error) {
	var entry kvEntry
	err := g.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", 0, ErrKeyNotFound
	}
	if err != nil {
		return "", 0, err
	}
	return entry.Value, entry.Version, nil
}

func (g *gormKV) Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error) {
	newVersion := expectedVersion + 1

	if expectedVersion == 0 {
		entry := kvEntry{Key: key, Value: value, Version: newVersion}
		err := g.db.WithContext(ctx).Create(&entry).Error
		if err != nil {
			// Row already exists: someone else created it first
			var existing kvEntry
			if findErr := g.db.WithContext(ctx).First(&existing, "key = ?", key).Error; findErr == nil {
				return 0, ErrVersionConflict
			}
			return 0, err
		}
		return newVersion, nil
	}

	res := g.db.WithContext(ctx).Model(&kvEntry{}).
		Where("key = ? AND version = ?", key, expectedVersion).
		Updates(map[string]interface{}{"value": value, "version": newVersion})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrVersionConflict
	}
	return newVersion, nil
}

func (g *gormKV) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error
}

func (g *gormKV) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
