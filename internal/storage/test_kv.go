package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestKV creates an in-memory SQLite-backed store for testing.
func SetupTestKV() (KV, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	return NewGormKV(db)
}

// CleanupTestKV closes the test store.
func CleanupTestKV(kv KV) {
	_ = kv.Close()
}
