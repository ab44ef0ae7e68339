// Package database opens the relational credential store.
package database

import (
	"context"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	customErrors "github.com/fastskeleton/backend/internal/domain/auth/errors"
	"github.com/fastskeleton/backend/internal/domain/auth/model"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Config is shared by every dialector so driver errors are translated into
// gorm sentinels (ErrDuplicatedKey in particular).
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

func Open(dsn string, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, customErrors.WrapStoreUnavailable(err, "open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, customErrors.WrapInternal(err, "db handle")
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	return db, nil
}

// AutoMigrate creates the tables of every registered entity.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.Entities()...); err != nil {
		return customErrors.WrapInternal(err, "auto migrate")
	}
	return nil
}

// Ping runs a trivial query through the pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return customErrors.WrapStoreUnavailable(err, "ping")
	}
	return nil
}
