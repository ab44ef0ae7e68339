package main

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fastskeleton/backend/internal/adapters/db/postgres"
	"github.com/fastskeleton/backend/internal/app/auth/jwt"
	"github.com/fastskeleton/backend/internal/app/auth/password"
	appsvc "github.com/fastskeleton/backend/internal/app/auth/service"
	"github.com/fastskeleton/backend/internal/domain/auth/repo"
	"github.com/fastskeleton/backend/internal/infra/config"
	"github.com/fastskeleton/backend/internal/infra/database"
	lg "github.com/fastskeleton/backend/internal/infra/log"
	"github.com/fastskeleton/backend/internal/infra/metrics"
	"github.com/fastskeleton/backend/internal/infra/migrate"
)

// loadRuntime reads the config and builds the logger every subcommand needs.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := lg.New(cfg.LogLevel, false)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openDatabase connects and brings the schema up to date, either through the
// embedded migrations or gorm's AutoMigrate when DATABASE_AUTO_MIGRATE is set.
func openDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, *sql.DB, error) {
	db, err := database.Open(cfg.DatabaseURL, database.PoolConfig{MaxOpenConns: cfg.DatabaseMaxOpenConns})
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	if err := prepareSchema(cfg, db, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	logger.Info("database ready", zap.Bool("auto_migrate", cfg.DatabaseAutoMigrate))
	return db, sqlDB, nil
}

func prepareSchema(cfg *config.Config, db *gorm.DB, sqlDB *sql.DB) error {
	if cfg.DatabaseAutoMigrate {
		return database.AutoMigrate(db)
	}
	if err := migrate.Up(sqlDB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

type serviceDeps struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	sessions repo.SessionCache
	metrics  *metrics.Metrics
}

func newService(d serviceDeps) (appsvc.Service, error) {
	codec, err := jwt.NewJWTUtil(d.cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	return appsvc.New(appsvc.Deps{
		Users:    postgres.NewPostgresUserRepo(d.db),
		Sessions: d.sessions,
		Codec:    codec,
		Hasher:   password.NewHasher(d.cfg.PasswordPepper, password.DefaultParams),
		Config:   d.cfg,
		Logger:   d.logger,
		Metrics:  d.metrics,
	}), nil
}
