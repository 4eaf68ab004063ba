package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"j2systems/internal/config"
	"j2systems/internal/domain"
	"j2systems/internal/metrics"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = 10 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open connects to the configured database, tunes the connection pool and
// migrates the schema. The caller owns the returned handle and releases it with Close.
func Open(cfg config.DatabaseConfig, log *zap.SugaredLogger) (*gorm.DB, error) {
	dialector, err := newDialector(cfg, log)
	if err != nil {
		return nil, err
	}

	// SQL is never logged: query parameters carry submitted personal data.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: domain.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.IsPostgres() {
		if err := tunePool(db); err != nil {
			return nil, err
		}
		log.Infow("Connection pool configured", "maxOpen", maxOpenConns, "maxIdle", maxIdleConns)
	}

	if err := HealthCheck(context.Background(), db); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("database connection test failed: %w", err)
	}

	log.Info("Running database migrations...")
	if err := db.AutoMigrate(&domain.ContactMessage{}, &domain.StatusCheck{}); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Info("Database ready")
	return db, nil
}

func newDialector(cfg config.DatabaseConfig, log *zap.SugaredLogger) (gorm.Dialector, error) {
	if cfg.IsPostgres() {
		log.Info("Using PostgreSQL")
		return postgres.Open(cfg.GetPostgresDSN()), nil
	}

	path := cfg.GetSQLitePath()
	log.Infow("Using SQLite", "path", path)
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite serialises writers, and an in-memory database only lives on its own connection.
	conn.SetMaxOpenConns(1)
	return sqlite.Dialector{DriverName: "sqlite", DSN: path, Conn: conn}, nil
}

func tunePool(db *gorm.DB) error {
	pool, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetConnMaxIdleTime(connMaxIdleTime)
	return nil
}

// HealthCheck pings the database and refreshes the connection pool gauges
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	pool, err := db.DB()
	if err != nil {
		return err
	}
	if err := pool.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	stats := pool.Stats()
	metrics.UpdateDBConnections(stats.InUse, stats.Idle)
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	pool, err := db.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}
