package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/storemanager/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM connection handle and its pool settings
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a connection with SQL logging disabled
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithLogger(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithLogger opens a connection using the supplied GORM logger,
// applies the configured pool limits and verifies connectivity
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Database{DB: db}
	pool, err := d.sqlDB()
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

func (d *Database) sqlDB() (*sql.DB, error) {
	pool, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return pool, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	pool, err := d.sqlDB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	pool, err := d.sqlDB()
	if err != nil {
		return err
	}
	return pool.Ping()
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.DB.Transaction(fn)
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
}

// Stats returns database connection pool statistics
func (d *Database) Stats() (ConnectionStats, error) {
	pool, err := d.sqlDB()
	if err != nil {
		return ConnectionStats{}, err
	}
	stats := pool.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}
