package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator wraps golang-migrate for the store schema.
type Migrator struct {
	mig *migrate.Migrate
	log *zap.Logger
}

// New creates a Migrator over an open postgres connection reading SQL
// migrations from migrationsPath.
func New(db *sql.DB, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("create postgres driver: %w", err)
	}

	mig, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return &Migrator{mig: mig, log: log}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	m.log.Info("Applying pending migrations")

	if err := m.mig.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("Schema already up to date")
			return nil
		}
		return fmt.Errorf("migration up failed: %w", err)
	}
	m.logVersion("Migrations applied")
	return nil
}

// Down rolls back every applied migration.
func (m *Migrator) Down() error {
	m.log.Info("Rolling back all migrations")

	if err := m.mig.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("Nothing to roll back")
			return nil
		}
		return fmt.Errorf("migration down failed: %w", err)
	}
	m.log.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations, negative n rolls back.
func (m *Migrator) Steps(n int) error {
	m.log.Info("Applying migration steps", zap.Int("steps", n))

	if err := m.mig.Steps(n); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("Schema already up to date")
			return nil
		}
		return fmt.Errorf("migration steps failed: %w", err)
	}
	m.logVersion("Migration steps applied")
	return nil
}

// GoTo migrates up or down to the exact version.
func (m *Migrator) GoTo(version uint) error {
	m.log.Info("Migrating to version", zap.Uint("target", version))

	if err := m.mig.Migrate(version); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("Already at target version")
			return nil
		}
		return fmt.Errorf("migration to version %d failed: %w", version, err)
	}
	m.log.Info("Migrated to version", zap.Uint("version", version))
	return nil
}

// Version reports the current schema version. A fresh database reports
// version 0 and no error.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.mig.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any migration.
// Only for recovering a dirty schema state.
func (m *Migrator) Force(version int) error {
	m.log.Warn("Forcing migration version", zap.Int("version", version))

	if err := m.mig.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the database.
func (m *Migrator) Drop() error {
	m.log.Warn("Dropping database schema")

	if err := m.mig.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.mig.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

func (m *Migrator) logVersion(msg string) {
	version, dirty, err := m.mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		m.log.Warn("Could not read migration version", zap.Error(err))
		return
	}
	m.log.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
}
