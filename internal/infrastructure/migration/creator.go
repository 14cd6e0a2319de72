package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MigrationFile describes a freshly created up/down migration pair.
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down migration pair into migrationsDir.
// The version prefix is the creation timestamp so files sort in apply order.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	now := time.Now()
	mf := &MigrationFile{
		Version:     now.Format("20060102150405"),
		Name:        name,
		Description: description,
	}

	base := mf.Version + "_" + slugifyName(name)
	mf.UpPath = filepath.Join(migrationsDir, base+".up.sql")
	mf.DownPath = filepath.Join(migrationsDir, base+".down.sql")

	upHeader := migrationHeader(name, description, now, false)
	if err := os.WriteFile(mf.UpPath, []byte(upHeader), 0o644); err != nil {
		return nil, fmt.Errorf("create up migration: %w", err)
	}

	downHeader := migrationHeader(name, description, now, true)
	if err := os.WriteFile(mf.DownPath, []byte(downHeader), 0o644); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("create down migration: %w", err)
	}

	return mf, nil
}

func migrationHeader(name, description string, created time.Time, rollback bool) string {
	var b strings.Builder
	if rollback {
		fmt.Fprintf(&b, "-- Migration: %s (Rollback)\n", name)
	} else {
		fmt.Fprintf(&b, "-- Migration: %s\n", name)
	}
	fmt.Fprintf(&b, "-- Created: %s\n", created.Format(time.RFC3339))
	if description != "" {
		if rollback {
			fmt.Fprintf(&b, "-- Description: Rollback for %s\n", description)
		} else {
			fmt.Fprintf(&b, "-- Description: %s\n", description)
		}
	}
	b.WriteString("\n")
	return b.String()
}

// slugifyName turns a migration name into a safe lowercase file name segment.
func slugifyName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			s := b.String()
			if len(s) > 0 && !strings.HasSuffix(s, "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the base names of migration pairs in migrationsDir,
// one entry per up file. A missing directory lists as empty.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	return migrations, nil
}
