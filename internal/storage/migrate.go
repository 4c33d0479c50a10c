package storage

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema means a previous migration stopped halfway. The cache file
// has to be removed before it is usable again.
var ErrDirtySchema = errors.New("card cache schema is dirty")

// SchemaStatus describes how far a cache file is behind the embedded schema.
type SchemaStatus struct {
	Current uint `json:"current"`
	Latest  uint `json:"latest"`
	Dirty   bool `json:"dirty"`
	Pending int  `json:"pending"`
}

// UpToDate reports whether no migration is outstanding.
func (s SchemaStatus) UpToDate() bool {
	return !s.Dirty && s.Pending == 0
}

// MigrationManager applies the embedded card-cache schema to one SQLite file.
type MigrationManager struct {
	migrate  *migrate.Migrate
	versions []uint
}

func migrationSource() (source.Driver, error) {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("embedded migrations: %w", err)
	}
	drv, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}
	return drv, nil
}

// schemaVersions lists the embedded migration versions in ascending order.
func schemaVersions(drv source.Driver) ([]uint, error) {
	v, err := drv.First()
	if err != nil {
		return nil, fmt.Errorf("first migration: %w", err)
	}
	versions := []uint{v}
	for {
		next, err := drv.Next(v)
		if errors.Is(err, os.ErrNotExist) {
			return versions, nil
		}
		if err != nil {
			return nil, fmt.Errorf("migration after %d: %w", v, err)
		}
		versions = append(versions, next)
		v = next
	}
}

// sqliteURL turns a file path into a migrate database URL. Windows drive
// paths gain a leading slash.
func sqliteURL(path string) string {
	p := filepath.ToSlash(path)
	if filepath.IsAbs(path) && p[0] != '/' {
		p = "/" + p
	}
	return "sqlite://" + p
}

// NewMigrationManager opens the cache file at dbPath for migration.
func NewMigrationManager(dbPath string) (*MigrationManager, error) {
	drv, err := migrationSource()
	if err != nil {
		return nil, err
	}
	versions, err := schemaVersions(drv)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", drv, sqliteURL(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open %s for migration: %w", dbPath, err)
	}
	return &MigrationManager{migrate: m, versions: versions}, nil
}

// Status compares the file's schema version with the embedded migrations.
func (mm *MigrationManager) Status() (SchemaStatus, error) {
	current, dirty, err := mm.Version()
	if err != nil {
		return SchemaStatus{}, err
	}

	status := SchemaStatus{
		Current: current,
		Latest:  mm.versions[len(mm.versions)-1],
		Dirty:   dirty,
	}
	for _, v := range mm.versions {
		if v > current {
			status.Pending++
		}
	}
	return status, nil
}

// Up brings the schema to the latest version. A dirty schema is refused.
func (mm *MigrationManager) Up() error {
	status, err := mm.Status()
	if err != nil {
		return err
	}
	if status.Dirty {
		return fmt.Errorf("%w at version %d", ErrDirtySchema, status.Current)
	}
	if status.Pending == 0 {
		return nil
	}

	if err := mm.migrate.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate card cache from version %d: %w", status.Current, err)
	}
	return nil
}

// Down reverts the newest applied migration.
func (mm *MigrationManager) Down() error {
	if err := mm.migrate.Steps(-1); err != nil {
		return fmt.Errorf("revert card cache migration: %w", err)
	}
	return nil
}

// Version returns the applied schema version; a fresh file is version 0.
func (mm *MigrationManager) Version() (version uint, dirty bool, err error) {
	version, dirty, err = mm.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read card cache schema version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the source and database handles.
func (mm *MigrationManager) Close() error {
	srcErr, dbErr := mm.migrate.Close()
	return errors.Join(srcErr, dbErr)
}

// CheckSchema reports the schema status of the cache file at path without
// changing it.
func CheckSchema(path string) (SchemaStatus, error) {
	mgr, err := NewMigrationManager(path)
	if err != nil {
		return SchemaStatus{}, err
	}
	status, err := mgr.Status()
	return status, errors.Join(err, mgr.Close())
}
