// Package migrations owns the company schema. The SQL files are embedded and
// applied with golang-migrate against postgres:// or sqlite3:// URLs.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

// Migrator applies and reverts the embedded schema migrations.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New opens a migrator for databaseURL. The caller must Close it.
func New(databaseURL string, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to start migrations: %w", err)
	}

	logger = logger.Named("migrations")
	m.Log = &migrateLogger{logger: logger.Sugar()}

	return &Migrator{m: m, logger: logger}, nil
}

// Up applies all pending migrations. Running it on an up-to-date schema is a no-op.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("could not run up migrations: %w", err)
	}
	mg.logger.Info("migrations applied")
	return nil
}

// Down reverts all applied migrations. Running it on an empty schema is a no-op.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("schema already reverted")
			return nil
		}
		return fmt.Errorf("could not run down migrations: %w", err)
	}
	mg.logger.Info("migrations reverted")
	return nil
}

// Version reports the applied schema version. ok is false when nothing is applied.
func (mg *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

// Close releases the source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

type migrateLogger struct {
	logger *zap.SugaredLogger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debugf(format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
