package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	// Import the pure Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database at profile.DSN with WAL journaling and
// foreign keys enabled.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	dsn := profile.DSN + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	var driver store.Driver = &DB{
		db:      db,
		profile: profile,
	}
	return driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'document')").Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return exists, nil
}
