package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/store"
)

// schemaTables are the tables LATEST.sql creates. The database counts as
// initialized once all of them exist.
var schemaTables = []string{"document", "annotation"}

// DB stores normalized documents and their TIMEX3 annotations in PostgreSQL.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	dsn := redactDSN(profile.DSN)

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		slog.Error("failed to open annotation database", slog.String("dsn", dsn), slog.String("error", err.Error()))
		return nil, errors.Wrapf(err, "failed to open database: %s", dsn)
	}

	open := poolSize(profile.Workers)
	db.SetMaxOpenConns(open)
	db.SetMaxIdleConns(min(open, 2))
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		slog.Error("failed to ping annotation database", slog.String("dsn", dsn), slog.String("error", err.Error()))
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	slog.Debug("annotation database ready", slog.String("dsn", dsn), slog.Int("max_open_conns", open))

	var driver store.Driver = &DB{
		db:      db,
		profile: profile,
	}
	return driver, nil
}

// poolSize gives every batch worker a connection for its document insert,
// plus headroom for the read endpoints.
func poolSize(workers int) int {
	if workers < 1 {
		workers = 1
	}
	return workers + 2
}

var dsnPassword = regexp.MustCompile(`(password\s*=\s*)('[^']*'|\S+)`)

// redactDSN hides the password of a URL or key=value connection string.
func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.User != nil {
		return u.Redacted()
	}
	return dsnPassword.ReplaceAllString(dsn, "${1}xxxxx")
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var found int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_catalog = current_database() AND table_schema = current_schema() AND table_type = 'BASE TABLE' AND table_name IN ("+placeholders(len(schemaTables))+")",
		tableArgs()...,
	).Scan(&found)
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return found == len(schemaTables), nil
}

func tableArgs() []any {
	args := make([]any, len(schemaTables))
	for i, t := range schemaTables {
		args[i] = t
	}
	return args
}
