package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// Fresh databases are initialized from migration/{driver}/LATEST.sql, the
// full current schema.

//go:embed migration
var migrationFS embed.FS

// LatestSchemaFileName is the name of the latest schema file.
const LatestSchemaFileName = "LATEST.sql"

// Migrate creates the schema when the database is not initialized yet.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	filePath := s.getMigrationBasePath() + LatestSchemaFileName
	bytes, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Errorf("failed to read latest schema file: %s", err)
	}
	// Start a transaction to apply the latest schema.
	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()
	slog.Info("initializing new database with latest schema", slog.String("file", filePath))
	if err := s.execute(ctx, tx, string(bytes)); err != nil {
		return errors.Errorf("failed to execute SQL file %s, err %s", filePath, err)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	slog.Info("database initialized successfully", slog.String("driver", s.profile.Driver))
	return nil
}

func (s *Store) getMigrationBasePath() string {
	return fmt.Sprintf("migration/%s/", s.profile.Driver)
}

// execute executes a SQL script within a transaction context.
// PostgreSQL gets one statement per ExecContext call.
func (s *Store) execute(ctx context.Context, tx *sql.Tx, stmt string) error {
	if s.profile.Driver == "postgres" {
		return executeMultiStmt(ctx, tx, stmt)
	}
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}
	return nil
}

func executeMultiStmt(ctx context.Context, tx *sql.Tx, script string) error {
	for i, stmt := range splitSQL(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute statement %d: %s", i+1, stmt)
		}
	}
	return nil
}

// splitSQL splits a script into statements on semicolons outside of
// single-quoted strings. Comment lines are dropped.
func splitSQL(script string) []string {
	var statements []string
	var current strings.Builder
	inSingleQuote := false

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, line := range strings.Split(script, "\n") {
		if !inSingleQuote && strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		for i := 0; i < len(line); i++ {
			ch := line[i]
			switch {
			case ch == '\'':
				inSingleQuote = !inSingleQuote
				current.WriteByte(ch)
			case ch == ';' && !inSingleQuote:
				flush()
			default:
				current.WriteByte(ch)
			}
		}
		current.WriteByte('\n')
	}
	flush()
	return statements
}
