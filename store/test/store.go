package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/store"
	"github.com/hrygo/timenorm/store/db"
)

// NewTestingStore returns a migrated store. It uses a fresh SQLite file by
// default; DRIVER=postgres runs against POSTGRES_TEST_DSN.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()
	p := getTestingProfile(t)
	driver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}
	ts := store.New(driver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() { ts.Close() })
	return ts
}

func getTestingProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p := &profile.Profile{Mode: "dev", Driver: getDriverFromEnv()}
	switch p.Driver {
	case "postgres":
		p.DSN = os.Getenv("POSTGRES_TEST_DSN")
		if p.DSN == "" {
			t.Skip("POSTGRES_TEST_DSN is not set")
		}
	default:
		p.Data = t.TempDir()
		p.DSN = filepath.Join(p.Data, "timenorm_test.db")
	}
	return p
}

func getDriverFromEnv() string {
	if driver := os.Getenv("DRIVER"); driver != "" {
		return driver
	}
	return "sqlite"
}
