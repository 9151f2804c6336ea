package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/spreadline/internal/config"
)

// SetupTestDB creates a test database connection, applies the schema and
// verifies connectivity. Tests that need a live database should skip when
// SPREADLINE_TEST_DB is not configured.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg, err := config.LoadWithDefaults("../../config/config.test.yaml")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to apply test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
