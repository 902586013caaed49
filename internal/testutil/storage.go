package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/despesa-app/despesa/internal/config"
	"github.com/despesa-app/despesa/internal/storage"
	"github.com/despesa-app/despesa/internal/storage/sqlite"
)

// SetupTestStorage opens a throwaway SQLite store with the schema applied.
// A file in t.TempDir is used instead of :memory: because the connection
// pool would otherwise hand every connection its own empty database.
func SetupTestStorage(t *testing.T) storage.Storage {
	t.Helper()

	store, err := sqlite.New(config.DBConfig{Source: filepath.Join(t.TempDir(), "despesa-test.db")})
	if err != nil {
		t.Fatalf("Failed to open test storage: %v", err)
	}

	if err = store.ApplyMigrations(context.Background(), TestLogger(t)); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close test storage: %v", err)
		}
	})

	return store
}
