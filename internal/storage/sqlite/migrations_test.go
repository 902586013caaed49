package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/despesa-app/despesa/internal/config"
	"github.com/despesa-app/despesa/internal/logger"
	"github.com/despesa-app/despesa/internal/storage"
)

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	sqlFile := filepath.Join(t.TempDir(), "migrations.db")
	stor, err := New(config.DBConfig{Source: sqlFile})
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := stor.Close(); closeErr != nil {
			t.Errorf("Failed to close test storage: %v", closeErr)
		}
	})

	testLogger := logger.New(logger.Config{Output: "discard"})

	if err = stor.ApplyMigrations(context.Background(), testLogger); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	// Second run must be a no-op
	if err = stor.ApplyMigrations(context.Background(), testLogger); err != nil {
		t.Fatalf("Failed to re-apply migrations: %v", err)
	}

	db, err := sql.Open("sqlite3", sqlFile)
	if err != nil {
		t.Fatalf("Failed to open raw database: %v", err)
	}
	defer db.Close()

	var versions int
	row := db.QueryRow("SELECT COUNT(*) FROM schema_migrations")
	if err = row.Scan(&versions); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if versions != 2 {
		t.Errorf("Expected 2 recorded migrations, got %d", versions)
	}
}

func TestMigrationsCreateLookupIndexes(t *testing.T) {
	sqlFile := filepath.Join(t.TempDir(), "indexes.db")
	stor, err := New(config.DBConfig{Source: sqlFile})
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := stor.Close(); closeErr != nil {
			t.Errorf("Failed to close test storage: %v", closeErr)
		}
	})

	testLogger := logger.New(logger.Config{Output: "discard"})
	if err = stor.ApplyMigrations(context.Background(), testLogger); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	db, err := sql.Open("sqlite3", sqlFile)
	if err != nil {
		t.Fatalf("Failed to open raw database: %v", err)
	}
	defer db.Close()

	for _, column := range []string{
		"description",
		"quantity",
		"unit_value",
		"currency",
		"original_value",
		"converted_value",
	} {
		indexName := fmt.Sprintf("idx_expenses_%s", column)
		var name string
		row := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?", indexName)
		if err = row.Scan(&name); err != nil {
			t.Errorf("Expected index %s to exist: %v", indexName, err)
		}
	}
}

func TestDropTables(t *testing.T) {
	sqlFile := filepath.Join(t.TempDir(), "drop.db")
	stor, err := New(config.DBConfig{Source: sqlFile})
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}

	testLogger := logger.New(logger.Config{Output: "discard"})
	if err = stor.ApplyMigrations(context.Background(), testLogger); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	_, err = stor.InsertExpense(context.Background(),
		storage.NewExpense(0, "Coffee", "USD", 2, 350, 700, nil, ""))
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}

	if err = stor.Close(); err != nil {
		t.Fatalf("Failed to close storage: %v", err)
	}

	db, err := sql.Open("sqlite3", sqlFile)
	if err != nil {
		t.Fatalf("Failed to open raw database: %v", err)
	}
	defer db.Close()

	if err = DropTables(db); err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}

	var count int
	row := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('expenses', 'schema_migrations')")
	if err = row.Scan(&count); err != nil {
		t.Fatalf("Failed to count tables: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected tables to be dropped, %d remain", count)
	}
}
