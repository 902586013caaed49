package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/despesa-app/despesa/internal/logger"
)

func createMigrationsTable(db *sql.DB) error {
	ctx := context.Background()

	statement, err := db.PrepareContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
					version INTEGER PRIMARY KEY,
					applied_at INTEGER NOT NULL
			)
	`)
	if err != nil {
		return err
	}
	defer statement.Close()
	_, err = statement.ExecContext(ctx)
	return err
}

func DropTables(db *sql.DB) error {
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for dropping tables: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS expenses;")
	if err != nil {
		rErr := tx.Rollback()
		if rErr != nil {
			return rErr
		}
		return err
	}

	_, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS schema_migrations;")
	if err != nil {
		rErr := tx.Rollback()
		if rErr != nil {
			return rErr
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deletion: %w", err)
	}

	return nil
}

func (s *sqliteStorage) ApplyMigrations(ctx context.Context, logger *logger.Logger) error {
	// Create migrations table if it doesn't exist
	if err := createMigrationsTable(s.db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get current schema version
	currentVersion := 0
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Define migrations
	migrations := []struct {
		name string
		up   func(*sql.Tx) error
	}{
		{
			name: "Create expenses table",
			up: func(tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, `
					CREATE TABLE IF NOT EXISTS expenses
					(
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					description TEXT NOT NULL,
					quantity REAL NOT NULL,
					unit_value INTEGER NOT NULL,
					currency TEXT NOT NULL,
					original_value INTEGER NOT NULL
					) STRICT;`)
				if err != nil {
					return err
				}

				// Non-unique lookup indexes mirroring the record container's
				// original secondary indexes. Nothing queries by them besides
				// the primary key yet.
				for _, column := range []string{
					"description",
					"quantity",
					"unit_value",
					"currency",
					"original_value",
				} {
					_, err = tx.ExecContext(ctx, fmt.Sprintf(
						"CREATE INDEX IF NOT EXISTS idx_expenses_%s ON expenses(%s);",
						column, column))
					if err != nil {
						return err
					}
				}

				return nil
			},
		},
		{
			name: "Add conversion snapshot columns",
			up: func(tx *sql.Tx) error {
				// Rows created before this migration keep a NULL
				// converted_value and render as N/A.
				_, err := tx.ExecContext(ctx, `
					ALTER TABLE expenses ADD COLUMN converted_value INTEGER;
				`)
				if err != nil {
					return err
				}

				_, err = tx.ExecContext(ctx, `
					ALTER TABLE expenses ADD COLUMN reference_currency TEXT;
				`)
				if err != nil {
					return err
				}

				_, err = tx.ExecContext(ctx,
					"CREATE INDEX IF NOT EXISTS idx_expenses_converted_value ON expenses(converted_value);")
				return err
			},
		},
	}

	for i, migration := range migrations {
		// Check if migration is already applied
		migrationVersion := i + 1
		if migrationVersion > currentVersion {
			logger.Info("Applying migration",
				"version", migrationVersion,
				"name", migration.name)

			// Begin transaction for this migration
			tx, err := s.db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("failed to begin transaction for migration %d: %w",
					migrationVersion, err)
			}

			// Apply migration
			if err = migration.up(tx); err != nil {
				rErr := tx.Rollback()
				if rErr != nil {
					return rErr
				}
				return fmt.Errorf("migration %d failed: %w", migrationVersion, err)
			}

			// Record migration
			_, err = tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				migrationVersion, time.Now().Unix(),
			)
			if err != nil {
				rErr := tx.Rollback()
				if rErr != nil {
					return rErr
				}
				return fmt.Errorf("failed to record migration %d: %w",
					migrationVersion, err)
			}

			// Commit transaction
			if err = tx.Commit(); err != nil {
				return fmt.Errorf("failed to commit migration %d: %w",
					migrationVersion, err)
			}

			logger.Info("Migration applied successfully", "version", migrationVersion)
		}
	}

	return nil
}
