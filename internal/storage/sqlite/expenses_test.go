package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/despesa-app/despesa/internal/config"
	"github.com/despesa-app/despesa/internal/logger"
	"github.com/despesa-app/despesa/internal/storage"
)

func setupTestStorage(t *testing.T) storage.Storage {
	t.Helper()
	// We use a tempDir + the unique test name (t.Name) that way we can warrant that any test has its own DB
	// Using a tempDir ensure it gets clean after each test
	sqlFile := filepath.Join(t.TempDir(), fmt.Sprintf(":memory:%s", strings.ReplaceAll(t.Name(), "/", ":")))
	stor, err := New(config.DBConfig{Source: sqlFile})
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}

	testLogger := logger.New(logger.Config{Output: "discard"})
	err = stor.ApplyMigrations(context.Background(), testLogger)
	if err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	t.Cleanup(func() {
		if err = stor.Close(); err != nil {
			t.Errorf("Failed to close test storage: %v", err)
		}
	})

	return stor
}

func centsPtr(v int64) *int64 {
	return &v
}

func TestInsertAndGetExpense(t *testing.T) {
	stor := setupTestStorage(t)

	expense := storage.NewExpense(0, "Coffee", "USD", 2, 350, 700, centsPtr(3500), "BRL")

	id, err := stor.InsertExpense(context.Background(), expense)
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}
	if id != 1 {
		t.Errorf("Expected first id to be 1, got %d", id)
	}

	// Round-trip: every field must come back unchanged
	got, err := stor.GetExpenseByID(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to get expense by ID: %v", err)
	}

	if got.Description() != "Coffee" {
		t.Errorf("Expected description 'Coffee', got '%s'", got.Description())
	}
	if got.Quantity() != 2 {
		t.Errorf("Expected quantity 2, got %f", got.Quantity())
	}
	if got.UnitValue() != 350 {
		t.Errorf("Expected unit value 350, got %d", got.UnitValue())
	}
	if got.Currency() != "USD" {
		t.Errorf("Expected currency 'USD', got '%s'", got.Currency())
	}
	if got.OriginalValue() != 700 {
		t.Errorf("Expected original value 700, got %d", got.OriginalValue())
	}
	if got.ConvertedValue() == nil || *got.ConvertedValue() != 3500 {
		t.Errorf("Expected converted value 3500, got %v", got.ConvertedValue())
	}
	if got.ReferenceCurrency() != "BRL" {
		t.Errorf("Expected reference currency 'BRL', got '%s'", got.ReferenceCurrency())
	}
}

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	stor := setupTestStorage(t)

	firstID, err := stor.InsertExpense(context.Background(),
		storage.NewExpense(0, "First", "USD", 1, 100, 100, centsPtr(500), "BRL"))
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}

	secondID, err := stor.InsertExpense(context.Background(),
		storage.NewExpense(0, "Second", "USD", 1, 100, 100, centsPtr(500), "BRL"))
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}

	if secondID <= firstID {
		t.Errorf("Expected ids to increase, got %d then %d", firstID, secondID)
	}

	// Deleting the last row must not make its id reusable
	if _, err = stor.DeleteExpense(context.Background(), secondID); err != nil {
		t.Fatalf("Failed to delete expense: %v", err)
	}

	thirdID, err := stor.InsertExpense(context.Background(),
		storage.NewExpense(0, "Third", "USD", 1, 100, 100, centsPtr(500), "BRL"))
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}
	if thirdID <= secondID {
		t.Errorf("Expected id after delete to be greater than %d, got %d", secondID, thirdID)
	}
}

func TestGetExpensesInsertionOrder(t *testing.T) {
	stor := setupTestStorage(t)

	descriptions := []string{"Coffee", "Bus ticket", "Lunch"}
	for _, description := range descriptions {
		_, err := stor.InsertExpense(context.Background(),
			storage.NewExpense(0, description, "USD", 1, 100, 100, centsPtr(500), "BRL"))
		if err != nil {
			t.Fatalf("Failed to insert expense: %v", err)
		}
	}

	expenses, err := stor.GetExpenses(context.Background())
	if err != nil {
		t.Fatalf("Failed to get expenses: %v", err)
	}
	if len(expenses) != len(descriptions) {
		t.Fatalf("Expected %d expenses, got %d", len(descriptions), len(expenses))
	}

	for i, expense := range expenses {
		if expense.Description() != descriptions[i] {
			t.Errorf("Expected expense %d to be '%s', got '%s'", i, descriptions[i], expense.Description())
		}
	}
}

func TestGetExpenseByIDNotFound(t *testing.T) {
	stor := setupTestStorage(t)

	_, err := stor.GetExpenseByID(context.Background(), 42)
	if err == nil {
		t.Fatal("Expected error for missing expense")
	}

	var notFoundErr *storage.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestUpdateExpense(t *testing.T) {
	stor := setupTestStorage(t)

	id, err := stor.InsertExpense(context.Background(),
		storage.NewExpense(0, "Coffee", "USD", 2, 350, 700, centsPtr(3500), "BRL"))
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}

	affected, err := stor.UpdateExpense(context.Background(),
		storage.NewExpense(id, "Espresso", "EUR", 3, 400, 1200, centsPtr(6600), "BRL"))
	if err != nil {
		t.Fatalf("Failed to update expense: %v", err)
	}
	if affected != 1 {
		t.Errorf("Expected 1 expense updated, got %d", affected)
	}

	updated, err := stor.GetExpenseByID(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to get updated expense: %v", err)
	}
	if updated.Description() != "Espresso" {
		t.Errorf("Expected updated description 'Espresso', got '%s'", updated.Description())
	}
	if updated.Currency() != "EUR" {
		t.Errorf("Expected updated currency 'EUR', got '%s'", updated.Currency())
	}
	if updated.ConvertedValue() == nil || *updated.ConvertedValue() != 6600 {
		t.Errorf("Expected updated converted value 6600, got %v", updated.ConvertedValue())
	}
}

func TestUpdateExpenseNotFound(t *testing.T) {
	stor := setupTestStorage(t)

	affected, err := stor.UpdateExpense(context.Background(),
		storage.NewExpense(42, "Ghost", "USD", 1, 100, 100, centsPtr(500), "BRL"))
	if err != nil {
		t.Fatalf("Unexpected error updating missing expense: %v", err)
	}
	if affected != 0 {
		t.Errorf("Expected 0 expenses updated, got %d", affected)
	}
}

func TestDeleteExpense(t *testing.T) {
	stor := setupTestStorage(t)

	id, err := stor.InsertExpense(context.Background(),
		storage.NewExpense(0, "Coffee", "USD", 2, 350, 700, centsPtr(3500), "BRL"))
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}

	affected, err := stor.DeleteExpense(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to delete expense: %v", err)
	}
	if affected != 1 {
		t.Errorf("Expected 1 expense deleted, got %d", affected)
	}

	expenses, err := stor.GetExpenses(context.Background())
	if err != nil {
		t.Fatalf("Failed to get expenses: %v", err)
	}
	if len(expenses) != 0 {
		t.Errorf("Expected 0 expenses after delete, got %d", len(expenses))
	}
}

func TestDeleteExpenseNotFound(t *testing.T) {
	stor := setupTestStorage(t)

	id, err := stor.InsertExpense(context.Background(),
		storage.NewExpense(0, "Coffee", "USD", 2, 350, 700, centsPtr(3500), "BRL"))
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}

	affected, err := stor.DeleteExpense(context.Background(), 42)
	if err != nil {
		t.Fatalf("Unexpected error deleting missing expense: %v", err)
	}
	if affected != 0 {
		t.Errorf("Expected 0 expenses deleted, got %d", affected)
	}

	// The store's contents are untouched
	remaining, err := stor.GetExpenses(context.Background())
	if err != nil {
		t.Fatalf("Failed to get expenses: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("Expected 1 expense remaining, got %d", len(remaining))
	}
	if remaining[0].ID() != id {
		t.Errorf("Expected remaining expense id %d, got %d", id, remaining[0].ID())
	}
}

func TestNilConvertedValueRoundTrip(t *testing.T) {
	stor := setupTestStorage(t)

	id, err := stor.InsertExpense(context.Background(),
		storage.NewExpense(0, "Legacy row", "USD", 1, 100, 100, nil, ""))
	if err != nil {
		t.Fatalf("Failed to insert expense: %v", err)
	}

	got, err := stor.GetExpenseByID(context.Background(), id)
	if err != nil {
		t.Fatalf("Failed to get expense: %v", err)
	}
	if got.ConvertedValue() != nil {
		t.Errorf("Expected nil converted value, got %v", *got.ConvertedValue())
	}
	if got.ReferenceCurrency() != "" {
		t.Errorf("Expected empty reference currency, got '%s'", got.ReferenceCurrency())
	}
}
