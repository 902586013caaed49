package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/despesa-app/despesa/internal/storage"
)

func (s *sqliteStorage) InsertExpense(ctx context.Context, expense storage.Expense) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses(description, quantity, unit_value, currency,
		 original_value, converted_value, reference_currency)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.Description(), expense.Quantity(), expense.UnitValue(),
		expense.Currency(), expense.OriginalValue(),
		convertedValueParam(expense), expense.ReferenceCurrency())
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

func (s *sqliteStorage) GetExpenses(ctx context.Context) ([]storage.Expense, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM expenses ORDER BY id ASC")
	if err != nil {
		return []storage.Expense{}, err
	}

	if rows.Err() != nil {
		return []storage.Expense{}, rows.Err()
	}

	defer rows.Close()

	expenses := []storage.Expense{}

	for rows.Next() {
		ex, expenseErr := s.expenseFromRow(rows.Scan)

		if expenseErr != nil {
			return []storage.Expense{}, expenseErr
		}

		expenses = append(expenses, ex)
	}

	return expenses, nil
}

func (s *sqliteStorage) GetExpenseByID(ctx context.Context, id int64) (storage.Expense, error) {
	row := s.db.QueryRowContext(ctx, "SELECT * FROM expenses WHERE id = ?", id)
	return s.expenseFromRow(row.Scan)
}

func (s *sqliteStorage) UpdateExpense(ctx context.Context, expense storage.Expense) (int64, error) {
	r, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, quantity = ?, unit_value = ?,
		 currency = ?, original_value = ?, converted_value = ?,
		 reference_currency = ?
		 WHERE id = ?`,
		expense.Description(), expense.Quantity(), expense.UnitValue(),
		expense.Currency(), expense.OriginalValue(),
		convertedValueParam(expense), expense.ReferenceCurrency(),
		expense.ID())
	if err != nil {
		return 0, err
	}
	return r.RowsAffected()
}

func (s *sqliteStorage) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	r, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return r.RowsAffected()
}

func convertedValueParam(expense storage.Expense) sql.NullInt64 {
	converted := sql.NullInt64{}
	if expense.ConvertedValue() != nil {
		converted = sql.NullInt64{Int64: *expense.ConvertedValue(), Valid: true}
	}
	return converted
}

func (s *sqliteStorage) expenseFromRow(scan func(dest ...any) error) (storage.Expense, error) {
	var id int64
	var description string
	var quantity float64
	var unitValue int64
	var currency string
	var originalValue int64
	var convertedValue sql.NullInt64
	var referenceCurrency sql.NullString

	if err := scan(&id, &description, &quantity, &unitValue, &currency,
		&originalValue, &convertedValue, &referenceCurrency); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, err
	}

	var converted *int64
	if convertedValue.Valid {
		converted = &convertedValue.Int64
	}

	return storage.NewExpense(
		id,
		description,
		currency,
		quantity,
		unitValue,
		originalValue,
		converted,
		referenceCurrency.String,
	), nil
}
