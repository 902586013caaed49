package storage

import (
	"context"

	"github.com/despesa-app/despesa/internal/logger"
)

type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "record not found"
}

// Expense is a single purchase. Monetary fields are cents. OriginalValue and
// ConvertedValue are snapshots taken when the record was created or last
// edited; they do not track later exchange-rate changes. ConvertedValue is
// nil for rows that predate the conversion columns.
type Expense interface {
	ID() int64
	Description() string
	Quantity() float64
	UnitValue() int64
	Currency() string
	OriginalValue() int64
	ConvertedValue() *int64
	ReferenceCurrency() string
}

type expense struct {
	id                int64
	description       string
	quantity          float64
	unitValue         int64
	currency          string
	originalValue     int64
	convertedValue    *int64
	referenceCurrency string
}

func NewExpense(
	id int64,
	description, currency string,
	quantity float64,
	unitValue, originalValue int64,
	convertedValue *int64,
	referenceCurrency string,
) Expense {
	return &expense{
		id:                id,
		description:       description,
		quantity:          quantity,
		unitValue:         unitValue,
		currency:          currency,
		originalValue:     originalValue,
		convertedValue:    convertedValue,
		referenceCurrency: referenceCurrency,
	}
}

func (e *expense) ID() int64 {
	return e.id
}

func (e *expense) Description() string {
	return e.description
}

func (e *expense) Quantity() float64 {
	return e.quantity
}

func (e *expense) UnitValue() int64 {
	return e.unitValue
}

func (e *expense) Currency() string {
	return e.currency
}

func (e *expense) OriginalValue() int64 {
	return e.originalValue
}

func (e *expense) ConvertedValue() *int64 {
	return e.convertedValue
}

func (e *expense) ReferenceCurrency() string {
	return e.referenceCurrency
}

// Storage is the persistence contract. Every operation runs in its own
// transaction; no atomicity is guaranteed across calls.
type Storage interface {
	// Migrations
	ApplyMigrations(ctx context.Context, logger *logger.Logger) error

	// Expenses
	InsertExpense(ctx context.Context, expense Expense) (int64, error)
	GetExpenses(ctx context.Context) ([]Expense, error)
	GetExpenseByID(ctx context.Context, id int64) (Expense, error)
	UpdateExpense(ctx context.Context, expense Expense) (int64, error)
	DeleteExpense(ctx context.Context, id int64) (int64, error)

	// Resource managment
	Close() error
}
