// Package service orchestrates the expense operations: validate the form
// input, convert the total into the reference currency, persist and read
// back records. Conversion always precedes persistence, so a failed lookup
// never leaves a partial record behind.
package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/despesa-app/despesa/internal/logger"
	"github.com/despesa-app/despesa/internal/storage"
	"github.com/despesa-app/despesa/internal/util"
)

// Converter is the outbound rate lookup. Convert takes cents in the from
// currency and returns cents in the reference currency.
type Converter interface {
	Convert(ctx context.Context, amount int64, from string) (int64, error)
	Currency() string
}

// ValidationError names the form fields that failed validation. No network
// call and no store mutation happens when one is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

// ConversionError wraps a failed rate lookup, network fault or upstream
// rejection alike. The surrounding add or edit operation aborts with no
// store mutation.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed: %s", e.Err.Error())
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Input carries the raw form values of an add or edit submission.
type Input struct {
	Description string
	Quantity    string
	UnitValue   string
	Currency    string
}

type parsedInput struct {
	description   string
	quantity      float64
	unitValue     int64
	currency      string
	originalValue int64
}

// Totals are the running sums over all stored expenses. Rows without a
// conversion snapshot count toward Original only.
type Totals struct {
	Original  int64
	Converted int64
}

type Service struct {
	storage   storage.Storage
	converter Converter
	logger    *logger.Logger

	// Serializes mutations so overlapping submissions cannot interleave
	// their convert-then-persist windows.
	mu sync.Mutex
}

func New(s storage.Storage, converter Converter, logger *logger.Logger) *Service {
	return &Service{
		storage:   s,
		converter: converter,
		logger:    logger,
	}
}

// Add validates the input, converts the total and inserts the record. The
// returned expense carries the id the store assigned.
func (s *Service) Add(ctx context.Context, input Input) (storage.Expense, error) {
	parsed, err := parseInput(input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	converted, err := s.converter.Convert(ctx, parsed.originalValue, parsed.currency)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}

	expense := storage.NewExpense(
		0,
		parsed.description,
		parsed.currency,
		parsed.quantity,
		parsed.unitValue,
		parsed.originalValue,
		&converted,
		s.converter.Currency(),
	)

	id, err := s.storage.InsertExpense(ctx, expense)
	if err != nil {
		return nil, fmt.Errorf("saving expense: %w", err)
	}

	s.logger.Info("expense added",
		"id", id,
		"description", parsed.description,
		"original_value", parsed.originalValue,
		"converted_value", converted)

	return storage.NewExpense(
		id,
		parsed.description,
		parsed.currency,
		parsed.quantity,
		parsed.unitValue,
		parsed.originalValue,
		&converted,
		s.converter.Currency(),
	), nil
}

// Update edits a stored expense in place under a single statement. The
// record keeps its id and is never deleted as part of editing; the
// conversion snapshot is re-derived from the new fields.
func (s *Service) Update(ctx context.Context, id int64, input Input) (storage.Expense, error) {
	parsed, err := parseInput(input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	converted, err := s.converter.Convert(ctx, parsed.originalValue, parsed.currency)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}

	expense := storage.NewExpense(
		id,
		parsed.description,
		parsed.currency,
		parsed.quantity,
		parsed.unitValue,
		parsed.originalValue,
		&converted,
		s.converter.Currency(),
	)

	affected, err := s.storage.UpdateExpense(ctx, expense)
	if err != nil {
		return nil, fmt.Errorf("updating expense %d: %w", id, err)
	}

	if affected == 0 {
		return nil, &storage.NotFoundError{}
	}

	s.logger.Info("expense updated", "id", id)

	return expense, nil
}

// Get loads one expense, typically to pre-fill the edit form. Nothing is
// deleted; the record stays untouched until Update commits the new fields.
func (s *Service) Get(ctx context.Context, id int64) (storage.Expense, error) {
	return s.storage.GetExpenseByID(ctx, id)
}

// Delete removes an expense. A missing id reports storage.NotFoundError and
// leaves the store unchanged.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected, err := s.storage.DeleteExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting expense %d: %w", id, err)
	}

	if affected == 0 {
		return &storage.NotFoundError{}
	}

	s.logger.Info("expense deleted", "id", id)

	return nil
}

// List returns all expenses in insertion order together with the running
// totals.
func (s *Service) List(ctx context.Context) ([]storage.Expense, Totals, error) {
	expenses, err := s.storage.GetExpenses(ctx)
	if err != nil {
		return nil, Totals{}, fmt.Errorf("loading expenses: %w", err)
	}

	totals := Totals{}
	for _, expense := range expenses {
		totals.Original += expense.OriginalValue()
		if converted := expense.ConvertedValue(); converted != nil {
			totals.Converted += *converted
		}
	}

	return expenses, totals, nil
}

func parseInput(input Input) (parsedInput, error) {
	invalid := []string{}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		invalid = append(invalid, "description")
	}

	quantity, err := strconv.ParseFloat(strings.TrimSpace(input.Quantity), 64)
	if err != nil || math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		invalid = append(invalid, "quantity")
	}

	unitValue, err := util.ParseMoney(input.UnitValue)
	if err != nil || unitValue <= 0 {
		invalid = append(invalid, "value")
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if !validCurrency(currency) {
		invalid = append(invalid, "currency")
	}

	if len(invalid) > 0 {
		return parsedInput{}, &ValidationError{Fields: invalid}
	}

	// The total must survive the round trip through int64 cents. A product
	// past the bound would wrap negative and slip through the checks above.
	originalValue := math.Round(quantity * float64(unitValue))
	if !util.CentsInRange(originalValue) {
		return parsedInput{}, &ValidationError{Fields: []string{"quantity", "value"}}
	}

	return parsedInput{
		description:   description,
		quantity:      quantity,
		unitValue:     unitValue,
		currency:      currency,
		originalValue: int64(originalValue),
	}, nil
}

// validCurrency accepts three ASCII letter codes, the ISO 4217 shape the
// conversion endpoint expects. Anything else would reshape the request path.
func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
