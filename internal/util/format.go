package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const centsPerUnit = 100

// maxCents is the first float64 cent amount that no longer fits in int64;
// float64(math.MaxInt64) rounds up to 2^63, so the bound is exclusive.
const maxCents = float64(math.MaxInt64)

// CentsInRange reports whether a rounded float64 cent amount is
// representable as int64.
func CentsInRange(cents float64) bool {
	return cents < maxCents && cents > -maxCents
}

// FormatMoney renders an amount of cents with exactly two decimal places.
func FormatMoney(cents int64) string {
	var sign string
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d", sign, cents/centsPerUnit, cents%centsPerUnit)
}

// ParseMoney converts a decimal string such as "3.50" into cents. Values
// beyond two decimal places are rounded half away from zero.
func ParseMoney(s string) (int64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid amount %q: not a finite number", s)
	}

	cents := math.Round(value * centsPerUnit)
	if !CentsInRange(cents) {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}

	return int64(cents), nil
}

// FormatQuantity renders a quantity without trailing zeros ("2", "1.5").
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// FormatUnitValue renders a unit price in cents the way it was typed,
// without trailing zeros ("3.5" rather than "3.50").
func FormatUnitValue(cents int64) string {
	return strconv.FormatFloat(float64(cents)/centsPerUnit, 'f', -1, 64)
}
