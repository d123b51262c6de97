package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Execer is satisfied by both *sql.DB and *sql.Tx, letting repository
// writes participate in a caller-managed transaction (atomic import
// commits) or run standalone.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// parseDecimal converts a stored decimal string back into a decimal.
// Monetary and quantity columns are TEXT on purpose; they must round-trip
// exactly.
func parseDecimal(str string) (decimal.Decimal, error) {
	if str == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse decimal %q: %w", str, err)
	}
	return d, nil
}
