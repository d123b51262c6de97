package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/config"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/quote"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/repository"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/service"
)

// TestImportConfig returns the default import policy used by tests.
func TestImportConfig() config.ImportConfig {
	return config.ImportConfig{
		MaxRows:          10000,
		PreviewCap:       500,
		AllowDuplicates:  false,
		DecimalSeparator: '.',
	}
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewTransactionService(
		transactionRepo,
		false,
	)
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	return NewTestImportServiceWithConfig(t, db, TestImportConfig())
}

func NewTestImportServiceWithConfig(t *testing.T, db *sql.DB, cfg config.ImportConfig) *service.ImportService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	batchRepo := repository.NewImportBatchRepository(db)

	return service.NewImportService(
		db,
		transactionRepo,
		batchRepo,
		cfg,
	)
}

// NewTestHoldingsService creates a HoldingsService backed by a mock
// quote client so tests never make real API calls.
func NewTestHoldingsService(t *testing.T, db *sql.DB, quotes quote.Client) *service.HoldingsService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewHoldingsService(
		transactionRepo,
		quotes,
	)
}

func NewTestRealizedPnlService(t *testing.T, db *sql.DB) *service.RealizedPnlService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)

	return service.NewRealizedPnlService(
		transactionRepo,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a realistic ISIN code for testing.
//
// Example usage:
//
//	isin := testutil.MakeISIN("US")
//	// Returns: "US1A2B3C4D5E"
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "US"
	}
	return prefix + randomAlphanumeric(10)
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// Date parses a YYYY-MM-DD string into a UTC time, failing the test on
// bad input.
func Date(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("Invalid test date %q: %v", value, err)
	}
	return parsed.UTC()
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
