package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrImportBatchNotFound indicates that an import batch with the given ID does not exist.
	ErrImportBatchNotFound = errors.New("import batch not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrOversell indicates that a sell exceeds the open quantity available
	// for its security at the trade date. The sell is rejected, never
	// partially applied.
	ErrOversell = errors.New("sell exceeds open quantity")

	// ErrDuplicateTransaction indicates that an identical transaction
	// (same date, type, security, quantity, price, fees and account)
	// already exists in the ledger.
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrAlreadyReversed indicates that a transaction already has a reversal entry.
	ErrAlreadyReversed = errors.New("transaction already reversed")

	// ErrBatchAlreadyRolledBack indicates that an import batch was already rolled back.
	ErrBatchAlreadyRolledBack = errors.New("import batch already rolled back")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")
)

// Import pipeline errors. Row-level failures are reported inside the
// ImportResult; these abort the whole call.
var (
	// ErrEmptyCSV indicates the import was called with empty or whitespace-only CSV text.
	ErrEmptyCSV = errors.New("csv text is empty")

	// ErrInvalidCSVHeaders indicates the header row is missing required columns.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")

	// ErrTooManyRows indicates the CSV exceeds the configured row cap.
	// Oversized payloads are rejected outright, never truncated.
	ErrTooManyRows = errors.New("csv exceeds maximum row count")
)

// Operation failure errors represent system-level failures.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToComputeHoldings      = errors.New("failed to compute holdings")
	ErrFailedToComputeRealizedPnl   = errors.New("failed to compute realized p&l")
	ErrFailedToImportTransactions   = errors.New("failed to import transactions")
	ErrFailedToRetrieveBatches      = errors.New("failed to retrieve import batches")
	ErrFailedToRollbackBatch        = errors.New("failed to roll back import batch")
)
