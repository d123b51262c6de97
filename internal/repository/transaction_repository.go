package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
)

// TransactionRepository provides data access methods for the ledger
// transaction table. The table is append-only: there is no update or
// delete; corrections enter as reversal rows.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id, seq, trade_date, type, isin, symbol, name,
	quantity, price, fees, notes, account_name,
	import_batch_id, dedup_key, reversal_of, created_at
`

// Insert appends one transaction. Passing a nil execer uses the
// repository's own database handle; callers that need atomicity across
// several inserts pass their open *sql.Tx instead.
func (r *TransactionRepository) Insert(ctx context.Context, exec Execer, t *model.Transaction) error {
	if exec == nil {
		exec = r.db
	}

	query := `
		INSERT INTO ledger_transaction (
			id, trade_date, type, isin, symbol, name,
			quantity, price, fees, notes, account_name,
			import_batch_id, dedup_key, reversal_of, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := exec.ExecContext(ctx, query,
		t.ID,
		t.TradeDate.Format("2006-01-02"),
		t.Type,
		nullable(t.ISIN),
		nullable(t.Symbol),
		nullable(t.Name),
		t.Quantity.String(),
		t.Price.String(),
		t.Fees.String(),
		nullable(t.Notes),
		nullable(t.AccountName),
		nullable(t.ImportBatchID),
		t.DedupKey,
		nullable(t.ReversalOf),
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// Append writes a slice of transactions in one database transaction.
// Either all rows are persisted or none are.
func (r *TransactionRepository) Append(ctx context.Context, txs []model.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback() //nolint:errcheck // no-op after commit

	for i := range txs {
		if err := r.Insert(ctx, dbTx, &txs[i]); err != nil {
			return err
		}
	}

	return dbTx.Commit()
}

// ReadAll retrieves the full ledger ordered by trade date ascending, with
// insertion order (seq) breaking ties. This is the canonical replay order
// for the lot matcher.
func (r *TransactionRepository) ReadAll(ctx context.Context) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transaction
		ORDER BY trade_date ASC, seq ASC
	`
	return r.queryTransactions(ctx, query)
}

// ReadSince retrieves ledger entries with a trade date on or after the
// given date, in replay order.
func (r *TransactionRepository) ReadSince(ctx context.Context, since time.Time) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transaction
		WHERE trade_date >= ?
		ORDER BY trade_date ASC, seq ASC
	`
	return r.queryTransactions(ctx, query, since.Format("2006-01-02"))
}

// GetByID retrieves a single transaction. Returns sql.ErrNoRows wrapped
// when no transaction matches.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transaction
		WHERE id = ?
	`

	rows, err := r.queryTransactions(ctx, query, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if len(rows) == 0 {
		return model.Transaction{}, sql.ErrNoRows
	}
	return rows[0], nil
}

// GetByBatch retrieves all transactions belonging to an import batch, in
// replay order.
func (r *TransactionRepository) GetByBatch(ctx context.Context, batchID string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transaction
		WHERE import_batch_id = ?
		ORDER BY trade_date ASC, seq ASC
	`
	return r.queryTransactions(ctx, query, batchID)
}

// HasReversal reports whether any ledger entry reverses the given
// transaction ID.
func (r *TransactionRepository) HasReversal(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger_transaction WHERE reversal_of = ?`, id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check reversal: %w", err)
	}
	return count > 0, nil
}

// ExistingDedupKeys returns which of the given dedup keys already exist
// in the ledger. Used by the import orchestrator's duplicate policy.
func (r *TransactionRepository) ExistingDedupKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(keys) == 0 {
		return existing, nil
	}

	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, key := range keys {
		placeholders[i] = "?"
		args[i] = key
	}

	query := `
		SELECT DISTINCT dedup_key
		FROM ledger_transaction
		WHERE dedup_key IN (` + strings.Join(placeholders, ",") + `)
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dedup keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan dedup key: %w", err)
		}
		existing[key] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dedup keys: %w", err)
	}

	return existing, nil
}

// DistinctSymbols returns all distinct non-empty symbols in the ledger.
// The quote refresh job uses this to know which prices to warm.
func (r *TransactionRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT symbol
		FROM ledger_transaction
		WHERE symbol IS NOT NULL AND symbol != ''
		ORDER BY symbol ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}

	return symbols, nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger_transaction table: %w", err)
	}

	return transactions, nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var t model.Transaction
	var tradeDateStr, quantityStr, priceStr, feesStr, createdAtStr string
	var isin, symbol, name, notes, account, batchID, reversalOf sql.NullString

	err := rows.Scan(
		&t.ID,
		&t.Seq,
		&tradeDateStr,
		&t.Type,
		&isin,
		&symbol,
		&name,
		&quantityStr,
		&priceStr,
		&feesStr,
		&notes,
		&account,
		&batchID,
		&t.DedupKey,
		&reversalOf,
		&createdAtStr,
	)
	if err != nil {
		return t, fmt.Errorf("failed to scan ledger_transaction row: %w", err)
	}

	t.ISIN = isin.String
	t.Symbol = symbol.String
	t.Name = name.String
	t.Notes = notes.String
	t.AccountName = account.String
	t.ImportBatchID = batchID.String
	t.ReversalOf = reversalOf.String

	t.TradeDate, err = ParseTime(tradeDateStr)
	if err != nil {
		return t, err
	}
	t.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return t, err
	}

	if t.Quantity, err = parseDecimal(quantityStr); err != nil {
		return t, err
	}
	if t.Price, err = parseDecimal(priceStr); err != nil {
		return t, err
	}
	if t.Fees, err = parseDecimal(feesStr); err != nil {
		return t, err
	}

	return t, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
