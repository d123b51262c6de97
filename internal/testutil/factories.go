package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
)

// TransactionBuilder provides a fluent interface for creating test
// ledger entries.
//
// Example usage:
//
//	// Simple creation with defaults (a buy of 10 @ 100)
//	tx := testutil.NewTransaction().Build(t, db)
//
//	// Customized entry
//	tx := testutil.NewTransaction().
//	    Sell().
//	    WithQuantity("4").
//	    WithPrice("120").
//	    WithDate("2024-03-01").
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	TradeDate   string
	Type        string
	ISIN        string
	Symbol      string
	Name        string
	Quantity    string
	Price       string
	Fees        string
	Notes       string
	AccountName string
	BatchID     string
	DedupKey    string
	ReversalOf  string
}

// NewTransaction creates a TransactionBuilder with sensible defaults.
func NewTransaction() *TransactionBuilder {
	id := MakeID()
	return &TransactionBuilder{
		ID:        id,
		TradeDate: "2024-01-02",
		Type:      model.TypeBuy,
		ISIN:      "US0378331005",
		Symbol:    "AAPL",
		Name:      "Apple Inc.",
		Quantity:  "10",
		Price:     "100",
		Fees:      "0",
		DedupKey:  id, // unique per row unless overridden
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithDate sets the trade date (YYYY-MM-DD).
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.TradeDate = date
	return b
}

// WithType sets the transaction type.
func (b *TransactionBuilder) WithType(transactionType string) *TransactionBuilder {
	b.Type = transactionType
	return b
}

// Buy marks the entry as a buy.
func (b *TransactionBuilder) Buy() *TransactionBuilder {
	b.Type = model.TypeBuy
	return b
}

// Sell marks the entry as a sell.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.Type = model.TypeSell
	return b
}

// WithISIN sets the ISIN.
func (b *TransactionBuilder) WithISIN(isin string) *TransactionBuilder {
	b.ISIN = isin
	return b
}

// WithSymbol sets the ticker symbol.
func (b *TransactionBuilder) WithSymbol(symbol string) *TransactionBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets the security name.
func (b *TransactionBuilder) WithName(name string) *TransactionBuilder {
	b.Name = name
	return b
}

// WithQuantity sets the quantity as a decimal string.
func (b *TransactionBuilder) WithQuantity(quantity string) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the unit price as a decimal string.
func (b *TransactionBuilder) WithPrice(price string) *TransactionBuilder {
	b.Price = price
	return b
}

// WithFees sets the fees as a decimal string.
func (b *TransactionBuilder) WithFees(fees string) *TransactionBuilder {
	b.Fees = fees
	return b
}

// WithAccount sets the account name.
func (b *TransactionBuilder) WithAccount(account string) *TransactionBuilder {
	b.AccountName = account
	return b
}

// WithBatch links the entry to an import batch.
func (b *TransactionBuilder) WithBatch(batchID string) *TransactionBuilder {
	b.BatchID = batchID
	return b
}

// WithDedupKey sets an explicit dedup key.
func (b *TransactionBuilder) WithDedupKey(key string) *TransactionBuilder {
	b.DedupKey = key
	return b
}

// Reversing marks the entry as a reversal of the given transaction ID.
func (b *TransactionBuilder) Reversing(originalID string) *TransactionBuilder {
	b.ReversalOf = originalID
	return b
}

// Build creates the ledger entry in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO ledger_transaction (
			id, trade_date, type, isin, symbol, name,
			quantity, price, fees, notes, account_name,
			import_batch_id, dedup_key, reversal_of, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC()
	_, err := db.Exec(query,
		b.ID, b.TradeDate, b.Type,
		emptyToNil(b.ISIN), emptyToNil(b.Symbol), emptyToNil(b.Name),
		b.Quantity, b.Price, b.Fees,
		emptyToNil(b.Notes), emptyToNil(b.AccountName),
		emptyToNil(b.BatchID), b.DedupKey, emptyToNil(b.ReversalOf),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	tradeDate, err := time.Parse("2006-01-02", b.TradeDate)
	if err != nil {
		t.Fatalf("Invalid trade date in builder: %v", err)
	}

	return model.Transaction{
		ID:            b.ID,
		TradeDate:     tradeDate.UTC(),
		Type:          b.Type,
		ISIN:          b.ISIN,
		Symbol:        b.Symbol,
		Name:          b.Name,
		Quantity:      mustDecimal(t, b.Quantity),
		Price:         mustDecimal(t, b.Price),
		Fees:          mustDecimal(t, b.Fees),
		Notes:         b.Notes,
		AccountName:   b.AccountName,
		ImportBatchID: b.BatchID,
		DedupKey:      b.DedupKey,
		ReversalOf:    b.ReversalOf,
		CreatedAt:     createdAt,
	}
}

// ImportBatchBuilder creates import batch rows for tests.
type ImportBatchBuilder struct {
	ID       string
	Inserted int
	Parsed   int
	Skipped  int
}

// NewImportBatch creates an ImportBatchBuilder with sensible defaults.
func NewImportBatch() *ImportBatchBuilder {
	return &ImportBatchBuilder{
		ID:       MakeID(),
		Inserted: 1,
		Parsed:   1,
	}
}

// WithID sets a custom ID.
func (b *ImportBatchBuilder) WithID(id string) *ImportBatchBuilder {
	b.ID = id
	return b
}

// WithCounts sets the batch counters.
func (b *ImportBatchBuilder) WithCounts(inserted, parsed, skipped int) *ImportBatchBuilder {
	b.Inserted = inserted
	b.Parsed = parsed
	b.Skipped = skipped
	return b
}

// Build creates the batch in the database and returns it.
func (b *ImportBatchBuilder) Build(t *testing.T, db *sql.DB) model.ImportBatch {
	t.Helper()

	createdAt := time.Now().UTC()
	query := `
		INSERT INTO import_batch (id, inserted, parsed, skipped, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, b.ID, b.Inserted, b.Parsed, b.Skipped, createdAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test import batch: %v", err)
	}

	return model.ImportBatch{
		ID:        b.ID,
		Inserted:  b.Inserted,
		Parsed:    b.Parsed,
		Skipped:   b.Skipped,
		CreatedAt: createdAt,
	}
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("Invalid decimal %q: %v", s, err)
	}
	return d
}
