package model

import "time"

// ImportBatch groups all transactions created by one CSV import commit.
// It exists for traceability and rollback; dry runs never create one.
type ImportBatch struct {
	ID           string     `json:"id"`
	Inserted     int        `json:"inserted"`
	Parsed       int        `json:"parsed"`
	Skipped      int        `json:"skipped"`
	CreatedAt    time.Time  `json:"createdAt"`
	RolledBackAt *time.Time `json:"rolledBackAt,omitempty"`
}

// RowError reports one row's failure during an import.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// PreviewRow mirrors a parsed CSV row for operator visibility.
// Invalid rows are included so the caller can see what was rejected.
type PreviewRow struct {
	RowNumber   int    `json:"rowNumber"`
	Valid       bool   `json:"valid"`
	Error       string `json:"error,omitempty"`
	TDate       string `json:"tdate"`
	TType       string `json:"ttype"`
	Qty         string `json:"qty"`
	Price       string `json:"price"`
	Fees        string `json:"fees"`
	ISIN        string `json:"isin"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Notes       string `json:"notes"`
	AccountName string `json:"accountName"`
}

// ImportResult is the structured outcome of one importTransactions call.
// Counts always satisfy Parsed == Inserted + Skipped. BatchID is set only
// when a commit actually occurred.
type ImportResult struct {
	Inserted int          `json:"inserted"`
	Parsed   int          `json:"parsed"`
	Skipped  int          `json:"skipped"`
	Errors   []RowError   `json:"errors"`
	Preview  []PreviewRow `json:"preview,omitempty"`
	BatchID  string       `json:"batchId,omitempty"`
}
