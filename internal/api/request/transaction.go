package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest is the body for directly appending one ledger
// entry. Numeric fields accept JSON numbers or strings; decimals are
// preserved exactly as written.
type CreateTransactionRequest struct {
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	ISIN        string          `json:"isin,omitempty"`
	Symbol      string          `json:"symbol,omitempty"`
	Name        string          `json:"name,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fees        decimal.Decimal `json:"fees"`
	Notes       string          `json:"notes,omitempty"`
	AccountName string          `json:"accountName,omitempty"`
}
