package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/request"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
)

// ValidTransactionType contains the allowed transaction type values.
var ValidTransactionType = map[string]bool{
	model.TypeBuy:      true,
	model.TypeSell:     true,
	model.TypeDividend: true,
	model.TypeFee:      true,
	model.TypeSplit:    true,
	model.TypeOther:    true,
}

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - type: Must be one of: buy, sell, dividend, fee, split, other
//   - isin or symbol: At least one security identifier
//   - quantity: Must be positive for buy and sell rows
//
// Price and fees must be non-negative.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = fmt.Sprintf("invalid date: %s", req.Date)
	}

	transactionType := strings.ToLower(strings.TrimSpace(req.Type))
	if transactionType == "" {
		errors["type"] = "type is required"
	} else if !ValidTransactionType[transactionType] {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	if strings.TrimSpace(req.ISIN) == "" && strings.TrimSpace(req.Symbol) == "" {
		errors["isin"] = "security identifier (isin or symbol) is required"
	}

	if (transactionType == model.TypeBuy || transactionType == model.TypeSell) && !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}

	if req.Price.IsNegative() {
		errors["price"] = "price cannot be negative"
	}
	if req.Fees.IsNegative() {
		errors["fees"] = "fees cannot be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
