package validation

import (
	"strings"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/api/request"
)

// ValidateImportTransactions validates a CSV import request.
// The csv field must be non-empty; row-level problems are reported by
// the import pipeline itself, not here.
func ValidateImportTransactions(req request.ImportTransactionsRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.CSV) == "" {
		errors["csv"] = "csv is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
