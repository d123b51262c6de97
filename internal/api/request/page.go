package request

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/pagination"
)

// ParsePage reads limit and offset query parameters. Missing values fall
// back to the default limit and offset zero; negative values clamp to
// zero. Non-numeric values are an error.
func ParsePage(r *http.Request) (limit, offset int, err error) {
	limit = pagination.DefaultLimit
	offset = 0

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid offset %q", raw)
		}
	}

	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}

// ParseAsOf reads the optional asOf query parameter (YYYY-MM-DD).
// Returns nil when the parameter is absent.
func ParseAsOf(r *http.Request) (*time.Time, error) {
	raw := r.URL.Query().Get("asOf")
	if raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid asOf date %q, expected YYYY-MM-DD", raw)
	}
	parsed = parsed.UTC()
	return &parsed, nil
}
