// Package csvimport converts raw CSV text into candidate transaction rows.
// Parsing never fails on a single bad row: structural problems are recorded
// per row and the row is carried through for operator visibility.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/apperrors"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
)

// Options controls locale-sensitive parsing behavior. The decimal
// separator is explicit configuration, never guessed at runtime.
type Options struct {
	DecimalSeparator rune
}

// Row is one parsed CSV data row. RowNumber is 1-based and counts data
// rows (the header is row 0). Invalid rows keep their raw field values
// so previews can show exactly what was rejected.
type Row struct {
	RowNumber int
	Valid     bool
	Error     string

	Date     time.Time
	Type     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Fees     decimal.Decimal
	ISIN     string
	Symbol   string
	Name     string
	Notes    string
	Account  string

	RawDate  string
	RawType  string
	RawQty   string
	RawPrice string
	RawFees  string
}

// validTypes are the transaction types accepted on import.
var validTypes = map[string]bool{
	model.TypeBuy:      true,
	model.TypeSell:     true,
	model.TypeDividend: true,
	model.TypeFee:      true,
	model.TypeSplit:    true,
	model.TypeOther:    true,
}

// columnAliases maps canonical column names to the header spellings we
// accept, all matched case-insensitively. Unknown columns are ignored.
var columnAliases = map[string][]string{
	"date":    {"date", "tdate", "trade_date", "tradedate"},
	"type":    {"type", "ttype", "transaction_type"},
	"qty":     {"qty", "quantity", "shares"},
	"price":   {"price", "cost_per_share", "unit_price"},
	"fees":    {"fees", "fee", "commission"},
	"isin":    {"isin"},
	"symbol":  {"symbol", "ticker"},
	"name":    {"name", "security", "security_name", "product"},
	"notes":   {"notes", "note", "description"},
	"account": {"account", "accountname", "account_name"},
}

// requiredColumns must be present in the header row. A security
// identifier column (isin or symbol) is checked separately.
var requiredColumns = []string{"date", "type", "qty", "price"}

// Parse reads csvText and returns one Row per data row. It returns an
// error only for structural problems that invalidate the whole payload:
// unreadable CSV or a header row missing required columns. Individual
// bad rows come back with Valid=false and a message.
func Parse(csvText string, opts Options) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSVHeaders, err)
	}
	if len(records) == 0 {
		return nil, apperrors.ErrEmptyCSV
	}

	columns, err := mapHeader(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		rows = append(rows, parseRow(i+1, record, columns, opts))
	}

	return rows, nil
}

// mapHeader resolves the header record into canonical column positions.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for canonical, aliases := range columnAliases {
			for _, alias := range aliases {
				if normalized == alias {
					columns[canonical] = i
				}
			}
		}
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	_, hasISIN := columns["isin"]
	_, hasSymbol := columns["symbol"]
	if !hasISIN && !hasSymbol {
		missing = append(missing, "isin or symbol")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", apperrors.ErrInvalidCSVHeaders, strings.Join(missing, ", "))
	}

	return columns, nil
}

func parseRow(rowNumber int, record []string, columns map[string]int, opts Options) Row {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := Row{
		RowNumber: rowNumber,
		ISIN:      strings.ToUpper(field("isin")),
		Symbol:    strings.ToUpper(field("symbol")),
		Name:      field("name"),
		Notes:     field("notes"),
		Account:   field("account"),
		RawDate:   field("date"),
		RawType:   field("type"),
		RawQty:    field("qty"),
		RawPrice:  field("price"),
		RawFees:   field("fees"),
	}

	fail := func(msg string) Row {
		row.Valid = false
		row.Error = msg
		return row
	}

	if row.RawDate == "" {
		return fail("date is required")
	}
	date, err := parseDate(row.RawDate)
	if err != nil {
		return fail(fmt.Sprintf("invalid date %q", row.RawDate))
	}
	row.Date = date

	row.Type = strings.ToLower(row.RawType)
	if row.Type == "" {
		return fail("type is required")
	}
	if !validTypes[row.Type] {
		return fail(fmt.Sprintf("invalid type %q", row.RawType))
	}

	if row.ISIN == "" && row.Symbol == "" {
		return fail("security identifier (isin or symbol) is required")
	}

	row.Quantity, err = parseDecimal(row.RawQty, opts.DecimalSeparator)
	if err != nil {
		return fail(fmt.Sprintf("invalid quantity %q", row.RawQty))
	}
	row.Price, err = parseDecimal(row.RawPrice, opts.DecimalSeparator)
	if err != nil {
		return fail(fmt.Sprintf("invalid price %q", row.RawPrice))
	}
	row.Fees, err = parseDecimal(row.RawFees, opts.DecimalSeparator)
	if err != nil {
		return fail(fmt.Sprintf("invalid fees %q", row.RawFees))
	}

	if (row.Type == model.TypeBuy || row.Type == model.TypeSell) && !row.Quantity.IsPositive() {
		return fail("quantity must be positive for buy/sell rows")
	}
	if row.Price.IsNegative() {
		return fail("price cannot be negative")
	}
	if row.Fees.IsNegative() {
		return fail("fees cannot be negative")
	}

	row.Valid = true
	return row
}

// parseDate accepts YYYY-MM-DD or RFC3339, normalized to UTC.
func parseDate(str string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", str)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, err
		}
	}
	return parsed.UTC(), nil
}

// Thousands separators are only stripped when they form proper groups of
// three, so an ambiguous "1,2" under a dot separator is rejected instead
// of silently parsing as 12.
var (
	dotGrouping   = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
	commaGrouping = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+(,\d+)?$`)
)

// parseDecimal normalizes the configured decimal separator and strips
// the corresponding thousands separator before parsing. Empty input
// yields zero (missing optional numeric columns default to zero).
func parseDecimal(raw string, separator rune) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if cleaned == "" {
		return decimal.Zero, nil
	}

	if separator == ',' {
		if strings.Contains(cleaned, ".") && !commaGrouping.MatchString(cleaned) {
			return decimal.Zero, fmt.Errorf("malformed digit grouping in %q", raw)
		}
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		if strings.Contains(cleaned, ",") && !dotGrouping.MatchString(cleaned) {
			return decimal.Zero, fmt.Errorf("malformed digit grouping in %q", raw)
		}
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	return decimal.NewFromString(cleaned)
}

// ToPreview converts a row into the preview shape returned by imports.
// Valid rows show canonical values; invalid rows keep the raw text so
// the operator sees exactly what was rejected.
func (r Row) ToPreview() model.PreviewRow {
	preview := model.PreviewRow{
		RowNumber:   r.RowNumber,
		Valid:       r.Valid,
		Error:       r.Error,
		TDate:       r.RawDate,
		TType:       r.RawType,
		Qty:         r.RawQty,
		Price:       r.RawPrice,
		Fees:        r.RawFees,
		ISIN:        r.ISIN,
		Symbol:      r.Symbol,
		Name:        r.Name,
		Notes:       r.Notes,
		AccountName: r.Account,
	}
	if r.Valid {
		preview.TDate = r.Date.Format("2006-01-02")
		preview.TType = r.Type
		preview.Qty = r.Quantity.String()
		preview.Price = r.Price.String()
		preview.Fees = r.Fees.String()
	}
	return preview
}
