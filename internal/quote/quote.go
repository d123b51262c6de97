// Package quote provides market price lookup for holdings valuation.
// The live implementation queries the Yahoo Finance chart API; holdings
// code depends only on the Client interface so tests can inject a mock.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Client defines the interface for fetching the latest market price of a symbol.
type Client interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
}

// FinanceClient fetches quotes from the Yahoo Finance chart API.
type FinanceClient struct {
	httpClient *http.Client
}

// NewFinanceClient creates a new Yahoo Finance quote client with default
// HTTP settings.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetQuote fetches the last five trading days for a symbol and returns
// the most recent close as the current price.
func (c *FinanceClient) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=5d", symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, err
	}

	var response chartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return Quote{}, err
	}
	if response.Chart.Error != nil {
		return Quote{}, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return Quote{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	result := response.Chart.Result[0]
	if len(result.Timestamp) == 0 ||
		len(result.Indicators.Quote) == 0 ||
		len(result.Indicators.Quote[0].Close) == 0 {
		return Quote{}, fmt.Errorf("no close prices returned for symbol %s", symbol)
	}

	// Last close in the window is the latest available price.
	closes := result.Indicators.Quote[0].Close
	last := len(closes) - 1

	return Quote{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
		Price:    decimal.NewFromFloat(closes[last]),
		AsOf:     time.Unix(result.Timestamp[last], 0).UTC(),
	}, nil
}
