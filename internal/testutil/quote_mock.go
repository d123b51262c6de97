package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/quote"
)

// MockQuoteClient is a configurable quote.Client for tests. Prices are
// keyed by symbol; unknown symbols return an error, which lets tests
// exercise the unpriced-holding path.
type MockQuoteClient struct {
	mu     sync.Mutex
	Prices map[string]string
	Calls  []string
	Err    error
}

// NewMockQuoteClient creates a mock with the given symbol->price map.
func NewMockQuoteClient(prices map[string]string) *MockQuoteClient {
	return &MockQuoteClient{Prices: prices}
}

// GetQuote returns the configured price for symbol.
func (m *MockQuoteClient) GetQuote(_ context.Context, symbol string) (quote.Quote, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, symbol)
	m.mu.Unlock()

	if m.Err != nil {
		return quote.Quote{}, m.Err
	}

	price, ok := m.Prices[symbol]
	if !ok {
		return quote.Quote{}, fmt.Errorf("no price configured for symbol %s", symbol)
	}

	return quote.Quote{
		Symbol:   symbol,
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
		AsOf:     time.Now().UTC(),
	}, nil
}

// CallCount returns how many lookups the mock served.
func (m *MockQuoteClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
