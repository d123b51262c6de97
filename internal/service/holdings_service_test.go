package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/testutil"
)

func TestHoldingsService_ComputeHoldings(t *testing.T) {
	ctx := context.Background()

	t.Run("projects open positions with live prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quotes := testutil.NewMockQuoteClient(map[string]string{"AAPL": "150"})
		svc := testutil.NewTestHoldingsService(t, db, quotes)

		// Buy 10 @ 100 with 1 fee, sell 4 @ 120 with 1 fee: 6 remain at
		// fee-adjusted unit cost 100.1.
		testutil.NewTransaction().
			WithDate("2024-01-02").WithQuantity("10").WithPrice("100").WithFees("1").
			Build(t, db)
		testutil.NewTransaction().
			Sell().
			WithDate("2024-02-01").WithQuantity("4").WithPrice("120").WithFees("1").
			Build(t, db)

		holdings, err := svc.ComputeHoldings(ctx, nil)
		if err != nil {
			t.Fatalf("ComputeHoldings failed: %v", err)
		}

		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		h := holdings[0]
		if !h.Quantity.Equal(decimal.NewFromInt(6)) {
			t.Errorf("Expected quantity 6, got %s", h.Quantity)
		}
		if !h.AverageCost.Equal(decimal.RequireFromString("100.1")) {
			t.Errorf("Expected average cost 100.1, got %s", h.AverageCost)
		}
		if !h.BuyValue.Equal(decimal.RequireFromString("600.6")) {
			t.Errorf("Expected buy value 600.6, got %s", h.BuyValue)
		}
		if !h.Priced {
			t.Error("Expected holding to be priced")
		}
		if !h.MarketPrice.Equal(decimal.NewFromInt(150)) {
			t.Errorf("Expected market price 150, got %s", h.MarketPrice)
		}
		if !h.CurrentValue.Equal(decimal.NewFromInt(900)) {
			t.Errorf("Expected current value 900, got %s", h.CurrentValue)
		}
		if !h.GainLoss.Equal(decimal.RequireFromString("299.4")) {
			t.Errorf("Expected gain 299.4, got %s", h.GainLoss)
		}
	})

	t.Run("excludes fully sold positions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quotes := testutil.NewMockQuoteClient(map[string]string{"AAPL": "150"})
		svc := testutil.NewTestHoldingsService(t, db, quotes)

		testutil.NewTransaction().WithQuantity("10").Build(t, db)
		testutil.NewTransaction().
			Sell().
			WithDate("2024-02-01").WithQuantity("10").WithPrice("120").
			Build(t, db)

		holdings, err := svc.ComputeHoldings(ctx, nil)
		if err != nil {
			t.Fatalf("ComputeHoldings failed: %v", err)
		}
		if len(holdings) != 0 {
			t.Errorf("Expected no holdings, got %d", len(holdings))
		}
	})

	t.Run("leaves holdings unpriced when lookup fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quotes := testutil.NewMockQuoteClient(map[string]string{}) // no prices
		svc := testutil.NewTestHoldingsService(t, db, quotes)

		testutil.NewTransaction().Build(t, db)

		holdings, err := svc.ComputeHoldings(ctx, nil)
		if err != nil {
			t.Fatalf("ComputeHoldings failed: %v", err)
		}

		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].Priced {
			t.Error("Expected holding to be unpriced")
		}
		if !holdings[0].MarketPrice.IsZero() {
			t.Errorf("Expected zero market price, got %s", holdings[0].MarketPrice)
		}
	})

	t.Run("asOf bounds the projection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quotes := testutil.NewMockQuoteClient(map[string]string{"AAPL": "150"})
		svc := testutil.NewTestHoldingsService(t, db, quotes)

		testutil.NewTransaction().WithDate("2024-01-02").WithQuantity("10").Build(t, db)
		testutil.NewTransaction().
			Sell().
			WithDate("2024-06-01").WithQuantity("10").WithPrice("120").
			Build(t, db)

		asOf := testutil.Date(t, "2024-03-01")
		holdings, err := svc.ComputeHoldings(ctx, &asOf)
		if err != nil {
			t.Fatalf("ComputeHoldings failed: %v", err)
		}

		if len(holdings) != 1 {
			t.Fatalf("Expected the June sell to be excluded, got %d holdings", len(holdings))
		}
		if !holdings[0].Quantity.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected quantity 10 as of March, got %s", holdings[0].Quantity)
		}
	})

	t.Run("reversed entries cancel out", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quotes := testutil.NewMockQuoteClient(map[string]string{"AAPL": "150"})
		svc := testutil.NewTestHoldingsService(t, db, quotes)

		original := testutil.NewTransaction().WithQuantity("10").Build(t, db)
		testutil.NewTransaction().
			WithDate("2024-02-01").WithQuantity("10").
			Reversing(original.ID).
			Build(t, db)

		holdings, err := svc.ComputeHoldings(ctx, nil)
		if err != nil {
			t.Fatalf("ComputeHoldings failed: %v", err)
		}
		if len(holdings) != 0 {
			t.Errorf("Expected reversed buy to vanish, got %d holdings", len(holdings))
		}
	})
}
