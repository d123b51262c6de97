package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/pagination"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/testutil"
)

func TestTransactionHandler_ListTransactions(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("returns empty page when no transactions exist", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response pagination.Page[model.Transaction]
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Items == nil {
			t.Error("Expected non-nil items array, got nil")
		}
		if response.Meta.Total != 0 {
			t.Errorf("Expected total 0, got %d", response.Meta.Total)
		}
		if response.Meta.HasMore {
			t.Error("Expected hasMore to be false")
		}
	})

	t.Run("paginates the ledger", func(t *testing.T) {
		handler, db := setupHandler(t)

		for i := 0; i < 5; i++ {
			testutil.NewTransaction().Build(t, db)
		}

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/transaction",
			map[string]string{"limit": "2", "offset": "2"},
		)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response pagination.Page[model.Transaction]
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response.Items) != 2 {
			t.Errorf("Expected 2 items, got %d", len(response.Items))
		}
		if response.Meta.Total != 5 {
			t.Errorf("Expected total 5, got %d", response.Meta.Total)
		}
		if !response.Meta.HasMore {
			t.Error("Expected hasMore to be true")
		}
		if response.Meta.NextOffset == nil || *response.Meta.NextOffset != 4 {
			t.Errorf("Expected nextOffset 4, got %v", response.Meta.NextOffset)
		}
	})

	t.Run("rejects malformed pagination parameters", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/transaction",
			map[string]string{"limit": "abc"},
		)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 500 on database error", func(t *testing.T) {
		handler, db := setupHandler(t)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/transaction", nil)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("returns an existing transaction", func(t *testing.T) {
		handler, db := setupHandler(t)
		created := testutil.NewTransaction().Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/transaction/"+created.ID,
			map[string]string{"uuid": created.ID},
		)
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.ID != created.ID {
			t.Errorf("Expected ID %s, got %s", created.ID, response.ID)
		}
	})

	t.Run("returns 404 for unknown transaction", func(t *testing.T) {
		handler, _ := setupHandler(t)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/transaction/"+id,
			map[string]string{"uuid": id},
		)
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("creates a transaction", func(t *testing.T) {
		handler, db := setupHandler(t)

		body := `{"date":"2024-01-02","type":"buy","symbol":"AAPL","quantity":"10","price":"100","fees":"1"}`
		req := testutil.NewJSONRequest(http.MethodPost, "/api/transaction", body)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "ledger_transaction", 1)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := testutil.NewJSONRequest(http.MethodPost, "/api/transaction", "{not json")
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects missing required fields", func(t *testing.T) {
		handler, db := setupHandler(t)

		body := `{"type":"buy","quantity":"10","price":"100"}`
		req := testutil.NewJSONRequest(http.MethodPost, "/api/transaction", body)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "ledger_transaction", 0)
	})

	t.Run("returns 400 on oversell", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := `{"date":"2024-01-02","type":"sell","symbol":"AAPL","quantity":"10","price":"100"}`
		req := testutil.NewJSONRequest(http.MethodPost, "/api/transaction", body)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 409 on duplicate", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := `{"date":"2024-01-02","type":"buy","symbol":"AAPL","quantity":"10","price":"100"}`

		w := httptest.NewRecorder()
		handler.CreateTransaction(w, testutil.NewJSONRequest(http.MethodPost, "/api/transaction", body))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		handler.CreateTransaction(w, testutil.NewJSONRequest(http.MethodPost, "/api/transaction", body))
		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_ReverseTransaction(t *testing.T) {
	setupHandler := func(t *testing.T) (*TransactionHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ts := testutil.NewTestTransactionService(t, db)
		return NewTransactionHandler(ts), db
	}

	t.Run("reverses a transaction", func(t *testing.T) {
		handler, db := setupHandler(t)
		original := testutil.NewTransaction().Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodPost,
			"/api/transaction/"+original.ID+"/reverse",
			map[string]string{"uuid": original.ID},
		)
		w := httptest.NewRecorder()

		handler.ReverseTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.ReversalOf != original.ID {
			t.Errorf("Expected reversalOf %s, got %s", original.ID, response.ReversalOf)
		}
	})

	t.Run("returns 409 when already reversed", func(t *testing.T) {
		handler, db := setupHandler(t)
		original := testutil.NewTransaction().Build(t, db)
		testutil.NewTransaction().Reversing(original.ID).Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodPost,
			"/api/transaction/"+original.ID+"/reverse",
			map[string]string{"uuid": original.ID},
		)
		w := httptest.NewRecorder()

		handler.ReverseTransaction(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown transaction", func(t *testing.T) {
		handler, _ := setupHandler(t)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(
			http.MethodPost,
			"/api/transaction/"+id+"/reverse",
			map[string]string{"uuid": id},
		)
		w := httptest.NewRecorder()

		handler.ReverseTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
