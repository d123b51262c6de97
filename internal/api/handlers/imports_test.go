package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/model"
	"github.com/krishnasinghrathore/vidhione-wealth-backend/internal/testutil"
)

func TestImportHandler_ImportTransactions(t *testing.T) {
	setupHandler := func(t *testing.T) (*ImportHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		is := testutil.NewTestImportService(t, db)
		return NewImportHandler(is), db
	}

	t.Run("imports a CSV payload", func(t *testing.T) {
		handler, db := setupHandler(t)

		body := `{"csv":"date,type,qty,price,symbol\n2024-01-02,buy,10,100,AAPL\n"}`
		req := testutil.NewJSONRequest(http.MethodPost, "/api/transaction/import", body)
		w := httptest.NewRecorder()

		handler.ImportTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var result model.ImportResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.Parsed != 1 || result.Inserted != 1 || result.Skipped != 0 {
			t.Errorf("Expected 1/1/0, got %+v", result)
		}
		if result.BatchID == "" {
			t.Error("Expected a batch ID")
		}
		testutil.AssertRowCount(t, db, "ledger_transaction", 1)
	})

	t.Run("dry run returns counts without persisting", func(t *testing.T) {
		handler, db := setupHandler(t)

		body := `{"csv":"date,type,qty,price,symbol\n2024-01-02,buy,10,100,AAPL\n","dryRun":true,"preview":true}`
		req := testutil.NewJSONRequest(http.MethodPost, "/api/transaction/import", body)
		w := httptest.NewRecorder()

		handler.ImportTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var result model.ImportResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if result.BatchID != "" {
			t.Error("Expected no batch ID on dry run")
		}
		if len(result.Preview) != 1 {
			t.Errorf("Expected 1 preview row, got %d", len(result.Preview))
		}
		testutil.AssertRowCount(t, db, "ledger_transaction", 0)
	})

	t.Run("rejects a body without csv", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := testutil.NewJSONRequest(http.MethodPost, "/api/transaction/import", `{"csv":""}`)
		w := httptest.NewRecorder()

		handler.ImportTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects a CSV missing required columns", func(t *testing.T) {
		handler, _ := setupHandler(t)

		body := `{"csv":"foo,bar\n1,2\n"}`
		req := testutil.NewJSONRequest(http.MethodPost, "/api/transaction/import", body)
		w := httptest.NewRecorder()

		handler.ImportTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestImportHandler_Batches(t *testing.T) {
	setupHandler := func(t *testing.T) (*ImportHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		is := testutil.NewTestImportService(t, db)
		return NewImportHandler(is), db
	}

	t.Run("lists batches", func(t *testing.T) {
		handler, db := setupHandler(t)
		testutil.NewImportBatch().Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/import-batch", nil)
		w := httptest.NewRecorder()

		handler.ListBatches(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var batches []model.ImportBatch
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&batches)

		if len(batches) != 1 {
			t.Errorf("Expected 1 batch, got %d", len(batches))
		}
	})

	t.Run("returns 404 for unknown batch", func(t *testing.T) {
		handler, _ := setupHandler(t)

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/import-batch/"+id,
			map[string]string{"uuid": id},
		)
		w := httptest.NewRecorder()

		handler.GetBatch(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("rolls back a batch", func(t *testing.T) {
		handler, db := setupHandler(t)

		batch := testutil.NewImportBatch().Build(t, db)
		testutil.NewTransaction().WithBatch(batch.ID).Build(t, db)

		req := testutil.NewRequestWithURLParams(
			http.MethodPost,
			"/api/import-batch/"+batch.ID+"/rollback",
			map[string]string{"uuid": batch.ID},
		)
		w := httptest.NewRecorder()

		handler.RollbackBatch(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.ImportBatch
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.RolledBackAt == nil {
			t.Error("Expected rollback timestamp in response")
		}
		testutil.AssertRowCount(t, db, "ledger_transaction", 2)
	})

	t.Run("second rollback returns 409", func(t *testing.T) {
		handler, db := setupHandler(t)

		batch := testutil.NewImportBatch().Build(t, db)
		testutil.NewTransaction().WithBatch(batch.ID).Build(t, db)

		rollback := func() *httptest.ResponseRecorder {
			req := testutil.NewRequestWithURLParams(
				http.MethodPost,
				"/api/import-batch/"+batch.ID+"/rollback",
				map[string]string{"uuid": batch.ID},
			)
			w := httptest.NewRecorder()
			handler.RollbackBatch(w, req)
			return w
		}

		if w := rollback(); w.Code != http.StatusOK {
			t.Fatalf("Expected 200 on first rollback, got %d: %s", w.Code, w.Body.String())
		}
		if w := rollback(); w.Code != http.StatusConflict {
			t.Errorf("Expected 409 on second rollback, got %d: %s", w.Code, w.Body.String())
		}
	})
}
