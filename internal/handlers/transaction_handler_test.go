package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/models"
	"studentwallet/internal/pagination"
	"studentwallet/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createFn               func(userID string, in services.TransactionInput) (*models.Transaction, error)
	listFn                 func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	listAllFn              func(userID string) ([]models.Transaction, error)
	listByDateRangeFn      func(userID string, start, end time.Time) ([]models.Transaction, error)
	getByIDFn              func(userID, id string) (*models.Transaction, error)
	updateFn               func(userID, id string, in services.TransactionUpdate) (*models.Transaction, error)
	deleteFn               func(userID, id string) error
	searchFn               func(userID, query string) ([]models.Transaction, error)
	listOpeningBalancesFn  func(userID string) ([]models.Transaction, error)
	createOpeningBalanceFn func(userID string, amount int64, description string) (*models.Transaction, error)
}

func (m *mockTransactionService) Create(userID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) List(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.listFn != nil {
		return m.listFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) ListAll(userID string) ([]models.Transaction, error) {
	if m.listAllFn != nil {
		return m.listAllFn(userID)
	}
	return nil, nil
}

func (m *mockTransactionService) ListByDateRange(userID string, start, end time.Time) ([]models.Transaction, error) {
	if m.listByDateRangeFn != nil {
		return m.listByDateRangeFn(userID, start, end)
	}
	return nil, nil
}

func (m *mockTransactionService) GetByID(userID, id string) (*models.Transaction, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(userID, id)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) Update(userID, id string, in services.TransactionUpdate) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(userID, id, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) Delete(userID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, id)
	}
	return nil
}

func (m *mockTransactionService) Search(userID, query string) ([]models.Transaction, error) {
	if m.searchFn != nil {
		return m.searchFn(userID, query)
	}
	return nil, nil
}

func (m *mockTransactionService) ListOpeningBalances(userID string) ([]models.Transaction, error) {
	if m.listOpeningBalancesFn != nil {
		return m.listOpeningBalancesFn(userID)
	}
	return nil, nil
}

func (m *mockTransactionService) CreateOpeningBalance(userID string, amount int64, description string) (*models.Transaction, error) {
	if m.createOpeningBalanceFn != nil {
		return m.createOpeningBalanceFn(userID, amount, description)
	}
	return &models.Transaction{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

var testLoc = time.FixedZone("ICT", 7*60*60)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/search", handler.SearchTransactions)
	auth.GET("/transactions/range", handler.GetTransactionsByRange)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	auth.GET("/opening-balances", handler.GetOpeningBalances)
	auth.POST("/opening-balances", handler.CreateOpeningBalance)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createFn: func(userID string, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{
					Base:     models.Base{ID: "tx-1"},
					UserID:   userID,
					Type:     in.Type,
					Amount:   in.Amount,
					Category: in.Category,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit, testLoc))

		rec := doRequest(r, "POST", "/transactions",
			`{"type":"expense","amount":35000,"category":"food","description":"Cơm trưa","date":"2026-03-10"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["amount"].(float64) != 35000 {
			t.Errorf("expected amount 35000, got %v", tx["amount"])
		}
		want := time.Date(2026, 3, 10, 0, 0, 0, 0, testLoc)
		if !got.Date.Equal(want) {
			t.Errorf("expected date %v, got %v", want, got.Date)
		}
		if len(audit.entries) != 1 || audit.entries[0].resourceID != "tx-1" {
			t.Errorf("expected one audit entry for tx-1, got %+v", audit.entries)
		}
	})

	t.Run("accepts zero amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, testLoc))

		rec := doRequest(r, "POST", "/transactions", `{"type":"income","amount":0,"category":"income"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing amount", `{"type":"income","category":"income"}`},
		{"negative amount", `{"type":"income","amount":-1,"category":"income"}`},
		{"invalid type", `{"type":"transfer","amount":100,"category":"food"}`},
		{"unknown category", `{"type":"expense","amount":100,"category":"rent"}`},
		{"bad date", `{"type":"expense","amount":100,"category":"food","date":"10/03/2026"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, testLoc))

			rec := doRequest(r, "POST", "/transactions", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("passes filters and pagination", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			listFn: func(_ string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotPage = page
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{{Amount: 1}}, page.Page, page.PageSize, 41)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, testLoc))

		rec := doRequest(r, "GET", "/transactions?page=2&page_size=20&type=expense&category=food&from_date=2026-03-01", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.PageSize != 20 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense filter")
		}
		if gotFilter.Category == nil || *gotFilter.Category != models.CategoryFood {
			t.Errorf("expected food filter")
		}
		if gotFilter.FromDate == nil || gotFilter.ToDate != nil {
			t.Errorf("unexpected date filter %+v", gotFilter)
		}
		result := parseJSON(t, rec)
		if result["total_pages"].(float64) != 3 || result["has_more"] != true {
			t.Errorf("unexpected page envelope %v", result)
		}
	})

	for _, q := range []string{"type=transfer", "category=rent", "from_date=yesterday", "page_size=500"} {
		t.Run("returns 400 on "+q, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, testLoc))

			rec := doRequest(r, "GET", "/transactions?"+q, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestTransactionHandler_Search(t *testing.T) {
	var gotQuery string
	txSvc := &mockTransactionService{
		searchFn: func(_, query string) ([]models.Transaction, error) {
			gotQuery = query
			return nil, nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, testLoc))

	rec := doRequest(r, "GET", "/transactions/search?q=c%C6%A1m", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotQuery != "cơm" {
		t.Errorf("expected query cơm, got %q", gotQuery)
	}
	txs, ok := parseJSON(t, rec)["transactions"].([]interface{})
	if !ok || len(txs) != 0 {
		t.Errorf("expected empty transactions array, got %v", rec.Body.String())
	}
}

func TestTransactionHandler_GetTransactionsByRange(t *testing.T) {
	t.Run("plain to date covers the whole day", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		txSvc := &mockTransactionService{
			listByDateRangeFn: func(_ string, start, end time.Time) ([]models.Transaction, error) {
				gotStart, gotEnd = start, end
				return []models.Transaction{{Amount: 5}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, testLoc))

		rec := doRequest(r, "GET", "/transactions/range?from=2026-03-01&to=2026-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotStart.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, testLoc)) {
			t.Errorf("unexpected start %v", gotStart)
		}
		if !gotEnd.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, testLoc).Add(-time.Nanosecond)) {
			t.Errorf("unexpected end %v", gotEnd)
		}
	})

	for _, q := range []string{"", "from=2026-03-01", "from=2026-03-10&to=2026-03-01", "from=x&to=2026-03-01"} {
		t.Run("returns 400 on "+q, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, testLoc))

			rec := doRequest(r, "GET", "/transactions/range?"+q, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getByIDFn: func(userID, id string) (*models.Transaction, error) {
				return &models.Transaction{Base: models.Base{ID: id}, UserID: userID}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, testLoc))

		rec := doRequest(r, "GET", "/transactions/tx-9", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["id"] != "tx-9" || tx["user_id"] != testUserID {
			t.Errorf("unexpected transaction %v", tx)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getByIDFn: func(string, string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, testLoc))

		rec := doRequest(r, "GET", "/transactions/nope", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		var got services.TransactionUpdate
		txSvc := &mockTransactionService{
			updateFn: func(_, id string, in services.TransactionUpdate) (*models.Transaction, error) {
				got = in
				return &models.Transaction{Base: models.Base{ID: id}}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit, testLoc))

		rec := doRequest(r, "PUT", "/transactions/tx-1", `{"amount":42000,"note":"chia đôi"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || *got.Amount != 42000 {
			t.Errorf("expected amount 42000")
		}
		if got.Note == nil || *got.Note != "chia đôi" {
			t.Errorf("expected note to be set")
		}
		if got.Type != nil || got.Category != nil || got.Description != nil || got.Date != nil {
			t.Errorf("unexpected fields set: %+v", got)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditActionUpdate {
			t.Errorf("expected update audit entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 on invalid category", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, testLoc))

		rec := doRequest(r, "PUT", "/transactions/tx-1", `{"category":"rent"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		var deleted string
		txSvc := &mockTransactionService{
			deleteFn: func(_, id string) error {
				deleted = id
				return nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, testLoc))

		rec := doRequest(r, "DELETE", "/transactions/tx-3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != "tx-3" {
			t.Errorf("expected tx-3 deleted, got %q", deleted)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteFn: func(string, string) error { return apperrors.ErrTransactionNotFound },
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit, testLoc))

		rec := doRequest(r, "DELETE", "/transactions/tx-3", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(audit.entries) != 0 {
			t.Errorf("failed delete must not be audited")
		}
	})
}

func TestTransactionHandler_OpeningBalances(t *testing.T) {
	t.Run("creates opening balance", func(t *testing.T) {
		var gotAmount int64
		var gotDesc string
		txSvc := &mockTransactionService{
			createOpeningBalanceFn: func(_ string, amount int64, description string) (*models.Transaction, error) {
				gotAmount, gotDesc = amount, description
				note := models.OpeningBalanceNote
				return &models.Transaction{Type: models.TransactionTypeIncome, Amount: amount, Note: &note}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, testLoc))

		rec := doRequest(r, "POST", "/opening-balances", `{"amount":2000000,"description":"Tiền tháng 3"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotAmount != 2000000 || gotDesc != "Tiền tháng 3" {
			t.Errorf("unexpected args %d %q", gotAmount, gotDesc)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["note"] != models.OpeningBalanceNote {
			t.Errorf("expected opening balance note, got %v", tx["note"])
		}
	})

	for _, body := range []string{`{"amount":0,"description":"x"}`, `{"amount":100,"description":"   "}`, `{"amount":100}`} {
		t.Run("returns 400 on "+body, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}, testLoc))

			rec := doRequest(r, "POST", "/opening-balances", body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}

	t.Run("lists opening balances", func(t *testing.T) {
		txSvc := &mockTransactionService{
			listOpeningBalancesFn: func(string) ([]models.Transaction, error) {
				return []models.Transaction{{Amount: 1}, {Amount: 2}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}, testLoc))

		rec := doRequest(r, "GET", "/opening-balances", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if txs := parseJSON(t, rec)["transactions"].([]interface{}); len(txs) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(txs))
		}
	})
}
