package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"studentwallet/internal/events"
	"studentwallet/internal/logger"
	"studentwallet/internal/models"
	"studentwallet/internal/platform"
	"studentwallet/internal/services"
	"studentwallet/internal/testutil"
)

const testUserID = "zalo-integration"

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv("JWT_SECRET", "integration-secret")

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	users := services.NewUserService(db)
	router := NewRouter(Deps{
		DB:            db,
		Provider:      platform.NewDevProvider(testUserID, "Minh Anh", "minhanh@example.com"),
		Publisher:     events.NewDirectPublisher(RevokeHandler(users)),
		Location:      time.UTC,
		DevMode:       true,
		WebhookAPIKey: "hook-key",
	})
	return &testApp{DB: db, Router: router}
}

func (app *testApp) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func (app *testApp) login(t *testing.T) string {
	t.Helper()
	w := app.request(http.MethodPost, "/api/v1/auth/login", map[string]string{}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	token, _ := parseJSON(t, w)["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, w.Body.String())
	}
	return result
}

func createTransaction(t *testing.T, app *testApp, token string, body map[string]interface{}) string {
	t.Helper()
	w := app.request(http.MethodPost, "/api/v1/transactions", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create transaction: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	tx := parseJSON(t, w)["transaction"].(map[string]interface{})
	return tx["id"].(string)
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	w := app.request(http.MethodGet, "/api/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if parseJSON(t, w)["status"] != "ok" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)
	for _, path := range []string{"/api/v1/profile", "/api/v1/transactions", "/api/v1/budgets", "/api/v1/dashboard"} {
		w := app.request(http.MethodGet, path, nil, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, w.Code)
		}
	}
}

func TestLoginAndProfile(t *testing.T) {
	app := setupApp(t)
	token := app.login(t)

	w := app.request(http.MethodGet, "/api/v1/profile", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	user := parseJSON(t, w)["user"].(map[string]interface{})
	if user["id"] != testUserID {
		t.Errorf("expected id %s, got %v", testUserID, user["id"])
	}
	if user["is_dev"] != true {
		t.Error("expected dev login to flag the user")
	}

	// logging in twice keeps a single row
	app.login(t)
	var count int64
	app.DB.Model(&models.User{}).Where("id = ?", testUserID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 user row, got %d", count)
	}
}

func TestTransactionFlow(t *testing.T) {
	app := setupApp(t)
	token := app.login(t)

	today := time.Now().UTC().Format("2006-01-02")
	createTransaction(t, app, token, map[string]interface{}{
		"type": "income", "amount": 2000000, "category": "income", "description": "Lương gia sư", "date": today,
	})
	expenseID := createTransaction(t, app, token, map[string]interface{}{
		"type": "expense", "amount": 45000, "category": "food", "description": "Cơm trưa", "date": today,
	})

	w := app.request(http.MethodGet, "/api/v1/transactions?type=expense", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if total := parseJSON(t, w)["total_items"].(float64); total != 1 {
		t.Errorf("expected 1 expense, got %v", total)
	}

	w = app.request(http.MethodGet, "/api/v1/transactions/search?q=c%C6%A1m", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if found := parseJSON(t, w)["transactions"].([]interface{}); len(found) != 1 {
		t.Errorf("expected 1 search hit, got %d", len(found))
	}

	w = app.request(http.MethodPut, "/api/v1/transactions/"+expenseID, map[string]interface{}{"amount": 50000}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	tx := parseJSON(t, w)["transaction"].(map[string]interface{})
	if tx["amount"].(float64) != 50000 {
		t.Errorf("expected amount 50000, got %v", tx["amount"])
	}

	w = app.request(http.MethodDelete, "/api/v1/transactions/"+expenseID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	w = app.request(http.MethodGet, "/api/v1/transactions/"+expenseID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestBudgetStatusFollowsExpenses(t *testing.T) {
	app := setupApp(t)
	token := app.login(t)

	w := app.request(http.MethodPost, "/api/v1/budgets", map[string]interface{}{
		"category": "food", "limit": 100000, "period": "monthly",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create budget: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	budgetID := parseJSON(t, w)["budget"].(map[string]interface{})["id"].(string)

	createTransaction(t, app, token, map[string]interface{}{
		"type": "expense", "amount": 80000, "category": "food", "description": "Đi chợ",
	})

	w = app.request(http.MethodGet, "/api/v1/budgets/"+budgetID+"/status", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	status := parseJSON(t, w)
	if status["spent"].(float64) != 80000 {
		t.Errorf("expected spent 80000, got %v", status["spent"])
	}
	if status["remaining"].(float64) != 20000 {
		t.Errorf("expected remaining 20000, got %v", status["remaining"])
	}

	w = app.request(http.MethodGet, "/api/v1/budgets/category/food", nil, token)
	if w.Code != http.StatusOK {
		t.Errorf("by category: expected 200, got %d", w.Code)
	}
	w = app.request(http.MethodGet, "/api/v1/budgets/category/rockets", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown category: expected 400, got %d", w.Code)
	}
}

func TestGoalDeposit(t *testing.T) {
	app := setupApp(t)
	token := app.login(t)

	w := app.request(http.MethodPost, "/api/v1/goals", map[string]interface{}{
		"name": "Laptop mới", "target_amount": 1000000,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create goal: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	goalID := parseJSON(t, w)["goal"].(map[string]interface{})["id"].(string)

	w = app.request(http.MethodPost, "/api/v1/goals/"+goalID+"/deposit", map[string]interface{}{"amount": 250000}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("deposit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	goal := parseJSON(t, w)["goal"].(map[string]interface{})
	if goal["current_amount"].(float64) != 250000 {
		t.Errorf("expected 250000 saved, got %v", goal["current_amount"])
	}
}

func TestUsersAreIsolated(t *testing.T) {
	app := setupApp(t)
	token := app.login(t)

	other := testutil.CreateTestUser(t, app.DB)
	foreign := testutil.CreateTestTransaction(t, app.DB, other.ID, models.TransactionTypeExpense, models.CategoryFood, 1000)

	w := app.request(http.MethodGet, "/api/v1/transactions/"+foreign.ID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another user's transaction, got %d", w.Code)
	}
}

func TestWebhook(t *testing.T) {
	app := setupApp(t)

	post := func(key string, body interface{}) *httptest.ResponseRecorder {
		b, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/webhooks/zalo", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		w := httptest.NewRecorder()
		app.Router.ServeHTTP(w, req)
		return w
	}

	t.Run("rejects missing key", func(t *testing.T) {
		w := post("", map[string]interface{}{"type": "challenge", "data": map[string]string{"challenge": "x"}})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("answers challenge", func(t *testing.T) {
		w := post("hook-key", map[string]interface{}{"type": "challenge", "data": map[string]string{"challenge": "abc"}})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		data, _ := parseJSON(t, w)["data"].(map[string]interface{})
		if data["challenge"] != "abc" {
			t.Errorf("unexpected reply: %s", w.Body.String())
		}
	})

	t.Run("revoke purges user data", func(t *testing.T) {
		token := app.login(t)
		createTransaction(t, app, token, map[string]interface{}{
			"type": "expense", "amount": 12000, "category": "transport", "description": "Xe buýt",
		})

		w := post("hook-key", map[string]interface{}{"type": "user_revoke", "data": map[string]string{"user_id": testUserID}})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if code := parseJSON(t, w)["code"].(float64); code != 0 {
			t.Fatalf("expected success reply, got %s", w.Body.String())
		}

		var users, txs int64
		app.DB.Model(&models.User{}).Where("id = ?", testUserID).Count(&users)
		app.DB.Unscoped().Model(&models.Transaction{}).Where("user_id = ?", testUserID).Count(&txs)
		if users != 0 || txs != 0 {
			t.Errorf("expected purge, got %d users and %d transactions", users, txs)
		}
	})
}

func TestRevokeHandler_PropagatesError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.TeardownTestDB(t, db)

	err := RevokeHandler(services.NewUserService(db))(context.Background(), events.NewUserRevokedMessage("zalo-1"))
	if err == nil {
		t.Fatal("expected error from closed database")
	}
}

func TestExportTransactions(t *testing.T) {
	app := setupApp(t)
	token := app.login(t)
	createTransaction(t, app, token, map[string]interface{}{
		"type": "expense", "amount": 30000, "category": "food", "description": "Bánh mì",
	})

	now := time.Now().UTC()
	path := fmt.Sprintf("/api/v1/export/transactions?from=%s&to=%s",
		now.AddDate(0, 0, -1).Format("2006-01-02"), now.AddDate(0, 0, 1).Format("2006-01-02"))
	w := app.request(http.MethodGet, path, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.Len() == 0 {
		t.Error("expected a spreadsheet body")
	}
}
