//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"fintrack-api/internal/config"
	"fintrack-api/internal/db"
	categoriesdomain "fintrack-api/internal/domain/categories"
	reportsdomain "fintrack-api/internal/domain/reports"
	transactionsdomain "fintrack-api/internal/domain/transactions"
	categoriesrepo "fintrack-api/internal/repository/categories"
	reportsrepo "fintrack-api/internal/repository/reports"
	transactionsrepo "fintrack-api/internal/repository/transactions"
	"fintrack-api/internal/transport/httpserver"
	"fintrack-api/internal/transport/httpserver/handler"
	"fintrack-api/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewFromEnv()
	authServer := newAuthServer(t)

	cfg := config.Config{
		HTTPPort:       "0",
		Env:            "test",
		AllowedOrigins: []string{"http://localhost:5173"},
		DB:             config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			ProviderURL: authServer.URL,
			APIKey:      "test-key",
			Timeout:     2 * time.Second,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	categoriesService := categoriesdomain.NewService(categoriesrepo.NewPostgres(dbConn))
	transactionsService := transactionsdomain.NewService(transactionsrepo.NewPostgres(dbConn))
	reportsService := reportsdomain.NewService(reportsrepo.NewPostgres(dbConn))
	handlers := handler.New(categoriesService, transactionsService, reportsService, log, true)

	router := httpserver.NewRouter(cfg, handlers, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": token})
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE attachments, transactions, categories RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type categoryResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Type        string  `json:"type"`
}

type transactionResponse struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	CategoryID      *string           `json:"categoryId"`
	Type            string            `json:"type"`
	Amount          string            `json:"amount"`
	TransactionDate string            `json:"transactionDate"`
	Description     *string           `json:"description"`
	Status          string            `json:"status"`
	Category        *categoryResponse `json:"category"`
}

type transactionListResponse struct {
	Data       []transactionResponse `json:"data"`
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
	} `json:"pagination"`
}

type cashFlowEntryResponse struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type summaryResponse struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpense     float64 `json:"totalExpense"`
	NetBalance       float64 `json:"netBalance"`
	TransactionCount int64   `json:"transactionCount"`
}

func decodeData(t *testing.T, body []byte, target interface{}) {
	t.Helper()
	var envelope dataEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, string(body))
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		t.Fatalf("decode data: %v (%s)", err, string(envelope.Data))
	}
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/categories", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", resp.StatusCode, string(body))
	}
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Error != "Unauthorized" {
		t.Fatalf("expected Unauthorized, got %q", errResp.Error)
	}
}

func TestE2ECategoryLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token := "user-e2e-1"

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/categories", token, map[string]interface{}{
		"name": "Groceries",
		"type": "expense",
		"icon": "shopping_cart",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var created categoryResponse
	decodeData(t, body, &created)
	if created.Name != "Groceries" || created.Type != "expense" {
		t.Fatalf("unexpected category: %+v", created)
	}

	resp, body = requestJSON(t, client, http.MethodPut, env.server.URL+"/api/categories/"+created.ID, token, map[string]interface{}{
		"icon": nil,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var updated categoryResponse
	decodeData(t, body, &updated)
	if updated.Icon != nil {
		t.Fatalf("expected icon cleared, got %v", *updated.Icon)
	}
	if updated.Name != "Groceries" {
		t.Fatalf("expected name untouched, got %q", updated.Name)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/categories/seed", token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/categories", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var listed []categoryResponse
	decodeData(t, body, &listed)
	if len(listed) != 10 {
		t.Fatalf("expected created category plus 9 seeded, got %d", len(listed))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/categories/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/categories/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2ETransactionLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token := "user-e2e-2"

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/categories", token, map[string]interface{}{
		"name": "Salary",
		"type": "income",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var category categoryResponse
	decodeData(t, body, &category)

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", token, map[string]interface{}{
		"categoryId":      category.ID,
		"type":            "income",
		"amount":          "2500.00",
		"transactionDate": "2024-03-01",
		"description":     "March salary",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var created transactionResponse
	decodeData(t, body, &created)
	if created.Status != "approved" {
		t.Fatalf("expected default approved, got %q", created.Status)
	}
	if created.Category == nil || created.Category.Name != "Salary" {
		t.Fatalf("expected joined category, got %+v", created.Category)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions/"+created.ID+"/attachments", token, map[string]interface{}{
		"fileName": "payslip.pdf",
		"fileUrl":  "https://files.example.com/payslip.pdf",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/categories/"+category.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected transaction to survive category delete, got %d: %s", resp.StatusCode, string(body))
	}
	var fetched transactionResponse
	decodeData(t, body, &fetched)
	if fetched.CategoryID != nil {
		t.Fatalf("expected category reference cleared, got %v", *fetched.CategoryID)
	}

	resp, body = requestJSON(t, client, http.MethodDelete, env.server.URL+"/api/transactions/"+created.ID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	var attachmentCount int64
	if err := env.db.WithContext(context.Background()).Raw("SELECT COUNT(*) FROM attachments").Scan(&attachmentCount).Error; err != nil {
		t.Fatalf("count attachments: %v", err)
	}
	if attachmentCount != 0 {
		t.Fatalf("expected attachments removed with transaction, got %d", attachmentCount)
	}
}

func TestE2EListAndReports(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token := "user-e2e-3"

	payloads := []map[string]interface{}{
		{"type": "income", "amount": "1000.00", "transactionDate": "2024-01-10"},
		{"type": "expense", "amount": "250.00", "transactionDate": "2024-01-15"},
		{"type": "income", "amount": "500.00", "transactionDate": "2024-02-05", "status": "pending"},
	}
	for _, payload := range payloads {
		resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", token, payload)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
		}
	}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/transactions?page=1&limit=2", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var listed transactionListResponse
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if listed.Pagination.Total != 3 || listed.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected pagination: %+v", listed.Pagination)
	}
	if len(listed.Data) != 2 {
		t.Fatalf("expected 2 items, got %d", len(listed.Data))
	}
	if listed.Data[0].TransactionDate != "2024-02-05" {
		t.Fatalf("expected newest first, got %q", listed.Data[0].TransactionDate)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/reports/summary", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var summary summaryResponse
	decodeData(t, body, &summary)
	if summary.TotalIncome != 1000 {
		t.Fatalf("expected pending income excluded from sum, got %f", summary.TotalIncome)
	}
	if summary.TransactionCount != 3 {
		t.Fatalf("expected count to include pending, got %d", summary.TransactionCount)
	}
	if summary.NetBalance != 750 {
		t.Fatalf("expected net balance 750, got %f", summary.NetBalance)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/reports/export", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	lines := strings.Split(string(body), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], `"pending"`) {
		t.Fatalf("expected export to include pending rows, got %q", lines[1])
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/reports/comparison", token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without dates, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2ECashFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	token := "user-e2e-4"

	payloads := []map[string]interface{}{
		{"type": "income", "amount": "1000.00", "transactionDate": "2024-01-05"},
		{"type": "expense", "amount": "250.00", "transactionDate": "2024-01-20"},
		{"type": "income", "amount": "999.00", "transactionDate": "2024-01-25", "status": "pending"},
		{"type": "expense", "amount": "80.00", "transactionDate": "2024-02-10", "status": "rejected"},
		{"type": "income", "amount": "400.00", "transactionDate": "2024-04-15"},
	}
	for _, payload := range payloads {
		resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/transactions", token, payload)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
		}
	}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/reports/cash-flow", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var entries []cashFlowEntryResponse
	decodeData(t, body, &entries)

	if len(entries) != 2 {
		t.Fatalf("expected 2 months, got %d: %+v", len(entries), entries)
	}
	if entries[0].Month != "2024-01" || entries[1].Month != "2024-04" {
		t.Fatalf("expected ascending months 2024-01, 2024-04, got %+v", entries)
	}
	if entries[0].Income != 1000 {
		t.Fatalf("expected pending income excluded from January, got %f", entries[0].Income)
	}
	if entries[0].Expense != 250 {
		t.Fatalf("expected January expense 250, got %f", entries[0].Expense)
	}
	if entries[1].Income != 400 || entries[1].Expense != 0 {
		t.Fatalf("unexpected April entry: %+v", entries[1])
	}
	for _, entry := range entries {
		if entry.Month == "2024-02" || entry.Month == "2024-03" {
			t.Fatalf("expected rejected-only and empty months absent, got %+v", entries)
		}
	}
}
