//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shoptrack/internal/codegen"
	"shoptrack/internal/config"
	"shoptrack/internal/infra"
	"shoptrack/internal/model"
	"shoptrack/internal/repository"
	"shoptrack/internal/router"
	"shoptrack/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// decEq compares money fields independent of their rendered scale
// ("300" and "300.00" are the same amount).
func decEq(t *testing.T, expected, actual string) {
	t.Helper()
	e := decimal.RequireFromString(expected)
	a := decimal.RequireFromString(actual)
	assert.True(t, e.Equal(a), "expected %s, got %s", expected, actual)
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("shoptrack_test"),
		tcPostgres.WithUsername("shoptrack"),
		tcPostgres.WithPassword("shoptrack"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		ReceiptStoragePath: t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Env)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed the admin account.
	employees := repository.NewEmployeeRepository(db)
	hash, err := bcrypt.GenerateFromPassword([]byte("shoptrack-e2e"), bcrypt.MinCost)
	require.NoError(t, err)
	code, err := codegen.Generate("EMP", 4, func(c string) (bool, error) {
		return employees.CodeExists(ctx, c)
	})
	require.NoError(t, err)
	require.NoError(t, employees.Create(ctx, &model.Employee{
		Code:         code,
		Username:     "admin",
		FullName:     "Admin E2E",
		PasswordHash: string(hash),
		Role:         "admin",
		Active:       true,
	}))

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "shoptrack-e2e"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

// createProduct seeds category + supplier + product and returns the product id.
func createProduct(t *testing.T, env *testEnv, name string, buy, sell float64, qty int) string {
	t.Helper()

	catResp := do(t, env.server, "POST", "/v1/categories",
		jsonBody(t, map[string]any{"name": name + " category"}), env.token)
	require.Equal(t, http.StatusCreated, catResp.StatusCode)
	var cat struct {
		ID string `json:"id"`
	}
	decodeJSON(t, catResp, &cat)

	supResp := do(t, env.server, "POST", "/v1/suppliers",
		jsonBody(t, map[string]any{"name": name + " supplier"}), env.token)
	require.Equal(t, http.StatusCreated, supResp.StatusCode)
	var sup struct {
		ID string `json:"id"`
	}
	decodeJSON(t, supResp, &sup)

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":        name,
			"category_id": cat.ID,
			"supplier_id": sup.ID,
			"buy_price":   buy,
			"sell_price":  sell,
			"quantity":    qty,
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)
	productID := createProduct(t, env, "Cola 500ml", 20.00, 30.00, 50)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"customer_name": "Walk-in",
			"items": []map[string]any{
				{"product_id": productID, "quantity": 10},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID            string `json:"id"`
		InvoiceNumber string `json:"invoice_number"`
		TotalAmount   string `json:"total_amount"`
		NetAmount     string `json:"net_amount"`
		TotalProfit   string `json:"total_profit"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Regexp(t, `^INV\d{14}`, sale.InvoiceNumber)
	decEq(t, "300", sale.TotalAmount)
	decEq(t, "285", sale.NetAmount)
	decEq(t, "85", sale.TotalProfit)

	// Stock decremented.
	prodResp := do(t, env.server, "GET", "/v1/products/"+productID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Quantity int    `json:"quantity"`
		Status   string `json:"status"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 40, prod.Quantity)
	assert.Equal(t, "active", prod.Status)

	listResp := do(t, env.server, "GET", "/v1/sales", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, 1, list.Total)
}

func TestE2E_InsufficientStockRejectsWholeSale(t *testing.T) {
	env := setupTestEnv(t)
	okID := createProduct(t, env, "Chips", 2.00, 3.50, 10)
	shortID := createProduct(t, env, "Juice", 1.00, 2.00, 1)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"customer_name": "Walk-in",
			"items": []map[string]any{
				{"product_id": okID, "quantity": 2},
				{"product_id": shortID, "quantity": 5},
			},
		}), env.token)
	require.Equal(t, http.StatusConflict, saleResp.StatusCode)
	var body struct {
		Available int `json:"available"`
		Requested int `json:"requested"`
	}
	decodeJSON(t, saleResp, &body)
	assert.Equal(t, 1, body.Available)
	assert.Equal(t, 5, body.Requested)

	// The satisfiable line must not have been applied.
	prodResp := do(t, env.server, "GET", "/v1/products/"+okID, nil, env.token)
	var prod struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 10, prod.Quantity)
}

func TestE2E_DepletionDeactivatesProduct(t *testing.T) {
	env := setupTestEnv(t)
	productID := createProduct(t, env, "Last units", 5.00, 8.00, 3)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"customer_name": "Walk-in",
			"items": []map[string]any{
				{"product_id": productID, "quantity": 3},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)

	prodResp := do(t, env.server, "GET", "/v1/products/"+productID, nil, env.token)
	var prod struct {
		Quantity int    `json:"quantity"`
		Status   string `json:"status"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 0, prod.Quantity)
	assert.Equal(t, "inactive", prod.Status)
}

func TestE2E_DashboardAndReport(t *testing.T) {
	env := setupTestEnv(t)
	productID := createProduct(t, env, "Cola", 20.00, 30.00, 50)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"customer_name": "Walk-in",
			"items":         []map[string]any{{"product_id": productID, "quantity": 10}},
		}), env.token)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)

	dashResp := do(t, env.server, "GET", "/v1/dashboard", nil, env.token)
	require.Equal(t, http.StatusOK, dashResp.StatusCode)
	var dash struct {
		Revenue struct {
			Today string `json:"today"`
		} `json:"revenue"`
		SalesStats struct {
			TodaySales int `json:"today_sales"`
		} `json:"sales_stats"`
	}
	decodeJSON(t, dashResp, &dash)
	decEq(t, "285", dash.Revenue.Today)
	assert.Equal(t, 1, dash.SalesStats.TodaySales)

	reportResp := do(t, env.server, "GET", "/v1/reports/sales", nil, env.token)
	require.Equal(t, http.StatusOK, reportResp.StatusCode)
	var report struct {
		Summary struct {
			TotalSales   int    `json:"total_sales"`
			TotalProfit  string `json:"total_profit"`
			ProfitMargin string `json:"profit_margin"`
		} `json:"summary"`
	}
	decodeJSON(t, reportResp, &report)
	assert.Equal(t, 1, report.Summary.TotalSales)
	decEq(t, "85", report.Summary.TotalProfit)
	decEq(t, "42.5", report.Summary.ProfitMargin)
}
