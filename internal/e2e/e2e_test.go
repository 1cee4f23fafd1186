//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/e2e/... -v
//
// Covered flows:
//   - Full tab cycle: login → open session → command → orders → bill → close
//   - Status machine rejections over HTTP
//   - One active cash session per company
//   - Closing reconciliation figures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/config"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/infra"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
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

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // supervisor JWT
	db     *gorm.DB

	tableID   string
	table2ID  string
	productID string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("comanda_test"),
		tcPostgres.WithUsername("comanda"),
		tcPostgres.WithPassword("comanda"),
		testcontainers.WithWaitStrategy(
			// Postgres logs the ready line twice: once during the init
			// bootstrap and once for the final server start.
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
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
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	env := &testEnv{db: db}
	env.seed(t)

	r := router.New(cfg, db, rdb)
	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "boss@e2e.test", "password": "e2e-password"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)
	env.token = loginBody.AccessToken

	return env
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()

	company := model.Company{Name: "E2E Bistro"}
	require.NoError(t, e.db.Create(&company).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte("e2e-password"), bcrypt.MinCost)
	require.NoError(t, err)
	boss := model.Employee{
		Username:     "boss@e2e.test",
		Name:         "E2E Supervisor",
		PasswordHash: string(hash),
		Role:         "supervisor",
		CompanyID:    company.ID,
		Active:       true,
	}
	require.NoError(t, e.db.Create(&boss).Error)

	table1 := model.Table{Name: "Table 1", Number: 1, CompanyID: company.ID}
	table2 := model.Table{Name: "Table 2", Number: 2, CompanyID: company.ID}
	require.NoError(t, e.db.Create(&table1).Error)
	require.NoError(t, e.db.Create(&table2).Error)

	product := model.Product{
		Name:      "House Burger",
		Price:     decimal.RequireFromString("10.00"),
		CompanyID: company.ID,
		Active:    true,
	}
	require.NoError(t, e.db.Create(&product).Error)

	e.tableID = table1.PublicID.String()
	e.table2ID = table2.PublicID.String()
	e.productID = product.PublicID.String()
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullTabCycle(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Open the cash session for the shift
	sessResp := do(t, env.server, "POST", "/v1/cash-sessions",
		jsonBody(t, map[string]any{"opening_value": "100.00"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, sessResp.StatusCode)
	var sess struct {
		ID string `json:"id"`
	}
	decodeJSON(t, sessResp, &sess)

	// 2. Open a command on table 1
	cmdResp := do(t, env.server, "POST", "/v1/commands",
		jsonBody(t, map[string]any{"name": "Alice", "table_id": env.tableID, "people_count": 2}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, cmdResp.StatusCode)
	var cmd struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, cmdResp, &cmd)
	assert.Equal(t, "OPEN", cmd.Status)

	// 3. Order two burgers
	ordResp := do(t, env.server, "POST", fmt.Sprintf("/v1/commands/%s/orders", cmd.ID),
		jsonBody(t, map[string]any{"product_id": env.productID, "quantity": 2}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, ordResp.StatusCode)
	var orders []struct {
		ID        string `json:"id"`
		BasePrice string `json:"base_price"`
	}
	decodeJSON(t, ordResp, &orders)
	require.Len(t, orders, 2)
	assert.Equal(t, "10", orders[0].BasePrice)

	// 4. The bill reconciles against the stored total
	billResp := do(t, env.server, "GET", fmt.Sprintf("/v1/commands/%s/bill", cmd.ID), nil, env.token)
	require.Equal(t, http.StatusOK, billResp.StatusCode)
	var bill struct {
		Items []struct {
			Quantity int64  `json:"quantity"`
			Total    string `json:"total"`
		} `json:"items"`
		Total string `json:"total"`
	}
	decodeJSON(t, billResp, &bill)
	require.Len(t, bill.Items, 1)
	assert.EqualValues(t, 2, bill.Items[0].Quantity)
	assert.Equal(t, "20", bill.Total)

	// 5. Move to PAYING, then force-close the tab with its open orders
	stResp := do(t, env.server, "PATCH", fmt.Sprintf("/v1/commands/%s/status", cmd.ID),
		jsonBody(t, map[string]any{"target_status": "PAYING"}),
		env.token,
	)
	require.Equal(t, http.StatusOK, stResp.StatusCode)
	stResp.Body.Close()

	stResp = do(t, env.server, "PATCH", fmt.Sprintf("/v1/commands/%s/status", cmd.ID),
		jsonBody(t, map[string]any{"target_status": "CLOSED", "close_all_orders": true}),
		env.token,
	)
	require.Equal(t, http.StatusOK, stResp.StatusCode)
	var closed struct {
		Status string `json:"status"`
	}
	decodeJSON(t, stResp, &closed)
	assert.Equal(t, "CLOSED", closed.Status)

	// 6. Close the session with a blind count that matches exactly
	closeResp := do(t, env.server, "POST", fmt.Sprintf("/v1/cash-sessions/%s/close", sess.ID),
		jsonBody(t, map[string]any{
			"counted_cash":           "120.00",
			"counted_card":           "0",
			"counted_pix":            "0",
			"counted_others":         "0",
			"expected_cash_movement": "20.00",
		}),
		env.token,
	)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closedSess struct {
		Status  string `json:"status"`
		Closing struct {
			FinalBalance           string `json:"final_balance"`
			FinalBalanceExpected   string `json:"final_balance_expected"`
			FinalBalanceDifference string `json:"final_balance_difference"`
		} `json:"closing"`
	}
	decodeJSON(t, closeResp, &closedSess)
	assert.Equal(t, "CLOSED", closedSess.Status)
	assert.Equal(t, "120", closedSess.Closing.FinalBalance)
	assert.Equal(t, "0", closedSess.Closing.FinalBalanceDifference)
}

func TestE2E_StatusMachineOverHTTP(t *testing.T) {
	env := setupTestEnv(t)

	cmdResp := do(t, env.server, "POST", "/v1/commands",
		jsonBody(t, map[string]any{"name": "Bob", "table_id": env.tableID}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, cmdResp.StatusCode)
	var cmd struct {
		ID string `json:"id"`
	}
	decodeJSON(t, cmdResp, &cmd)

	// OPEN → CLOSED is not a legal edge
	stResp := do(t, env.server, "PATCH", fmt.Sprintf("/v1/commands/%s/status", cmd.ID),
		jsonBody(t, map[string]any{"target_status": "CLOSED"}),
		env.token,
	)
	assert.Equal(t, http.StatusBadRequest, stResp.StatusCode)
	stResp.Body.Close()

	// CANCELED without a reason records the fallback text
	stResp = do(t, env.server, "PATCH", fmt.Sprintf("/v1/commands/%s/status", cmd.ID),
		jsonBody(t, map[string]any{"target_status": "CANCELED"}),
		env.token,
	)
	require.Equal(t, http.StatusOK, stResp.StatusCode)
	var canceled struct {
		Status       string  `json:"status"`
		CancelReason *string `json:"cancel_reason"`
	}
	decodeJSON(t, stResp, &canceled)
	assert.Equal(t, "CANCELED", canceled.Status)
	require.NotNil(t, canceled.CancelReason)
	assert.Equal(t, "canceled without a stated reason", *canceled.CancelReason)

	// Terminal states reject further transitions
	stResp = do(t, env.server, "PATCH", fmt.Sprintf("/v1/commands/%s/status", cmd.ID),
		jsonBody(t, map[string]any{"target_status": "OPEN"}),
		env.token,
	)
	assert.Equal(t, http.StatusBadRequest, stResp.StatusCode)
	stResp.Body.Close()
}

func TestE2E_SingleActiveSession(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/v1/cash-sessions",
		jsonBody(t, map[string]any{"opening_value": "50.00"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/v1/cash-sessions",
		jsonBody(t, map[string]any{"opening_value": "50.00"}),
		env.token,
	)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	active := do(t, env.server, "GET", "/v1/cash-sessions/active", nil, env.token)
	assert.Equal(t, http.StatusOK, active.StatusCode)
	active.Body.Close()
}

func TestE2E_ChangeTable(t *testing.T) {
	env := setupTestEnv(t)

	cmdResp := do(t, env.server, "POST", "/v1/commands",
		jsonBody(t, map[string]any{"name": "Carol", "table_id": env.tableID}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, cmdResp.StatusCode)
	var cmd struct {
		ID string `json:"id"`
	}
	decodeJSON(t, cmdResp, &cmd)

	mvResp := do(t, env.server, "PATCH", fmt.Sprintf("/v1/commands/%s/table", cmd.ID),
		jsonBody(t, map[string]any{"table_id": env.table2ID}),
		env.token,
	)
	require.Equal(t, http.StatusOK, mvResp.StatusCode)
	var moved struct {
		TableName string `json:"table_name"`
	}
	decodeJSON(t, mvResp, &moved)
	assert.Equal(t, "Table 2", moved.TableName)

	// Moving to the table it already occupies is always rejected
	mvResp = do(t, env.server, "PATCH", fmt.Sprintf("/v1/commands/%s/table", cmd.ID),
		jsonBody(t, map[string]any{"table_id": env.table2ID}),
		env.token,
	)
	assert.Equal(t, http.StatusBadRequest, mvResp.StatusCode)
	mvResp.Body.Close()
}
