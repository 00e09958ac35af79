package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterrepo "microtask/internal/adapter/repository"
	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
	"microtask/internal/domain/service"
	"microtask/internal/infrastructure/ratelimit"
	"microtask/pkg/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

type testServer struct {
	t       *testing.T
	server  *Server
	memory  *adapterrepo.MemoryStore
	sandbox *service.SandboxPaymentService
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:              "development",
		DatabaseDriver:           "memory",
		PaymentProvider:          "sandbox",
		PaymentCurrency:          "usd",
		JWTSecret:                "test-secret",
		JWTExpiry:                3600,
		CoinPolicy:               "multiplier",
		CoinsPerDollar:           10,
		CoinsPerWithdrawalDollar: 20,
		MinWithdrawalCoins:       200,
		SignupBonusBuyer:         50,
		SignupBonusWorker:        10,
	}
}

func newTestServer(t *testing.T, limits map[string]ratelimit.Policy) *testServer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	memory := adapterrepo.NewMemoryStore()
	sandbox := service.NewSandboxPaymentService()
	if limits == nil {
		generous := ratelimit.Policy{MaxTokens: 1000, RefillRate: 1000, RefillTime: time.Second}
		limits = map[string]ratelimit.Policy{
			ratelimit.ActionGeneral: generous,
			ratelimit.ActionAuth:    generous,
			ratelimit.ActionPayment: generous,
		}
	}

	server, err := NewServer(ctx, Options{
		Config:  testConfig(),
		Stores:  MemoryStores(memory),
		Gateway: sandbox,
		Limits:  limits,
	})
	require.NoError(t, err)

	return &testServer{t: t, server: server, memory: memory, sandbox: sandbox}
}

func (ts *testServer) do(method, path, token string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	ts.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	ts.server.Echo.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

// login issues a development token through /jwt.
func (ts *testServer) login(email string) string {
	ts.t.Helper()
	rec, env := ts.do(http.MethodPost, "/jwt", "", map[string]string{"email": email})
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeData[struct {
		Token string `json:"token"`
	}](ts.t, env).Token
}

func (ts *testServer) register(email, role string) string {
	ts.t.Helper()
	token := ts.login(email)
	rec, _ := ts.do(http.MethodPost, "/v1/users", token, map[string]string{"name": email, "role": role})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())
	return token
}

func (ts *testServer) admin() string {
	ts.t.Helper()
	err := ts.memory.RunInTx(context.Background(), func(tx repository.LedgerTx) error {
		return tx.PutUser(&entity.User{ID: "admin-id", Email: "admin@example.com", Role: entity.RoleAdmin, CreatedAt: time.Now()})
	})
	require.NoError(ts.t, err)
	token, _, err := ts.server.Tokens.Issue("admin@example.com")
	require.NoError(ts.t, err)
	return token
}

func (ts *testServer) balance(token string) int64 {
	ts.t.Helper()
	rec, env := ts.do(http.MethodGet, "/v1/users/me", token, nil)
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeData[entity.User](ts.t, env).TotalCoin
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, _ := ts.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store":"memory"`)

	rec, _ = ts.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, env := ts.do(http.MethodGet, "/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	rec, _ = ts.do(http.MethodGet, "/v1/tasks", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A valid token for an email that never registered.
	token := ts.login("ghost@example.com")
	rec, env = ts.do(http.MethodGet, "/v1/tasks", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", env.Error.Code)

	rec, _ = ts.do(http.MethodGet, "/v1/reviews", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t, nil)
	token := ts.login("someone@example.com")

	rec, env := ts.do(http.MethodPost, "/v1/users", token, map[string]string{"name": "x", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	ts.do(http.MethodPost, "/v1/users", token, map[string]string{"name": "x", "role": "worker"})
	rec, env = ts.do(http.MethodPost, "/v1/users", token, map[string]string{"name": "x", "role": "worker"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestCoinFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t, nil)
	buyer := ts.register("buyer@example.com", entity.RoleBuyer)
	worker := ts.register("worker@example.com", entity.RoleWorker)
	admin := ts.admin()

	assert.Equal(t, int64(50), ts.balance(buyer))
	assert.Equal(t, int64(10), ts.balance(worker))

	// Buy 100 coins for $10.
	rec, env := ts.do(http.MethodPost, "/v1/payments/intent", buyer, map[string]string{"price": "10"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	intentID := decodeData[struct {
		ID string `json:"paymentIntentId"`
	}](t, env).ID

	rec, env = ts.do(http.MethodPost, "/v1/payments/confirm", buyer, map[string]string{"paymentIntentId": intentID})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "PAYMENT_NOT_SUCCEEDED", env.Error.Code)

	rec, _ = ts.do(http.MethodPost, "/_dev/payments/"+intentID+"/settle", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for i := 0; i < 2; i++ {
		rec, env = ts.do(http.MethodPost, "/v1/payments/confirm", buyer, map[string]string{"paymentIntentId": intentID})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, int64(100), decodeData[entity.Payment](t, env).CoinsAdded)
	}
	assert.Equal(t, int64(150), ts.balance(buyer))

	// Counters may arrive as strings; the idempotency key makes the retry a replay.
	taskBody := map[string]interface{}{
		"task_title":       "Like a post",
		"task_detail":      "Like and screenshot",
		"required_workers": "3",
		"payable_amount":   5,
		"completion_date":  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}
	rec, env = ts.do(http.MethodPost, "/v1/tasks", buyer, taskBody, "Idempotency-Key", "task-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decodeData[entity.Task](t, env)
	assert.Equal(t, int64(15), task.TotalPayableCoin)

	rec, env = ts.do(http.MethodPost, "/v1/tasks", buyer, taskBody, "Idempotency-Key", "task-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, task.ID, decodeData[entity.Task](t, env).ID)
	assert.Equal(t, int64(135), ts.balance(buyer))

	rec, _ = ts.do(http.MethodPost, "/v1/tasks", worker, taskBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Worker takes a slot and gets approved.
	rec, env = ts.do(http.MethodPost, "/v1/submissions", worker, map[string]string{
		"task_id":            task.ID,
		"submission_details": "https://example.com/proof.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	submission := decodeData[entity.Submission](t, env)
	assert.Equal(t, entity.SubmissionPending, submission.Status)

	rec, env = ts.do(http.MethodGet, "/v1/tasks/"+task.ID, worker, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), decodeData[entity.Task](t, env).RequiredWorkers)

	rec, _ = ts.do(http.MethodPatch, "/v1/submissions/"+submission.ID+"/approve", worker, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for i := 0; i < 2; i++ {
		rec, _ = ts.do(http.MethodPatch, "/v1/submissions/"+submission.ID+"/approve", buyer, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	assert.Equal(t, int64(15), ts.balance(worker))

	rec, env = ts.do(http.MethodGet, "/v1/workers/worker@example.com/submissions?status=approved", worker, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decodeData[page[entity.Submission]](t, env).Total)

	rec, _ = ts.do(http.MethodGet, "/v1/workers/worker@example.com/submissions", buyer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = ts.do(http.MethodGet, "/v1/ledger", worker, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeData[page[entity.LedgerEntry]](t, env)
	require.Len(t, entries.Items, 2)
	assert.Equal(t, entity.EntryTaskEarning, entries.Items[0].Type)

	// Deleting the task refunds the two open slots.
	rec, env = ts.do(http.MethodDelete, "/v1/tasks/"+task.ID, buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(10), decodeData[struct {
		Refunded int64 `json:"refunded"`
	}](t, env).Refunded)
	assert.Equal(t, int64(145), ts.balance(buyer))

	rec, _ = ts.do(http.MethodGet, "/v1/admin/ledger/reconcile", buyer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = ts.do(http.MethodGet, "/v1/admin/ledger/reconcile", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decodeData[struct {
		Balanced bool  `json:"balanced"`
		Minted   int64 `json:"minted"`
	}](t, env)
	assert.True(t, report.Balanced)
	assert.Equal(t, int64(160), report.Minted)
}

func TestWithdrawalOverHTTP(t *testing.T) {
	ts := newTestServer(t, nil)
	worker := ts.register("worker@example.com", entity.RoleWorker)
	admin := ts.admin()

	rec, env := ts.do(http.MethodPost, "/v1/withdrawals", worker, map[string]interface{}{
		"withdrawal_coin": 10,
		"payment_system":  "bkash",
		"account_number":  "0123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "below the minimum")
	assert.False(t, env.Success)

	// Top the worker up directly through the ledger store.
	err := ts.memory.RunInTx(context.Background(), func(tx repository.LedgerTx) error {
		user, err := tx.GetUser("worker@example.com")
		if err != nil {
			return err
		}
		user.TotalCoin += 390
		if err := tx.PutUser(user); err != nil {
			return err
		}
		return tx.AppendEntry(&entity.LedgerEntry{ID: "seed", UserEmail: user.Email, Type: entity.EntryPurchase, Amount: 390, BalanceAfter: user.TotalCoin})
	})
	require.NoError(t, err)

	rec, env = ts.do(http.MethodPost, "/v1/withdrawals", worker, map[string]interface{}{
		"withdrawal_coin": "200",
		"payment_system":  "bkash",
		"account_number":  "0123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	withdrawal := decodeData[entity.Withdrawal](t, env)
	assert.Equal(t, "10.00", withdrawal.WithdrawalAmount)

	rec, env = ts.do(http.MethodGet, "/v1/admin/withdrawals", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decodeData[page[entity.Withdrawal]](t, env).Total)

	rec, _ = ts.do(http.MethodPatch, "/v1/admin/withdrawals/"+withdrawal.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(200), ts.balance(worker))

	rec, env = ts.do(http.MethodGet, "/v1/admin/withdrawals", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), decodeData[page[entity.Withdrawal]](t, env).Total)
}

func TestPaymentRateLimit(t *testing.T) {
	generous := ratelimit.Policy{MaxTokens: 100, RefillRate: 1, RefillTime: time.Second}
	ts := newTestServer(t, map[string]ratelimit.Policy{
		ratelimit.ActionGeneral: generous,
		ratelimit.ActionAuth:    generous,
		ratelimit.ActionPayment: {MaxTokens: 1, RefillRate: 1, RefillTime: time.Hour},
	})
	buyer := ts.register("buyer@example.com", entity.RoleBuyer)

	rec, _ := ts.do(http.MethodPost, "/v1/payments/intent", buyer, map[string]string{"price": "1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := ts.do(http.MethodPost, "/v1/payments/intent", buyer, map[string]string{"price": "1"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", env.Error.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
