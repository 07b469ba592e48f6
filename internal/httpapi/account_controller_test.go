package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appLedger "github.com/cassiomorais/paymentpipeline/internal/application/ledger"
	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
	"github.com/cassiomorais/paymentpipeline/internal/httpapi"
	"github.com/cassiomorais/paymentpipeline/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newAccountTestRouter() (*chi.Mux, *testutil.MockAccountRepository) {
	accounts := testutil.NewMockAccountRepository()
	createUC := appLedger.NewCreateAccountUseCase(accounts)
	depositUC := appLedger.NewDepositUseCase(accounts)
	queries := appLedger.NewQueries(accounts)
	controller := httpapi.NewAccountController(createUC, depositUC, queries)

	r := chi.NewRouter()
	r.Post("/api/accounts", controller.Create)
	r.Post("/api/accounts/{user_id}/deposit", controller.Deposit)
	r.Get("/api/accounts/{user_id}/balance", controller.GetBalance)
	r.Get("/api/accounts/{user_id}/transactions", controller.GetTransactions)
	return r, accounts
}

func TestAccountController_Create(t *testing.T) {
	r, _ := newAccountTestRouter()

	body, _ := json.Marshal(map[string]string{"user_id": "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp httpapi.AccountResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "user-1", resp.UserID)
	require.Equal(t, int64(0), resp.Balance)
}

func TestAccountController_Create_Duplicate(t *testing.T) {
	r, accounts := newAccountTestRouter()
	accounts.AddAccount(testutil.NewTestAccount("user-1", 0))

	body, _ := json.Marshal(map[string]string{"user_id": "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/accounts", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountController_Deposit(t *testing.T) {
	r, accounts := newAccountTestRouter()
	accounts.AddAccount(testutil.NewTestAccount("user-1", 1000))

	body, _ := json.Marshal(map[string]int64{"amount": 500})
	req := httptest.NewRequest(http.MethodPost, "/api/accounts/user-1/deposit", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp httpapi.AccountResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, int64(1500), resp.Balance)
}

func TestAccountController_GetBalance(t *testing.T) {
	r, accounts := newAccountTestRouter()
	accounts.AddAccount(testutil.NewTestAccount("user-1", 2500))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/user-1/balance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp httpapi.BalanceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, int64(2500), resp.Balance)
}

func TestAccountController_GetBalance_NotFound(t *testing.T) {
	r, _ := newAccountTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/ghost/balance", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountController_GetTransactions_DefaultLimit(t *testing.T) {
	r, accounts := newAccountTestRouter()
	a := testutil.NewTestAccount("user-1", 10000)
	accounts.AddAccount(a)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, accounts.AddTransaction(ctx, &account.Transaction{
			ID:           uuid.New(),
			AccountID:    a.ID,
			Type:         account.TransactionCredit,
			Amount:       int64(100 * (i + 1)),
			BalanceAfter: a.Balance,
			CreatedAt:    time.Now(),
		}))
	}

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/user-1/transactions", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []httpapi.TransactionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 3)
}
