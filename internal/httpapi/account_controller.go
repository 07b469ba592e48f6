package httpapi

import (
	"net/http"
	"strconv"

	appLedger "github.com/cassiomorais/paymentpipeline/internal/application/ledger"
	"github.com/go-chi/chi/v5"
)

// AccountController exposes the ledger's create/deposit/read operations.
type AccountController struct {
	create  *appLedger.CreateAccountUseCase
	deposit *appLedger.DepositUseCase
	queries *appLedger.Queries
}

func NewAccountController(create *appLedger.CreateAccountUseCase, deposit *appLedger.DepositUseCase, queries *appLedger.Queries) *AccountController {
	return &AccountController{create: create, deposit: deposit, queries: queries}
}

// Create handles POST /api/accounts
func (h *AccountController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	a, err := h.create.Execute(r.Context(), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FromAccount(a))
}

// Deposit handles POST /api/accounts/{user_id}/deposit
func (h *AccountController) Deposit(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req DepositRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	a, err := h.deposit.Execute(r.Context(), userID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromAccount(a))
}

// GetBalance handles GET /api/accounts/{user_id}/balance
func (h *AccountController) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	a, err := h.queries.GetBalance(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{UserID: a.UserID, Balance: a.Balance})
}

// GetTransactions handles GET /api/accounts/{user_id}/transactions
func (h *AccountController) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}

	txns, err := h.queries.GetTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*TransactionResponse, 0, len(txns))
	for _, t := range txns {
		resp = append(resp, FromTransaction(t))
	}
	writeJSON(w, http.StatusOK, resp)
}
