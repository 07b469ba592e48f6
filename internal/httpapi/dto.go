package httpapi

import (
	"time"

	"github.com/cassiomorais/paymentpipeline/internal/domain/account"
	"github.com/cassiomorais/paymentpipeline/internal/domain/order"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type CreateOrderRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=255"`
}

type OrderResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func FromOrder(o *order.Order) *OrderResponse {
	return &OrderResponse{
		ID:          o.ID.String(),
		UserID:      o.UserID,
		Amount:      o.Amount,
		Description: o.Description,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
}

type CreateAccountRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type AccountResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Balance   int64  `json:"balance"`
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func FromAccount(a *account.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID.String(),
		UserID:    a.UserID,
		Balance:   a.Balance,
		Version:   a.Version,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

type TransactionResponse struct {
	ID           string  `json:"id"`
	AccountID    string  `json:"account_id"`
	OrderID      *string `json:"order_id,omitempty"`
	Type         string  `json:"type"`
	Amount       int64   `json:"amount"`
	BalanceAfter int64   `json:"balance_after"`
	CreatedAt    string  `json:"created_at"`
}

func FromTransaction(t *account.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID.String(),
		AccountID:    t.AccountID.String(),
		OrderID:      t.OrderID,
		Type:         string(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
}
