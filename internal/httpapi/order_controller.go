package httpapi

import (
	"net/http"

	appOrder "github.com/cassiomorais/paymentpipeline/internal/application/order"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderController exposes the Order Writer (create) and read paths.
type OrderController struct {
	create  *appOrder.CreateOrderUseCase
	queries *appOrder.Queries
}

func NewOrderController(create *appOrder.CreateOrderUseCase, queries *appOrder.Queries) *OrderController {
	return &OrderController{create: create, queries: queries}
}

// Create handles POST /api/orders
func (h *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	o, err := h.create.Execute(r.Context(), appOrder.CreateOrderRequest{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, FromOrder(o))
}

// Get handles GET /api/orders/{id}
func (h *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid order id", Code: "invalid_id"})
		return
	}

	o, err := h.queries.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromOrder(o))
}

// List handles GET /api/orders?user_id=...
func (h *OrderController) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "user_id is required", Code: "validation_error"})
		return
	}

	orders, err := h.queries.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, FromOrder(o))
	}
	writeJSON(w, http.StatusOK, resp)
}
