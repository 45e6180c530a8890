package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"garden-store/internal/middleware"
	"garden-store/internal/model"
	"garden-store/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order intake HTTP requests.
type OrderHandler struct {
	service service.OrderService
	carts   service.CartService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, carts service.CartService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		carts:   carts,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests. On success the session cart is
// cleared; a failed clear never fails the order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "failed to place order", h.logger)
		return
	}

	if sessionID := middleware.SessionID(r.Context()); sessionID != "" {
		if err := h.carts.Clear(r.Context(), sessionID); err != nil {
			h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear cart after order")
		}
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id} requests (admin only).
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve order", h.logger)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
