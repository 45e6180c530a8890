package handler

import (
	"encoding/json"
	"net/http"

	"garden-store/internal/middleware"
	"garden-store/internal/model"
	"garden-store/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles session cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// View handles GET /api/cart requests.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	view, err := h.service.View(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Add handles POST /api/cart requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	var req model.CartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	line, err := h.service.Add(r.Context(), sessionID, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, "failed to add to cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, line)
}

// Remove handles DELETE /api/cart/{id} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := pathID(r.URL.Path, "/api/cart/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	if err := h.service.Remove(r.Context(), sessionID, id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove from cart", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// session pulls the cart session ID placed on the context by the session
// middleware. A missing ID means the middleware is not wired, so fail loudly.
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := middleware.SessionID(r.Context())
	if sessionID == "" {
		writeError(w, http.StatusInternalServerError, "no cart session", h.logger)
		return "", false
	}
	return sessionID, true
}
