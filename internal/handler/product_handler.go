package handler

import (
	"net/http"
	"strconv"

	"garden-store/internal/middleware"
	"garden-store/internal/model"
	"garden-store/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxUploadBytes bounds the multipart form size for product photos.
const maxUploadBytes = 10 << 20

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests. Admin callers see the full
// catalogue; storefront callers see only in-stock rows.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), middleware.IsAdmin(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve products", h.logger)
		return
	}

	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/products/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	product, err := h.service.Get(r.Context(), id, middleware.IsAdmin(r.Context()))
	if err != nil {
		writeDomainError(w, err, "failed to retrieve product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products requests (multipart, admin only).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, upload, err := parseProductForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), input, upload)
	if err != nil {
		writeDomainError(w, err, "failed to create product", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} requests (multipart, admin only).
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/products/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	input, upload, err := parseProductForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), id, input, upload)
	if err != nil {
		writeDomainError(w, err, "failed to update product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} requests (admin only).
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/products/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product ID", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, "failed to delete product", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseProductForm reads the multipart product fields. Absent fields stay
// nil so updates remain partial; the photo is optional.
func parseProductForm(r *http.Request) (model.ProductInput, *service.PhotoUpload, error) {
	var input model.ProductInput

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return input, nil, errInvalidForm
	}

	if v, ok := formValue(r, "name"); ok {
		input.Name = &v
	}
	if v, ok := formValue(r, "description"); ok {
		input.Description = &v
	}
	if v, ok := formValue(r, "category"); ok {
		input.Category = &v
	}
	if v, ok := formValue(r, "price"); ok {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return input, nil, errInvalidPrice
		}
		input.Price = &price
	}
	if v, ok := formValue(r, "quantity"); ok {
		qty, err := strconv.Atoi(v)
		if err != nil {
			return input, nil, errInvalidQuantity
		}
		input.Quantity = &qty
	}

	file, header, err := r.FormFile("photo")
	if err == http.ErrMissingFile {
		return input, nil, nil
	}
	if err != nil {
		return input, nil, errInvalidForm
	}

	upload := &service.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return input, upload, nil
}

// formValue returns a multipart field and whether it was present at all.
func formValue(r *http.Request, key string) (string, bool) {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

var (
	errInvalidForm     = model.NewDomainError(model.ErrCodeInvalidJSON, "invalid multipart form")
	errInvalidPrice    = model.NewDomainError(model.ErrCodeMissingField, "price must be a number")
	errInvalidQuantity = model.NewDomainError(model.ErrCodeInvalidQuantity, "quantity must be an integer")
)
