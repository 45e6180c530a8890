package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"garden-store/internal/cart"
	"garden-store/internal/config"
	"garden-store/internal/handler"
	"garden-store/internal/model"
	"garden-store/internal/notify"
	"garden-store/internal/photo"
	"garden-store/internal/pickup"
	"garden-store/internal/repository"
	"garden-store/internal/router"
	"garden-store/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "admin123"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	// Initialize repositories
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)

	// In-memory carts and a temp dir for photos keep the test self-contained
	cartStore := cart.NewMemoryStore()
	uploadDir := t.TempDir()
	photoStore, err := photo.NewLocalStore(uploadDir, logger)
	require.NoError(t, err)

	// Initialize services
	productService := service.NewProductService(productRepo, photoStore, logger)
	cartService := service.NewCartService(cartStore, productRepo, logger)
	orderService := service.NewOrderService(
		orderRepo,
		productRepo,
		pickup.DefaultWindow(),
		notify.NewNoopNotifier(),
		time.Second,
		logger,
	)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, cartService, logger)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	adminCfg := config.AdminConfig{
		Username:     testAdminUser,
		PasswordHash: string(hash),
	}

	// Static dir with an index.html for SPA fallback checks
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>garden store</html>"), 0o644))

	return router.New(productHandler, cartHandler, orderHandler, adminCfg, staticDir, uploadDir, logger)
}

// validPickupDatetime returns a pickup slot inside the ordering window:
// tomorrow at noon, shifted past Monday when needed.
func validPickupDatetime() string {
	day := time.Now().AddDate(0, 0, 1)
	if day.Weekday() == time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	slot := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.Local)
	return slot.Format("2006-01-02 15:04:05")
}

func productForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestProductAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/products hides sold-out products from the storefront", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 3)
	})

	t.Run("GET /api/products with admin credentials returns everything", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.SetBasicAuth(testAdminUser, testAdminPassword)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 4)
	})

	t.Run("POST /api/products requires admin credentials", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		body, contentType := productForm(t, map[string]string{
			"name": "Rake", "price": "270.00", "quantity": "6", "category": "tools",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/products", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("Admin can create, update and delete a product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		body, contentType := productForm(t, map[string]string{
			"name":        "Rake",
			"description": "12-tine leaf rake",
			"price":       "270.00",
			"quantity":    "6",
			"category":    "tools",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/products", body)
		req.Header.Set("Content-Type", contentType)
		req.SetBasicAuth(testAdminUser, testAdminPassword)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var created model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.NotZero(t, created.ID)
		assert.True(t, created.Price.Equal(decimal.RequireFromString("270.00")))

		// Update quantity only
		body, contentType = productForm(t, map[string]string{"quantity": "9"})
		req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/products/%d", created.ID), body)
		req.Header.Set("Content-Type", contentType)
		req.SetBasicAuth(testAdminUser, testAdminPassword)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var updated model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
		assert.Equal(t, 9, updated.Quantity)
		assert.Equal(t, "Rake", updated.Name)

		// Delete
		req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), nil)
		req.SetBasicAuth(testAdminUser, testAdminPassword)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)

		req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), nil)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/products/{id} hides sold-out products from the storefront", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		ids := SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products/%d", ids["Pruning Shears"]), nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)

		req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/products/%d", ids["Pruning Shears"]), nil)
		req.SetBasicAuth(testAdminUser, testAdminPassword)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCartAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	CleanupDB(t, testDB.Pool)
	ids := SeedProducts(t, testDB.Pool)

	// First request establishes the session cookie
	addBody := fmt.Sprintf(`{"product_id": %d, "quantity": 2}`, ids["Garden Hose"])
	req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(addBody))
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "cart_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "first cart request must issue a session cookie")

	// Same session accumulates quantity
	req = httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(addBody))
	req.AddCookie(sessionCookie)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var line model.CartLine
	require.NoError(t, json.NewDecoder(w.Body).Decode(&line))
	assert.Equal(t, 4, line.Quantity)

	// View shows the snapshot price and the total
	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(sessionCookie)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var view model.CartView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	require.Len(t, view.Lines, 1)
	assert.True(t, view.Total.Equal(decimal.RequireFromString("5000.00")))

	// A different session sees an empty cart
	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Empty(t, view.Lines)

	// Remove the line
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/cart/%d", ids["Garden Hose"]), nil)
	req.AddCookie(sessionCookie)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(sessionCookie)
	w = httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Empty(t, view.Lines)
}

func TestOrderAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	placeOrder := func(t *testing.T, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		return w
	}

	productQuantity := func(t *testing.T, id int64) int {
		t.Helper()
		var qty int
		err := testDB.Pool.QueryRow(t.Context(), "SELECT quantity FROM products WHERE id = $1", id).Scan(&qty)
		require.NoError(t, err)
		return qty
	}

	t.Run("Placing an order decrements stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		ids := SeedProducts(t, testDB.Pool)

		body := fmt.Sprintf(
			`{"customer_name": "Ivan", "phone": "7 (999) 123-45-67", "items": [{"id": %d, "qty": 3}], "desired_datetime": %q}`,
			ids["Garden Hose"], validPickupDatetime(),
		)
		w := placeOrder(t, body)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "+79991234567", resp.Phone)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 3, resp.Items[0].Quantity)

		assert.Equal(t, 12, productQuantity(t, ids["Garden Hose"]))
	})

	t.Run("Insufficient stock rejects the whole order and decrements nothing", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		ids := SeedProducts(t, testDB.Pool)

		body := fmt.Sprintf(
			`{"customer_name": "Ivan", "phone": "+79991234567", "items": [{"id": %d, "qty": 2}, {"id": %d, "qty": 100}], "desired_datetime": %q}`,
			ids["Garden Hose"], ids["Steel Shovel"], validPickupDatetime(),
		)
		w := placeOrder(t, body)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp handler.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp.Error, "Steel Shovel")

		assert.Equal(t, 15, productQuantity(t, ids["Garden Hose"]))
		assert.Equal(t, 8, productQuantity(t, ids["Steel Shovel"]))
	})

	t.Run("Invalid phone is rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		ids := SeedProducts(t, testDB.Pool)

		body := fmt.Sprintf(
			`{"customer_name": "Ivan", "phone": "12345", "items": [{"id": %d, "qty": 1}], "desired_datetime": %q}`,
			ids["Garden Hose"], validPickupDatetime(),
		)
		w := placeOrder(t, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Pickup outside the window is rejected", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		ids := SeedProducts(t, testDB.Pool)

		// 20:00 is past the last pickup slot on any day
		day := time.Now().AddDate(0, 0, 1)
		if day.Weekday() == time.Monday {
			day = day.AddDate(0, 0, 1)
		}
		late := time.Date(day.Year(), day.Month(), day.Day(), 20, 0, 0, 0, time.Local)

		body := fmt.Sprintf(
			`{"customer_name": "Ivan", "phone": "+79991234567", "items": [{"id": %d, "qty": 1}], "desired_datetime": %q}`,
			ids["Garden Hose"], late.Format("2006-01-02 15:04:05"),
		)
		w := placeOrder(t, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 15, productQuantity(t, ids["Garden Hose"]))
	})

	t.Run("Admin can fetch a placed order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		ids := SeedProducts(t, testDB.Pool)

		body := fmt.Sprintf(
			`{"customer_name": "Olga", "phone": "+79997654321", "items": [{"id": %d, "qty": 5}], "desired_datetime": %q}`,
			ids["Tomato Seeds"], validPickupDatetime(),
		)
		w := placeOrder(t, body)
		require.Equal(t, http.StatusCreated, w.Code)

		var placed model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&placed))

		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+placed.ID.String(), nil)
		w2 := httptest.NewRecorder()
		server.ServeHTTP(w2, req)
		assert.Equal(t, http.StatusUnauthorized, w2.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/orders/"+placed.ID.String(), nil)
		req.SetBasicAuth(testAdminUser, testAdminPassword)
		w2 = httptest.NewRecorder()
		server.ServeHTTP(w2, req)

		require.Equal(t, http.StatusOK, w2.Code)

		var got model.OrderResponse
		require.NoError(t, json.NewDecoder(w2.Body).Decode(&got))
		assert.Equal(t, "Olga", got.CustomerName)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Tomato Seeds", got.Items[0].Name)
	})
}

func TestStaticServing_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("Root serves the SPA index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		page, err := io.ReadAll(w.Body)
		require.NoError(t, err)
		assert.Contains(t, string(page), "garden store")
	})

	t.Run("Client-side routes fall back to the index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/catalog/watering", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Unknown API paths stay JSON 404s", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})
}
