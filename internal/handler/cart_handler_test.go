package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"garden-store/internal/middleware"
	"garden-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) View(ctx context.Context, sessionID string) (*model.CartView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, sessionID string, productID int64, quantity int) (model.CartLine, error) {
	args := m.Called(ctx, sessionID, productID, quantity)
	return args.Get(0).(model.CartLine), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, sessionID string, productID int64) error {
	args := m.Called(ctx, sessionID, productID)
	return args.Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

const testSession = "11111111-2222-3333-4444-555555555555"

func sessionRequest(method, path string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	return req.WithContext(middleware.WithSessionID(req.Context(), testSession))
}

func TestCartHandler_View(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		view := &model.CartView{
			Lines: []model.CartLine{
				{ProductID: 1, Name: "Garden Hose", UnitPrice: decimal.NewFromInt(100), Quantity: 2},
			},
			Total: decimal.NewFromInt(200),
		}
		mockService.On("View", mock.Anything, testSession).Return(view, nil)

		w := httptest.NewRecorder()
		handler.View(w, sessionRequest(http.MethodGet, "/api/cart", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var got model.CartView
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Len(t, got.Lines, 1)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(200)))
		mockService.AssertExpectations(t)
	})

	t.Run("No session on context", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		w := httptest.NewRecorder()
		handler.View(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		mockService.AssertNotCalled(t, "View")
	})

	t.Run("Store error", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		mockService.On("View", mock.Anything, testSession).Return(nil, errors.New("redis down"))

		w := httptest.NewRecorder()
		handler.View(w, sessionRequest(http.MethodGet, "/api/cart", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestCartHandler_Add(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		line := model.CartLine{ProductID: 1, Name: "Garden Hose", UnitPrice: decimal.NewFromInt(100), Quantity: 3}
		mockService.On("Add", mock.Anything, testSession, int64(1), 3).Return(line, nil)

		body := bytes.NewBufferString(`{"product_id": 1, "quantity": 3}`)
		w := httptest.NewRecorder()
		handler.Add(w, sessionRequest(http.MethodPost, "/api/cart", body))

		assert.Equal(t, http.StatusOK, w.Code)

		var got model.CartLine
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, 3, got.Quantity)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		body := bytes.NewBufferString(`{not json`)
		w := httptest.NewRecorder()
		handler.Add(w, sessionRequest(http.MethodPost, "/api/cart", body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Add")
	})

	t.Run("Unknown product", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		mockService.On("Add", mock.Anything, testSession, int64(99), 1).
			Return(model.CartLine{}, model.ErrProductNotFound)

		body := bytes.NewBufferString(`{"product_id": 99, "quantity": 1}`)
		w := httptest.NewRecorder()
		handler.Add(w, sessionRequest(http.MethodPost, "/api/cart", body))

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Out of stock product", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		mockService.On("Add", mock.Anything, testSession, int64(2), 1).
			Return(model.CartLine{}, model.ErrProductUnavailable)

		body := bytes.NewBufferString(`{"product_id": 2, "quantity": 1}`)
		w := httptest.NewRecorder()
		handler.Add(w, sessionRequest(http.MethodPost, "/api/cart", body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestCartHandler_Remove(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		mockService.On("Remove", mock.Anything, testSession, int64(1)).Return(nil)

		w := httptest.NewRecorder()
		handler.Remove(w, sessionRequest(http.MethodDelete, "/api/cart/1", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		mockService := new(MockCartService)
		handler := NewCartHandler(mockService, logger)

		w := httptest.NewRecorder()
		handler.Remove(w, sessionRequest(http.MethodDelete, "/api/cart/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Remove")
	})
}

func TestCartHandler_Clear(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockCartService)
	handler := NewCartHandler(mockService, logger)

	mockService.On("Clear", mock.Anything, testSession).Return(nil)

	w := httptest.NewRecorder()
	handler.Clear(w, sessionRequest(http.MethodDelete, "/api/cart", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
