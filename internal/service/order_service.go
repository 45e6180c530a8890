package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"garden-store/internal/model"
	"garden-store/internal/notify"
	"garden-store/internal/pickup"
	"garden-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// desiredDatetimeLayout is the wire format for the requested pickup moment.
const desiredDatetimeLayout = "2006-01-02 15:04:05"

// orderService implements OrderService.
type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	window        pickup.Window
	notifier      notify.Notifier
	notifyTimeout time.Duration
	logger        zerolog.Logger

	// now is swapped out in tests.
	now func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	window pickup.Window,
	notifier notify.Notifier,
	notifyTimeout time.Duration,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		window:        window,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		logger:        logger.With().Str("service", "order").Logger(),
		now:           time.Now,
	}
}

// PlaceOrder validates the request, atomically reserves stock for every line
// and persists the order. The stock check and decrement for all lines happen
// in one transaction under row locks, so concurrent orders cannot oversell
// and a failed line never leaves earlier decrements behind.
func (s *orderService) PlaceOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	phone, desired, err := s.validateOrderRequest(req)
	if err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := s.now()
	order := &model.Order{
		ID:              uuid.New(),
		CustomerName:    req.CustomerName,
		Phone:           phone,
		DesiredPickupAt: desired,
		CreatedAt:       now,
	}

	// Reserve stock line by line. Each product row is locked first, so the
	// availability check and the decrement are serialised across orders.
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		var product *model.Product
		product, err = s.productRepo.GetForUpdate(ctx, tx, line.ProductID)
		if err != nil {
			s.logger.Error().Err(err).Int64("product_id", line.ProductID).Msg("failed to lock product")
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if product == nil {
			err = model.ErrProductNotFound
			return nil, err
		}
		if product.Quantity < line.Quantity {
			s.logger.Warn().
				Int64("product_id", product.ID).
				Int("available", product.Quantity).
				Int("requested", line.Quantity).
				Msg("insufficient stock")
			err = model.NewInsufficientStockError(product.Name)
			return nil, err
		}

		var decremented bool
		decremented, err = s.productRepo.DecrementStock(ctx, tx, product.ID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if !decremented {
			// The row is locked, so this only happens on a logic error.
			err = model.NewInsufficientStockError(product.Name)
			return nil, err
		}

		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Time("pickup_at", order.DesiredPickupAt).
		Msg("order placed")

	// Best-effort notification, isolated from the order's outcome.
	s.notifyOrderPlaced(order, items)

	return &model.OrderResponse{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		Phone:           order.Phone,
		DesiredPickupAt: order.DesiredPickupAt,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}, nil
}

// GetByID retrieves an order with its item snapshots.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return &model.OrderResponse{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		Phone:           order.Phone,
		DesiredPickupAt: order.DesiredPickupAt,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}, nil
}

// validateOrderRequest checks the payload and returns the normalised phone
// and the parsed pickup moment.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) (string, time.Time, error) {
	if req == nil {
		return "", time.Time{}, model.NewDomainError(model.ErrCodeMissingField, "Order request is required")
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return "", time.Time{}, model.NewDomainError(model.ErrCodeMissingField, "Customer name is required")
	}

	if len(req.Items) == 0 {
		return "", time.Time{}, model.ErrEmptyOrder
	}

	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return "", time.Time{}, model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("Item %d: product id is required", i))
		}
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Int64("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return "", time.Time{}, model.ErrInvalidQuantity
		}
	}

	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return "", time.Time{}, err
	}

	desired, err := time.ParseInLocation(desiredDatetimeLayout, req.DesiredDatetime, time.Local)
	if err != nil {
		return "", time.Time{}, model.ErrInvalidDatetime
	}

	if err := s.window.Validate(s.now(), desired); err != nil {
		return "", time.Time{}, err
	}

	return phone, desired, nil
}

// normalizePhone strips formatting and requires exactly 11 digits with a
// leading country digit of 7. The canonical form is +7XXXXXXXXXX.
func normalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) != 11 || d[0] != '7' {
		return "", model.ErrInvalidPhone
	}
	return "+" + d, nil
}

// notifyOrderPlaced fires the bot notification in the background with a
// bounded timeout. Failures are logged and swallowed.
func (s *orderService) notifyOrderPlaced(order *model.Order, items []model.OrderItem) {
	text := orderText(order, items)
	logger := s.logger.With().Str("order_id", order.ID.String()).Logger()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		if err := s.notifier.OrderPlaced(ctx, text); err != nil {
			logger.Warn().Err(err).Msg("order notification failed")
			return
		}
		logger.Debug().Msg("order notification sent")
	}()
}

// orderText renders the human-readable order summary sent to the bot relay.
func orderText(order *model.Order, items []model.OrderItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order:\n")
	fmt.Fprintf(&b, "Name: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", order.Phone)
	fmt.Fprintf(&b, "Pickup time: %s\n", order.DesiredPickupAt.Format(desiredDatetimeLayout))
	fmt.Fprintf(&b, "Items:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d pcs (price: %s)\n", item.Name, item.Quantity, item.UnitPrice.StringFixed(2))
	}
	return b.String()
}
