package service

import (
	"context"
	"fmt"

	"garden-store/internal/cart"
	"garden-store/internal/model"
	"garden-store/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	store       cart.Store
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store cart.Store, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		store:       store,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// View returns the session's cart lines and total.
func (s *cartService) View(ctx context.Context, sessionID string) (*model.CartView, error) {
	lines, err := s.store.Lines(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}

	return &model.CartView{Lines: lines, Total: total}, nil
}

// Add puts a product into the session cart.
func (s *cartService) Add(ctx context.Context, sessionID string, productID int64, quantity int) (model.CartLine, error) {
	if quantity <= 0 {
		return model.CartLine{}, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to look up product")
		return model.CartLine{}, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return model.CartLine{}, model.ErrProductNotFound
	}
	if !product.InStock() {
		return model.CartLine{}, model.ErrProductUnavailable
	}

	line, err := s.store.Add(ctx, sessionID, model.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to add cart line")
		return model.CartLine{}, fmt.Errorf("failed to add cart line: %w", err)
	}

	s.logger.Debug().
		Int64("product_id", productID).
		Int("quantity", line.Quantity).
		Msg("cart line merged")

	return line, nil
}

// Remove drops a product's line from the session cart.
func (s *cartService) Remove(ctx context.Context, sessionID string, productID int64) error {
	if err := s.store.Remove(ctx, sessionID, productID); err != nil {
		s.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to remove cart line")
		return fmt.Errorf("failed to remove cart line: %w", err)
	}
	return nil
}

// Clear discards the whole session cart.
func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
