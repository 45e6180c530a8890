package service

import (
	"context"
	"fmt"

	"garden-store/internal/model"
	"garden-store/internal/photo"
	"garden-store/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	photos      photo.Store
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, photos photo.Store, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		photos:      photos,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves the catalogue.
func (s *productService) List(ctx context.Context, includeOutOfStock bool) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx, !includeOutOfStock)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Bool("include_out_of_stock", includeOutOfStock).
		Msg("retrieved products")

	return products, nil
}

// Get retrieves a single product.
func (s *productService) Get(ctx context.Context, id int64, includeOutOfStock bool) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	// Storefront callers never see sold-out products.
	if !includeOutOfStock && !product.InStock() {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create adds a product to the catalogue.
func (s *productService) Create(ctx context.Context, input model.ProductInput, upload *PhotoUpload) (*model.Product, error) {
	if input.Name == nil || *input.Name == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product name is required")
	}
	if input.Price == nil {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product price is required")
	}
	if input.Quantity == nil {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product quantity is required")
	}
	if input.Category == nil || *input.Category == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Product category is required")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}

	product := &model.Product{
		Name:     *input.Name,
		Price:    *input.Price,
		Quantity: *input.Quantity,
		Category: *input.Category,
	}
	if input.Description != nil {
		product.Description = *input.Description
	}

	if upload != nil {
		path, err := s.photos.Save(ctx, upload.Filename, upload.ContentType, upload.Body)
		if err != nil {
			s.logger.Error().Err(err).Str("file", upload.Filename).Msg("failed to store product photo")
			return nil, fmt.Errorf("failed to store product photo: %w", err)
		}
		product.Photo = &path
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Int64("product_id", product.ID).
		Str("name", product.Name).
		Msg("product created")

	return product, nil
}

// Update partially replaces a product's fields.
func (s *productService) Update(ctx context.Context, id int64, input model.ProductInput, upload *PhotoUpload) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product for update")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, model.ErrInvalidQuantity
		}
		product.Quantity = *input.Quantity
	}
	if input.Category != nil {
		product.Category = *input.Category
	}

	// The existing photo survives unless a replacement is uploaded.
	if upload != nil {
		path, err := s.photos.Save(ctx, upload.Filename, upload.ContentType, upload.Body)
		if err != nil {
			s.logger.Error().Err(err).Str("file", upload.Filename).Msg("failed to store product photo")
			return nil, fmt.Errorf("failed to store product photo: %w", err)
		}
		product.Photo = &path
	}

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !updated {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")

	return product, nil
}

// Delete removes a product from the catalogue.
func (s *productService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}
