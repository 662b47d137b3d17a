package services

import (
	"context"
	"fmt"

	"storedash/internal/models"
	"storedash/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ProductService handles business logic related to a store's products.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetProducts retrieves all products belonging to the given store.
func (s *ProductService) GetProducts(ctx context.Context, storeID string) ([]models.Product, error) {
	if storeID == "" {
		return nil, ErrStoreIDRequired
	}
	return s.repo.ListByStore(ctx, storeID)
}

// GetProductByID retrieves a single product scoped to the given store.
// A product belonging to another store is reported as not found.
func (s *ProductService) GetProductByID(ctx context.Context, storeID, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.StoreID != storeID {
		return nil, repositories.ErrProductNotFound
	}
	return product, nil
}

// CreateProduct validates and creates a new product for the given store.
func (s *ProductService) CreateProduct(ctx context.Context, storeID string, product *models.Product) error {
	product.StoreID = storeID
	if err := s.validate.Struct(product); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct validates and updates an existing product of the given store.
func (s *ProductService) UpdateProduct(ctx context.Context, storeID string, product *models.Product) error {
	if _, err := s.GetProductByID(ctx, storeID, product.ID); err != nil {
		return err
	}
	product.StoreID = storeID
	if err := s.validate.Struct(product); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product of the given store.
func (s *ProductService) DeleteProduct(ctx context.Context, storeID, id string) error {
	if _, err := s.GetProductByID(ctx, storeID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
