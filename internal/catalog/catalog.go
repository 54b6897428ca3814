// Package catalog is the admin product form: it validates input before it
// reaches the product gateway.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/gateway"
)

var (
	ErrNameRequired  = errors.New("product name is required")
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrNegativeStock = errors.New("stock cannot be negative")
)

// API is the product gateway. *gateway.Products implements it.
type API interface {
	List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput, image *gateway.File) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput, image *gateway.File) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, image gateway.File) (*domain.Product, error)
}

type Service struct {
	api    API
	logger *slog.Logger
}

func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Validate checks the form and returns the input with trimmed text fields.
func Validate(in domain.ProductInput) (domain.ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	var errs []error
	if in.Name == "" {
		errs = append(errs, ErrNameRequired)
	}
	if in.Price.IsNegative() {
		errs = append(errs, ErrNegativePrice)
	}
	if in.Stock < 0 {
		errs = append(errs, ErrNegativeStock)
	}
	return in, errors.Join(errs...)
}

func (s *Service) Create(ctx context.Context, in domain.ProductInput, image *gateway.File) (*domain.Product, error) {
	in, err := Validate(in)
	if err != nil {
		return nil, err
	}

	product, err := s.api.Create(ctx, in, image)
	if err != nil {
		s.logger.Error("failed to create product", "error", err, "name", in.Name)
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

func (s *Service) Update(ctx context.Context, id int64, in domain.ProductInput, image *gateway.File) (*domain.Product, error) {
	in, err := Validate(in)
	if err != nil {
		return nil, err
	}

	product, err := s.api.Update(ctx, id, in, image)
	if err != nil {
		s.logger.Error("failed to update product", "error", err, "product_id", id)
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	s.logger.Info("product updated", "product_id", product.ID)
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete product", "error", err, "product_id", id)
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.logger.Info("product deleted", "product_id", id)
	return nil
}

func (s *Service) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	return s.api.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.api.Get(ctx, id)
}

func (s *Service) UploadImage(ctx context.Context, id int64, image gateway.File) (*domain.Product, error) {
	product, err := s.api.UploadImage(ctx, id, image)
	if err != nil {
		s.logger.Error("failed to upload product image", "error", err, "product_id", id)
		return nil, fmt.Errorf("upload image for product %d: %w", id, err)
	}
	return product, nil
}
