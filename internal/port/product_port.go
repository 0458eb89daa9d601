package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type ProductRepository interface {
	// GetProduct reports found=false with a nil error when no product has the id.
	GetProduct(ctx context.Context, productID string) (domain.Product, bool, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)

	InsertProduct(ctx context.Context, product domain.Product) error
}
