package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type CartRepository interface {
	GetCart(ctx context.Context, ownerID string) (domain.Cart, error)

	AddItem(ctx context.Context, ownerID string, line domain.CartLine) error
	UpdateQuantity(ctx context.Context, ownerID, productID string, quantity int) (bool, error)

	DeleteItem(ctx context.Context, ownerID, productID string) (bool, error)
}
