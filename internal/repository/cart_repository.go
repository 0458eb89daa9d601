package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

var (
	ErrAlreadyExists = errors.New("already exists")
)

type cartRepository struct {
	q *db.Queries
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q: db.New(pool),
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q: db.New(tx),
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	var c domain.Cart

	if ownerID == "" {
		return c, errors.New("ownerID is empty")
	}

	rows, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		return c, fmt.Errorf("q.GetCart: %w", err)
	}

	lines, err := mapGetCartRowsToDomain(rows)
	if err != nil {
		return c, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Lines:   lines,
	}, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, line domain.CartLine) error {
	if ownerID == "" {
		return errors.New("ownerID is empty")
	}
	if err := line.Validate(); err != nil {
		return fmt.Errorf("line.Validate: %w", err)
	}

	arg := db.AddItemParams{
		OwnerID:       ownerID,
		ProductID:     line.ProductID,
		Name:          line.Name,
		PriceAmount:   line.UnitPrice.Amount,
		PriceCurrency: line.UnitPrice.Currency.String(),
		Image:         line.Image,
		Quantity:      int32(line.Quantity),
	}

	rowsAffected, err := r.q.AddItem(ctx, arg)
	if err != nil {
		return fmt.Errorf("q.AddItem: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("q.AddItem: %w", ErrAlreadyExists)
	}

	return nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, ownerID, productID string, quantity int) (bool, error) {
	if quantity < 1 {
		return false, fmt.Errorf("quantity[%d] is less than 1", quantity)
	}
	if quantity > domain.MaxQuantity {
		return false, fmt.Errorf("quantity[%d] is greater than %d", quantity, domain.MaxQuantity)
	}

	arg := db.UpdateQuantityParams{
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  int32(quantity),
	}

	rowsAffected, err := r.q.UpdateQuantity(ctx, arg)
	if err != nil {
		return false, fmt.Errorf("q.UpdateQuantity: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID, productID string) (bool, error) {
	arg := db.DeleteItemParams{
		OwnerID:   ownerID,
		ProductID: productID,
	}

	rowsAffected, err := r.q.DeleteItem(ctx, arg)
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartLine, error) {
	price, err := parseMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("parseMoney: %w", err)
	}

	return domain.CartLine{
		ProductID: row.ProductID,
		Name:      row.Name,
		UnitPrice: price,
		Image:     row.Image,
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapGetCartRowsToDomain(rows []db.GetCartRow) ([]domain.CartLine, error) {
	var lines []domain.CartLine

	for _, row := range rows {
		line, err := mapGetCartRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}
