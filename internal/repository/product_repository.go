package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
)

const uniqueViolation = "23505"

type productRepository struct {
	q *db.Queries
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{
		q: db.New(pool),
	}
}

func (r *productRepository) GetProduct(ctx context.Context, productID string) (domain.Product, bool, error) {
	var p domain.Product

	if productID == "" {
		return p, false, errors.New("productID is empty")
	}

	row, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, false, nil
		}
		return p, false, fmt.Errorf("q.GetProduct: %w", err)
	}

	p, err = mapDBProductToDomain(row)
	if err != nil {
		return p, false, fmt.Errorf("mapDBProductToDomain: %w", err)
	}

	return p, true, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	arg := db.ListProductsParams{
		Category: lo.EmptyableToPtr(filter.Category),
		Type:     lo.EmptyableToPtr(filter.Type),
	}

	rows, err := r.q.ListProducts(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := mapDBProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapDBProductToDomain: %w", err)
		}
		products = append(products, p)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("product.Validate: %w", err)
	}

	arg := db.InsertProductParams{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Image:         product.Image,
		Category:      product.Category,
		Type:          product.Type,
	}

	if err := r.q.InsertProduct(ctx, arg); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("q.InsertProduct: %w", ErrAlreadyExists)
		}
		return fmt.Errorf("q.InsertProduct: %w", err)
	}

	return nil
}

func mapDBProductToDomain(row db.Product) (domain.Product, error) {
	price, err := parseMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("parseMoney: %w", err)
	}

	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       price,
		Image:       row.Image,
		Category:    row.Category,
		Type:        row.Type,
		CreatedAt:   row.CreatedAt,
	}, nil
}
