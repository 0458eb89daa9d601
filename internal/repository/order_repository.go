package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

var (
	ErrNotFound = errors.New("order not found")
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx,
	}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if orderID == uuid.Nil {
		return o, fmt.Errorf("orderID is empty")
	}

	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("q.GetOrder: %w", ErrNotFound)
			}
			return o, fmt.Errorf("q.GetOrder: %w", err)
		}

		dbOrderItems, err := q.GetOrderItems(ctx, orderID)
		if err != nil {
			return o, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderItems)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

// InsertOrder writes the order header and its lines atomically. The stored
// total is recomputed from the lines, never taken from the caller.
func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Lines) == 0 {
		return uuid.Nil, errors.New("no lines in order")
	}
	if order.OwnerID == "" {
		return uuid.Nil, errors.New("ownerID is empty")
	}
	if len(order.Lines) > math.MaxInt32 {
		return uuid.Nil, fmt.Errorf("lines[%d] exceed %d", len(order.Lines), math.MaxInt32)
	}

	// validates every line, quantities fit in int32 afterwards
	total, err := domain.Total(order.Lines)
	if err != nil {
		return uuid.Nil, fmt.Errorf("domain.Total: %w", err)
	}

	placedAt := order.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}

	orderID, err := withTx(ctx, r.dbtx, func(q *db.Queries) (uuid.UUID, error) {
		orderID, err := q.InsertOrder(ctx, db.InsertOrderParams{
			OwnerID:       order.OwnerID,
			TotalAmount:   total.Amount,
			TotalCurrency: total.Currency.String(),
			FullName:      order.Shipping.FullName,
			Address:       order.Shipping.Address,
			Phone:         order.Shipping.Phone,
			PlacedAt:      placedAt,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("q.InsertOrder: %w", err)
		}

		// TODO: switch InsertOrderItem to :batchexec to save round trips
		for idx, line := range order.Lines {
			arg := db.InsertOrderItemParams{
				OrderID:       orderID,
				Position:      int32(idx),
				ProductID:     line.ProductID,
				Name:          line.Name,
				PriceAmount:   line.UnitPrice.Amount,
				PriceCurrency: line.UnitPrice.Currency.String(),
				Image:         line.Image,
				Quantity:      int32(line.Quantity),
			}
			if err := q.InsertOrderItem(ctx, arg); err != nil {
				return uuid.Nil, fmt.Errorf("q.InsertOrderItem: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	rows, err := r.q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("q.SearchOrders: %w", err)
	}

	// rows arrive grouped by order, ordered by placed_at desc
	var (
		orders []domain.Order
		index  = make(map[uuid.UUID]int)
	)
	for _, row := range rows {
		idx, exists := index[row.ID]
		if !exists {
			order, err := mapSearchOrdersRowToDomainOrder(row)
			if err != nil {
				return nil, fmt.Errorf("mapSearchOrdersRowToDomainOrder: %w", err)
			}
			orders = append(orders, order)
			idx = len(orders) - 1
			index[row.ID] = idx
		}

		line, err := mapSearchOrdersRowToDomainLine(row)
		if err != nil {
			return nil, fmt.Errorf("mapSearchOrdersRowToDomainLine: %w", err)
		}

		orders[idx].Lines = append(orders[idx].Lines, line)
	}

	return orders, nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	var placedAfter, placedBefore *time.Time

	if filter.PlacedAt != nil {
		placedAfter = filter.PlacedAt.After
		placedBefore = filter.PlacedAt.Before
	}

	return db.SearchOrdersParams{
		Ids:          nilSliceIfEmpty(filter.IDs),
		OwnerIds:     nilSliceIfEmpty(filter.OwnerIDs),
		PlacedAfter:  placedAfter,
		PlacedBefore: placedBefore,
	}
}

func mapDBOrderItemToDomain(row db.OrderItem) (domain.CartLine, error) {
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
	}, nil
}

func mapDBOrderToDomain(dbOrder db.Order, dbOrderItems []db.OrderItem) (domain.Order, error) {
	var o domain.Order

	total, err := parseMoney(dbOrder.TotalAmount, dbOrder.TotalCurrency)
	if err != nil {
		return o, fmt.Errorf("parseMoney: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(dbOrderItems))
	for _, item := range dbOrderItems {
		line, err := mapDBOrderItemToDomain(item)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderItemToDomain: %w", err)
		}
		lines = append(lines, line)
	}

	return domain.Order{
		ID:      dbOrder.ID,
		OwnerID: dbOrder.OwnerID,
		Lines:   lines,
		Total:   total,
		Shipping: domain.ShippingInfo{
			FullName: dbOrder.FullName,
			Address:  dbOrder.Address,
			Phone:    dbOrder.Phone,
		},
		PlacedAt:  dbOrder.PlacedAt,
		CreatedAt: dbOrder.CreatedAt,
	}, nil
}

func mapSearchOrdersRowToDomainOrder(row db.SearchOrdersRow) (domain.Order, error) {
	return mapDBOrderToDomain(db.Order{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		TotalAmount:   row.TotalAmount,
		TotalCurrency: row.TotalCurrency,
		FullName:      row.FullName,
		Address:       row.Address,
		Phone:         row.Phone,
		PlacedAt:      row.PlacedAt,
		CreatedAt:     row.CreatedAt,
	}, nil)
}

func mapSearchOrdersRowToDomainLine(row db.SearchOrdersRow) (domain.CartLine, error) {
	return mapDBOrderItemToDomain(db.OrderItem{
		OrderID:       row.ID,
		Position:      row.Position,
		ProductID:     row.ProductID,
		Name:          row.Name,
		PriceAmount:   row.PriceAmount,
		PriceCurrency: row.PriceCurrency,
		Image:         row.Image,
		Quantity:      row.Quantity,
	})
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
