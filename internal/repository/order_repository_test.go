package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"
)

type orderRepositorySuite struct {
	suite.Suite

	repo      port.OrderRepository
	pool      *pgxpool.Pool
	container testcontainers.Container
}

// entry point to run the tests in the suite
func TestOrderRepositorySuite(t *testing.T) {
	defer goleak.VerifyNone(t)

	suite.Run(t, new(orderRepositorySuite))
}

// before all tests in the suite
func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewOrder(suite.pool)
}

// after all tests in the suite
func (suite *orderRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(suite.T().Context()))
	}
}

func (suite *orderRepositorySuite) TestInsertOrder() {
	defer suite.deleteAll()

	tests := []struct {
		name      string
		orderFunc func() domain.Order
		wantError string
	}{
		{
			name:      "valid order with all fields: ok",
			orderFunc: randomOrder,
		},
		{
			name: "invalid order, no lines: fail",
			orderFunc: func() domain.Order {
				o := randomOrder()
				o.Lines = nil
				return o
			},
			wantError: "no lines in order",
		},
		{
			name: "invalid order, no owner: fail",
			orderFunc: func() domain.Order {
				o := randomOrder()
				o.OwnerID = ""
				return o
			},
			wantError: "ownerID is empty",
		},
		{
			name: "invalid order, mixed currencies: fail",
			orderFunc: func() domain.Order {
				o := randomOrder()
				o.Lines[0].UnitPrice.Currency = currency.USD
				o.Lines = append(o.Lines, randomLine())
				o.Lines[len(o.Lines)-1].UnitPrice.Currency = currency.EUR
				return o
			},
			wantError: "currency mismatch",
		},
		{
			name: "invalid order, quantity above int32: fail",
			orderFunc: func() domain.Order {
				o := randomOrder()
				o.Lines[0].Quantity = domain.MaxQuantity + 1
				return o
			},
			wantError: "quantity[2147483648] is greater than 2147483647",
		},
		{
			name: "caller total is ignored: ok",
			orderFunc: func() domain.Order {
				o := randomOrder()
				o.Total = domain.NewMoney(1, currency.INR)
				return o
			},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ttOrder := tt.orderFunc()

			orderID, err := suite.repo.InsertOrder(ctx, ttOrder)
			if tt.wantError != "" {
				require.ErrorContains(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actualOrder, err := suite.repo.GetOrder(ctx, orderID)
			require.NoError(t, err)

			expected := ttOrder
			expected.ID = orderID
			expected.Total, err = domain.Total(ttOrder.Lines)
			require.NoError(t, err)

			assertOrder(t, expected, actualOrder)
		})
	}
}

func (suite *orderRepositorySuite) TestGetOrder() {
	t := suite.T()
	ctx := t.Context()

	_, err := suite.repo.GetOrder(ctx, uuid.Nil)
	require.EqualError(t, err, "orderID is empty")

	_, err = suite.repo.GetOrder(ctx, uuid.New())
	require.True(t, errors.Is(err, repository.ErrNotFound))
	require.EqualError(t, err, "withTx: q.GetOrder: order not found")
}

func (suite *orderRepositorySuite) TestSearchOrders() {
	defer suite.deleteAll()

	now := time.Now().UTC().Truncate(time.Millisecond)
	ownerA, ownerB := gofakeit.UUID(), gofakeit.UUID()

	order1 := randomOrder()
	order1.OwnerID = ownerA
	order1.PlacedAt = now.Add(-2 * time.Hour)

	order2 := randomOrder()
	order2.OwnerID = ownerA
	order2.PlacedAt = now.Add(-time.Hour)

	order3 := randomOrder()
	order3.OwnerID = ownerB
	order3.PlacedAt = now

	ids := suite.insertOrders(order1, order2, order3)
	order1.ID, order2.ID, order3.ID = ids[0], ids[1], ids[2]

	tests := []struct {
		name      string
		filter    domain.OrderFilter
		expected  []domain.Order
		wantError string
	}{
		{
			name:      "empty filter: fail",
			wantError: "filter.Validate: all fields are empty",
		},
		{
			name:     "by owner, newest first: ok",
			filter:   domain.OrderFilter{OwnerIDs: []string{ownerA}},
			expected: []domain.Order{order2, order1},
		},
		{
			name:     "by ids: ok",
			filter:   domain.OrderFilter{IDs: []uuid.UUID{order1.ID, order3.ID}},
			expected: []domain.Order{order3, order1},
		},
		{
			name: "by placed after: ok",
			filter: domain.OrderFilter{PlacedAt: &domain.TimeRange{
				After: lo.ToPtr(now.Add(-90 * time.Minute)),
			}},
			expected: []domain.Order{order3, order2},
		},
		{
			name: "by owner and placed before: ok",
			filter: domain.OrderFilter{
				OwnerIDs: []string{ownerA},
				PlacedAt: &domain.TimeRange{Before: lo.ToPtr(now.Add(-90 * time.Minute))},
			},
			expected: []domain.Order{order1},
		},
		{
			name:   "unknown owner: ok",
			filter: domain.OrderFilter{OwnerIDs: []string{gofakeit.UUID()}},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			actual, err := suite.repo.SearchOrders(t.Context(), tt.filter)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			expected := lo.Map(tt.expected, func(o domain.Order, _ int) domain.Order {
				o.Total, err = domain.Total(o.Lines)
				require.NoError(t, err)
				return o
			})

			require.Len(t, actual, len(expected))
			for i := range expected {
				assertOrder(t, expected[i], actual[i])
			}
		})
	}
}

func (suite *orderRepositorySuite) insertOrders(orders ...domain.Order) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(orders))

	for _, order := range orders {
		id, err := suite.repo.InsertOrder(suite.T().Context(), order)
		suite.Require().NoError(err)
		ids = append(ids, id)
	}

	return ids
}

func (suite *orderRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE orders, order_items CASCADE")
	suite.NoError(err)
}

func randomOrder() domain.Order {
	unit := randomCurrency() // it has to be the same for all lines

	var lines []domain.CartLine
	for range gofakeit.Number(1, 5) {
		line := randomLine()
		line.UnitPrice.Currency = unit
		lines = append(lines, line)
	}

	return domain.Order{
		OwnerID: gofakeit.UUID(),
		Lines:   lines,
		Shipping: domain.ShippingInfo{
			FullName: gofakeit.Name(),
			Address:  gofakeit.Address().Address,
			Phone:    gofakeit.Phone(),
		},
		PlacedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func randomLine() domain.CartLine {
	return domain.CartLine{
		ProductID: gofakeit.UUID(),
		Name:      gofakeit.ProductName(),
		UnitPrice: domain.NewMoney(int64(gofakeit.Number(1, 100_000)), randomCurrency()),
		Image:     gofakeit.URL(),
		Quantity:  gofakeit.Number(1, 5),
	}
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.CartLine{}, "CreatedAt"),
		cmpopts.IgnoreFields(domain.Order{}, "CreatedAt", "ID"),
		cmpopts.EquateApproxTime(time.Millisecond),
		currencyComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
	assert.NotEqual(t, uuid.Nil, actual.ID)
	if expected.ID != uuid.Nil {
		assert.Equal(t, expected.ID, actual.ID)
	}
}
