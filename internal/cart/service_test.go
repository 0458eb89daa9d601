package cart_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"golang.org/x/text/currency"
)

type cartServiceSuite struct {
	suite.Suite

	products *memory.Products
	carts    *memory.Carts
	service  *cart.Service
	ownerID  string
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(cartServiceSuite))
}

func (suite *cartServiceSuite) SetupTest() {
	suite.products = memory.NewProducts(
		domain.Product{ID: "p1", Name: gofakeit.ProductName(), Price: domain.NewMoney(5000, currency.INR)},
		domain.Product{ID: "p2", Name: gofakeit.ProductName(), Price: domain.NewMoney(1500, currency.INR)},
	)
	suite.carts = memory.NewCarts()
	suite.ownerID = gofakeit.UUID()

	var err error
	suite.service, err = cart.NewService(suite.products, suite.carts, slog.New(slog.NewTextHandler(io.Discard, nil)))
	suite.Require().NoError(err)
}

func (suite *cartServiceSuite) TearDownSuite() {
	goleak.VerifyNone(suite.T())
}

func (suite *cartServiceSuite) TestAdd() {
	ctx := suite.T().Context()

	line, err := suite.service.Add(ctx, suite.ownerID, "p1")
	suite.Require().NoError(err)
	suite.Equal(1, line.Quantity)
	suite.Equal(int64(5000), line.UnitPrice.Amount)

	_, err = suite.service.Add(ctx, suite.ownerID, "p1")
	suite.Require().ErrorIs(err, cart.ErrAlreadyInCart)

	_, err = suite.service.Add(ctx, suite.ownerID, "nope")
	suite.Require().ErrorIs(err, cart.ErrProductNotFound)

	view, err := suite.service.Get(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Len(view.Lines, 1)
}

func (suite *cartServiceSuite) TestChangeQuantity() {
	ctx := suite.T().Context()

	_, err := suite.service.Add(ctx, suite.ownerID, "p1")
	suite.Require().NoError(err)

	tests := []struct {
		name  string
		delta int
		want  int
	}{
		{name: "increment", delta: 1, want: 2},
		{name: "increment by three", delta: 3, want: 5},
		{name: "decrement", delta: -1, want: 4},
		{name: "clamped at one", delta: -10, want: 1},
		{name: "stays at one", delta: -1, want: 1},
		{name: "clamped at max", delta: math.MaxInt, want: domain.MaxQuantity},
		{name: "clamped at one from max", delta: math.MinInt, want: 1},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			got, err := suite.service.ChangeQuantity(ctx, suite.ownerID, "p1", tt.delta)
			suite.Require().NoError(err)
			suite.Equal(tt.want, got)
		})
	}

	_, err = suite.service.ChangeQuantity(ctx, suite.ownerID, "p2", 1)
	suite.Require().ErrorIs(err, cart.ErrLineNotFound)
}

func (suite *cartServiceSuite) TestGetTotal() {
	ctx := suite.T().Context()

	view, err := suite.service.Get(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Empty(view.Lines)
	suite.Equal(domain.NewMoney(0, currency.INR), view.Total)

	_, err = suite.service.Add(ctx, suite.ownerID, "p1")
	suite.Require().NoError(err)
	_, err = suite.service.Add(ctx, suite.ownerID, "p2")
	suite.Require().NoError(err)
	_, err = suite.service.ChangeQuantity(ctx, suite.ownerID, "p1", 1)
	suite.Require().NoError(err)

	view, err = suite.service.Get(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(int64(11500), view.Total.Amount)
}

func (suite *cartServiceSuite) TestRemoveAndClear() {
	ctx := suite.T().Context()

	_, err := suite.service.Add(ctx, suite.ownerID, "p1")
	suite.Require().NoError(err)
	_, err = suite.service.Add(ctx, suite.ownerID, "p2")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Remove(ctx, suite.ownerID, "p1"))
	suite.Require().ErrorIs(suite.service.Remove(ctx, suite.ownerID, "p1"), cart.ErrLineNotFound)

	suite.Require().NoError(suite.service.Clear(ctx, suite.ownerID))

	view, err := suite.service.Get(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Empty(view.Lines)
}

type failingCarts struct {
	port.CartRepository
	fail map[string]error
}

func (f failingCarts) DeleteItem(ctx context.Context, ownerID, productID string) (bool, error) {
	if err, ok := f.fail[productID]; ok {
		return false, err
	}
	return f.CartRepository.DeleteItem(ctx, ownerID, productID)
}

func TestClear_JoinsErrors(t *testing.T) {
	ctx := t.Context()
	ownerID := gofakeit.UUID()

	carts := memory.NewCarts()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, carts.AddItem(ctx, ownerID, domain.CartLine{
			ProductID: id,
			UnitPrice: domain.NewMoney(1, currency.INR),
			Quantity:  1,
		}))
	}

	errA, errC := errors.New("boom a"), errors.New("boom c")
	service, err := cart.NewService(memory.NewProducts(), failingCarts{
		CartRepository: carts,
		fail:           map[string]error{"a": errA, "c": errC},
	}, nil)
	require.NoError(t, err)

	err = service.Clear(ctx, ownerID)
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errC)

	remaining, err := carts.GetCart(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, remaining.Lines, 2)
}
