package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrAmountOverflow   = errors.New("amount overflows int64")
)

// Money is an amount in whole units of its currency.
type Money struct {
	Amount   int64
	Currency currency.Unit
}

func NewMoney(amount int64, unit currency.Unit) Money {
	return Money{Amount: amount, Currency: unit}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%s and %s: %w", m.Currency, other.Currency, ErrCurrencyMismatch)
	}

	a, b := m.Amount, other.Amount
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return Money{}, fmt.Errorf("%d + %d: %w", a, b, ErrAmountOverflow)
	}

	return Money{Amount: a + b, Currency: m.Currency}, nil
}

func (m Money) Times(n int) (Money, error) {
	if m.Amount == 0 || n == 0 {
		return Money{Currency: m.Currency}, nil
	}

	product := m.Amount * int64(n)
	if product/int64(n) != m.Amount || (m.Amount == math.MinInt64 && n == -1) {
		return Money{}, fmt.Errorf("%d * %d: %w", m.Amount, n, ErrAmountOverflow)
	}

	return Money{Amount: product, Currency: m.Currency}, nil
}

func (m Money) IsNegative() bool {
	return m.Amount < 0
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Decimal().String())
}
