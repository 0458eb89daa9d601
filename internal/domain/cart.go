package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxQuantity is the largest quantity a line may hold, the stores keep it in 32 bits.
const MaxQuantity = math.MaxInt32

type Cart struct {
	OwnerID string
	Lines   []CartLine
}

// CartLine is keyed by product id within its owner's cart.
type CartLine struct {
	ProductID string
	Name      string
	UnitPrice Money
	Image     string
	Quantity  int

	CreatedAt time.Time
}

// NewCartLine captures the product's current name and price with quantity 1.
func NewCartLine(p Product) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Image:     p.Image,
		Quantity:  1,
	}
}

func (l CartLine) Subtotal() (Money, error) {
	return l.UnitPrice.Times(l.Quantity)
}

func (l CartLine) Validate() error {
	if l.ProductID == "" {
		return errors.New("productID is empty")
	}
	if l.Quantity < 1 {
		return fmt.Errorf("quantity[%d] is less than 1", l.Quantity)
	}
	if l.Quantity > MaxQuantity {
		return fmt.Errorf("quantity[%d] is greater than %d", l.Quantity, MaxQuantity)
	}
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price[%d] is negative", l.UnitPrice.Amount)
	}
	if _, err := l.Subtotal(); err != nil {
		return fmt.Errorf("subtotal: %w", err)
	}

	return nil
}

// Total sums unitPrice*quantity over lines using integer arithmetic.
func Total(lines []CartLine) (Money, error) {
	if len(lines) == 0 {
		return Money{}, errors.New("no lines")
	}

	total := Money{Currency: lines[0].UnitPrice.Currency}
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return Money{}, fmt.Errorf("line[%s]: %w", line.ProductID, err)
		}

		subtotal, err := line.Subtotal()
		if err != nil {
			return Money{}, fmt.Errorf("line[%s]: %w", line.ProductID, err)
		}

		total, err = total.Add(subtotal)
		if err != nil {
			return Money{}, fmt.Errorf("line[%s]: %w", line.ProductID, err)
		}
	}

	return total, nil
}

// CloneLines returns a deep copy, later writes to lines do not reach the copy.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}

	result := make([]CartLine, len(lines))
	copy(result, lines)
	return result
}
