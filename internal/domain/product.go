package domain

import (
	"errors"
	"strings"
	"time"
)

type Product struct {
	ID          string
	Name        string
	Description string
	Price       Money
	Image       string
	Category    string
	Type        string

	CreatedAt time.Time
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("product id is empty")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is empty")
	}
	if p.Price.IsNegative() {
		return errors.New("product price is negative")
	}

	return nil
}

// ProductFilter has AND semantics, empty fields match everything
type ProductFilter struct {
	Category string
	Type     string
}
