package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type MoneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoneyDTO(m domain.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   m.Decimal().String(),
		Currency: m.Currency.String(),
	}
}

type ProductDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       MoneyDTO `json:"price"`
	Image       string   `json:"image,omitempty"`
	Category    string   `json:"category,omitempty"`
	Type        string   `json:"type,omitempty"`
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       toMoneyDTO(p.Price),
		Image:       p.Image,
		Category:    p.Category,
		Type:        p.Type,
	}
}

type LineDTO struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	UnitPrice MoneyDTO `json:"unitPrice"`
	Image     string   `json:"image,omitempty"`
	Quantity  int      `json:"quantity"`
	Subtotal  MoneyDTO `json:"subtotal"`
}

func toLineDTOs(lines []domain.CartLine) []LineDTO {
	return lo.Map(lines, func(l domain.CartLine, _ int) LineDTO {
		return LineDTO{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: toMoneyDTO(l.UnitPrice),
			Image:     l.Image,
			Quantity:  l.Quantity,
			Subtotal:  toSubtotalDTO(l),
		}
	})
}

// toSubtotalDTO multiplies in decimal, the rendered amount cannot overflow.
func toSubtotalDTO(l domain.CartLine) MoneyDTO {
	return MoneyDTO{
		Amount:   l.UnitPrice.Decimal().Mul(decimal.NewFromInt(int64(l.Quantity))).String(),
		Currency: l.UnitPrice.Currency.String(),
	}
}

type CartDTO struct {
	Lines []LineDTO `json:"lines"`
	Total MoneyDTO  `json:"total"`
}

type OrderDTO struct {
	ID       uuid.UUID `json:"id"`
	Lines    []LineDTO `json:"lines"`
	Total    MoneyDTO  `json:"total"`
	FullName string    `json:"fullName"`
	Address  string    `json:"address"`
	Phone    string    `json:"phone"`
	PlacedAt time.Time `json:"placedAt"`
}

func toOrderDTO(o domain.Order) OrderDTO {
	return OrderDTO{
		ID:       o.ID,
		Lines:    toLineDTOs(o.Lines),
		Total:    toMoneyDTO(o.Total),
		FullName: o.Shipping.FullName,
		Address:  o.Shipping.Address,
		Phone:    o.Shipping.Phone,
		PlacedAt: o.PlacedAt,
	}
}
