package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID       uuid.UUID
	OwnerID  string
	Lines    []CartLine
	Total    Money
	Shipping ShippingInfo
	PlacedAt time.Time

	CreatedAt time.Time
}

// NewOrder snapshots lines and computes the total from the snapshot.
func NewOrder(ownerID string, lines []CartLine, shipping ShippingInfo, placedAt time.Time) (Order, error) {
	if ownerID == "" {
		return Order{}, errors.New("ownerID is empty")
	}

	snapshot := CloneLines(lines)

	total, err := Total(snapshot)
	if err != nil {
		return Order{}, fmt.Errorf("Total: %w", err)
	}

	return Order{
		OwnerID:  ownerID,
		Lines:    snapshot,
		Total:    total,
		Shipping: shipping,
		PlacedAt: placedAt,
	}, nil
}

type ShippingInfo struct {
	FullName string
	Address  string
	Phone    string
}

// MissingFields lists the names of empty fields, whitespace counts as empty.
func (s ShippingInfo) MissingFields() []string {
	var missing []string

	if strings.TrimSpace(s.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(s.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(s.Phone) == "" {
		missing = append(missing, "phone")
	}

	return missing
}
