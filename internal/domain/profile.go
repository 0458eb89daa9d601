package domain

import (
	"strings"
	"time"
)

// Profile holds the contact details a user keeps for checkout.
type Profile struct {
	OwnerID string
	Name    string
	Phone   string
	Address string
	Email   string

	UpdatedAt time.Time
}

// Trimmed returns the profile with surrounding whitespace removed from every field.
func (p Profile) Trimmed() Profile {
	p.OwnerID = strings.TrimSpace(p.OwnerID)
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
	p.Email = strings.TrimSpace(p.Email)
	return p
}

func (p Profile) Shipping() ShippingInfo {
	return ShippingInfo{
		FullName: p.Name,
		Address:  p.Address,
		Phone:    p.Phone,
	}
}

// Merge fills the empty fields of s from fallback.
func (s ShippingInfo) Merge(fallback ShippingInfo) ShippingInfo {
	if strings.TrimSpace(s.FullName) == "" {
		s.FullName = fallback.FullName
	}
	if strings.TrimSpace(s.Address) == "" {
		s.Address = fallback.Address
	}
	if strings.TrimSpace(s.Phone) == "" {
		s.Phone = fallback.Phone
	}
	return s
}
