package models

import (
	"errors"
	"time"
)

// Buyer represents a downstream case buyer: the firm that purchases
// signed cases generated by campaigns.  PricePerCase is informational;
// revenue is always taken from the stat records, not recomputed from
// this rate.
type Buyer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	PricePerCase float64   `json:"price_per_case,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks that required fields are present.  Only ID and Name
// are mandatory.
func (b *Buyer) Validate() error {
	if b == nil {
		return errors.New("buyer is nil")
	}
	if b.ID == "" {
		return errors.New("id is required")
	}
	if b.Name == "" {
		return errors.New("name is required")
	}
	if b.PricePerCase < 0 {
		return errors.New("price_per_case must not be negative")
	}
	return nil
}
