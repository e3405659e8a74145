package entity

import "time"

// Supplier proveedor de mercadería.
type Supplier struct {
	ID           string
	Name         string
	TaxID        string // CUIT
	Contact      string
	Phone        string
	Email        string
	Address      string
	PaymentTerms string
	Notes        string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
