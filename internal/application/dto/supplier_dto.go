package dto

import "time"

// CreateSupplierRequest alta de proveedor.
type CreateSupplierRequest struct {
	Name         string `json:"name"`
	TaxID        string `json:"tax_id"`
	Contact      string `json:"contact"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	PaymentTerms string `json:"payment_terms"`
	Notes        string `json:"notes"`
}

// UpdateSupplierRequest actualización parcial.
type UpdateSupplierRequest struct {
	Name         *string `json:"name"`
	TaxID        *string `json:"tax_id"`
	Contact      *string `json:"contact"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	PaymentTerms *string `json:"payment_terms"`
	Notes        *string `json:"notes"`
	Active       *bool   `json:"active"`
}

// SupplierResponse salida de proveedor.
type SupplierResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"tax_id"`
	Contact      string    `json:"contact"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	PaymentTerms string    `json:"payment_terms"`
	Notes        string    `json:"notes"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SupplierListQuery filtros del listado.
type SupplierListQuery struct {
	Query  string
	Active *bool
	PageRequest
}

// SupplierListResponse lista paginada.
type SupplierListResponse struct {
	PageResponse
	Items []SupplierResponse `json:"items"`
}
