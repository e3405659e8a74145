package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de la compra. ReceivedQuantity nil significa recibido completo.
type PurchaseItemRequest struct {
	ProductID        string           `json:"product_id"`
	Quantity         decimal.Decimal  `json:"quantity"`
	ReceivedQuantity *decimal.Decimal `json:"received_quantity"`
	UnitCost         decimal.Decimal  `json:"unit_cost"`
	Lot              string           `json:"lot"`
	ExpiresOn        *Date            `json:"expires_on"`
}

// CreatePurchaseRequest registro de compra a proveedor.
type CreatePurchaseRequest struct {
	SupplierID    string                `json:"supplier_id"`
	Date          *Date                 `json:"date"`
	InvoiceNumber string                `json:"invoice_number"`
	DocumentType  string                `json:"document_type"`
	CAE           string                `json:"cae"`
	Tax           decimal.Decimal       `json:"tax"`
	Notes         string                `json:"notes"`
	Items         []PurchaseItemRequest `json:"items"`
}

// PurchaseItemResponse línea de la compra.
type PurchaseItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	Lot              string          `json:"lot,omitempty"`
	ExpiresOn        *time.Time      `json:"expires_on,omitempty"`
}

// PurchaseResponse compra con sus líneas.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	SupplierID    string                 `json:"supplier_id"`
	SupplierName  string                 `json:"supplier_name"`
	Date          time.Time              `json:"date"`
	InvoiceNumber string                 `json:"invoice_number"`
	DocumentType  string                 `json:"document_type"`
	CAE           string                 `json:"cae,omitempty"`
	Subtotal      decimal.Decimal        `json:"subtotal"`
	Tax           decimal.Decimal        `json:"tax"`
	Total         decimal.Decimal        `json:"total"`
	Status        string                 `json:"status"`
	Notes         string                 `json:"notes,omitempty"`
	UserID        string                 `json:"user_id"`
	CreatedAt     time.Time              `json:"created_at"`
	Items         []PurchaseItemResponse `json:"items,omitempty"`
}

// PurchaseListQuery filtros del listado de compras.
type PurchaseListQuery struct {
	SupplierID string
	Status     string
	From       *time.Time
	To         *time.Time
	PageRequest
}

// PurchaseListResponse lista paginada.
type PurchaseListResponse struct {
	PageResponse
	Items []PurchaseResponse `json:"items"`
}
