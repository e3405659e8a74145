package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea del ticket. UnitPrice solo aplica con price_type "custom".
type SaleItemRequest struct {
	ProductID   string           `json:"product_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	PriceType   string           `json:"price_type"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal  `json:"discount_pct"`
}

// CreateSaleRequest ticket del punto de venta.
type CreateSaleRequest struct {
	CustomerName         string            `json:"customer_name"`
	SaleType             string            `json:"sale_type"`
	PaymentMethod        string            `json:"payment_method"`
	GlobalDiscountPct    decimal.Decimal   `json:"global_discount_pct"`
	GlobalDiscountReason string            `json:"global_discount_reason"`
	Notes                string            `json:"notes"`
	Items                []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea del ticket.
type SaleItemResponse struct {
	ProductID       string          `json:"product_id"`
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	PriceType       string          `json:"price_type"`
	ListPrice       decimal.Decimal `json:"list_price"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineDiscountPct decimal.Decimal `json:"line_discount_pct"`
	LineDiscount    decimal.Decimal `json:"line_discount"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// SaleResponse ticket completo.
type SaleResponse struct {
	ID                   string             `json:"id"`
	Number               int64              `json:"number"`
	CustomerName         string             `json:"customer_name"`
	SaleType             string             `json:"sale_type"`
	PaymentMethod        string             `json:"payment_method"`
	Subtotal             decimal.Decimal    `json:"subtotal"`
	GlobalDiscountPct    decimal.Decimal    `json:"global_discount_pct"`
	GlobalDiscount       decimal.Decimal    `json:"global_discount"`
	GlobalDiscountReason string             `json:"global_discount_reason,omitempty"`
	Total                decimal.Decimal    `json:"total"`
	Notes                string             `json:"notes,omitempty"`
	CreatedBy            string             `json:"created_by"`
	CreatedAt            time.Time          `json:"created_at"`
	Items                []SaleItemResponse `json:"items,omitempty"`
	ItemCount            int                `json:"item_count"`
}

// SaleListQuery filtros del listado de tickets.
type SaleListQuery struct {
	SaleType string
	Query    string
	From     *time.Time
	To       *time.Time
	PageRequest
}

// SaleListResponse lista paginada de tickets.
type SaleListResponse struct {
	PageResponse
	Items []SaleResponse `json:"items"`
}

// SaleStatsResponse totales de ventas del período.
type SaleStatsResponse struct {
	TotalSales      int             `json:"total_sales"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	WholesaleCount  int             `json:"wholesale_count"`
	WholesaleAmount decimal.Decimal `json:"wholesale_amount"`
	RetailCount     int             `json:"retail_count"`
	RetailAmount    decimal.Decimal `json:"retail_amount"`
}
