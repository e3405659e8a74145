package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest ajuste por conteo físico: ActualQuantity es el stock contado.
type AdjustStockRequest struct {
	ProductID      string          `json:"product_id"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	Type           string          `json:"type"`
	Reason         string          `json:"reason"`
	Lot            string          `json:"lot"`
	ExpiresOn      *Date           `json:"expires_on"`
}

// InitialStockRequest carga de stock inicial de un producto sin movimientos.
type InitialStockRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
	Reason    string           `json:"reason"`
}

// MovementResponse movimiento de stock.
type MovementResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	PreviousStock  decimal.Decimal `json:"previous_stock"`
	ResultingStock decimal.Decimal `json:"resulting_stock"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	UserID         string          `json:"user_id"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	Lot            string          `json:"lot,omitempty"`
	ExpiresOn      *time.Time      `json:"expires_on,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovementListQuery filtros del listado de movimientos.
type MovementListQuery struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
	PageRequest
}

// MovementListResponse movimientos más recientes primero.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}

// StockAlertItem producto en o bajo su stock mínimo.
type StockAlertItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Stock     decimal.Decimal `json:"stock"`
	StockMin  decimal.Decimal `json:"stock_min"`
	Level     string          `json:"level"` // critico | precaucion
}

// StockAlertsResponse alertas con sus KPIs.
type StockAlertsResponse struct {
	Total    int              `json:"total"`
	Critical int              `json:"critical"`
	Warning  int              `json:"warning"`
	Items    []StockAlertItem `json:"items"`
}

// ReorderSuggestion cantidad sugerida para reponer.
type ReorderSuggestion struct {
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	Stock             decimal.Decimal `json:"stock"`
	StockMin          decimal.Decimal `json:"stock_min"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	SupplierName      string          `json:"supplier_name,omitempty"`
}
