package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics totales de un período: cantidad de tickets, facturación y costo de lo vendido.
type SalesMetrics struct {
	Count   int
	Revenue decimal.Decimal // Σ total de los tickets, ya con el descuento global
	Cost    decimal.Decimal // Σ cantidad * costo unitario al momento de la venta
	Margin  decimal.Decimal // Σ cantidad * (precio unitario - costo unitario) por línea
}

// TopProductResult producto más vendido del período.
type TopProductResult struct {
	ProductID   string
	ProductName string
	Units       decimal.Decimal
	Revenue     decimal.Decimal
	Cost        decimal.Decimal
}

// ValuationResult valorización del stock positivo.
type ValuationResult struct {
	AtCost      decimal.Decimal
	AtRetail    decimal.Decimal
	AtWholesale decimal.Decimal
	Units       decimal.Decimal
}

// CategoryResult desempeño por categoría.
type CategoryResult struct {
	Category    string
	Products    int
	TotalItems  decimal.Decimal // unidades en stock
	ValueAtCost decimal.Decimal
}

// ReportRepository consultas de lectura para reportes y dashboard.
// Las implementaciones son read-only (no modifican datos).
type ReportRepository interface {
	SalesMetrics(ctx context.Context, from, to time.Time) (*SalesMetrics, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResult, error)
	Valuation(ctx context.Context) (*ValuationResult, error)
	CategoryPerformance(ctx context.Context) ([]CategoryResult, error)
}
