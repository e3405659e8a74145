package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// Niveles de alerta de stock.
const (
	AlertCritical = "critico"
	AlertWarning  = "precaucion"
)

var two = decimal.NewFromInt(2)

// AlertLevel nivel de alerta para un producto o "" si no corresponde alertar.
// Crítico: sin stock o por debajo de la mitad del mínimo.
func AlertLevel(p *entity.Product) string {
	if !p.StockMin.IsPositive() || p.Stock.GreaterThan(p.StockMin) {
		return ""
	}
	if !p.Stock.IsPositive() || p.Stock.LessThanOrEqual(p.StockMin.Div(two)) {
		return AlertCritical
	}
	return AlertWarning
}

// ApplyDelta suma delta al stock del producto y valida que no quede negativo
// salvo que el producto lo permita. Devuelve stock previo y resultante.
func ApplyDelta(p *entity.Product, delta decimal.Decimal) (prev, next decimal.Decimal, err error) {
	prev = p.Stock
	next = prev.Add(delta)
	if next.IsNegative() && delta.IsNegative() && !p.AllowNegativeStock {
		return prev, prev, &domain.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   prev.String(),
			Requested:   delta.Neg().String(),
		}
	}
	p.Stock = next
	return prev, next, nil
}

// ReorderQuantity cantidad sugerida para reponer hasta el máximo (o el doble del mínimo).
// Devuelve cero si el producto no está en punto de pedido.
func ReorderQuantity(p *entity.Product) decimal.Decimal {
	threshold := p.StockMin
	if p.ReorderPoint != nil && p.ReorderPoint.IsPositive() {
		threshold = *p.ReorderPoint
	}
	if !threshold.IsPositive() || p.Stock.GreaterThan(threshold) {
		return decimal.Zero
	}
	target := p.StockMin.Mul(two)
	if p.StockMax != nil && p.StockMax.IsPositive() {
		target = *p.StockMax
	}
	q := target.Sub(p.Stock)
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}

// NewMovement arma el movimiento de stock con costo total calculado.
func NewMovement(p *entity.Product, movType string, qty, prev, next, unitCost decimal.Decimal) *entity.StockMovement {
	return &entity.StockMovement{
		ProductID:      p.ID,
		Type:           movType,
		Quantity:       qty,
		PreviousStock:  prev,
		ResultingStock: next,
		UnitCost:       unitCost,
		TotalCost:      qty.Mul(unitCost).Round(2),
	}
}
