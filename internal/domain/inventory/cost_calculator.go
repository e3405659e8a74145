package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Un stock negativo (venta sin stock) se toma como cero para no distorsionar el promedio.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.IsNegative() {
		stockActual = decimal.Zero
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoEntrada.Round(4)
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(4)
}

// NextCost costo del producto luego de recibir mercadería según el método configurado.
func NextCost(method string, stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if method == entity.CostingLastCost {
		return costoEntrada
	}
	return CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada)
}

// ValidCostingMethod valida el método de costeo configurado.
func ValidCostingMethod(m string) bool {
	return m == entity.CostingWeightedAverage || m == entity.CostingLastCost
}
