package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 u a $100 + 30 u a $200 = (1000 + 6000) / 40 = 175
	got := inventory.CostCalculator(d("10"), d("100"), d("30"), d("200"))
	assert.True(t, got.Equal(d("175")), "got %s", got)
}

func TestCostCalculator_StockNegativoSeTomaComoCero(t *testing.T) {
	got := inventory.CostCalculator(d("-5"), d("100"), d("10"), d("150"))
	assert.True(t, got.Equal(d("150")), "got %s", got)
}

func TestNextCost_UltimoCosto(t *testing.T) {
	got := inventory.NextCost(entity.CostingLastCost, d("10"), d("100"), d("30"), d("200"))
	assert.True(t, got.Equal(d("200")))
}

func TestAlertLevel(t *testing.T) {
	p := &entity.Product{StockMin: d("10"), Stock: d("8")}
	assert.Equal(t, inventory.AlertWarning, inventory.AlertLevel(p))

	p.Stock = d("5")
	assert.Equal(t, inventory.AlertCritical, inventory.AlertLevel(p))

	p.Stock = d("0")
	assert.Equal(t, inventory.AlertCritical, inventory.AlertLevel(p))

	p.Stock = d("11")
	assert.Equal(t, "", inventory.AlertLevel(p))

	p.StockMin = decimal.Zero
	p.Stock = d("-3")
	assert.Equal(t, "", inventory.AlertLevel(p), "sin mínimo configurado no hay alerta")
}

func TestApplyDelta_SinStockNegativo(t *testing.T) {
	p := &entity.Product{ID: "A1", Name: "Yerba", Stock: d("2")}
	_, _, err := inventory.ApplyDelta(p, d("-3"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.True(t, p.Stock.Equal(d("2")), "el stock no cambia si falla")

	p.AllowNegativeStock = true
	prev, next, err := inventory.ApplyDelta(p, d("-3"))
	require.NoError(t, err)
	assert.True(t, prev.Equal(d("2")))
	assert.True(t, next.Equal(d("-1")))
}

func TestReorderQuantity(t *testing.T) {
	maxStock := d("50")
	p := &entity.Product{StockMin: d("10"), Stock: d("4"), StockMax: &maxStock}
	assert.True(t, inventory.ReorderQuantity(p).Equal(d("46")))

	p.StockMax = nil
	assert.True(t, inventory.ReorderQuantity(p).Equal(d("16")))

	p.Stock = d("12")
	assert.True(t, inventory.ReorderQuantity(p).IsZero())
}
