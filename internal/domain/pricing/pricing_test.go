package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "want %s, got %s", want, got)
}

func TestMargin(t *testing.T) {
	assertDec(t, "50", pricing.Margin(d("150"), d("100")))
	assertDec(t, "-20", pricing.Margin(d("80"), d("100")))
	assertDec(t, "33.33", pricing.Margin(d("4"), d("3")))
	assertDec(t, "0", pricing.Margin(d("100"), d("0")))
}

func TestIsBelowCost(t *testing.T) {
	assert.True(t, pricing.IsBelowCost(d("90"), d("100")))
	assert.False(t, pricing.IsBelowCost(d("0"), d("100")), "sin precio no cuenta como bajo costo")
	assert.False(t, pricing.IsBelowCost(d("90"), d("0")))
}

func TestDiscountPercentYPriceWithDiscount(t *testing.T) {
	assertDec(t, "15", pricing.DiscountPercent(d("200"), d("170")))
	assertDec(t, "0", pricing.DiscountPercent(d("0"), d("10")))
	assertDec(t, "850.5", pricing.PriceWithDiscount(d("945"), d("10")))
	assertDec(t, "0.67", pricing.PriceWithDiscount(d("1"), d("33.333")))
}

func TestDiscountLimit_PorRol(t *testing.T) {
	assertDec(t, "100", pricing.DiscountLimit(entity.RoleGerente))
	assertDec(t, "30", pricing.DiscountLimit(entity.RoleAdmin))
	assertDec(t, "20", pricing.DiscountLimit(entity.RoleSupervisor))
	assertDec(t, "10", pricing.DiscountLimit(entity.RoleVendedor))
	assertDec(t, "10", pricing.DiscountLimit("desconocido"))

	assert.False(t, pricing.RequiresAuthorization(entity.RoleVendedor, d("10")))
	assert.True(t, pricing.RequiresAuthorization(entity.RoleVendedor, d("10.01")))
	assert.False(t, pricing.RequiresAuthorization(entity.RoleGerente, d("100")))
}

func TestApplyPercentage(t *testing.T) {
	assertDec(t, "1100", pricing.ApplyPercentage(d("1000"), d("10")))
	assertDec(t, "900", pricing.ApplyPercentage(d("1000"), d("-10")))
	assertDec(t, "123.46", pricing.ApplyPercentage(d("112.235"), d("10")))
}

func TestIsSellable(t *testing.T) {
	p := &entity.Product{Status: entity.ProductStatusActive, RetailPrice: d("10")}
	assert.True(t, pricing.IsSellable(p))

	p.RetailPrice = decimal.Zero
	assert.False(t, pricing.IsSellable(p))

	p.WholesalePrice = d("8")
	assert.True(t, pricing.IsSellable(p))

	p.Status = entity.ProductStatusInactive
	assert.False(t, pricing.IsSellable(p))
}

func TestPricePerKg_SoloMascotas(t *testing.T) {
	kg := d("15")
	p := &entity.Product{Category: "Mascotas", RetailPrice: d("30000"), NetWeightKg: &kg}
	v := pricing.PricePerKg(p)
	require.NotNil(t, v)
	assertDec(t, "2000", *v)

	p.Category = "ALMACEN"
	assert.Nil(t, pricing.PricePerKg(p))
}

func TestPricePerLiter_CategoriasSueltos(t *testing.T) {
	l := d("5")
	for _, cat := range []string{"SUELTOS", "Química", "sueltos - quimica", "SUELTOS/QUIMICA"} {
		p := &entity.Product{Category: cat, RetailPrice: d("1000"), NetVolumeL: &l}
		v := pricing.PricePerLiter(p)
		require.NotNil(t, v, "categoría %s", cat)
		assertDec(t, "200", *v)
	}
	zero := decimal.Zero
	p := &entity.Product{Category: "SUELTOS", RetailPrice: d("1000"), NetVolumeL: &zero}
	assert.Nil(t, pricing.PricePerLiter(p))
}

func TestCatalogFinalPrice(t *testing.T) {
	item := entity.CatalogItem{ProductID: "A1", IndividualDiscount: d("5")}
	assertDec(t, "850", pricing.CatalogFinalPrice(d("1000"), d("10"), item))

	custom := d("777.777")
	item.CustomPrice = &custom
	assertDec(t, "777.78", pricing.CatalogFinalPrice(d("1000"), d("10"), item))

	over := entity.CatalogItem{ProductID: "A1", IndividualDiscount: d("80")}
	assertDec(t, "0", pricing.CatalogFinalPrice(d("1000"), d("30"), over))
}
