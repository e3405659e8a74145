// Package pricing reúne las reglas de precios del local: márgenes, descuentos
// autorizados por rol, actualización masiva por porcentaje y precio final de catálogo.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/pkg/textnorm"
)

var hundred = decimal.NewFromInt(100)

// Round2 redondea a dos decimales (mitad alejándose de cero).
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Margin = (precio - costo) / costo * 100. Cero si no hay costo cargado.
func Margin(price, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return Round2(price.Sub(cost).Div(cost).Mul(hundred))
}

// IsBelowCost indica precio cargado por debajo del costo.
func IsBelowCost(price, cost decimal.Decimal) bool {
	return price.IsPositive() && cost.IsPositive() && price.LessThan(cost)
}

// DiscountPercent porcentaje de descuento entre el precio de lista y el final.
func DiscountPercent(list, final decimal.Decimal) decimal.Decimal {
	if !list.IsPositive() {
		return decimal.Zero
	}
	return Round2(list.Sub(final).Div(list).Mul(hundred))
}

// PriceWithDiscount aplica pct% de descuento y redondea.
func PriceWithDiscount(price, pct decimal.Decimal) decimal.Decimal {
	return Round2(price.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred))))
}

// IsSellable activo y con al menos un precio mayor a cero.
func IsSellable(p *entity.Product) bool {
	return p.IsActive() && (p.RetailPrice.IsPositive() || p.WholesalePrice.IsPositive())
}

// ListPrice precio de lista según el tipo de precio de la línea.
func ListPrice(p *entity.Product, priceType string) decimal.Decimal {
	if priceType == entity.PriceTypeWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// DefaultPriceType mayorista cobra precio mayor; el resto, precio menor.
func DefaultPriceType(saleType string) string {
	if saleType == entity.SaleTypeWholesale {
		return entity.PriceTypeWholesale
	}
	return entity.PriceTypeRetail
}

const categoryPets = "MASCOTAS"

var bulkCategories = map[string]struct{}{
	"SUELTOS":           {},
	"QUIMICA":           {},
	"SUELTOS - QUIMICA": {},
	"SUELTOS/QUIMICA":   {},
}

// PricePerKg precio minorista por kilo para alimento de mascotas con peso cargado.
func PricePerKg(p *entity.Product) *decimal.Decimal {
	if textnorm.Fold(p.Category) != categoryPets || p.NetWeightKg == nil || !p.NetWeightKg.IsPositive() {
		return nil
	}
	v := Round2(p.RetailPrice.Div(*p.NetWeightKg))
	return &v
}

// PricePerLiter precio minorista por litro para sueltos y química con volumen cargado.
func PricePerLiter(p *entity.Product) *decimal.Decimal {
	if _, ok := bulkCategories[textnorm.Fold(p.Category)]; !ok {
		return nil
	}
	if p.NetVolumeL == nil || !p.NetVolumeL.IsPositive() {
		return nil
	}
	v := Round2(p.RetailPrice.Div(*p.NetVolumeL))
	return &v
}

// DiscountLimit máximo porcentaje de descuento que puede otorgar cada rol.
func DiscountLimit(role string) decimal.Decimal {
	switch role {
	case entity.RoleGerente:
		return decimal.NewFromInt(100)
	case entity.RoleAdmin:
		return decimal.NewFromInt(30)
	case entity.RoleSupervisor:
		return decimal.NewFromInt(20)
	default:
		return decimal.NewFromInt(10)
	}
}

// RequiresAuthorization el descuento supera el límite del rol.
func RequiresAuthorization(role string, pct decimal.Decimal) bool {
	return pct.GreaterThan(DiscountLimit(role))
}

// Destino de la actualización masiva.
const (
	ApplyRetail    = "menor"
	ApplyWholesale = "mayor"
	ApplyBoth      = "ambos"
)

// ValidApplyTo valida el destino de la actualización masiva.
func ValidApplyTo(s string) bool {
	return s == ApplyRetail || s == ApplyWholesale || s == ApplyBoth
}

// ApplyPercentage ajusta un precio por pct% (negativo para bajar).
func ApplyPercentage(price, pct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(pct.Div(hundred))
	return Round2(price.Mul(factor))
}

// CatalogFinalPrice precio mostrado al cliente en un catálogo compartido.
// El precio personalizado tiene prioridad; si no, se descuenta global + individual
// sobre el precio mayorista.
func CatalogFinalPrice(wholesale, globalDiscount decimal.Decimal, item entity.CatalogItem) decimal.Decimal {
	if item.CustomPrice != nil {
		return Round2(*item.CustomPrice)
	}
	v := PriceWithDiscount(wholesale, globalDiscount.Add(item.IndividualDiscount))
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
