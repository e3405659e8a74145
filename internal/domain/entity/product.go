package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un producto.
const (
	ProductStatusActive   = "activo"
	ProductStatusInactive = "inactivo"
	ProductStatusDeleted  = "eliminado"
)

// Origen de la imagen del producto.
const (
	ImageSourceOpenFoodFacts = "openfoodfacts"
	ImageSourceGoogle        = "google"
	ImageSourceManual        = "manual"
	ImageSourceNotFound      = "not_found"
)

// Product representa un artículo de la lista de precios del local.
// ID es el código interno (el mismo que figura en la planilla de precios).
type Product struct {
	ID              string
	Name            string
	Category        string
	Unit            string
	Barcode         string
	Description     string
	Cost            decimal.Decimal
	WholesalePrice  decimal.Decimal // precio mayorista
	RetailPrice     decimal.Decimal // precio minorista
	NetWeightKg     *decimal.Decimal
	NetVolumeL      *decimal.Decimal
	AllowFractional bool // se vende por peso o volumen

	Status         string
	DeletionReason string

	ImageURL       string
	ImageSource    string
	ImageFetchedAt *time.Time

	Stock              decimal.Decimal
	StockMin           decimal.Decimal
	StockMax           *decimal.Decimal
	ReorderPoint       *decimal.Decimal
	AllowNegativeStock bool
	Location           string
	DefaultSupplierID  string

	LastPriceUpdate *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsDeleted indica baja lógica.
func (p *Product) IsDeleted() bool { return p.Status == ProductStatusDeleted }

// IsActive indica si el producto está disponible para la venta.
func (p *Product) IsActive() bool { return p.Status == ProductStatusActive }

// ValidProductStatus valida el estado recibido.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDeleted:
		return true
	}
	return false
}
