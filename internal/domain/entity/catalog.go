package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del catálogo compartido.
const (
	CatalogStatusActive  = "activo"
	CatalogStatusExpired = "expirado"
	CatalogStatusDeleted = "eliminado"
)

// DefaultCatalogTitle título usado cuando no se indica uno.
const DefaultCatalogTitle = "Catálogo de Precios"

// VisibleFields columnas que ve el cliente en el catálogo.
type VisibleFields struct {
	Photo       bool `json:"foto"`
	Name        bool `json:"nombre"`
	Price       bool `json:"precio"`
	Code        bool `json:"codigo"`
	Description bool `json:"descripcion"`
	Unit        bool `json:"unidad"`
}

// DefaultVisibleFields foto, nombre, precio y unidad visibles.
func DefaultVisibleFields() VisibleFields {
	return VisibleFields{Photo: true, Name: true, Price: true, Unit: true}
}

// CatalogItem producto incluido en el catálogo con sus condiciones particulares.
type CatalogItem struct {
	ProductID          string           `json:"producto_id"`
	IndividualDiscount decimal.Decimal  `json:"descuento_individual"`
	CustomPrice        *decimal.Decimal `json:"precio_personalizado,omitempty"`
}

// Catalog lista de precios compartible con un cliente, con vencimiento.
type Catalog struct {
	ID             string
	CustomerName   string
	Title          string
	PublicToken    string
	ExpiresAt      time.Time
	GlobalDiscount decimal.Decimal
	VisibleFields  VisibleFields
	Items          []CatalogItem
	Status         string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectiveStatus reporta expirado cuando pasó la fecha aunque la fila diga activo.
func (c *Catalog) EffectiveStatus(now time.Time) string {
	if c.Status == CatalogStatusActive && !now.Before(c.ExpiresAt) {
		return CatalogStatusExpired
	}
	return c.Status
}

// IsPubliclyVisible indica si el enlace público sigue vigente.
func (c *Catalog) IsPubliclyVisible(now time.Time) bool {
	return c.EffectiveStatus(now) == CatalogStatusActive
}
