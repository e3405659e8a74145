package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductFilter criterios de búsqueda del catálogo de productos.
// Limit <= 0 devuelve todos los resultados.
type ProductFilter struct {
	Query          string // nombre, código o código de barras (ILIKE)
	Category       string
	Statuses       []string // vacío: todos menos eliminado
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	WithoutBarcode bool
	WithoutImage   bool // nunca buscada: sin URL ni origen
	IDs            []string
	Limit          int
	Offset         int
}

// MovementFilter criterios para listar movimientos de stock.
type MovementFilter struct {
	ProductID string
	Type      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// SaleFilter criterios para listar tickets.
type SaleFilter struct {
	SaleType string
	Query    string // nombre del cliente
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// PurchaseFilter criterios para listar compras.
type PurchaseFilter struct {
	SupplierID string
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SupplierFilter criterios para listar proveedores.
type SupplierFilter struct {
	Query  string
	Active *bool
	Limit  int
	Offset int
}

// CatalogFilter criterios para listar catálogos. Los eliminados nunca se listan.
type CatalogFilter struct {
	IncludeExpired bool
	Now            time.Time
	Limit          int
	Offset         int
}
