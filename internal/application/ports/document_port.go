package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// BusinessInfo encabezado del local en los documentos impresos.
type BusinessInfo struct {
	Name    string
	Phone   string
	Address string
}

// CatalogRow producto del catálogo ya resuelto, con su precio final.
type CatalogRow struct {
	Code        string
	Name        string
	Description string
	Unit        string
	ImageURL    string
	Price       decimal.Decimal
}

// CatalogDocument datos para el PDF del catálogo. Solo se imprimen las columnas visibles.
type CatalogDocument struct {
	Business     BusinessInfo
	CustomerName string
	Title        string
	ExpiresAt    time.Time
	Fields       entity.VisibleFields
	Rows         []CatalogRow
}

// ShelfLabel etiqueta de góndola.
type ShelfLabel struct {
	Code           string
	Name           string
	Barcode        string
	RetailPrice    decimal.Decimal
	WholesalePrice decimal.Decimal
	UnitPriceLabel string // "$ 2.000,00 x kg"; vacío si no aplica
}

// CatalogPDFGenerator genera el PDF A4 del catálogo compartido.
type CatalogPDFGenerator interface {
	GenerateCatalogPDF(ctx context.Context, doc CatalogDocument) ([]byte, error)
}

// TicketPDFGenerator genera el ticket de venta para impresora térmica de 80 mm.
type TicketPDFGenerator interface {
	GenerateTicketPDF(ctx context.Context, business BusinessInfo, sale *entity.Sale) ([]byte, error)
}

// LabelPDFGenerator genera la grilla A4 de etiquetas de precios.
type LabelPDFGenerator interface {
	GenerateLabelsPDF(ctx context.Context, business BusinessInfo, labels []ShelfLabel) ([]byte, error)
}
