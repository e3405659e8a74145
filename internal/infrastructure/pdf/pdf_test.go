package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/infrastructure/pdf"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var business = ports.BusinessInfo{Name: "LA FUGA", Phone: "11 5555-0000", Address: "Av. Siempre Viva 742"}

func assertPDF(t *testing.T, b []byte) {
	t.Helper()
	require.NotEmpty(t, b)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "no empieza con %%PDF")
}

func TestMarotoPDFGenerator_Catalogo(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator()
	out, err := g.GenerateCatalogPDF(context.Background(), ports.CatalogDocument{
		Business:     business,
		CustomerName: "Almacén Don Pepe",
		Title:        entity.DefaultCatalogTitle,
		ExpiresAt:    time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		Fields:       entity.VisibleFields{Photo: true, Name: true, Price: true, Code: true},
		Rows: []ports.CatalogRow{
			{Code: "Y1", Name: "Yerba 1kg", ImageURL: "https://img/y1.jpg", Price: d("2210")},
			{Code: "A1", Name: "Arroz 1kg", Price: d("950")},
		},
	})
	require.NoError(t, err)
	assertPDF(t, out)
}

func TestMarotoPDFGenerator_CatalogoSinColumnas(t *testing.T) {
	out, err := pdf.NewMarotoPDFGenerator().GenerateCatalogPDF(context.Background(), ports.CatalogDocument{
		Business: business, CustomerName: "X", Title: "Lista",
	})
	require.NoError(t, err)
	assertPDF(t, out)
}

func TestMarotoPDFGenerator_Ticket(t *testing.T) {
	sale := &entity.Sale{
		Number:            42,
		CustomerName:      entity.DefaultCustomerName,
		SaleType:          entity.SaleTypeRetail,
		PaymentMethod:     entity.PaymentCash,
		Subtotal:          d("6150"),
		GlobalDiscountPct: d("5"),
		GlobalDiscount:    d("307.5"),
		Total:             d("5842.5"),
		CreatedAt:         time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC),
		Items: []entity.SaleItem{
			{ProductName: "Yerba 1kg", Quantity: d("2"), UnitPrice: d("2700"), LineDiscountPct: d("10"), Subtotal: d("5400")},
			{ProductName: "Alimento suelto", Quantity: d("0.5"), UnitPrice: d("1500"), Subtotal: d("750")},
		},
	}
	out, err := pdf.NewMarotoPDFGenerator().GenerateTicketPDF(context.Background(), business, sale)
	require.NoError(t, err)
	assertPDF(t, out)
}

func TestMarotoPDFGenerator_EtiquetasConCodigoDeBarras(t *testing.T) {
	labels := []ports.ShelfLabel{
		{Code: "M1", Name: "Alimento perro 15kg", Barcode: "7790000000017", RetailPrice: d("30000"), WholesalePrice: d("27000"), UnitPriceLabel: "$ 2.000,00 x kg"},
		{Code: "Y1", Name: "Yerba 1kg", RetailPrice: d("3000"), WholesalePrice: d("2600")},
		{Code: "A1", Name: "Arroz", Barcode: "ñandú", RetailPrice: d("1200"), WholesalePrice: d("1000")},
		{Code: "F1", Name: "Fideos", Barcode: "7791", RetailPrice: d("900"), WholesalePrice: d("800")},
	}
	out, err := pdf.NewMarotoPDFGenerator().GenerateLabelsPDF(context.Background(), business, labels)
	require.NoError(t, err)
	assertPDF(t, out)
}
