package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/pkg/money"
)

// ancho del rollo de la impresora térmica, en mm
const ticketWidth = 80

// GenerateTicketPDF ticket no fiscal para impresora térmica.
// El alto de la página crece con la cantidad de líneas para imprimir sin cortes.
func (g *MarotoPDFGenerator) GenerateTicketPDF(_ context.Context, business ports.BusinessInfo, sale *entity.Sale) ([]byte, error) {
	height := 95.0 + 9*float64(len(sale.Items))
	cfg := config.NewBuilder().
		WithDimensions(ticketWidth, height).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "courier", Size: 8}).
		WithTitle(fmt.Sprintf("Ticket #%d", sale.Number), true).
		WithAuthor(business.Name, true).
		Build()
	m := maroto.New(cfg)

	center := func(s string, h float64, bold bool) core.Row {
		p := props.Text{Size: 8, Align: align.Center, Top: 1}
		if bold {
			p.Style = fontstyle.Bold
			p.Size = 10
		}
		return row.New(h).Add(col.New(12).Add(text.New(s, p)))
	}
	pair := func(label, value string, bold bool) core.Row {
		p := props.Text{Size: 8, Top: 0.5}
		if bold {
			p.Style = fontstyle.Bold
			p.Size = 10
		}
		v := p
		v.Align = align.Right
		return row.New(5).Add(col.New(7).Add(text.New(label, p)), col.New(5).Add(text.New(value, v)))
	}
	sep := func() core.Row {
		return line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2, Style: linestyle.Dashed})
	}

	m.AddRows(center(business.Name, 7, true))
	if business.Address != "" {
		m.AddRows(center(business.Address, 4, false))
	}
	if business.Phone != "" {
		m.AddRows(center("Tel: "+business.Phone, 4, false))
	}
	m.AddRows(sep())
	m.AddRows(
		pair(fmt.Sprintf("Ticket #%d", sale.Number), sale.CreatedAt.Format("02/01/2006 15:04"), false),
		pair("Cliente: "+sale.CustomerName, sale.SaleType, false),
	)
	m.AddRows(sep())

	for _, it := range sale.Items {
		m.AddRows(row.New(4).Add(col.New(12).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 0.5}))))
		detail := fmt.Sprintf("  %s x %s", money.FormatNumber(it.Quantity, quantityPlaces(it)), money.Format(it.UnitPrice))
		if it.LineDiscountPct.IsPositive() {
			detail += fmt.Sprintf(" (-%s%%)", money.FormatNumber(it.LineDiscountPct, 0))
		}
		m.AddRows(pair(detail, money.Format(it.Subtotal), false))
	}

	m.AddRows(sep())
	m.AddRows(pair("Subtotal", money.Format(sale.Subtotal), false))
	if sale.GlobalDiscount.IsPositive() {
		m.AddRows(pair(fmt.Sprintf("Descuento %s%%", money.FormatNumber(sale.GlobalDiscountPct, 0)), "-"+money.Format(sale.GlobalDiscount), false))
	}
	m.AddRows(pair("TOTAL", money.Format(sale.Total), true))
	m.AddRows(pair("Pago", sale.PaymentMethod, false))
	m.AddRows(sep())
	m.AddRows(center("¡Gracias por su compra!", 6, false))
	m.AddRows(center("Documento no válido como factura", 4, false))

	return generate(m)
}

// quantityPlaces decimales a mostrar: enteros sin decimales, sueltos con tres.
func quantityPlaces(it entity.SaleItem) int {
	if it.Quantity.Equal(it.Quantity.Truncate(0)) {
		return 0
	}
	return 3
}
