package pdf

import (
	"context"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/pkg/money"
)

const (
	labelsPerRow = 3
	labelHeight  = 45.0
)

// GenerateLabelsPDF grilla A4 de etiquetas, tres por fila.
func (g *MarotoPDFGenerator) GenerateLabelsPDF(_ context.Context, business ports.BusinessInfo, labels []ports.ShelfLabel) ([]byte, error) {
	m := maroto.New(a4Config("Etiquetas de precios", business.Name))

	for start := 0; start < len(labels); start += labelsPerRow {
		end := min(start+labelsPerRow, len(labels))
		r := row.New(labelHeight)
		for _, l := range labels[start:end] {
			r.Add(labelCol(l))
		}
		// completa la última fila para que las etiquetas no se estiren
		for i := end - start; i < labelsPerRow; i++ {
			r.Add(col.New(12 / labelsPerRow))
		}
		m.AddRows(r)
	}
	return generate(m)
}

func labelCol(l ports.ShelfLabel) core.Col {
	c := col.New(12/labelsPerRow).Add(
		text.New(l.Name, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 2, Left: 2, Right: 2}),
		text.New(money.Format(l.RetailPrice), props.Text{Style: fontstyle.Bold, Size: 20, Align: align.Center, Top: 11, Color: colorAccent}),
		text.New("Mayorista: "+money.Format(l.WholesalePrice), props.Text{Size: 8, Align: align.Center, Top: 21, Color: colorGray}),
	)
	if l.UnitPriceLabel != "" {
		c.Add(text.New(l.UnitPriceLabel, props.Text{Size: 7, Align: align.Center, Top: 25, Color: colorGray}))
	}
	if printableBarcode(l.Barcode) {
		c.Add(code.NewBar(l.Barcode, props.Barcode{Left: 15, Top: 29, Percent: 60}))
	} else {
		c.Add(text.New("Cód. "+l.Code, props.Text{Size: 7, Align: align.Center, Top: 33, Color: colorGray}))
	}
	c.WithStyle(&props.Cell{BorderType: border.Full, BorderColor: colorHeader, BorderThickness: 0.3})
	return c
}

// printableBarcode Code128 solo codifica ASCII imprimible.
func printableBarcode(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}
