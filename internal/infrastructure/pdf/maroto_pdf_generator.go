// Package pdf genera con Maroto v2 los documentos impresos del local:
// catálogo de precios (A4), ticket de venta (80 mm) y etiquetas de góndola (A4).
//
// Layout del catálogo:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Local + contacto    │  Título + Cliente            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: solo columnas visibles (Código | Producto | ...)     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Válido hasta dd/mm/aaaa                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorAccent  = &props.Color{Red: 200, Green: 40, Blue: 40}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeader  = &props.Color{Red: 235, Green: 235, Blue: 235}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa los generadores de catálogo, ticket y etiquetas.
type MarotoPDFGenerator struct{}

var (
	_ ports.CatalogPDFGenerator = (*MarotoPDFGenerator)(nil)
	_ ports.TicketPDFGenerator  = (*MarotoPDFGenerator)(nil)
	_ ports.LabelPDFGenerator   = (*MarotoPDFGenerator)(nil)
)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// a4Config márgenes y fuente comunes a los documentos A4.
func a4Config(title, author string) *entity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateCatalogPDF catálogo A4 con las columnas visibles del cliente.
func (g *MarotoPDFGenerator) GenerateCatalogPDF(_ context.Context, doc ports.CatalogDocument) ([]byte, error) {
	m := maroto.New(a4Config(doc.Title, doc.Business.Name))

	footer := row.New(8).Add(col.New(12).Add(
		text.New("Precios válidos hasta el "+doc.ExpiresAt.Format("02/01/2006")+". Sujetos a disponibilidad de stock.", props.Text{
			Size: 7, Align: align.Center, Color: colorGray, Top: 2,
		}),
	))
	if err := m.RegisterFooter(footer); err != nil {
		return nil, fmt.Errorf("pdf: footer: %w", err)
	}

	m.AddRows(catalogHeaderRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	cols := catalogColumns(doc)
	if len(cols) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(text.New("Sin columnas visibles", props.Text{Align: align.Center, Top: 3}))))
		return generate(m)
	}
	m.AddRows(catalogTableHeader(cols))
	for i, r := range doc.Rows {
		m.AddRows(catalogTableRow(cols, r, i%2 == 1))
	}
	if len(doc.Rows) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(text.New("El catálogo no tiene productos disponibles", props.Text{Align: align.Center, Top: 3, Color: colorGray}))))
	}
	return generate(m)
}

// ── Secciones del catálogo ────────────────────────────────────────────────────

// catalogHeaderRow: local y contacto (izq), título y cliente (der).
func catalogHeaderRow(doc ports.CatalogDocument) core.Row {
	contact := strings.TrimSpace(strings.Join(nonEmpty(doc.Business.Address, doc.Business.Phone), " · "))
	return row.New(20).Add(
		col.New(6).Add(
			text.New(doc.Business.Name, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New(contact, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
		col.New(6).Add(
			text.New(strings.ToUpper(doc.Title), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
			text.New("Cliente: "+doc.CustomerName, props.Text{Size: 9, Align: align.Right, Top: 8}),
			text.New("Válido hasta: "+doc.ExpiresAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

// catalogColumn columna visible con su ancho en la grilla de 12.
type catalogColumn struct {
	title string
	size  int
	align align.Type
	value func(ports.CatalogRow) string
}

// catalogColumns arma las columnas visibles; el nombre absorbe el ancho sobrante.
func catalogColumns(doc ports.CatalogDocument) []catalogColumn {
	f := doc.Fields
	var cols []catalogColumn
	if f.Code {
		cols = append(cols, catalogColumn{"Código", 2, align.Left, func(r ports.CatalogRow) string { return r.Code }})
	}
	if f.Name {
		cols = append(cols, catalogColumn{"Producto", 0, align.Left, func(r ports.CatalogRow) string { return r.Name }})
	}
	if f.Description {
		cols = append(cols, catalogColumn{"Descripción", 3, align.Left, func(r ports.CatalogRow) string { return r.Description }})
	}
	if f.Unit {
		cols = append(cols, catalogColumn{"Unidad", 1, align.Center, func(r ports.CatalogRow) string { return r.Unit }})
	}
	if f.Photo {
		// sin descarga de imágenes: se imprime el enlace
		cols = append(cols, catalogColumn{"Foto", 3, align.Left, func(r ports.CatalogRow) string { return r.ImageURL }})
	}
	if f.Price {
		cols = append(cols, catalogColumn{"Precio", 2, align.Right, func(r ports.CatalogRow) string { return money.Format(r.Price) }})
	}
	used := 0
	for _, c := range cols {
		used += c.size
	}
	free := 12 - used
	if free < 1 {
		free = 1
	}
	for i := range cols {
		if cols[i].size == 0 {
			cols[i].size = free
			free = 0
		}
	}
	// sin nombre visible, el sobrante va a la última columna
	if free > 0 {
		cols[len(cols)-1].size += free
	}
	return cols
}

func catalogTableHeader(cols []catalogColumn) core.Row {
	r := row.New(8)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(text.New(c.title, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Top: 2, Left: 1, Right: 1,
		})))
	}
	r.WithStyle(&props.Cell{BackgroundColor: colorHeader})
	return r
}

func catalogTableRow(cols []catalogColumn, cr ports.CatalogRow, zebra bool) core.Row {
	r := row.New(7)
	for _, c := range cols {
		size := 8.0
		if c.title == "Foto" {
			size = 6
		}
		r.Add(col.New(c.size).Add(text.New(c.value(cr), props.Text{
			Size: size, Align: c.align, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	if zebra {
		r.WithStyle(&props.Cell{BackgroundColor: &props.Color{Red: 248, Green: 248, Blue: 248}})
	}
	return r
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
