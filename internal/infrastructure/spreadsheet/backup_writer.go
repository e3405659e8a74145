// Package spreadsheet lee y escribe planillas de precios con excelize.
package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// Nombres de las hojas del backup.
const (
	SheetProducts = "Productos"
	SheetSales    = "Ventas (ultimo mes)"
	SheetSummary  = "Resumen"
)

var (
	productHeader = []string{"Código", "Nombre", "Categoría", "Costo", "Precio Minorista", "Precio Mayorista",
		"Stock", "Stock Mínimo", "Unidad", "Código de Barras", "Estado", "Actualizado"}
	saleHeader = []string{"ID", "Número", "Fecha", "Tipo", "Cliente", "Medio de Pago", "Subtotal",
		"Descuento %", "Descuento", "Motivo Descuento", "Total", "Items"}
)

// ExcelBackupWriter implementa ports.BackupWriter.
type ExcelBackupWriter struct{}

var _ ports.BackupWriter = (*ExcelBackupWriter)(nil)

// NewExcelBackupWriter construye el escritor.
func NewExcelBackupWriter() *ExcelBackupWriter { return &ExcelBackupWriter{} }

// WriteBackup arma el libro con las hojas Productos, Ventas y Resumen.
func (w *ExcelBackupWriter) WriteBackup(s ports.BackupSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetProducts); err != nil {
		return nil, fmt.Errorf("backup: renombrar hoja: %w", err)
	}
	for _, name := range []string{SheetSales, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("backup: crear hoja %s: %w", name, err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"212529"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("backup: estilo: %w", err)
	}

	if err := writeTable(f, SheetProducts, productHeader, headerStyle, productRows(s.Products)); err != nil {
		return nil, err
	}
	if err := writeTable(f, SheetSales, saleHeader, headerStyle, saleRows(s.Sales)); err != nil {
		return nil, err
	}
	if err := writeSummary(f, s, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("backup: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, header []string, style int, rows [][]any) error {
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("backup: cabecera %s: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("backup: estilo %s: %w", sheet, err)
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("backup: fila %d de %s: %w", i+2, sheet, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("backup: ancho %s: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func productRows(products []*entity.Product) [][]any {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			p.ID, p.Name, p.Category,
			num(p.Cost), num(p.RetailPrice), num(p.WholesalePrice),
			num(p.Stock), num(p.StockMin),
			p.Unit, p.Barcode, p.Status,
			p.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func saleRows(sales []*entity.Sale) [][]any {
	rows := make([][]any, 0, len(sales))
	for _, s := range sales {
		items := make([]string, 0, len(s.Items))
		for _, it := range s.Items {
			items = append(items, fmt.Sprintf("%s x%s", it.ProductName, it.Quantity.String()))
		}
		rows = append(rows, []any{
			s.ID, s.Number, s.CreatedAt.Format("2006-01-02 15:04"), s.SaleType, s.CustomerName, s.PaymentMethod,
			num(s.Subtotal), num(s.GlobalDiscountPct), num(s.GlobalDiscount), s.GlobalDiscountReason,
			num(s.Total), strings.Join(items, "; "),
		})
	}
	return rows
}

func writeSummary(f *excelize.File, s ports.BackupSnapshot, style int) error {
	active, inactive := 0, 0
	for _, p := range s.Products {
		switch p.Status {
		case entity.ProductStatusActive:
			active++
		case entity.ProductStatusInactive:
			inactive++
		}
	}
	invoiced := decimal.Zero
	for _, sale := range s.Sales {
		invoiced = invoiced.Add(sale.Total)
	}
	rows := [][]any{
		{"Concepto", "Valor"},
		{"Exportado", s.ExportedAt.Format("2006-01-02 15:04:05")},
		{"Productos", len(s.Products)},
		{"Activos", active},
		{"Inactivos", inactive},
		{"Ventas (30 días)", len(s.Sales)},
		{"Total facturado", num(invoiced)},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &r); err != nil {
			return fmt.Errorf("backup: resumen: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", style); err != nil {
		return fmt.Errorf("backup: estilo resumen: %w", err)
	}
	return f.SetColWidth(SheetSummary, "A", "B", 22)
}

// num los importes van como número para que la planilla pueda sumarlos.
func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
