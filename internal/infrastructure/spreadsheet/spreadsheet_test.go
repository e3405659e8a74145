package spreadsheet_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/infrastructure/spreadsheet"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTableReader_CSVConPuntoYComa(t *testing.T) {
	in := "\xef\xbb\xbfCODIGO;NOMBRE;PRECIO MENOR\nA1;Yerba 1kg;\"1.650,50\"\nA2;Arroz;900\n"
	rows, err := spreadsheet.NewTableReader().ReadTable("precios.CSV", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"CODIGO", "NOMBRE", "PRECIO MENOR"}, rows[0])
	assert.Equal(t, "1.650,50", rows[1][2])
}

func TestTableReader_CSVLatin1(t *testing.T) {
	utf := "Código,Categoría\nQ1,Química\n"
	latin, err := charmap.Windows1252.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := spreadsheet.NewTableReader().ReadTable("x.csv", strings.NewReader(latin))
	require.NoError(t, err)
	assert.Equal(t, "Código", rows[0][0])
	assert.Equal(t, "Química", rows[1][1])
}

func TestTableReader_XLSXPrimeraHoja(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"CODIGO", "NOMBRE"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"A1", "Yerba"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := spreadsheet.NewTableReader().ReadTable("lista.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"CODIGO", "NOMBRE"}, {"A1", "Yerba"}}, rows)
}

func TestTableReader_FormatoNoSoportado(t *testing.T) {
	_, err := spreadsheet.NewTableReader().ReadTable("lista.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestExcelBackupWriter_TresHojas(t *testing.T) {
	snap := ports.BackupSnapshot{
		ExportedAt: time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC),
		Products: []*entity.Product{
			{ID: "A1", Name: "Yerba 1kg", Status: entity.ProductStatusActive, Cost: d("100"), RetailPrice: d("150"), WholesalePrice: d("130")},
			{ID: "I1", Name: "Inactivo", Status: entity.ProductStatusInactive},
		},
		Sales: []*entity.Sale{
			{ID: "s1", Number: 7, SaleType: entity.SaleTypeRetail, Total: d("300"),
				Items: []entity.SaleItem{{ProductName: "Yerba 1kg", Quantity: d("2")}}},
		},
	}
	out, err := spreadsheet.NewExcelBackupWriter().WriteBackup(snap)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{spreadsheet.SheetProducts, spreadsheet.SheetSales, spreadsheet.SheetSummary}, f.GetSheetList())

	products, err := f.GetRows(spreadsheet.SheetProducts)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Código", products[0][0])
	assert.Equal(t, "150", products[1][4])

	sales, err := f.GetRows(spreadsheet.SheetSales)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "Yerba 1kg x2", sales[1][11])

	total, err := f.GetCellValue(spreadsheet.SheetSummary, "B7")
	require.NoError(t, err)
	assert.Equal(t, "300", total)
	active, err := f.GetCellValue(spreadsheet.SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "1", active)
}
