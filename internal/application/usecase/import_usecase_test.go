package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/application/usecase"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/testutil/memstore"
)

// rowsReader devuelve siempre las mismas filas, sin leer el archivo.
type rowsReader struct {
	rows [][]string
	err  error
}

func (r rowsReader) ReadTable(string, io.Reader) ([][]string, error) { return r.rows, r.err }

func importRows(rows ...[]string) rowsReader {
	header := []string{"Código", "Nombre", "Categoría", "COSTO", "PREIO MAYOR", "precio_menor", "Unidad", "Código de barras"}
	return rowsReader{rows: append([][]string{header}, rows...)}
}

func TestImportUseCase_CreaYActualizaPorCodigo(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	reader := importRows(
		[]string{"A1", "Yerba 1kg", "", "100", "$ 1.430,00", "1.650,50", "", ""},
		[]string{"N1", "Arroz largo fino", "", "800", "1000", "1200", "u", "7791234"},
		[]string{"", "", "", "", "", "", "", ""},
		[]string{"A1", "Repetido", "", "", "", "", "", ""},
		[]string{"N2", "", "", "", "", "", "", ""},
		[]string{"N3", "Fideos", "", "abc", "", "", "", ""},
	)
	uc := usecase.NewImportUseCase(st.Products, st.History, st.Tx, reader)

	out, err := uc.Import(context.Background(), editor, "precios.csv", strings.NewReader(""), false)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Created)
	assert.Equal(t, 1, out.Updated)
	assert.Equal(t, 1, out.Skipped)
	require.Len(t, out.Errors, 3)
	assert.Equal(t, 5, out.Errors[0].Row)
	assert.Equal(t, 6, out.Errors[1].Row)
	assert.Equal(t, 7, out.Errors[2].Row)

	a1 := st.Product("A1")
	assert.Equal(t, "1430", a1.WholesalePrice.String())
	assert.Equal(t, "1650.5", a1.RetailPrice.String())
	assert.NotNil(t, a1.LastPriceUpdate)

	n1 := st.Product("N1")
	assert.Equal(t, usecase.DefaultImportCategory, n1.Category)
	assert.Equal(t, "7791234", n1.Barcode)
	assert.Equal(t, entity.ProductStatusActive, n1.Status)

	hist := st.AllHistory()
	require.Len(t, hist, 2)
	for _, h := range hist {
		assert.Equal(t, "A1", h.ProductID)
		assert.Equal(t, "importación (por ana@lafuga.com)", h.Reason)
	}
}

func TestImportUseCase_DryRunNoEscribe(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	reader := importRows(
		[]string{"A1", "", "", "", "", "200", "", ""},
		[]string{"N1", "Arroz", "", "", "", "", "", ""},
	)
	out, err := usecase.NewImportUseCase(st.Products, st.History, st.Tx, reader).
		Import(context.Background(), editor, "precios.xlsx", strings.NewReader(""), true)
	require.NoError(t, err)
	assert.True(t, out.DryRun)
	assert.Equal(t, 1, out.Created)
	assert.Equal(t, 1, out.Updated)
	assert.Equal(t, "150", st.Product("A1").RetailPrice.String())
	n1, err := st.Products.GetByID(context.Background(), "N1")
	require.NoError(t, err)
	assert.Nil(t, n1)
	assert.Empty(t, st.AllHistory())
}

func TestImportUseCase_FallaDeHistorialNoDejaPrecioAplicado(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	st.FailOnHistory = errors.New("historial no disponible")
	reader := importRows([]string{"A1", "", "", "", "", "200", "", ""})

	_, err := usecase.NewImportUseCase(st.Products, st.History, st.Tx, reader).
		Import(context.Background(), editor, "precios.csv", strings.NewReader(""), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, st.FailOnHistory)

	a1 := st.Product("A1")
	assert.Equal(t, "150", a1.RetailPrice.String())
	assert.Nil(t, a1.LastPriceUpdate)
	assert.Empty(t, st.AllHistory())
}

func TestImportUseCase_SinColumnasObligatorias(t *testing.T) {
	st := memstore.New()
	uc := usecase.NewImportUseCase(st.Products, st.History, st.Tx, rowsReader{rows: [][]string{{"Nombre", "Precio"}}})
	_, err := uc.Import(context.Background(), editor, "x.csv", strings.NewReader(""), false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	uc = usecase.NewImportUseCase(st.Products, st.History, st.Tx, rowsReader{err: errors.New("formato no soportado")})
	_, err = uc.Import(context.Background(), editor, "x.pdf", strings.NewReader(""), false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type fakeLabels struct{ got []ports.ShelfLabel }

func (f *fakeLabels) GenerateLabelsPDF(_ context.Context, _ ports.BusinessInfo, labels []ports.ShelfLabel) ([]byte, error) {
	f.got = labels
	return []byte("%PDF-fake"), nil
}

func TestLabelUseCase_RespetaOrdenYPrecioPorKilo(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	st.Put(entity.Product{ID: "M1", Name: "Alimento perro 15kg", Category: "Mascotas", Status: entity.ProductStatusActive,
		RetailPrice: d("30000"), WholesalePrice: d("27000"), NetWeightKg: ptr(d("15")), Barcode: "7790000000017"})
	pdf := &fakeLabels{}
	uc := usecase.NewLabelUseCase(st.Products, pdf, ports.BusinessInfo{Name: "LA FUGA"})

	out, err := uc.PDF(context.Background(), []string{"M1", " A1", "M1", "ZZ"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	require.Len(t, pdf.got, 2)
	assert.Equal(t, "M1", pdf.got[0].Code)
	assert.Equal(t, "$ 2.000,00 x kg", pdf.got[0].UnitPriceLabel)
	assert.Equal(t, "7790000000017", pdf.got[0].Barcode)
	assert.Empty(t, pdf.got[1].UnitPriceLabel)

	_, err = uc.PDF(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.PDF(context.Background(), []string{"ZZ"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type fakeBackup struct{ snap ports.BackupSnapshot }

func (f *fakeBackup) WriteBackup(s ports.BackupSnapshot) ([]byte, error) {
	f.snap = s
	return []byte("xlsx"), nil
}

func TestBackupUseCase_ExportaActivosEInactivos(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	st.Put(entity.Product{ID: "I1", Name: "Inactivo", Status: entity.ProductStatusInactive})
	st.Put(entity.Product{ID: "D1", Name: "Borrado", Status: entity.ProductStatusDeleted})
	w := &fakeBackup{}

	out, name, err := usecase.NewBackupUseCase(st.Products, st.Sales, w).Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), out)
	assert.Equal(t, "backup-precios-"+time.Now().Format("2006-01-02")+".xlsx", name)
	assert.Len(t, w.snap.Products, 2)
	assert.Empty(t, w.snap.Sales)
}
