package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/usecase"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/testutil/memstore"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

var editor = dto.Actor{UserID: "u-1", Email: "ana@lafuga.com", Role: entity.RoleEditor}

func newProductUC(st *memstore.Store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(st.Products, st.History, st.Tx)
}

func seedProduct(st *memstore.Store, id, name, category string) {
	st.Put(entity.Product{
		ID: id, Name: name, Category: category, Status: entity.ProductStatusActive,
		Cost: d("100"), WholesalePrice: d("130"), RetailPrice: d("150"),
	})
}

func TestProductUseCase_CrearValidaCodigoDeBarrasEnUso(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	p := st.Product("A1")
	p.Barcode = "7790001"
	st.Put(p)
	uc := newProductUC(st)

	_, err := uc.Create(context.Background(), editor, dto.CreateProductRequest{
		ID: "B2", Name: "Azúcar", Barcode: "7790001", RetailPrice: d("10"),
	})

	var inUse *domain.BarcodeInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, "A1", inUse.ProductID)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestProductUseCase_CrearArrancaConStockCeroYCamposDerivados(t *testing.T) {
	st := memstore.New()
	uc := newProductUC(st)

	out, err := uc.Create(context.Background(), editor, dto.CreateProductRequest{
		ID: "C3", Name: " Aceite 900ml ", Category: "Química", Cost: d("80"), WholesalePrice: d("100"), RetailPrice: d("120"),
		NetVolumeL: ptr(d("0.9")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Aceite 900ml", out.Name)
	assert.Equal(t, entity.ProductStatusActive, out.Status)
	assert.True(t, out.Stock.IsZero())
	assert.True(t, out.Sellable)
	assert.Equal(t, "50", out.MarginRetail.String())
	require.NotNil(t, out.PricePerLiter)
	assert.Equal(t, "133.33", out.PricePerLiter.String())

	_, err = uc.Create(context.Background(), editor, dto.CreateProductRequest{ID: "C3", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUseCase_ActualizarRegistraHistorialConAutor(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	uc := newProductUC(st)

	out, err := uc.Update(context.Background(), editor, "A1", dto.UpdateProductRequest{
		RetailPrice: ptr(d("165")),
		Category:    ptr("Infusiones"),
		Reason:      "Aumento proveedor",
	})
	require.NoError(t, err)
	assert.Equal(t, "165", out.RetailPrice.String())
	assert.NotNil(t, out.LastPriceUpdate)

	hist := st.AllHistory()
	require.Len(t, hist, 2)
	fields := []string{hist[0].Field, hist[1].Field}
	assert.ElementsMatch(t, []string{entity.HistoryFieldRetailPrice, entity.HistoryFieldCategory}, fields)
	assert.Equal(t, "Aumento proveedor (por ana@lafuga.com)", hist[0].Reason)
	assert.Equal(t, "ana@lafuga.com", hist[0].UserID)
}

func TestProductUseCase_ActualizarRechazaEstadoEliminado(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	uc := newProductUC(st)

	_, err := uc.Update(context.Background(), editor, "A1", dto.UpdateProductRequest{Status: ptr(entity.ProductStatusDeleted)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, st.AllHistory())
}

func TestProductUseCase_BajaLogicaRequiereMotivo(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	uc := newProductUC(st)
	ctx := context.Background()

	err := uc.Delete(ctx, editor, "A1", dto.DeleteProductRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.Delete(ctx, editor, "A1", dto.DeleteProductRequest{Reason: "Discontinuado"}))
	p := st.Product("A1")
	assert.Equal(t, entity.ProductStatusDeleted, p.Status)
	assert.Equal(t, "Discontinuado", p.DeletionReason)

	err = uc.Delete(ctx, editor, "A1", dto.DeleteProductRequest{Reason: "otra vez"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.Search(ctx, dto.ProductSearchQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestProductUseCase_ActualizacionMasivaPorCategoria(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	seedProduct(st, "A2", "Arroz 1kg", "Almacén")
	seedProduct(st, "L1", "Lavandina", "Limpieza")
	uc := newProductUC(st)

	out, err := uc.BulkUpdatePrices(context.Background(), editor, dto.BulkPriceUpdateRequest{
		Category:   "Almacén",
		Percentage: d("10"),
		ApplyTo:    "menor",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Updated)

	a1 := st.Product("A1")
	assert.Equal(t, "165", a1.RetailPrice.String())
	assert.Equal(t, "130", a1.WholesalePrice.String())
	assert.NotNil(t, a1.LastPriceUpdate)
	assert.Equal(t, "150", st.Product("L1").RetailPrice.String())
	assert.Len(t, st.AllHistory(), 2)
}

func TestProductUseCase_ActualizacionMasivaSinDestinoNoHaceNada(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	uc := newProductUC(st)

	out, err := uc.BulkUpdatePrices(context.Background(), editor, dto.BulkPriceUpdateRequest{Percentage: d("10")})
	require.NoError(t, err)
	assert.Zero(t, out.Updated)

	_, err = uc.BulkUpdatePrices(context.Background(), editor, dto.BulkPriceUpdateRequest{Codes: []string{"A1"}, Percentage: d("-100")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_AsignarCodigoDeBarras(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	uc := newProductUC(st)
	ctx := context.Background()

	out, err := uc.SetBarcode(ctx, editor, "A1", dto.SetBarcodeRequest{Barcode: " 7790002 "})
	require.NoError(t, err)
	assert.Equal(t, "7790002", out.Barcode)

	found, err := uc.GetByBarcode(ctx, "7790002")
	require.NoError(t, err)
	assert.Equal(t, "A1", found.ID)

	_, err = uc.GetByBarcode(ctx, "000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
