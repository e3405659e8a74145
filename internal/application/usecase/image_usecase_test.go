package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/application/usecase"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/testutil/memstore"
)

type stubFinder struct {
	source string
	urls   map[string]string // barcode o nombre -> url
	err    error
	calls  int
}

func (f *stubFinder) Source() string { return f.source }

func (f *stubFinder) FindImage(_ context.Context, q ports.ImageQuery) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if u, ok := f.urls[q.Barcode]; ok && q.Barcode != "" {
		return u, nil
	}
	if u, ok := f.urls[q.Name]; ok {
		return u, nil
	}
	return "", ports.ErrImageNotFound
}

func TestImageUseCase_OpenFoodFactsPrimeroYLuegoCache(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	p := st.Product("A1")
	p.Barcode = "7790387"
	st.Put(p)

	off := &stubFinder{source: entity.ImageSourceOpenFoodFacts, urls: map[string]string{"7790387": "https://off/img.jpg"}}
	google := &stubFinder{source: entity.ImageSourceGoogle, urls: map[string]string{"Yerba 1kg": "https://g/img.jpg"}}
	uc := usecase.NewImageUseCase(st.Products, off, google)
	ctx := context.Background()

	out, err := uc.Find(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, "https://off/img.jpg", out.ImageURL)
	assert.Equal(t, entity.ImageSourceOpenFoodFacts, out.Source)
	assert.False(t, out.Cached)
	assert.Zero(t, google.calls)

	again, err := uc.Find(ctx, "A1")
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, 1, off.calls)
}

func TestImageUseCase_SinResultadosGuardaNotFound(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Producto raro", "Almacén")
	uc := usecase.NewImageUseCase(st.Products, &stubFinder{source: entity.ImageSourceGoogle})

	out, err := uc.Find(context.Background(), "A1")
	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, entity.ImageSourceNotFound, st.Product("A1").ImageSource)
}

func TestImageUseCase_SincronizacionCuentaErrores(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	seedProduct(st, "A2", "Arroz 1kg", "Almacén")
	seedProduct(st, "A3", "Fideos", "Almacén")
	p := st.Product("A3")
	p.ImageURL = "https://ya/tiene.jpg"
	p.ImageSource = entity.ImageSourceManual
	st.Put(p)

	google := &stubFinder{source: entity.ImageSourceGoogle, urls: map[string]string{"Yerba 1kg": "https://g/yerba.jpg"}}
	uc := usecase.NewImageUseCase(st.Products, google).WithSyncPause(0)

	out, err := uc.Sync(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, dto.ImageSyncResponse{Processed: 2, Found: 1, Errors: 0}, *out)

	broken := usecase.NewImageUseCase(st.Products, &stubFinder{source: "x", err: errors.New("timeout")}).WithSyncPause(0)
	p = st.Product("A2")
	p.ImageSource = ""
	st.Put(p)
	out, err = broken.Sync(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Errors)
	assert.Empty(t, st.Product("A2").ImageSource)
}

func TestImageUseCase_URLManualValidada(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	uc := usecase.NewImageUseCase(st.Products)
	ctx := context.Background()

	_, err := uc.SetManual(ctx, "A1", dto.SetImageRequest{ImageURL: "ftp://x"})
	assert.Error(t, err)

	out, err := uc.SetManual(ctx, "A1", dto.SetImageRequest{ImageURL: "https://cdn/yerba.png"})
	require.NoError(t, err)
	assert.Equal(t, entity.ImageSourceManual, out.Source)

	require.NoError(t, uc.Clear(ctx, "A1"))
	assert.Empty(t, st.Product("A1").ImageURL)
}

// priceEditingFinder cambia el precio del producto mientras la búsqueda está en curso.
type priceEditingFinder struct {
	products *usecase.ProductUseCase
	t        *testing.T
}

func (f *priceEditingFinder) Source() string { return entity.ImageSourceGoogle }

func (f *priceEditingFinder) FindImage(ctx context.Context, q ports.ImageQuery) (string, error) {
	retail := d("999")
	_, err := f.products.Update(ctx, dto.Actor{Email: "gerente@lafuga.com"}, "A1", dto.UpdateProductRequest{RetailPrice: &retail, Reason: "aumento"})
	require.NoError(f.t, err)
	return "https://g/yerba.jpg", nil
}

func TestImageUseCase_BusquedaNoPisaCambiosConcurrentes(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	products := usecase.NewProductUseCase(st.Products, st.History, st.Tx)
	uc := usecase.NewImageUseCase(st.Products, &priceEditingFinder{products: products, t: t})

	out, err := uc.Find(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, "https://g/yerba.jpg", out.ImageURL)

	got := st.Product("A1")
	assert.True(t, got.RetailPrice.Equal(d("999")), "el precio editado durante la búsqueda debe conservarse, quedó %s", got.RetailPrice)
	assert.Equal(t, "https://g/yerba.jpg", got.ImageURL)
	assert.Equal(t, entity.ImageSourceGoogle, got.ImageSource)
	require.Len(t, st.AllHistory(), 1)
	assert.Equal(t, "999", st.AllHistory()[0].NewValue)
}

func TestImageUseCase_URLManualNoTocaPrecios(t *testing.T) {
	st := memstore.New()
	seedProduct(st, "A1", "Yerba 1kg", "Almacén")
	uc := usecase.NewImageUseCase(st.Products)

	_, err := uc.SetManual(context.Background(), "A1", dto.SetImageRequest{ImageURL: "https://cdn/yerba.png"})
	require.NoError(t, err)

	got := st.Product("A1")
	assert.True(t, got.RetailPrice.Equal(d("150")))
	assert.Equal(t, entity.ProductStatusActive, got.Status)
	require.NotNil(t, got.ImageFetchedAt)
}
