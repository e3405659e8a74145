package catalog_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/catalog"
	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/testutil/memstore"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakePDF struct{ doc ports.CatalogDocument }

func (f *fakePDF) GenerateCatalogPDF(_ context.Context, doc ports.CatalogDocument) ([]byte, error) {
	f.doc = doc
	return []byte("%PDF-fake"), nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

var vendedor = dto.Actor{UserID: "v1", Email: "caja@lafuga.com", Role: entity.RoleVendedor}

func setup() (*memstore.Store, *catalog.CatalogUseCase, *clock, *fakePDF) {
	st := memstore.New()
	st.Put(entity.Product{ID: "Y1", Name: "Yerba 1kg", Unit: "u", Status: entity.ProductStatusActive, ImageURL: "https://img/y1.jpg",
		Cost: d("2000"), WholesalePrice: d("2600"), RetailPrice: d("3000")})
	st.Put(entity.Product{ID: "A1", Name: "Arroz 1kg", Unit: "u", Status: entity.ProductStatusActive,
		Cost: d("800"), WholesalePrice: d("1000"), RetailPrice: d("1200")})
	st.Put(entity.Product{ID: "B1", Name: "Dado de baja", Status: entity.ProductStatusDeleted, WholesalePrice: d("10")})
	clk := &clock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	pdf := &fakePDF{}
	uc := catalog.NewCatalogUseCase(st.Catalogs, st.Products, pdf, catalog.Options{
		PublicBaseURL: "https://lafuga.com/",
		LinkTTL:       7 * 24 * time.Hour,
		Business:      ports.BusinessInfo{Name: "LA FUGA"},
	}).WithClock(clk.now)
	return st, uc, clk, pdf
}

func create(t *testing.T, uc *catalog.CatalogUseCase) *dto.CatalogResponse {
	t.Helper()
	fixed := d("950")
	out, err := uc.Create(context.Background(), vendedor, dto.CreateCatalogRequest{
		CustomerName:   "Almacén Don Pepe",
		GlobalDiscount: d("10"),
		Items: []dto.CatalogItemRequest{
			{ProductID: "Y1", IndividualDiscount: d("5")},
			{ProductID: "A1", CustomPrice: &fixed},
		},
	})
	require.NoError(t, err)
	return out
}

func TestCatalogUseCase_CrearResuelvePreciosFinales(t *testing.T) {
	_, uc, clk, _ := setup()
	out := create(t, uc)

	assert.Equal(t, entity.DefaultCatalogTitle, out.Title)
	assert.Len(t, out.PublicToken, 32)
	assert.Equal(t, "https://lafuga.com/catalogo/"+out.PublicToken, out.PublicURL)
	assert.Equal(t, clk.t.Add(7*24*time.Hour), out.ExpiresAt)
	assert.Equal(t, entity.CatalogStatusActive, out.Status)
	assert.True(t, out.VisibleFields.Photo)
	assert.False(t, out.VisibleFields.Code)

	require.Len(t, out.Products, 2)
	// 2600 con 15% de descuento
	assert.Equal(t, "2210", out.Products[0].FinalPrice.String())
	assert.Equal(t, "950", out.Products[1].FinalPrice.String())
}

func TestCatalogUseCase_Validaciones(t *testing.T) {
	_, uc, _, _ := setup()
	ctx := context.Background()

	cases := []dto.CreateCatalogRequest{
		{CustomerName: "", Items: []dto.CatalogItemRequest{{ProductID: "Y1"}}},
		{CustomerName: "X"},
		{CustomerName: "X", GlobalDiscount: d("60"), Items: []dto.CatalogItemRequest{{ProductID: "Y1", IndividualDiscount: d("50")}}},
		{CustomerName: "X", Items: []dto.CatalogItemRequest{{ProductID: "B1"}}},
		{CustomerName: "X", Items: []dto.CatalogItemRequest{{ProductID: "ZZ"}}},
		{CustomerName: "X", Items: []dto.CatalogItemRequest{{ProductID: "Y1"}, {ProductID: "Y1"}}},
		{CustomerName: "X", GlobalDiscount: d("101"), Items: []dto.CatalogItemRequest{{ProductID: "Y1"}}},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, vendedor, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %+v", in)
	}
}

func TestCatalogUseCase_VistaPublicaSoloCamposVisibles(t *testing.T) {
	_, uc, _, _ := setup()
	out := create(t, uc)

	pub, err := uc.Public(context.Background(), out.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, "Almacén Don Pepe", pub.CustomerName)
	require.Len(t, pub.Products, 2)
	p := pub.Products[0]
	assert.Equal(t, "Yerba 1kg", p.Name)
	assert.Equal(t, "https://img/y1.jpg", p.ImageURL)
	assert.Empty(t, p.Code)
	assert.Empty(t, p.ProductID)
	assert.Nil(t, p.BasePrice)
	assert.Nil(t, p.IndividualDiscount)
	assert.Equal(t, "2210", p.FinalPrice.String())

	raw, err := json.Marshal(pub)
	require.NoError(t, err)
	body := string(raw)
	assert.NotContains(t, body, "product_id")
	assert.NotContains(t, body, `"Y1"`, "el código interno no debe salir si no es visible")
	assert.NotContains(t, body, "base_price")
	assert.NotContains(t, body, "individual_discount")
}

func TestCatalogUseCase_VistaPublicaConCodigoVisible(t *testing.T) {
	_, uc, _, _ := setup()
	ctx := context.Background()
	fields := dto.VisibleFieldsDTO{Name: true, Price: true, Code: true}
	out, err := uc.Create(ctx, vendedor, dto.CreateCatalogRequest{
		CustomerName:  "Kiosco Norte",
		VisibleFields: &fields,
		Items:         []dto.CatalogItemRequest{{ProductID: "Y1"}},
	})
	require.NoError(t, err)

	pub, err := uc.Public(ctx, out.PublicToken)
	require.NoError(t, err)
	require.Len(t, pub.Products, 1)
	assert.Equal(t, "Y1", pub.Products[0].Code)
	assert.Equal(t, "Y1", pub.Products[0].ProductID)
}

func TestCatalogUseCase_EnlaceVencidoYRenovacion(t *testing.T) {
	_, uc, clk, _ := setup()
	ctx := context.Background()
	out := create(t, uc)

	clk.t = clk.t.Add(8 * 24 * time.Hour)
	_, err := uc.Public(ctx, out.PublicToken)
	assert.ErrorIs(t, err, domain.ErrExpired)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CatalogStatusExpired, got.Status)

	list, err := uc.List(ctx, dto.CatalogListQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
	list, err = uc.List(ctx, dto.CatalogListQuery{IncludeExpired: true})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	renewed, err := uc.Renew(ctx, vendedor, out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, out.PublicToken, renewed.PublicToken)
	assert.Equal(t, entity.CatalogStatusActive, renewed.Status)

	_, err = uc.Public(ctx, out.PublicToken)
	assert.ErrorIs(t, err, domain.ErrExpired)
	_, err = uc.Public(ctx, renewed.PublicToken)
	assert.NoError(t, err)
}

func TestCatalogUseCase_EliminarCortaElEnlace(t *testing.T) {
	_, uc, _, _ := setup()
	ctx := context.Background()
	out := create(t, uc)

	require.NoError(t, uc.Delete(ctx, vendedor, out.ID))
	_, err := uc.Public(ctx, out.PublicToken)
	assert.ErrorIs(t, err, domain.ErrExpired)
	_, err = uc.GetByID(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Public(ctx, "inexistente")
	assert.ErrorIs(t, err, domain.ErrExpired)
}

func TestCatalogUseCase_ActualizarReemplazaItems(t *testing.T) {
	_, uc, _, _ := setup()
	ctx := context.Background()
	out := create(t, uc)

	title := "Lista mayorista"
	upd, err := uc.Update(ctx, vendedor, out.ID, dto.UpdateCatalogRequest{
		Title: &title,
		Items: []dto.CatalogItemRequest{{ProductID: "A1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lista mayorista", upd.Title)
	require.Len(t, upd.Products, 1)
	assert.Equal(t, "900", upd.Products[0].FinalPrice.String())

	tooMuch := d("100")
	_, err = uc.Update(ctx, vendedor, out.ID, dto.UpdateCatalogRequest{GlobalDiscount: &tooMuch, Items: []dto.CatalogItemRequest{{ProductID: "A1", IndividualDiscount: d("1")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogUseCase_CompartirYPDF(t *testing.T) {
	_, uc, _, pdf := setup()
	ctx := context.Background()
	out := create(t, uc)

	share, err := uc.Share(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.PublicURL, share.URL)
	assert.Contains(t, share.WhatsAppText, "Almacén Don Pepe")
	assert.Contains(t, share.WhatsAppText, "17/03/2026")
	assert.True(t, strings.HasPrefix(share.WhatsAppURL, "https://wa.me/?text="))

	body, customer, err := uc.PDF(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "Almacén Don Pepe", customer)
	assert.NotEmpty(t, body)
	require.Len(t, pdf.doc.Rows, 2)
	assert.Equal(t, "LA FUGA", pdf.doc.Business.Name)
	assert.Equal(t, "2210", pdf.doc.Rows[0].Price.String())

	_, _, err = uc.PublicPDF(ctx, out.PublicToken)
	assert.NoError(t, err)
}
