package sales_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/ports"
	"github.com/lafuga/gestion-api/internal/application/sales"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/testutil/memstore"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeTicket struct{ got *entity.Sale }

func (f *fakeTicket) GenerateTicketPDF(_ context.Context, _ ports.BusinessInfo, s *entity.Sale) ([]byte, error) {
	f.got = s
	return []byte("%PDF-fake"), nil
}

var (
	vendedor = dto.Actor{UserID: "v1", Email: "caja@lafuga.com", Role: entity.RoleVendedor}
	gerente  = dto.Actor{UserID: "g1", Email: "gerente@lafuga.com", Role: entity.RoleGerente}
)

func setup() (*memstore.Store, *sales.SaleUseCase, *fakeTicket) {
	st := memstore.New()
	st.Put(entity.Product{ID: "Y1", Name: "Yerba 1kg", Status: entity.ProductStatusActive,
		Cost: d("2000"), WholesalePrice: d("2600"), RetailPrice: d("3000"), Stock: d("10")})
	st.Put(entity.Product{ID: "S1", Name: "Alimento suelto", Status: entity.ProductStatusActive, AllowFractional: true,
		Cost: d("1000"), WholesalePrice: d("1300"), RetailPrice: d("1500"), Stock: d("5")})
	st.Put(entity.Product{ID: "X1", Name: "Sin precio", Status: entity.ProductStatusActive, Stock: d("5")})
	tk := &fakeTicket{}
	return st, sales.NewSaleUseCase(st.Tx, st.Sales, tk, ports.BusinessInfo{Name: "LA FUGA"}), tk
}

func TestSaleUseCase_CalculaTotalesYDescuentaStock(t *testing.T) {
	st, uc, _ := setup()

	out, err := uc.Create(context.Background(), vendedor, dto.CreateSaleRequest{
		GlobalDiscountPct: d("5"),
		Items: []dto.SaleItemRequest{
			{ProductID: "Y1", Quantity: d("2"), DiscountPct: d("10")},
			{ProductID: "S1", Quantity: d("0.5")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), out.Number)
	assert.Equal(t, entity.DefaultCustomerName, out.CustomerName)
	assert.Equal(t, entity.PaymentCash, out.PaymentMethod)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "2700", out.Items[0].UnitPrice.String())
	assert.Equal(t, "5400", out.Items[0].Subtotal.String())
	assert.Equal(t, "600", out.Items[0].LineDiscount.String())
	assert.Equal(t, "750", out.Items[1].Subtotal.String())
	assert.Equal(t, "6150", out.Subtotal.String())
	assert.Equal(t, "307.5", out.GlobalDiscount.String())
	assert.Equal(t, "5842.5", out.Total.String())

	assert.Equal(t, "8", st.Product("Y1").Stock.String())
	assert.Equal(t, "4.5", st.Product("S1").Stock.String())
	movs := st.AllMovements()
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementSale, movs[0].Type)
	assert.Equal(t, "-2", movs[0].Quantity.String())
	assert.Equal(t, out.ID, movs[0].ReferenceID)
	assert.Equal(t, "Venta #1", movs[0].Reason)
}

func TestSaleUseCase_MayoristaUsaPrecioMayor(t *testing.T) {
	_, uc, _ := setup()

	out, err := uc.Create(context.Background(), vendedor, dto.CreateSaleRequest{
		SaleType: entity.SaleTypeWholesale,
		Items:    []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PriceTypeWholesale, out.Items[0].PriceType)
	assert.Equal(t, "2600", out.Total.String())
}

func TestSaleUseCase_DescuentoSuperaLimiteDelRol(t *testing.T) {
	st, uc, _ := setup()
	ctx := context.Background()

	custom := d("2400") // 20% bajo el precio de lista
	_, err := uc.Create(ctx, vendedor, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("1"), PriceType: entity.PriceTypeCustom, UnitPrice: &custom}},
	})
	assert.ErrorIs(t, err, domain.ErrDiscountNotAuthorized)

	_, err = uc.Create(ctx, vendedor, dto.CreateSaleRequest{
		GlobalDiscountPct: d("15"),
		Items:             []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrDiscountNotAuthorized)

	_, err = uc.Create(ctx, gerente, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("1"), PriceType: entity.PriceTypeCustom, UnitPrice: &custom}},
	})
	require.NoError(t, err)
	assert.Equal(t, "9", st.Product("Y1").Stock.String())
}

func TestSaleUseCase_StockInsuficienteRevierteTodo(t *testing.T) {
	st, uc, _ := setup()

	_, err := uc.Create(context.Background(), vendedor, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "Y1", Quantity: d("3")},
			{ProductID: "S1", Quantity: d("9")},
		},
	})
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "S1", insufficient.ProductID)

	assert.Equal(t, "10", st.Product("Y1").Stock.String())
	assert.Empty(t, st.AllMovements())
	list, err := uc.List(context.Background(), dto.SaleListQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}

func TestSaleUseCase_Validaciones(t *testing.T) {
	_, uc, _ := setup()
	ctx := context.Background()

	_, err := uc.Create(ctx, vendedor, dto.CreateSaleRequest{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "La venta debe tener al menos un item", verr.Message)

	cases := []dto.CreateSaleRequest{
		{Items: []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("0")}}},
		{Items: []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("1.5")}}},
		{Items: []dto.SaleItemRequest{{ProductID: "X1", Quantity: d("1")}}},
		{Items: []dto.SaleItemRequest{{ProductID: "NO", Quantity: d("1")}}},
		{Items: []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("1"), PriceType: entity.PriceTypeCustom}}},
		{PaymentMethod: "CHEQUE", Items: []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("1")}}},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, gerente, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %+v", in)
	}
}

func TestSaleUseCase_EliminarDevuelveStock(t *testing.T) {
	st, uc, tk := setup()
	ctx := context.Background()
	out, err := uc.Create(ctx, vendedor, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("4")}}})
	require.NoError(t, err)

	pdf, number, err := uc.TicketPDF(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Number, number)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, out.ID, tk.got.ID)

	require.NoError(t, uc.Delete(ctx, gerente, out.ID))
	assert.Equal(t, "10", st.Product("Y1").Stock.String())
	movs := st.AllMovements()
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementCustomerReturn, movs[1].Type)
	assert.Equal(t, "4", movs[1].Quantity.String())

	_, err = uc.GetByID(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaleUseCase_Estadisticas(t *testing.T) {
	_, uc, _ := setup()
	ctx := context.Background()
	_, err := uc.Create(ctx, vendedor, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("1")}}})
	require.NoError(t, err)
	_, err = uc.Create(ctx, vendedor, dto.CreateSaleRequest{SaleType: entity.SaleTypeWholesale, Items: []dto.SaleItemRequest{{ProductID: "Y1", Quantity: d("2")}}})
	require.NoError(t, err)

	st, err := uc.Stats(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalSales)
	assert.Equal(t, "8200", st.TotalAmount.String())
	assert.Equal(t, 1, st.WholesaleCount)
	assert.Equal(t, "5200", st.WholesaleAmount.String())
}

func TestSaleUseCase_EstadisticasIncluyenAmbosExtremos(t *testing.T) {
	st, uc, _ := setup()
	ctx := context.Background()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	for i, at := range []time.Time{from, to, to.Add(time.Second)} {
		require.NoError(t, st.Sales.Create(ctx, &entity.Sale{
			ID: fmt.Sprintf("s%d", i), SaleType: entity.SaleTypeRetail, Total: d("100"), CreatedAt: at,
		}))
	}

	got, err := uc.Stats(ctx, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalSales)
	assert.Equal(t, "200", got.TotalAmount.String())
}
