package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafuga/gestion-api/internal/application/analytics"
	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
	"github.com/lafuga/gestion-api/internal/testutil/memstore"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

type fakeReports struct {
	metrics   map[time.Time]*repository.SalesMetrics // por fecha de inicio
	top       []repository.TopProductResult
	valuation *repository.ValuationResult
	cats      []repository.CategoryResult
	err       error
}

func (f *fakeReports) SalesMetrics(_ context.Context, from, _ time.Time) (*repository.SalesMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.metrics[from]; ok {
		return m, nil
	}
	return &repository.SalesMetrics{}, nil
}

func (f *fakeReports) TopProducts(context.Context, time.Time, time.Time, int) ([]repository.TopProductResult, error) {
	return f.top, nil
}

func (f *fakeReports) Valuation(context.Context) (*repository.ValuationResult, error) {
	return f.valuation, nil
}

func (f *fakeReports) CategoryPerformance(context.Context) ([]repository.CategoryResult, error) {
	return f.cats, nil
}

func TestDashboardUseCase_ResumenDelDiaYDelMes(t *testing.T) {
	now := time.Date(2026, 2, 14, 16, 30, 0, 0, time.UTC)
	rep := &fakeReports{
		metrics: map[time.Time]*repository.SalesMetrics{
			time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC): {Count: 3, Revenue: d("9000"), Cost: d("6000")},
			time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC):  {Count: 40, Revenue: d("120000"), Cost: d("80000"), Margin: d("40000")},
		},
		top: []repository.TopProductResult{
			{ProductID: "Y1", ProductName: "Yerba 1kg", Units: d("20"), Revenue: d("60000"), Cost: d("40000")},
		},
	}
	st := memstore.New()
	st.Put(entity.Product{ID: "A1", Status: entity.ProductStatusActive, Stock: d("0"), StockMin: d("4")})
	st.Put(entity.Product{ID: "A2", Status: entity.ProductStatusActive, Stock: d("3"), StockMin: d("4")})
	st.Put(entity.Product{ID: "A3", Status: entity.ProductStatusActive, Stock: d("9"), StockMin: d("4")})

	uc := analytics.NewDashboardUseCase(rep, st.Products).WithClock(func() time.Time { return now })
	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	want := &dto.DashboardSummaryDTO{
		TodaySalesCount:   3,
		TodaySales:        d("9000"),
		MonthlySalesCount: 40,
		MonthlySales:      d("120000"),
		MonthlyMargin:     d("40000"),
		TopProducts: []dto.TopProductDTO{
			{ProductID: "Y1", ProductName: "Yerba 1kg", QuantitySold: d("20"), TotalRevenue: d("60000"), MarginPercentage: d("33.33")},
		},
		StockAlerts:    2,
		CriticalAlerts: 1,
		WarningAlerts:  1,
		DateLabel:      "Febrero 2026",
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("resumen (-want +got):\n%s", diff)
	}
}

func TestDashboardUseCase_MargenDelMesPorLineaIgnoraDescuentoGlobal(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// un ticket de 2 x 150 con costo 100 y 10% de descuento global: total 270
	rep := &fakeReports{
		metrics: map[time.Time]*repository.SalesMetrics{
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC): {Count: 1, Revenue: d("270"), Cost: d("200"), Margin: d("100")},
		},
	}
	uc := analytics.NewDashboardUseCase(rep, memstore.New().Products).WithClock(func() time.Time { return now })
	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "270", got.MonthlySales.String())
	assert.Equal(t, "100", got.MonthlyMargin.String())
}

func TestDashboardUseCase_PropagaErrorDelRepositorio(t *testing.T) {
	rep := &fakeReports{err: errors.New("sin conexión")}
	_, err := analytics.NewDashboardUseCase(rep, memstore.New().Products).GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sin conexión")
}

func TestReportsUseCase_MargenesYAlertas(t *testing.T) {
	rep := &fakeReports{
		valuation: &repository.ValuationResult{AtCost: d("1000"), AtRetail: d("1600"), AtWholesale: d("1300"), Units: d("12")},
		cats: []repository.CategoryResult{
			{Category: "Almacén", Products: 2, TotalItems: d("5"), ValueAtCost: d("400")},
			{Category: "Química", Products: 1, TotalItems: d("7"), ValueAtCost: d("600")},
		},
	}
	st := memstore.New()
	st.Put(entity.Product{ID: "P1", Name: "Yerba", Category: "Almacén", Status: entity.ProductStatusActive,
		Cost: d("100"), RetailPrice: d("150"), WholesalePrice: d("130")})
	st.Put(entity.Product{ID: "P2", Name: "Arroz", Category: "Almacén", Status: entity.ProductStatusActive,
		Cost: d("100"), RetailPrice: d("110"), WholesalePrice: d("90")})
	st.Put(entity.Product{ID: "P3", Name: "Lavandina", Category: "Química", Status: entity.ProductStatusActive, Cost: d("50")})
	st.Put(entity.Product{ID: "P4", Name: "Borrado", Status: entity.ProductStatusDeleted, Cost: d("100"), RetailPrice: d("10")})

	got, err := analytics.NewReportsUseCase(rep, st.Products).Generate(context.Background())
	require.NoError(t, err)

	want := &dto.ReportsDTO{
		Valuation: dto.ValuationDTO{AtCost: d("1000"), AtRetail: d("1600"), AtWholesale: d("1300"), PotentialProfit: d("600"), Units: d("12")},
		Profitability: dto.ProfitabilityDTO{
			AvgRetailMargin:         d("30"),
			AvgWholesaleMargin:      d("10"),
			NegativeWholesaleMargin: 1,
			ProductsAnalyzed:        2,
		},
		Alerts: dto.PriceAlertsDTO{
			NegativeMargin: []dto.PriceAlertDTO{
				{ProductID: "P2", Name: "Arroz", Category: "Almacén", Cost: d("100"), RetailPrice: d("110"), WholesalePrice: d("90"), Margin: d("-10")},
			},
			NegativeMarginTotal: 1,
			WithoutPrice: []dto.PriceAlertDTO{
				{ProductID: "P3", Name: "Lavandina", Category: "Química", Cost: d("50"), Margin: d("0")},
			},
			WithoutPriceTotal: 1,
		},
		Categories: []dto.CategoryStatsDTO{
			{Category: "Química", Products: 1, TotalItems: d("7"), ValueAtCost: d("600")},
			{Category: "Almacén", Products: 2, TotalItems: d("5"), ValueAtCost: d("400")},
		},
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("reporte (-want +got):\n%s", diff)
	}
}
