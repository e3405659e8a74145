// Package analytics contiene el dashboard del día y del mes y los reportes
// de valorización y rentabilidad.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/inventory"
	"github.com/lafuga/gestion-api/internal/domain/pricing"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

const dashboardTopProducts = 5

var hundred = decimal.NewFromInt(100)

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: ReportRepository (consultas read-only) y las alertas de stock
// del repositorio de productos.
type DashboardUseCase struct {
	reports  repository.ReportRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reports repository.ReportRepository, products repository.ProductRepository) *DashboardUseCase {
	return &DashboardUseCase{reports: reports, products: products, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary corre en paralelo:
//  1. SalesMetrics(hoy)
//  2. SalesMetrics(mes)
//  3. TopProducts(mes, top 5)
//  4. ListStockAlerts
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		today, month *repository.SalesMetrics
		top          []repository.TopProductResult
		alerts       []*entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if today, err = uc.reports.SalesMetrics(gctx, todayStart, tomorrow); err != nil {
			return fmt.Errorf("dashboard: métricas de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if month, err = uc.reports.SalesMetrics(gctx, monthStart, tomorrow); err != nil {
			return fmt.Errorf("dashboard: métricas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if top, err = uc.reports.TopProducts(gctx, monthStart, tomorrow, dashboardTopProducts); err != nil {
			return fmt.Errorf("dashboard: top productos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if alerts, err = uc.products.ListStockAlerts(gctx); err != nil {
			return fmt.Errorf("dashboard: alertas de stock: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		TodaySalesCount:   today.Count,
		TodaySales:        today.Revenue.Round(2),
		MonthlySalesCount: month.Count,
		MonthlySales:      month.Revenue.Round(2),
		MonthlyMargin:     month.Margin.Round(2),
		TopProducts:       make([]dto.TopProductDTO, 0, len(top)),
		DateLabel:         monthLabel(now),
	}
	for _, t := range top {
		margin := decimal.Zero
		if t.Revenue.IsPositive() {
			margin = pricing.Round2(t.Revenue.Sub(t.Cost).Div(t.Revenue).Mul(hundred))
		}
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID:        t.ProductID,
			ProductName:      t.ProductName,
			QuantitySold:     t.Units,
			TotalRevenue:     t.Revenue.Round(2),
			MarginPercentage: margin,
		})
	}
	for _, p := range alerts {
		if !p.IsActive() {
			continue
		}
		switch inventory.AlertLevel(p) {
		case inventory.AlertCritical:
			out.CriticalAlerts++
		case inventory.AlertWarning:
			out.WarningAlerts++
		default:
			continue
		}
		out.StockAlerts++
	}
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
