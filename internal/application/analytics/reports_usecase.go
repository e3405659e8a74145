package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/pricing"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

const withoutPriceSample = 20

// ReportsUseCase valorización del stock, márgenes, alertas de precios y categorías.
type ReportsUseCase struct {
	reports  repository.ReportRepository
	products repository.ProductRepository
}

// NewReportsUseCase construye el caso de uso.
func NewReportsUseCase(reports repository.ReportRepository, products repository.ProductRepository) *ReportsUseCase {
	return &ReportsUseCase{reports: reports, products: products}
}

// Generate arma el reporte completo. La valorización y las categorías salen de SQL;
// márgenes y alertas se calculan sobre los productos no eliminados.
func (uc *ReportsUseCase) Generate(ctx context.Context) (*dto.ReportsDTO, error) {
	var (
		val      *repository.ValuationResult
		cats     []repository.CategoryResult
		products []*entity.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if val, err = uc.reports.Valuation(gctx); err != nil {
			return fmt.Errorf("reportes: valorización: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if cats, err = uc.reports.CategoryPerformance(gctx); err != nil {
			return fmt.Errorf("reportes: categorías: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if products, _, err = uc.products.Search(gctx, repository.ProductFilter{}); err != nil {
			return fmt.Errorf("reportes: productos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.ReportsDTO{
		Valuation: dto.ValuationDTO{
			AtCost:          val.AtCost.Round(2),
			AtRetail:        val.AtRetail.Round(2),
			AtWholesale:     val.AtWholesale.Round(2),
			PotentialProfit: val.AtRetail.Sub(val.AtCost).Round(2),
			Units:           val.Units,
		},
		Profitability: profitability(products),
		Alerts:        priceAlerts(products),
		Categories:    make([]dto.CategoryStatsDTO, 0, len(cats)),
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].TotalItems.GreaterThan(cats[j].TotalItems) })
	for _, c := range cats {
		out.Categories = append(out.Categories, dto.CategoryStatsDTO{
			Category:    c.Category,
			Products:    c.Products,
			TotalItems:  c.TotalItems,
			ValueAtCost: c.ValueAtCost.Round(2),
		})
	}
	return out, nil
}

// profitability promedia márgenes sobre productos con costo y precio cargados.
func profitability(products []*entity.Product) dto.ProfitabilityDTO {
	var out dto.ProfitabilityDTO
	retailSum, wholesaleSum := decimal.Zero, decimal.Zero
	retailN, wholesaleN := 0, 0
	for _, p := range products {
		if !p.Cost.IsPositive() {
			continue
		}
		analyzed := false
		if p.RetailPrice.IsPositive() {
			m := pricing.Margin(p.RetailPrice, p.Cost)
			retailSum = retailSum.Add(m)
			retailN++
			analyzed = true
			if m.IsNegative() {
				out.NegativeRetailMargin++
			}
		}
		if p.WholesalePrice.IsPositive() {
			m := pricing.Margin(p.WholesalePrice, p.Cost)
			wholesaleSum = wholesaleSum.Add(m)
			wholesaleN++
			analyzed = true
			if m.IsNegative() {
				out.NegativeWholesaleMargin++
			}
		}
		if analyzed {
			out.ProductsAnalyzed++
		}
	}
	if retailN > 0 {
		out.AvgRetailMargin = pricing.Round2(retailSum.Div(decimal.NewFromInt(int64(retailN))))
	}
	if wholesaleN > 0 {
		out.AvgWholesaleMargin = pricing.Round2(wholesaleSum.Div(decimal.NewFromInt(int64(wholesaleN))))
	}
	return out
}

// priceAlerts margen negativo en cualquiera de los dos precios; sin precio minorista.
func priceAlerts(products []*entity.Product) dto.PriceAlertsDTO {
	out := dto.PriceAlertsDTO{NegativeMargin: []dto.PriceAlertDTO{}, WithoutPrice: []dto.PriceAlertDTO{}}
	for _, p := range products {
		if !p.RetailPrice.IsPositive() {
			out.WithoutPriceTotal++
			if len(out.WithoutPrice) < withoutPriceSample {
				out.WithoutPrice = append(out.WithoutPrice, toPriceAlert(p, decimal.Zero))
			}
			continue
		}
		if !p.Cost.IsPositive() {
			continue
		}
		retail := pricing.Margin(p.RetailPrice, p.Cost)
		worst := retail
		if p.WholesalePrice.IsPositive() {
			if w := pricing.Margin(p.WholesalePrice, p.Cost); w.LessThan(worst) {
				worst = w
			}
		}
		if worst.IsNegative() {
			out.NegativeMargin = append(out.NegativeMargin, toPriceAlert(p, worst))
		}
	}
	out.NegativeMarginTotal = len(out.NegativeMargin)
	sort.SliceStable(out.NegativeMargin, func(i, j int) bool {
		return out.NegativeMargin[i].Margin.LessThan(out.NegativeMargin[j].Margin)
	})
	return out
}

func toPriceAlert(p *entity.Product, margin decimal.Decimal) dto.PriceAlertDTO {
	return dto.PriceAlertDTO{
		ProductID:      p.ID,
		Name:           p.Name,
		Category:       p.Category,
		Cost:           p.Cost,
		RetailPrice:    p.RetailPrice,
		WholesalePrice: p.WholesalePrice,
		Margin:         margin,
	}
}
