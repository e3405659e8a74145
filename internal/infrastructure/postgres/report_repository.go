package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para dashboard y reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesMetrics cantidad de tickets, facturación, costo y margen de lo vendido en [from, to).
// Costo y margen salen de las líneas, con el precio y el costo congelados al vender;
// el descuento global solo afecta a la facturación.
func (r *ReportRepo) SalesMetrics(ctx context.Context, from, to time.Time) (*repository.SalesMetrics, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*)              FROM sales s WHERE s.created_at >= $1 AND s.created_at < $2) AS sale_count,
	    (SELECT COALESCE(SUM(s.total), 0) FROM sales s WHERE s.created_at >= $1 AND s.created_at < $2) AS revenue,
	    COALESCE(SUM(i.quantity * i.unit_cost), 0)                                                  AS cost,
	    COALESCE(SUM(i.quantity * (i.unit_price - i.unit_cost)), 0)                                 AS margin
	FROM sale_items i
	JOIN sales s ON s.id = i.sale_id
	WHERE s.created_at >= $1 AND s.created_at < $2`

	var m repository.SalesMetrics
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&m.Count, &m.Revenue, &m.Cost, &m.Margin); err != nil {
		return nil, fmt.Errorf("reports.SalesMetrics: %w", err)
	}
	return &m, nil
}

// TopProducts los `limit` productos con mayor facturación en [from, to).
func (r *ReportRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    i.product_id,
	    MAX(i.product_name)              AS product_name,
	    SUM(i.quantity)                  AS units,
	    SUM(i.subtotal)                  AS revenue,
	    SUM(i.quantity * i.unit_cost)    AS cost
	FROM sale_items i
	JOIN sales s ON s.id = i.sale_id
	WHERE s.created_at >= $1 AND s.created_at < $2
	GROUP BY i.product_id
	ORDER BY revenue DESC, units DESC
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("reports.TopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductResult
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Units, &row.Revenue, &row.Cost); err != nil {
			return nil, fmt.Errorf("reports.TopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// Valuation valoriza el stock positivo de productos no eliminados.
func (r *ReportRepo) Valuation(ctx context.Context) (*repository.ValuationResult, error) {
	const query = `
	SELECT
	    COALESCE(SUM(stock * cost),            0) AS at_cost,
	    COALESCE(SUM(stock * retail_price),    0) AS at_retail,
	    COALESCE(SUM(stock * wholesale_price), 0) AS at_wholesale,
	    COALESCE(SUM(stock),                   0) AS units
	FROM products
	WHERE status <> 'eliminado' AND stock > 0`

	var v repository.ValuationResult
	if err := r.q.QueryRow(ctx, query).Scan(&v.AtCost, &v.AtRetail, &v.AtWholesale, &v.Units); err != nil {
		return nil, fmt.Errorf("reports.Valuation: %w", err)
	}
	v.AtCost = v.AtCost.Round(2)
	v.AtRetail = v.AtRetail.Round(2)
	v.AtWholesale = v.AtWholesale.Round(2)
	return &v, nil
}

// CategoryPerformance productos, unidades y valor a costo por categoría.
// Las filas sin categoría se agrupan como "Sin categoría".
func (r *ReportRepo) CategoryPerformance(ctx context.Context) ([]repository.CategoryResult, error) {
	const query = `
	SELECT
	    COALESCE(NULLIF(category, ''), 'Sin categoría')        AS category,
	    COUNT(*)                                               AS products,
	    COALESCE(SUM(GREATEST(stock, 0)), 0)                   AS total_items,
	    COALESCE(SUM(GREATEST(stock, 0) * cost), 0)            AS value_at_cost
	FROM products
	WHERE status <> 'eliminado'
	GROUP BY 1
	ORDER BY total_items DESC, category`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports.CategoryPerformance: %w", err)
	}
	defer rows.Close()

	var results []repository.CategoryResult
	for rows.Next() {
		var row repository.CategoryResult
		if err := rows.Scan(&row.Category, &row.Products, &row.TotalItems, &row.ValueAtCost); err != nil {
			return nil, fmt.Errorf("reports.CategoryPerformance scan: %w", err)
		}
		row.ValueAtCost = row.ValueAtCost.Round(2)
		results = append(results, row)
	}
	return results, rows.Err()
}
