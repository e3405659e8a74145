package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
// KPIs del día y del mes en curso, top 5 productos del mes y alertas de stock.
type DashboardSummaryDTO struct {
	// Día actual (00:00 – 23:59)
	TodaySalesCount int             `json:"today_sales_count"`
	TodaySales      decimal.Decimal `json:"today_sales"`

	// Mes en curso (día 1 – hoy)
	MonthlySalesCount int             `json:"monthly_sales_count"`
	MonthlySales      decimal.Decimal `json:"monthly_sales"`
	MonthlyMargin     decimal.Decimal `json:"monthly_margin"` // Σ (precio - costo) × cantidad

	TopProducts []TopProductDTO `json:"top_products"`

	StockAlerts    int `json:"stock_alerts"`
	CriticalAlerts int `json:"critical_alerts"`
	WarningAlerts  int `json:"warning_alerts"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// TopProductDTO producto del widget del dashboard.
type TopProductDTO struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	QuantitySold     decimal.Decimal `json:"quantity_sold"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"` // (revenue - costo) / revenue * 100
}
