package dto

import "github.com/shopspring/decimal"

// ReportsDTO respuesta de GET /api/reports.
type ReportsDTO struct {
	Valuation     ValuationDTO       `json:"valuation"`
	Profitability ProfitabilityDTO   `json:"profitability"`
	Alerts        PriceAlertsDTO     `json:"alerts"`
	Categories    []CategoryStatsDTO `json:"categories"`
}

// ValuationDTO valorización del stock positivo.
type ValuationDTO struct {
	AtCost          decimal.Decimal `json:"at_cost"`
	AtRetail        decimal.Decimal `json:"at_retail"`
	AtWholesale     decimal.Decimal `json:"at_wholesale"`
	PotentialProfit decimal.Decimal `json:"potential_profit"` // a precio minorista menos costo
	Units           decimal.Decimal `json:"units"`
}

// ProfitabilityDTO márgenes promedio sobre productos con precio y costo.
type ProfitabilityDTO struct {
	AvgRetailMargin         decimal.Decimal `json:"avg_retail_margin"`
	AvgWholesaleMargin      decimal.Decimal `json:"avg_wholesale_margin"`
	NegativeRetailMargin    int             `json:"negative_retail_margin"`
	NegativeWholesaleMargin int             `json:"negative_wholesale_margin"`
	ProductsAnalyzed        int             `json:"products_analyzed"`
}

// PriceAlertDTO producto observado en las alertas de precios.
type PriceAlertDTO struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Cost           decimal.Decimal `json:"cost"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	Margin         decimal.Decimal `json:"margin"`
}

// PriceAlertsDTO márgenes negativos (todos) y productos sin precio (primeros 20).
type PriceAlertsDTO struct {
	NegativeMargin      []PriceAlertDTO `json:"negative_margin"`
	NegativeMarginTotal int             `json:"negative_margin_total"`
	WithoutPrice        []PriceAlertDTO `json:"without_price"`
	WithoutPriceTotal   int             `json:"without_price_total"`
}

// CategoryStatsDTO desempeño por categoría.
type CategoryStatsDTO struct {
	Category    string          `json:"category"`
	Products    int             `json:"products"`
	TotalItems  decimal.Decimal `json:"total_items"`
	ValueAtCost decimal.Decimal `json:"value_at_cost"`
}
