package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. ID es el código interno del local.
type CreateProductRequest struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Category           string           `json:"category"`
	Unit               string           `json:"unit"`
	Barcode            string           `json:"barcode"`
	Description        string           `json:"description"`
	Cost               decimal.Decimal  `json:"cost"`
	WholesalePrice     decimal.Decimal  `json:"wholesale_price"`
	RetailPrice        decimal.Decimal  `json:"retail_price"`
	NetWeightKg        *decimal.Decimal `json:"net_weight_kg"`
	NetVolumeL         *decimal.Decimal `json:"net_volume_l"`
	AllowFractional    bool             `json:"allow_fractional"`
	Status             string           `json:"status"`
	StockMin           decimal.Decimal  `json:"stock_min"`
	StockMax           *decimal.Decimal `json:"stock_max"`
	ReorderPoint       *decimal.Decimal `json:"reorder_point"`
	AllowNegativeStock bool             `json:"allow_negative_stock"`
	Location           string           `json:"location"`
	DefaultSupplierID  string           `json:"default_supplier_id"`
}

// UpdateProductRequest actualización parcial. Reason queda en el historial de cambios.
// El stock no se edita acá: se maneja con movimientos.
type UpdateProductRequest struct {
	Name               *string          `json:"name"`
	Category           *string          `json:"category"`
	Unit               *string          `json:"unit"`
	Description        *string          `json:"description"`
	Cost               *decimal.Decimal `json:"cost"`
	WholesalePrice     *decimal.Decimal `json:"wholesale_price"`
	RetailPrice        *decimal.Decimal `json:"retail_price"`
	NetWeightKg        *decimal.Decimal `json:"net_weight_kg"`
	NetVolumeL         *decimal.Decimal `json:"net_volume_l"`
	AllowFractional    *bool            `json:"allow_fractional"`
	Status             *string          `json:"status"`
	StockMin           *decimal.Decimal `json:"stock_min"`
	StockMax           *decimal.Decimal `json:"stock_max"`
	ReorderPoint       *decimal.Decimal `json:"reorder_point"`
	AllowNegativeStock *bool            `json:"allow_negative_stock"`
	Location           *string          `json:"location"`
	DefaultSupplierID  *string          `json:"default_supplier_id"`
	Reason             string           `json:"reason"`
}

// SetBarcodeRequest asigna o borra (vacío) el código de barras.
type SetBarcodeRequest struct {
	Barcode string `json:"barcode"`
	Reason  string `json:"reason"`
}

// DeleteProductRequest baja lógica con motivo obligatorio.
type DeleteProductRequest struct {
	Reason string `json:"reason"`
}

// ProductSearchQuery filtros del listado de productos.
type ProductSearchQuery struct {
	Query          string
	Category       string
	Status         string
	MinPrice       *decimal.Decimal
	MaxPrice       *decimal.Decimal
	WithoutBarcode bool
	PageRequest
}

// ProductResponse salida de un producto con sus campos derivados.
type ProductResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Category           string           `json:"category"`
	Unit               string           `json:"unit"`
	Barcode            string           `json:"barcode"`
	Description        string           `json:"description"`
	Cost               decimal.Decimal  `json:"cost"`
	WholesalePrice     decimal.Decimal  `json:"wholesale_price"`
	RetailPrice        decimal.Decimal  `json:"retail_price"`
	NetWeightKg        *decimal.Decimal `json:"net_weight_kg,omitempty"`
	NetVolumeL         *decimal.Decimal `json:"net_volume_l,omitempty"`
	AllowFractional    bool             `json:"allow_fractional"`
	Status             string           `json:"status"`
	DeletionReason     string           `json:"deletion_reason,omitempty"`
	ImageURL           string           `json:"image_url"`
	ImageSource        string           `json:"image_source"`
	Stock              decimal.Decimal  `json:"stock"`
	StockMin           decimal.Decimal  `json:"stock_min"`
	StockMax           *decimal.Decimal `json:"stock_max,omitempty"`
	ReorderPoint       *decimal.Decimal `json:"reorder_point,omitempty"`
	AllowNegativeStock bool             `json:"allow_negative_stock"`
	Location           string           `json:"location"`
	DefaultSupplierID  string           `json:"default_supplier_id,omitempty"`
	LastPriceUpdate    *time.Time       `json:"last_price_update,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`

	MarginRetail    decimal.Decimal  `json:"margin_retail"`
	MarginWholesale decimal.Decimal  `json:"margin_wholesale"`
	BelowCost       bool             `json:"below_cost"`
	Sellable        bool             `json:"sellable"`
	PricePerKg      *decimal.Decimal `json:"price_per_kg,omitempty"`
	PricePerLiter   *decimal.Decimal `json:"price_per_liter,omitempty"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	PageResponse
	Items []ProductResponse `json:"items"`
}

// ProductHistoryResponse cambio registrado sobre un producto.
type ProductHistoryResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Reason    string    `json:"reason"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductStatsResponse estadísticas generales del catálogo.
type ProductStatsResponse struct {
	TotalProducts          int             `json:"total_products"`
	ProductsByCategory     map[string]int  `json:"products_by_category"`
	ProductsWithoutPrice   int             `json:"products_without_price"`
	ProductsWithoutBarcode int             `json:"products_without_barcode"`
	AvgRetailPrice         decimal.Decimal `json:"avg_retail_price"`
	AvgWholesalePrice      decimal.Decimal `json:"avg_wholesale_price"`
}

// BulkPriceUpdateRequest actualización masiva por porcentaje sobre una categoría o lista de códigos.
type BulkPriceUpdateRequest struct {
	Category   string          `json:"category"`
	Codes      []string        `json:"codes"`
	Percentage decimal.Decimal `json:"percentage"`
	ApplyTo    string          `json:"apply_to"` // menor | mayor | ambos
	Reason     string          `json:"reason"`
}

// BulkPriceChange precios antes y después para un producto.
type BulkPriceChange struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	OldRetailPrice    decimal.Decimal `json:"old_retail_price"`
	NewRetailPrice    decimal.Decimal `json:"new_retail_price"`
	OldWholesalePrice decimal.Decimal `json:"old_wholesale_price"`
	NewWholesalePrice decimal.Decimal `json:"new_wholesale_price"`
}

// BulkPriceUpdateResponse resultado de la actualización masiva.
type BulkPriceUpdateResponse struct {
	Updated  int               `json:"updated"`
	Products []BulkPriceChange `json:"products"`
}
