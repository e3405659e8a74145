package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// ProductStats agregados para la pantalla de estadísticas.
type ProductStats struct {
	TotalProducts     int
	ByCategory        map[string]int
	WithoutPrice      int
	WithoutBarcode    int
	AvgRetailPrice    decimal.Decimal // solo precios > 0
	AvgWholesalePrice decimal.Decimal // solo precios > 0
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error
	UpdateStockAndCost(ctx context.Context, id string, stock, cost decimal.Decimal) error
	UpdatePrices(ctx context.Context, id string, retail, wholesale decimal.Decimal, at time.Time) error
	// UpdateImage escribe solo las columnas de imagen; el resto de la fila no se toca.
	UpdateImage(ctx context.Context, id, imageURL, source string, fetchedAt *time.Time) error
	Search(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	// ListForBulkUpdate bloquea los productos no eliminados de la categoría o de los códigos dados.
	ListForBulkUpdate(ctx context.Context, category string, codes []string) ([]*entity.Product, error)
	ListStockAlerts(ctx context.Context) ([]*entity.Product, error)
	ListReorderCandidates(ctx context.Context) ([]*entity.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*ProductStats, error)
}

// ProductHistoryRepository auditoría de cambios de productos.
type ProductHistoryRepository interface {
	Create(ctx context.Context, h *entity.ProductHistory) error
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.ProductHistory, error)
}
