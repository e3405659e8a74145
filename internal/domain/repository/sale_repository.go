package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// SaleSummary fila del listado de tickets.
type SaleSummary struct {
	Sale      entity.Sale
	ItemCount int
}

// SaleStats totales de ventas separados por tipo.
type SaleStats struct {
	TotalSales      int
	TotalAmount     decimal.Decimal
	WholesaleCount  int
	WholesaleAmount decimal.Decimal
	RetailCount     int
	RetailAmount    decimal.Decimal
}

// SaleRepository define el puerto de persistencia para tickets de venta.
type SaleRepository interface {
	// Create persiste cabecera e ítems y completa Number con el correlativo asignado.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter) ([]SaleSummary, int, error)
	ListSince(ctx context.Context, from time.Time) ([]*entity.Sale, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, from, to *time.Time) (*SaleStats, error)
}
