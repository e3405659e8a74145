package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras a proveedores.
type PurchaseRepository interface {
	Create(ctx context.Context, p *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la cabecera de la compra.
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateItemReceived(ctx context.Context, itemID string, received decimal.Decimal) error
	List(ctx context.Context, f PurchaseFilter) ([]*entity.Purchase, int, error)
}
