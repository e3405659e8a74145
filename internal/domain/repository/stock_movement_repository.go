package repository

import (
	"context"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para movimientos de stock (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, int, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
