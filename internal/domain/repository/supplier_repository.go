package repository

import (
	"context"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	List(ctx context.Context, f SupplierFilter) ([]*entity.Supplier, int, error)
}
