package repository

import (
	"context"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// CatalogRepository define el puerto de persistencia para catálogos compartidos.
type CatalogRepository interface {
	Create(ctx context.Context, c *entity.Catalog) error
	GetByID(ctx context.Context, id string) (*entity.Catalog, error)
	GetByToken(ctx context.Context, token string) (*entity.Catalog, error)
	Update(ctx context.Context, c *entity.Catalog) error
	List(ctx context.Context, f CatalogFilter) ([]*entity.Catalog, int, error)
}
