package repository

import (
	"context"

	"github.com/lafuga/gestion-api/internal/domain/entity"
)

// AuthorizedUserRepository define el puerto de persistencia para la lista blanca de usuarios.
type AuthorizedUserRepository interface {
	Create(ctx context.Context, u *entity.AuthorizedUser) error
	GetByID(ctx context.Context, id string) (*entity.AuthorizedUser, error)
	GetByEmail(ctx context.Context, email string) (*entity.AuthorizedUser, error)
	List(ctx context.Context) ([]*entity.AuthorizedUser, error)
	UpdateRole(ctx context.Context, id, role string) error
	Delete(ctx context.Context, id string) error
	// LockByRole bloquea las filas con ese rol hasta el fin de la transacción y devuelve cuántas son.
	LockByRole(ctx context.Context, role string) (int, error)
}
