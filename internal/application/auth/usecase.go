package auth

import (
	"context"
	"strings"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

// AccessUseCase resuelve la identidad del token contra la lista blanca.
// El login lo hace el proveedor externo; acá solo se decide si el email puede operar y con qué rol.
type AccessUseCase struct {
	users repository.AuthorizedUserRepository
}

// NewAccessUseCase construye el caso de uso de acceso.
func NewAccessUseCase(users repository.AuthorizedUserRepository) *AccessUseCase {
	return &AccessUseCase{users: users}
}

// Resolve devuelve el actor habilitado o ErrForbidden si el email no está en la lista.
func (uc *AccessUseCase) Resolve(ctx context.Context, userID, email string) (dto.Actor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return dto.Actor{}, domain.ErrUnauthorized
	}
	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return dto.Actor{}, err
	}
	if u == nil {
		return dto.Actor{}, domain.ErrForbidden
	}
	return dto.Actor{UserID: userID, Email: u.Email, Role: u.Role}, nil
}

// Me datos del usuario autenticado.
func (uc *AccessUseCase) Me(actor dto.Actor) dto.MeResponse {
	return dto.MeResponse{UserID: actor.UserID, Email: actor.Email, Role: actor.Role}
}
