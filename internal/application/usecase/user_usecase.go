package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

// UserUseCase administración de la lista blanca de usuarios (solo admin).
type UserUseCase struct {
	repo repository.AuthorizedUserRepository
	tx   repository.TxRunner
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.AuthorizedUserRepository, tx repository.TxRunner) *UserUseCase {
	return &UserUseCase{repo: repo, tx: tx}
}

// List usuarios habilitados ordenados por email.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.AuthorizedUserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuthorizedUserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toAuthorizedUserResponse(u))
	}
	return out, nil
}

// Create habilita un email con un rol.
func (uc *UserUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateAuthorizedUserRequest) (*dto.AuthorizedUserResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if !entity.ValidRole(in.Role) {
		return nil, domain.Invalid("role", "rol inválido")
	}
	u := &entity.AuthorizedUser{
		ID:        uuid.New().String(),
		Email:     email,
		Role:      in.Role,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	log.Info().Str("email", email).Str("role", in.Role).Str("by", actor.Ref()).Msg("usuario habilitado")
	out := toAuthorizedUserResponse(u)
	return &out, nil
}

// UpdateRole cambia el rol. No se puede degradar a uno mismo ni al último admin.
func (uc *UserUseCase) UpdateRole(ctx context.Context, actor dto.Actor, id string, in dto.UpdateRoleRequest) (*dto.AuthorizedUserResponse, error) {
	if !entity.ValidRole(in.Role) {
		return nil, domain.Invalid("role", "rol inválido")
	}
	var u *entity.AuthorizedUser
	changed := false
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		var (
			admins int
			err    error
		)
		if u, admins, err = lockedTarget(ctx, r.Users, id); err != nil {
			return err
		}
		if u.Role == in.Role {
			return nil
		}
		if err := guardAdmin(actor, u, admins); err != nil {
			return err
		}
		if err := r.Users.UpdateRole(ctx, id, in.Role); err != nil {
			return err
		}
		u.Role = in.Role
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		log.Info().Str("email", u.Email).Str("role", in.Role).Str("by", actor.Ref()).Msg("rol actualizado")
	}
	out := toAuthorizedUserResponse(u)
	return &out, nil
}

// Delete quita el acceso. No se puede quitar a uno mismo ni al último admin.
func (uc *UserUseCase) Delete(ctx context.Context, actor dto.Actor, id string) error {
	var u *entity.AuthorizedUser
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		var (
			admins int
			err    error
		)
		if u, admins, err = lockedTarget(ctx, r.Users, id); err != nil {
			return err
		}
		if err := guardAdmin(actor, u, admins); err != nil {
			return err
		}
		return r.Users.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Str("email", u.Email).Str("by", actor.Ref()).Msg("usuario deshabilitado")
	return nil
}

// lockedTarget bloquea a los admins antes de leer el destino y devuelve cuántos hay.
func lockedTarget(ctx context.Context, users repository.AuthorizedUserRepository, id string) (*entity.AuthorizedUser, int, error) {
	admins, err := users.LockByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, 0, err
	}
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if u == nil {
		return nil, 0, domain.ErrNotFound
	}
	return u, admins, nil
}

// guardAdmin el actor se identifica por email: el ID de la lista blanca no es el sub del token.
func guardAdmin(actor dto.Actor, target *entity.AuthorizedUser, admins int) error {
	if strings.EqualFold(target.Email, actor.Email) {
		return domain.ErrConflict
	}
	if target.Role == entity.RoleAdmin && admins <= 1 {
		return domain.ErrConflict
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Invalid("email", "email inválido")
	}
	return email, nil
}

func toAuthorizedUserResponse(u *entity.AuthorizedUser) dto.AuthorizedUserResponse {
	return dto.AuthorizedUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
