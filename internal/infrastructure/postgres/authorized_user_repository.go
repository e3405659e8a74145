package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lafuga/gestion-api/internal/domain"
	"github.com/lafuga/gestion-api/internal/domain/entity"
	"github.com/lafuga/gestion-api/internal/domain/repository"
)

var _ repository.AuthorizedUserRepository = (*AuthorizedUserRepo)(nil)

// AuthorizedUserRepo lista blanca de usuarios sobre PostgreSQL.
type AuthorizedUserRepo struct {
	q Querier
}

// NewAuthorizedUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuthorizedUserRepository(q Querier) *AuthorizedUserRepo {
	return &AuthorizedUserRepo{q: q}
}

// Create persiste un usuario autorizado. Email duplicado -> domain.ErrDuplicate.
func (r *AuthorizedUserRepo) Create(ctx context.Context, u *entity.AuthorizedUser) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO authorized_users (id, email, role, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, strings.ToLower(u.Email), u.Role, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert authorized user: %w", err)
	}
	return nil
}

func (r *AuthorizedUserRepo) getOne(ctx context.Context, where string, arg any) (*entity.AuthorizedUser, error) {
	var u entity.AuthorizedUser
	err := r.q.QueryRow(ctx,
		`SELECT id, email, role, created_at FROM authorized_users WHERE `+where, arg,
	).Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get authorized user: %w", err)
	}
	return &u, nil
}

// GetByID obtiene un usuario autorizado por ID.
func (r *AuthorizedUserRepo) GetByID(ctx context.Context, id string) (*entity.AuthorizedUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail busca por email sin distinguir mayúsculas.
func (r *AuthorizedUserRepo) GetByEmail(ctx context.Context, email string) (*entity.AuthorizedUser, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(strings.TrimSpace(email)))
}

// List lista todos los usuarios autorizados por email.
func (r *AuthorizedUserRepo) List(ctx context.Context) ([]*entity.AuthorizedUser, error) {
	rows, err := r.q.Query(ctx, `SELECT id, email, role, created_at FROM authorized_users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list authorized users: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuthorizedUser
	for rows.Next() {
		var u entity.AuthorizedUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan authorized user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// UpdateRole cambia el rol de un usuario.
func (r *AuthorizedUserRepo) UpdateRole(ctx context.Context, id, role string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE authorized_users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("update authorized user role: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete quita un usuario de la lista blanca.
func (r *AuthorizedUserRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM authorized_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete authorized user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockByRole SELECT ... FOR UPDATE sobre los usuarios del rol; devuelve cuántos quedaron bloqueados.
// Fuera de una transacción el bloqueo se libera al terminar la consulta.
func (r *AuthorizedUserRepo) LockByRole(ctx context.Context, role string) (int, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM authorized_users WHERE role = $1 ORDER BY id FOR UPDATE`, role)
	if err != nil {
		return 0, fmt.Errorf("lock authorized users: %w", err)
	}
	defer rows.Close()
	n := 0
	for rows.Next() {
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("lock authorized users: %w", err)
	}
	return n, nil
}
