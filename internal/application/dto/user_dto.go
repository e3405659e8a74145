package dto

import "time"

// CreateAuthorizedUserRequest habilita un email con un rol.
type CreateAuthorizedUserRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateRoleRequest cambio de rol.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// AuthorizedUserResponse usuario habilitado.
type AuthorizedUserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// MeResponse identidad del usuario autenticado.
type MeResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
