package entity

import "time"

// Roles válidos para AuthorizedUser.
const (
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleVendedor   = "vendedor"
	RoleSupervisor = "supervisor"
	RoleGerente    = "gerente"
)

// AuthorizedUser es una cuenta habilitada para ingresar al sistema.
// La autenticación la resuelve el proveedor externo; acá solo vive la lista blanca con su rol.
type AuthorizedUser struct {
	ID        string
	Email     string
	Role      string
	CreatedAt time.Time
}

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleVendedor, RoleSupervisor, RoleGerente:
		return true
	}
	return false
}
