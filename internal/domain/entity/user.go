package entity

import "time"

// Roles de la aplicación.
const (
	RoleAdmin       = "admin"
	RoleBodeguero   = "bodeguero"   // opera ajustes y traslados de stock
	RoleSolicitante = "solicitante" // crea y envía requisiciones
)

// User representa un usuario del sistema con su departamento y rol.
type User struct {
	ID           string
	DepartmentID string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
