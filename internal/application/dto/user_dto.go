package dto

// RegisterRequest body para POST /api/auth/register.
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Name         string `json:"name,omitempty"`
	DepartmentID string `json:"department_id" validate:"required"`
	Role         string `json:"role,omitempty" validate:"omitempty,oneof=admin bodeguero solicitante"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse usuario sin datos sensibles.
type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	DepartmentID string `json:"department_id"`
	Role         string `json:"role"`
}

// LoginResponse token emitido tras autenticación.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
