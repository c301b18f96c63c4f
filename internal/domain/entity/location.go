package entity

import "time"

// Tipos de ubicación física de stock.
const (
	LocationTypeCentral    = "central"    // bodega central
	LocationTypeDepartment = "department" // sub-bodega de departamento
)

// Location representa una ubicación física donde se almacena stock.
type Location struct {
	ID        string
	Name      string
	Type      string // central | department
	CreatedAt time.Time
	UpdatedAt time.Time
}
