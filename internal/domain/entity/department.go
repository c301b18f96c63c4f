package entity

import "time"

// Department agrupa usuarios y define de dónde se despachan sus requisiciones
// y quiénes las aprueban. La cadena de aprobación (L1 obligatorio, L2
// opcional) es configuración, no código.
type Department struct {
	ID                string
	Name              string
	DefaultLocationID string // ubicación que se debita al cumplir una requisición
	ApproverL1ID      string
	ApproverL2ID      string // vacío = sin segundo nivel configurado
	RequiresTwoLevels bool   // fuerza doble aprobación para todas las urgencias
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
