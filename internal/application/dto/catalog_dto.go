package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name             string           `json:"name" validate:"required"`
	Unit             string           `json:"unit" validate:"required"`
	ReorderThreshold int64            `json:"reorder_threshold" validate:"min=0"`
	DefaultUnitCost  *decimal.Decimal `json:"default_unit_cost,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id (campos opcionales).
type UpdateItemRequest struct {
	Name             *string          `json:"name,omitempty"`
	Unit             *string          `json:"unit,omitempty"`
	ReorderThreshold *int64           `json:"reorder_threshold,omitempty"`
	DefaultUnitCost  *decimal.Decimal `json:"default_unit_cost,omitempty"`
}

// ItemResponse un consumible del catálogo.
type ItemResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	ReorderThreshold int64           `json:"reorder_threshold"`
	DefaultUnitCost  decimal.Decimal `json:"default_unit_cost"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required,oneof=central department"`
}

// LocationResponse una ubicación física.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDepartmentRequest body para POST /api/departments.
type CreateDepartmentRequest struct {
	Name              string `json:"name" validate:"required"`
	DefaultLocationID string `json:"default_location_id" validate:"required"`
	ApproverL1ID      string `json:"approver_l1_id" validate:"required"`
	ApproverL2ID      string `json:"approver_l2_id,omitempty"`
	RequiresTwoLevels bool   `json:"requires_two_levels"`
}

// UpdateDepartmentRequest body para PUT /api/departments/:id.
type UpdateDepartmentRequest struct {
	Name              *string `json:"name,omitempty"`
	DefaultLocationID *string `json:"default_location_id,omitempty"`
	ApproverL1ID      *string `json:"approver_l1_id,omitempty"`
	ApproverL2ID      *string `json:"approver_l2_id,omitempty"`
	RequiresTwoLevels *bool   `json:"requires_two_levels,omitempty"`
}

// DepartmentResponse un departamento con su cadena de aprobación.
type DepartmentResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	DefaultLocationID string    `json:"default_location_id"`
	ApproverL1ID      string    `json:"approver_l1_id"`
	ApproverL2ID      string    `json:"approver_l2_id,omitempty"`
	RequiresTwoLevels bool      `json:"requires_two_levels"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
