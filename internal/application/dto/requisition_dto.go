package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequisitionItemRequest un renglón al crear o editar una requisición en draft.
type RequisitionItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int64  `json:"quantity" validate:"required,min=1"`
}

// CreateRequisitionRequest body para POST /api/requisitions.
type CreateRequisitionRequest struct {
	RequestedForType   string                   `json:"requested_for_type" validate:"required,oneof=department personal"`
	RequestedForUserID string                   `json:"requested_for_user_id,omitempty"`
	Purpose            string                   `json:"purpose" validate:"required"`
	Urgency            string                   `json:"urgency" validate:"required,oneof=low normal high urgent"`
	Items              []RequisitionItemRequest `json:"items" validate:"required,dive"`
}

// UpdateRequisitionItemsRequest body para PUT /api/requisitions/:no/items (solo draft).
type UpdateRequisitionItemsRequest struct {
	Items []RequisitionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// RejectRequisitionRequest body para POST /api/requisitions/:no/reject.
type RejectRequisitionRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RequisitionItemResponse un renglón congelado de la requisición.
type RequisitionItemResponse struct {
	ItemID            string          `json:"item_id"`
	Quantity          int64           `json:"quantity"`
	EstimatedUnitCost decimal.Decimal `json:"estimated_unit_cost"`
}

// RequisitionResponse cabecera + renglones de una requisición.
type RequisitionResponse struct {
	RequisitionNo      string                    `json:"requisition_no"`
	DepartmentID       string                    `json:"department_id"`
	RequestedByUserID  string                    `json:"requested_by_user_id"`
	RequestedForType   string                    `json:"requested_for_type"`
	RequestedForUserID string                    `json:"requested_for_user_id,omitempty"`
	Purpose            string                    `json:"purpose"`
	Urgency            string                    `json:"urgency"`
	Status             string                    `json:"status"`
	ApprovedByL1ID     string                    `json:"approved_by_l1_id,omitempty"`
	ApprovedByL2ID     string                    `json:"approved_by_l2_id,omitempty"`
	RejectionReason    string                    `json:"rejection_reason,omitempty"`
	Items              []RequisitionItemResponse `json:"items"`
	CreatedAt          time.Time                 `json:"created_at"`
	SubmittedAt        *time.Time                `json:"submitted_at,omitempty"`
	DecidedAt          *time.Time                `json:"decided_at,omitempty"`
	FulfilledAt        *time.Time                `json:"fulfilled_at,omitempty"`
}

// RequisitionListResponse página de requisiciones.
type RequisitionListResponse struct {
	Items []RequisitionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
