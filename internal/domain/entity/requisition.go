package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una requisición.
type RequisitionStatus string

const (
	RequisitionDraft     RequisitionStatus = "draft"
	RequisitionPending   RequisitionStatus = "pending"
	RequisitionApproved  RequisitionStatus = "approved"
	RequisitionFulfilled RequisitionStatus = "fulfilled"
	RequisitionRejected  RequisitionStatus = "rejected"
	RequisitionCancelled RequisitionStatus = "cancelled"
)

// Terminal indica si el estado no admite más transiciones.
func (s RequisitionStatus) Terminal() bool {
	switch s {
	case RequisitionFulfilled, RequisitionRejected, RequisitionCancelled:
		return true
	}
	return false
}

// Niveles de urgencia de una requisición.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// Valid indica si la urgencia pertenece al enum.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyUrgent:
		return true
	}
	return false
}

// Destino de la requisición: para el departamento o para una persona.
const (
	RequestedForDepartment = "department"
	RequestedForPersonal   = "personal"
)

// Requisition es una solicitud de retiro de stock sujeta a aprobación.
// Los renglones solo se editan en draft; desde Submit quedan congelados.
type Requisition struct {
	ID                 string
	RequisitionNo      string // secuencia legible, p.ej. REQ-2026-000042
	DepartmentID       string
	RequestedByUserID  string
	RequestedForType   string // department | personal
	RequestedForUserID string // obligatorio solo si personal
	Purpose            string
	Urgency            Urgency
	Status             RequisitionStatus
	ApprovedByL1ID     string
	ApprovedByL2ID     string
	RejectionReason    string
	Items              []RequisitionItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
	SubmittedAt        *time.Time
	DecidedAt          *time.Time // aprobación final o rechazo
	FulfilledAt        *time.Time
}

// RequisitionItem es un renglón de la requisición. EstimatedUnitCost es un
// snapshot al momento de crear el renglón; no sigue al costo del catálogo.
type RequisitionItem struct {
	ID                string
	RequisitionID     string
	ItemID            string
	Quantity          int64
	EstimatedUnitCost decimal.Decimal
	Position          int
}

// transiciones válidas del workflow. Cualquier otro par (desde, hacia) es
// ErrInvalidState sin mutar nada.
var requisitionTransitions = map[RequisitionStatus][]RequisitionStatus{
	RequisitionDraft:    {RequisitionPending, RequisitionCancelled},
	RequisitionPending:  {RequisitionApproved, RequisitionRejected, RequisitionCancelled},
	RequisitionApproved: {RequisitionFulfilled, RequisitionCancelled},
}

// CanTransition indica si el workflow permite pasar de s a target.
func (s RequisitionStatus) CanTransition(target RequisitionStatus) bool {
	for _, t := range requisitionTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}
