package requisition

import (
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// ToResponse mapea la requisición al DTO de respuesta HTTP.
func ToResponse(req *entity.Requisition) dto.RequisitionResponse {
	items := make([]dto.RequisitionItemResponse, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, dto.RequisitionItemResponse{
			ItemID:            it.ItemID,
			Quantity:          it.Quantity,
			EstimatedUnitCost: it.EstimatedUnitCost,
		})
	}
	return dto.RequisitionResponse{
		RequisitionNo:      req.RequisitionNo,
		DepartmentID:       req.DepartmentID,
		RequestedByUserID:  req.RequestedByUserID,
		RequestedForType:   req.RequestedForType,
		RequestedForUserID: req.RequestedForUserID,
		Purpose:            req.Purpose,
		Urgency:            string(req.Urgency),
		Status:             string(req.Status),
		ApprovedByL1ID:     req.ApprovedByL1ID,
		ApprovedByL2ID:     req.ApprovedByL2ID,
		RejectionReason:    req.RejectionReason,
		Items:              items,
		CreatedAt:          req.CreatedAt,
		SubmittedAt:        req.SubmittedAt,
		DecidedAt:          req.DecidedAt,
		FulfilledAt:        req.FulfilledAt,
	}
}
