package repository

import "github.com/jhoicas/suministros-api/internal/domain/entity"

// RequisitionRepository define el puerto de persistencia de requisiciones y
// sus renglones.
type RequisitionRepository interface {
	// NextRequisitionNo asigna el siguiente consecutivo del año (REQ-<año>-<seq>).
	NextRequisitionNo(year int) (string, error)
	Create(req *entity.Requisition) error
	GetByNo(requisitionNo string) (*entity.Requisition, error)
	// GetByNoForUpdate bloquea la fila de la requisición (SELECT FOR UPDATE)
	// para serializar transiciones concurrentes sobre el mismo número.
	GetByNoForUpdate(requisitionNo string) (*entity.Requisition, error)
	// Update persiste cabecera (estado, aprobadores, timestamps). No toca renglones.
	Update(req *entity.Requisition) error
	// ReplaceItems reemplaza los renglones; el caso de uso solo lo permite en draft.
	ReplaceItems(requisitionID string, items []entity.RequisitionItem) error
	ListByDepartment(departmentID string, status string, limit, offset int) ([]*entity.Requisition, error)
	ListByRequester(userID string, limit, offset int) ([]*entity.Requisition, error)
}
