package requisition

import (
	"context"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del workflow atados a esa tx. Aprobación y cumplimiento
// comparten la misma transacción: o ambos confirman o ninguno.
type TxRunner interface {
	RunRequisition(ctx context.Context, fn func(
		reqRepo repository.RequisitionRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// Notifier despacha avisos de transición de una requisición. Las
// implementaciones son fire-and-forget: un fallo de notificación jamás
// revierte una mutación de stock ni de requisición.
type Notifier interface {
	RequisitionSubmitted(req *entity.Requisition)
	RequisitionDecided(req *entity.Requisition)
}

// SlipGenerator genera la papeleta imprimible de una requisición.
type SlipGenerator interface {
	Generate(req *entity.Requisition, dept *entity.Department, itemNames map[string]string) ([]byte, error)
}
