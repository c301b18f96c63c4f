package requisition

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/approval"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// Actor identifica quién ejecuta una transición del workflow.
type Actor struct {
	UserID       string
	DepartmentID string
}

// WorkflowUseCase conduce una requisición por el ciclo
// draft → pending → approved/rejected → fulfilled/cancelled e invoca el
// débito de stock exactamente una vez, en la transición de cumplimiento.
type WorkflowUseCase struct {
	txRunner TxRunner
	reqRepo  repository.RequisitionRepository
	deptRepo repository.DepartmentRepository
	itemRepo repository.ItemRepository
	notifier Notifier
}

// NewWorkflowUseCase construye el caso de uso. notifier puede ser nil.
func NewWorkflowUseCase(
	txRunner TxRunner,
	reqRepo repository.RequisitionRepository,
	deptRepo repository.DepartmentRepository,
	itemRepo repository.ItemRepository,
	notifier Notifier,
) *WorkflowUseCase {
	return &WorkflowUseCase{
		txRunner: txRunner,
		reqRepo:  reqRepo,
		deptRepo: deptRepo,
		itemRepo: itemRepo,
		notifier: notifier,
	}
}

// CreateInput entrada para crear una requisición en draft.
type CreateInput struct {
	RequestedForType   string
	RequestedForUserID string
	Purpose            string
	Urgency            entity.Urgency
	Items              []dto.RequisitionItemRequest
}

// Create crea la requisición en draft, asigna el consecutivo del año y toma
// el snapshot del costo estimado de cada renglón desde el catálogo.
func (uc *WorkflowUseCase) Create(ctx context.Context, actor Actor, in CreateInput) (*entity.Requisition, error) {
	if in.Purpose == "" || !in.Urgency.Valid() {
		return nil, domain.ErrInvalidInput
	}
	switch in.RequestedForType {
	case entity.RequestedForDepartment:
		// sin destinatario individual
	case entity.RequestedForPersonal:
		if in.RequestedForUserID == "" {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyRequisition
	}

	items, err := uc.buildItems(in.Items)
	if err != nil {
		return nil, err
	}

	dept, err := uc.deptRepo.GetByID(actor.DepartmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	req := &entity.Requisition{
		ID:                 uuid.New().String(),
		DepartmentID:       actor.DepartmentID,
		RequestedByUserID:  actor.UserID,
		RequestedForType:   in.RequestedForType,
		RequestedForUserID: in.RequestedForUserID,
		Purpose:            in.Purpose,
		Urgency:            in.Urgency,
		Status:             entity.RequisitionDraft,
		Items:              items,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// Consecutivo + inserción en la misma transacción para que el número
	// asignado nunca quede huérfano ni se duplique.
	err = uc.txRunner.RunRequisition(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		no, err := reqRepo.NextRequisitionNo(now.Year())
		if err != nil {
			return err
		}
		req.RequisitionNo = no
		return reqRepo.Create(req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// UpdateItems reemplaza los renglones de una requisición en draft. Solo el
// solicitante puede editarla y solo mientras no haya sido enviada.
func (uc *WorkflowUseCase) UpdateItems(ctx context.Context, actor Actor, requisitionNo string, in []dto.RequisitionItemRequest) (*entity.Requisition, error) {
	if len(in) == 0 {
		return nil, domain.ErrEmptyRequisition
	}
	items, err := uc.buildItems(in)
	if err != nil {
		return nil, err
	}

	var updated *entity.Requisition
	err = uc.txRunner.RunRequisition(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		req, err := lockRequisition(reqRepo, requisitionNo)
		if err != nil {
			return err
		}
		if req.Status != entity.RequisitionDraft {
			return &domain.StateError{RequisitionNo: requisitionNo, Current: string(req.Status), Attempted: "editar renglones"}
		}
		if req.RequestedByUserID != actor.UserID {
			return domain.ErrUnauthorized
		}
		for i := range items {
			items[i].RequisitionID = req.ID
		}
		if err := reqRepo.ReplaceItems(req.ID, items); err != nil {
			return err
		}
		req.Items = items
		req.UpdatedAt = time.Now()
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		updated = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Submit pasa la requisición de draft a pending y congela los renglones.
// Solo el solicitante puede enviarla y debe tener al menos un renglón válido.
func (uc *WorkflowUseCase) Submit(ctx context.Context, actor Actor, requisitionNo string) (*entity.Requisition, error) {
	var submitted *entity.Requisition
	err := uc.txRunner.RunRequisition(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		req, err := lockRequisition(reqRepo, requisitionNo)
		if err != nil {
			return err
		}
		if !req.Status.CanTransition(entity.RequisitionPending) {
			return &domain.StateError{RequisitionNo: requisitionNo, Current: string(req.Status), Attempted: "enviar"}
		}
		if req.RequestedByUserID != actor.UserID {
			return domain.ErrUnauthorized
		}
		if len(req.Items) == 0 {
			return domain.ErrEmptyRequisition
		}
		for _, it := range req.Items {
			if it.Quantity <= 0 {
				return domain.ErrEmptyRequisition
			}
		}
		now := time.Now()
		req.Status = entity.RequisitionPending
		req.SubmittedAt = &now
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		submitted = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.notifier != nil {
		uc.notifier.RequisitionSubmitted(submitted)
	}
	return submitted, nil
}

// Approve registra la aprobación del actor en el nivel que corresponda.
// Cuando se llena el último nivel requerido, el cumplimiento corre en la
// MISMA transacción: un débito por renglón en la ubicación por defecto del
// departamento. Si algún renglón no tiene stock, toda la aprobación se
// revierte: el estado sigue pending y ninguna existencia cambia.
func (uc *WorkflowUseCase) Approve(ctx context.Context, actor Actor, requisitionNo string) (*entity.Requisition, error) {
	var approved *entity.Requisition
	var fulfilled bool
	err := uc.txRunner.RunRequisition(ctx, func(
		reqRepo repository.RequisitionRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		req, err := lockRequisition(reqRepo, requisitionNo)
		if err != nil {
			return err
		}
		if !req.Status.CanTransition(entity.RequisitionApproved) {
			return &domain.StateError{RequisitionNo: requisitionNo, Current: string(req.Status), Attempted: "aprobar"}
		}

		dept, policy, err := uc.policyFor(req)
		if err != nil {
			return err
		}
		levels := policy.RequiredLevels(req.Urgency)

		// La política se evalúa de nuevo en cada intento, sin estado cacheado.
		level := 1
		if req.ApprovedByL1ID != "" {
			level = 2
		}
		if level > levels {
			return &domain.StateError{RequisitionNo: requisitionNo, Current: string(req.Status), Attempted: "aprobar"}
		}
		if !policy.CanAct(actor.UserID, level) {
			return domain.ErrUnauthorized
		}

		now := time.Now()
		if level == 1 {
			req.ApprovedByL1ID = actor.UserID
		} else {
			req.ApprovedByL2ID = actor.UserID
		}
		req.UpdatedAt = now

		if level < levels {
			// Falta el siguiente nivel: sigue pending con el L1 registrado.
			if err := reqRepo.Update(req); err != nil {
				return err
			}
			approved = req
			return nil
		}

		// Último nivel lleno: aprobar y cumplir en una sola decisión atómica.
		if err := uc.fulfill(stockRepo, movRepo, req, dept, actor.UserID, now); err != nil {
			return err
		}
		req.Status = entity.RequisitionFulfilled
		req.DecidedAt = &now
		req.FulfilledAt = &now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		approved = req
		fulfilled = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if fulfilled && uc.notifier != nil {
		uc.notifier.RequisitionDecided(approved)
	}
	return approved, nil
}

// Reject rechaza una requisición pending. Aplica la misma regla de
// autorización que Approve para el nivel en curso. No mueve stock.
func (uc *WorkflowUseCase) Reject(ctx context.Context, actor Actor, requisitionNo, reason string) (*entity.Requisition, error) {
	var rejected *entity.Requisition
	err := uc.txRunner.RunRequisition(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		req, err := lockRequisition(reqRepo, requisitionNo)
		if err != nil {
			return err
		}
		if !req.Status.CanTransition(entity.RequisitionRejected) {
			return &domain.StateError{RequisitionNo: requisitionNo, Current: string(req.Status), Attempted: "rechazar"}
		}
		_, policy, err := uc.policyFor(req)
		if err != nil {
			return err
		}
		level := 1
		if req.ApprovedByL1ID != "" {
			level = 2
		}
		if !policy.CanAct(actor.UserID, level) {
			return domain.ErrUnauthorized
		}
		now := time.Now()
		req.Status = entity.RequisitionRejected
		req.RejectionReason = reason
		req.DecidedAt = &now
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.notifier != nil {
		uc.notifier.RequisitionDecided(rejected)
	}
	return rejected, nil
}

// Cancel cancela una requisición en draft o pending. Solo el solicitante
// original puede cancelarla. No mueve stock.
func (uc *WorkflowUseCase) Cancel(ctx context.Context, actor Actor, requisitionNo string) (*entity.Requisition, error) {
	var cancelled *entity.Requisition
	err := uc.txRunner.RunRequisition(ctx, func(
		reqRepo repository.RequisitionRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		req, err := lockRequisition(reqRepo, requisitionNo)
		if err != nil {
			return err
		}
		if !req.Status.CanTransition(entity.RequisitionCancelled) {
			return &domain.StateError{RequisitionNo: requisitionNo, Current: string(req.Status), Attempted: "cancelar"}
		}
		if req.RequestedByUserID != actor.UserID {
			return domain.ErrUnauthorized
		}
		now := time.Now()
		req.Status = entity.RequisitionCancelled
		req.DecidedAt = &now
		req.UpdatedAt = now
		if err := reqRepo.Update(req); err != nil {
			return err
		}
		cancelled = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// GetByNo devuelve la requisición con sus renglones.
func (uc *WorkflowUseCase) GetByNo(requisitionNo string) (*entity.Requisition, error) {
	req, err := uc.reqRepo.GetByNo(requisitionNo)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// ListByDepartment lista requisiciones de un departamento, opcionalmente
// filtradas por estado.
func (uc *WorkflowUseCase) ListByDepartment(departmentID, status string, limit, offset int) ([]*entity.Requisition, error) {
	return uc.reqRepo.ListByDepartment(departmentID, status, limit, offset)
}

// ListByRequester lista las requisiciones creadas por un usuario.
func (uc *WorkflowUseCase) ListByRequester(userID string, limit, offset int) ([]*entity.Requisition, error) {
	return uc.reqRepo.ListByRequester(userID, limit, offset)
}

// fulfill debita cada renglón en la ubicación por defecto del departamento,
// dentro de la transacción del caller. Las filas de stock se bloquean en
// orden ascendente de ítem (el mismo criterio determinista que los traslados
// usan con las ubicaciones) para que dos cumplimientos concurrentes con los
// mismos ítems en distinto orden no se bloqueen en cruz. El TransactionID del
// historial es el ID de la requisición, así el débito queda trazable al
// documento que lo originó.
func (uc *WorkflowUseCase) fulfill(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	req *entity.Requisition,
	dept *entity.Department,
	approverID string,
	now time.Time,
) error {
	lines := make([]entity.RequisitionItem, len(req.Items))
	copy(lines, req.Items)
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
	for _, it := range lines {
		record, err := stockRepo.GetForUpdate(it.ItemID, dept.DefaultLocationID)
		if err != nil {
			return err
		}
		if record.Quantity < it.Quantity {
			return &domain.StockShortageError{
				ItemID:     it.ItemID,
				LocationID: dept.DefaultLocationID,
				Requested:  it.Quantity,
				Available:  record.Quantity,
			}
		}
		record.Quantity -= it.Quantity
		record.RecomputeValue()
		record.UpdatedAt = now
		if err := stockRepo.Upsert(record); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			TransactionID:     req.ID,
			ItemID:            it.ItemID,
			LocationID:        dept.DefaultLocationID,
			Delta:             -it.Quantity,
			ResultingQuantity: record.Quantity,
			Actor:             approverID,
			Reason:            "requisición " + req.RequisitionNo,
			CreatedAt:         now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
	}
	return nil
}

// policyFor resuelve el departamento de la requisición y construye la
// política de aprobación desde su cadena configurada.
func (uc *WorkflowUseCase) policyFor(req *entity.Requisition) (*entity.Department, approval.Policy, error) {
	dept, err := uc.deptRepo.GetByID(req.DepartmentID)
	if err != nil {
		return nil, approval.Policy{}, err
	}
	if dept == nil {
		return nil, approval.Policy{}, domain.ErrNotFound
	}
	return dept, approval.ForDepartment(dept), nil
}

// buildItems valida los renglones y toma el snapshot de costo del catálogo.
func (uc *WorkflowUseCase) buildItems(in []dto.RequisitionItemRequest) ([]entity.RequisitionItem, error) {
	items := make([]entity.RequisitionItem, 0, len(in))
	for i, line := range in {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.RequisitionItem{
			ID:                uuid.New().String(),
			ItemID:            line.ItemID,
			Quantity:          line.Quantity,
			EstimatedUnitCost: item.DefaultUnitCost,
			Position:          i,
		})
	}
	return items, nil
}

// lockRequisition bloquea la fila de la requisición para serializar las
// transiciones concurrentes sobre el mismo número.
func lockRequisition(reqRepo repository.RequisitionRepository, requisitionNo string) (*entity.Requisition, error) {
	req, err := reqRepo.GetByNoForUpdate(requisitionNo)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}
