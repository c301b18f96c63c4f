package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

// RequisitionRepo implementación de RequisitionRepository sobre PostgreSQL.
// Cabecera en requisitions, renglones en requisition_items y el consecutivo
// anual en requisition_counters.
type RequisitionRepo struct {
	q Querier
}

// NewRequisitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequisitionRepository(q Querier) *RequisitionRepo {
	return &RequisitionRepo{q: q}
}

// NextRequisitionNo asigna el siguiente consecutivo del año. El UPDATE del
// contador bloquea la fila del año, así dos creaciones concurrentes nunca
// reciben el mismo número.
func (r *RequisitionRepo) NextRequisitionNo(year int) (string, error) {
	query := `
		INSERT INTO requisition_counters (year, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_seq = requisition_counters.last_seq + 1
		RETURNING last_seq`
	var seq int
	if err := r.q.QueryRow(context.Background(), query, year).Scan(&seq); err != nil {
		return "", fmt.Errorf("next requisition no: %w", err)
	}
	return fmt.Sprintf("REQ-%d-%06d", year, seq), nil
}

const requisitionColumns = `id, requisition_no, department_id, requested_by_user_id,
		requested_for_type, requested_for_user_id, purpose, urgency, status,
		approved_by_l1_id, approved_by_l2_id, rejection_reason,
		created_at, updated_at, submitted_at, decided_at, fulfilled_at`

func scanRequisition(row pgx.Row) (*entity.Requisition, error) {
	var req entity.Requisition
	var forUser, l1, l2, reason *string
	err := row.Scan(
		&req.ID, &req.RequisitionNo, &req.DepartmentID, &req.RequestedByUserID,
		&req.RequestedForType, &forUser, &req.Purpose, &req.Urgency, &req.Status,
		&l1, &l2, &reason,
		&req.CreatedAt, &req.UpdatedAt, &req.SubmittedAt, &req.DecidedAt, &req.FulfilledAt,
	)
	if err != nil {
		return nil, err
	}
	if forUser != nil {
		req.RequestedForUserID = *forUser
	}
	if l1 != nil {
		req.ApprovedByL1ID = *l1
	}
	if l2 != nil {
		req.ApprovedByL2ID = *l2
	}
	if reason != nil {
		req.RejectionReason = *reason
	}
	return &req, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserta cabecera y renglones.
func (r *RequisitionRepo) Create(req *entity.Requisition) error {
	query := `
		INSERT INTO requisitions (` + requisitionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.RequisitionNo, req.DepartmentID, req.RequestedByUserID,
		req.RequestedForType, nullable(req.RequestedForUserID), req.Purpose, req.Urgency, req.Status,
		nullable(req.ApprovedByL1ID), nullable(req.ApprovedByL2ID), nullable(req.RejectionReason),
		req.CreatedAt, req.UpdatedAt, req.SubmittedAt, req.DecidedAt, req.FulfilledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create requisition: %w", err)
	}
	return r.insertItems(req.ID, req.Items)
}

func (r *RequisitionRepo) insertItems(requisitionID string, items []entity.RequisitionItem) error {
	query := `
		INSERT INTO requisition_items (id, requisition_id, item_id, quantity, estimated_unit_cost, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, it := range items {
		_, err := r.q.Exec(context.Background(), query,
			it.ID, requisitionID, it.ItemID, it.Quantity, it.EstimatedUnitCost, it.Position,
		)
		if err != nil {
			return fmt.Errorf("insert requisition item: %w", err)
		}
	}
	return nil
}

func (r *RequisitionRepo) loadItems(req *entity.Requisition) error {
	query := `
		SELECT id, requisition_id, item_id, quantity, estimated_unit_cost, position
		FROM requisition_items WHERE requisition_id = $1
		ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, req.ID)
	if err != nil {
		return fmt.Errorf("load requisition items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.RequisitionItem
		if err := rows.Scan(&it.ID, &it.RequisitionID, &it.ItemID, &it.Quantity,
			&it.EstimatedUnitCost, &it.Position); err != nil {
			return fmt.Errorf("scan requisition item: %w", err)
		}
		req.Items = append(req.Items, it)
	}
	return rows.Err()
}

func (r *RequisitionRepo) getByNo(requisitionNo, suffix string) (*entity.Requisition, error) {
	query := `
		SELECT ` + requisitionColumns + `
		FROM requisitions WHERE requisition_no = $1` + suffix
	req, err := scanRequisition(r.q.QueryRow(context.Background(), query, requisitionNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requisition: %w", err)
	}
	if err := r.loadItems(req); err != nil {
		return nil, err
	}
	return req, nil
}

// GetByNo obtiene una requisición con sus renglones.
func (r *RequisitionRepo) GetByNo(requisitionNo string) (*entity.Requisition, error) {
	return r.getByNo(requisitionNo, "")
}

// GetByNoForUpdate bloquea la fila de la cabecera (SELECT FOR UPDATE) para
// serializar transiciones concurrentes sobre la misma requisición.
func (r *RequisitionRepo) GetByNoForUpdate(requisitionNo string) (*entity.Requisition, error) {
	return r.getByNo(requisitionNo, " FOR UPDATE")
}

// Update persiste la cabecera. No toca renglones.
func (r *RequisitionRepo) Update(req *entity.Requisition) error {
	query := `
		UPDATE requisitions SET
			status = $2, urgency = $3, purpose = $4,
			approved_by_l1_id = $5, approved_by_l2_id = $6, rejection_reason = $7,
			updated_at = $8, submitted_at = $9, decided_at = $10, fulfilled_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		req.ID, req.Status, req.Urgency, req.Purpose,
		nullable(req.ApprovedByL1ID), nullable(req.ApprovedByL2ID), nullable(req.RejectionReason),
		req.UpdatedAt, req.SubmittedAt, req.DecidedAt, req.FulfilledAt,
	)
	if err != nil {
		return fmt.Errorf("update requisition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems reemplaza los renglones de una requisición (solo draft).
func (r *RequisitionRepo) ReplaceItems(requisitionID string, items []entity.RequisitionItem) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM requisition_items WHERE requisition_id = $1`, requisitionID)
	if err != nil {
		return fmt.Errorf("delete requisition items: %w", err)
	}
	return r.insertItems(requisitionID, items)
}

func (r *RequisitionRepo) listWhere(where string, args []any, limit, offset int) ([]*entity.Requisition, error) {
	query := fmt.Sprintf(`
		SELECT `+requisitionColumns+`
		FROM requisitions WHERE %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Requisition
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan requisition: %w", err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, req := range list {
		if err := r.loadItems(req); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// ListByDepartment lista requisiciones de un departamento, opcionalmente por estado.
func (r *RequisitionRepo) ListByDepartment(departmentID, status string, limit, offset int) ([]*entity.Requisition, error) {
	if status != "" {
		return r.listWhere("department_id = $1 AND status = $2", []any{departmentID, status}, limit, offset)
	}
	return r.listWhere("department_id = $1", []any{departmentID}, limit, offset)
}

// ListByRequester lista las requisiciones creadas por un usuario.
func (r *RequisitionRepo) ListByRequester(userID string, limit, offset int) ([]*entity.Requisition, error) {
	return r.listWhere("requested_by_user_id = $1", []any{userID}, limit, offset)
}
