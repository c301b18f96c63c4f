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

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implementación de DepartmentRepository sobre PostgreSQL.
// La cadena de aprobación vive aquí como configuración, no como código.
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

const departmentColumns = `id, name, default_location_id, approver_l1_id, approver_l2_id,
		requires_two_levels, created_at, updated_at`

func scanDepartment(row pgx.Row) (*entity.Department, error) {
	var d entity.Department
	var l2 *string
	err := row.Scan(&d.ID, &d.Name, &d.DefaultLocationID, &d.ApproverL1ID, &l2,
		&d.RequiresTwoLevels, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if l2 != nil {
		d.ApproverL2ID = *l2
	}
	return &d, nil
}

// Create inserta un departamento con su cadena de aprobación.
func (r *DepartmentRepo) Create(dept *entity.Department) error {
	query := `
		INSERT INTO departments (` + departmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		dept.ID, dept.Name, dept.DefaultLocationID, dept.ApproverL1ID, nullable(dept.ApproverL2ID),
		dept.RequiresTwoLevels, dept.CreatedAt, dept.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// GetByID obtiene un departamento; nil, nil si no existe.
func (r *DepartmentRepo) GetByID(id string) (*entity.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	dept, err := scanDepartment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return dept, nil
}

// Update actualiza nombre, ubicación por defecto y cadena de aprobación.
func (r *DepartmentRepo) Update(dept *entity.Department) error {
	query := `
		UPDATE departments SET name = $2, default_location_id = $3,
			approver_l1_id = $4, approver_l2_id = $5, requires_two_levels = $6,
			updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		dept.ID, dept.Name, dept.DefaultLocationID,
		dept.ApproverL1ID, nullable(dept.ApproverL2ID), dept.RequiresTwoLevels,
	)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista los departamentos paginados por nombre.
func (r *DepartmentRepo) List(limit, offset int) ([]*entity.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Department
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, dept)
	}
	return list, rows.Err()
}
