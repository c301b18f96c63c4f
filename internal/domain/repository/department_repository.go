package repository

import "github.com/jhoicas/suministros-api/internal/domain/entity"

// DepartmentRepository define el puerto de persistencia de departamentos,
// incluida su cadena de aprobación y ubicación de despacho por defecto.
type DepartmentRepository interface {
	Create(dept *entity.Department) error
	GetByID(id string) (*entity.Department, error)
	Update(dept *entity.Department) error
	List(limit, offset int) ([]*entity.Department, error)
}
