package repository

import "github.com/jhoicas/suministros-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia de ubicaciones.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	List(limit, offset int) ([]*entity.Location, error)
}
