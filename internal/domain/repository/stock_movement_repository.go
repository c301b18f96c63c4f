package repository

import (
	"time"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del historial de
// mutaciones de stock. El historial es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
