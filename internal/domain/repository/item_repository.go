package repository

import "github.com/jhoicas/suministros-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia del catálogo de consumibles.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	Update(item *entity.Item) error
	List(limit, offset int) ([]*entity.Item, error)
}

// LowStockRow resultado crudo del reporte de ítems bajo su umbral de reorden.
type LowStockRow struct {
	ItemID     string
	ItemName   string
	Unit       string
	LocationID string
	Quantity   int64
	Threshold  int64
}

// LowStockRepository consulta de lectura que cruza stock con el catálogo.
type LowStockRepository interface {
	ListBelowThreshold(locationID string) ([]LowStockRow, error)
}
