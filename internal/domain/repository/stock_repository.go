package repository

import "github.com/jhoicas/suministros-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar stock por
// ítem+ubicación. Las escrituras solo ocurren dentro de transacciones del
// motor de mutación de stock; ningún otro componente escribe Quantity.
type StockRepository interface {
	Get(itemID, locationID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). Si el par
	// (ítem, ubicación) no existe devuelve un registro en cero sin persistir.
	GetForUpdate(itemID, locationID string) (*entity.StockRecord, error)
	Upsert(record *entity.StockRecord) error
	ListByLocation(locationID string, limit, offset int) ([]*entity.StockRecord, error)
	ListByItem(itemID string) ([]*entity.StockRecord, error)
}
