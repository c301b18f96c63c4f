package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = "item_id, location_id, quantity, unit_cost, total_value, updated_at"

func scanStock(row pgx.Row) (*entity.StockRecord, error) {
	var s entity.StockRecord
	err := row.Scan(&s.ItemID, &s.LocationID, &s.Quantity, &s.UnitCost, &s.TotalValue, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get obtiene el registro de stock de un par (ítem, ubicación). Si no existe
// devuelve un registro en cero sin persistirlo.
func (r *StockRepo) Get(itemID, locationID string) (*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records WHERE item_id = $1 AND location_id = $2`
	s, err := scanStock(r.q.QueryRow(context.Background(), query, itemID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{ItemID: itemID, LocationID: locationID}, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
// Si el par aún no tiene fila la siembra en cero primero: un SELECT FOR UPDATE
// sobre una fila inexistente no bloquea nada, y dos primeras mutaciones
// concurrentes sobre la misma clave se pisarían la una a la otra.
func (r *StockRepo) GetForUpdate(itemID, locationID string) (*entity.StockRecord, error) {
	seed := `
		INSERT INTO stock_records (item_id, location_id, quantity, unit_cost, total_value, updated_at)
		VALUES ($1, $2, 0, 0, 0, now())
		ON CONFLICT (item_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), seed, itemID, locationID); err != nil {
		return nil, fmt.Errorf("seed stock record: %w", err)
	}
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records WHERE item_id = $1 AND location_id = $2
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(context.Background(), query, itemID, locationID))
	if err != nil {
		return nil, fmt.Errorf("get stock record for update: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza el registro de stock del par (ítem, ubicación).
func (r *StockRepo) Upsert(record *entity.StockRecord) error {
	query := `
		INSERT INTO stock_records (item_id, location_id, quantity, unit_cost, total_value, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (item_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, unit_cost = EXCLUDED.unit_cost,
		              total_value = EXCLUDED.total_value, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		record.ItemID, record.LocationID, record.Quantity, record.UnitCost, record.TotalValue,
	)
	if err != nil {
		return fmt.Errorf("upsert stock record: %w", err)
	}
	return nil
}

// ListByLocation lista las existencias de una ubicación.
func (r *StockRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records WHERE location_id = $1
		ORDER BY item_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by location: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListByItem lista las existencias de un ítem en todas las ubicaciones.
func (r *StockRepo) ListByItem(itemID string) ([]*entity.StockRecord, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_records WHERE item_id = $1
		ORDER BY location_id`
	rows, err := r.q.Query(context.Background(), query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list stock by item: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
