package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

var _ repository.LowStockRepository = (*LowStockRepo)(nil)

// LowStockRepo reporte de lectura: ítems cuyo stock quedó por debajo de su
// umbral de reorden. Cruza stock con el catálogo; no participa en el ledger.
type LowStockRepo struct {
	q Querier
}

// NewLowStockRepository construye el adaptador del reporte.
func NewLowStockRepository(q Querier) *LowStockRepo {
	return &LowStockRepo{q: q}
}

// ListBelowThreshold devuelve los pares (ítem, ubicación) bajo el umbral del
// ítem, ordenados por déficit descendente (mayor quiebre primero). Con
// locationID vacío considera todas las ubicaciones.
func (r *LowStockRepo) ListBelowThreshold(locationID string) ([]repository.LowStockRow, error) {
	query := `
		SELECT i.id, i.name, i.unit, s.location_id, s.quantity, i.reorder_threshold
		FROM stock_records s
		JOIN items i ON i.id = s.item_id
		WHERE i.reorder_threshold > 0
		  AND s.quantity < i.reorder_threshold`
	args := []any{}
	if locationID != "" {
		query += " AND s.location_id = $1"
		args = append(args, locationID)
	}
	query += " ORDER BY (i.reorder_threshold - s.quantity) DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var out []repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ItemID, &row.ItemName, &row.Unit,
			&row.LocationID, &row.Quantity, &row.Threshold); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
