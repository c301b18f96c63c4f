package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// querierSpy registra cada sentencia SQL emitida y responde QueryRow con una
// fila fija. Suficiente para verificar el protocolo de bloqueo sin una DB.
type querierSpy struct {
	statements []string
	row        pgx.Row
}

func (q *querierSpy) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	q.statements = append(q.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (q *querierSpy) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.statements = append(q.statements, sql)
	return nil, pgx.ErrNoRows
}

func (q *querierSpy) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.statements = append(q.statements, sql)
	return q.row
}

// stockRow entrega un registro fijo al Scan en el orden de stockColumns.
type stockRow struct {
	itemID     string
	locationID string
	quantity   int64
}

func (r stockRow) Scan(dest ...any) error {
	*dest[0].(*string) = r.itemID
	*dest[1].(*string) = r.locationID
	*dest[2].(*int64) = r.quantity
	*dest[3].(*decimal.Decimal) = decimal.Zero
	*dest[4].(*decimal.Decimal) = decimal.Zero
	*dest[5].(*time.Time) = time.Now()
	return nil
}

// GetForUpdate debe sembrar la fila (INSERT ... ON CONFLICT DO NOTHING) antes
// del SELECT ... FOR UPDATE: un FOR UPDATE sobre una fila inexistente no
// bloquea nada, y dos primeras mutaciones concurrentes sobre el mismo par
// (ítem, ubicación) leerían ambas cantidad cero y se pisarían el crédito.
func TestGetForUpdate_SiembraLaFilaAntesDeBloquear(t *testing.T) {
	spy := &querierSpy{row: stockRow{itemID: "item-1", locationID: "loc-1", quantity: 0}}
	repo := NewStockRepository(spy)

	rec, err := repo.GetForUpdate("item-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, "item-1", rec.ItemID)
	assert.Equal(t, "loc-1", rec.LocationID)
	assert.Equal(t, int64(0), rec.Quantity)

	require.Len(t, spy.statements, 2, "primero la siembra, después el bloqueo")

	seed := spy.statements[0]
	assert.Contains(t, seed, "INSERT INTO stock_records")
	assert.Contains(t, seed, "ON CONFLICT (item_id, location_id) DO NOTHING")

	lock := spy.statements[1]
	assert.Contains(t, lock, "FOR UPDATE")
	assert.True(t, strings.Contains(lock, "SELECT"), "el bloqueo debe ser un SELECT ... FOR UPDATE")
}

// Get es solo lectura: no debe sembrar filas ni bloquear.
func TestGet_NoSiembraNiBloquea(t *testing.T) {
	spy := &querierSpy{row: stockRow{itemID: "item-1", locationID: "loc-1", quantity: 7}}
	repo := NewStockRepository(spy)

	rec, err := repo.Get("item-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.Quantity)

	require.Len(t, spy.statements, 1)
	assert.NotContains(t, spy.statements[0], "INSERT")
	assert.NotContains(t, spy.statements[0], "FOR UPDATE")
}
