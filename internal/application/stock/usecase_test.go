package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suministros-api/internal/application/stock"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/infrastructure/memory"
)

const (
	itemLapiceros = "item-7"
	locCentral    = "loc-1"
	locBodegaB    = "loc-2"
	actorBodega   = "user-bodeguero"
)

// newFixture construye el store en memoria con catálogo sembrado y el caso
// de uso de mutación apuntando a él.
func newFixture(t *testing.T) (*memory.Store, *stock.MutationUseCase) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	require.NoError(t, store.Items().Create(&entity.Item{
		ID: itemLapiceros, Name: "Lapiceros", Unit: "caja", ReorderThreshold: 10,
		DefaultUnitCost: decimal.RequireFromString("2.50"), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Locations().Create(&entity.Location{
		ID: locCentral, Name: "Bodega central", Type: entity.LocationTypeCentral, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Locations().Create(&entity.Location{
		ID: locBodegaB, Name: "Sub-bodega B", Type: entity.LocationTypeDepartment, CreatedAt: now, UpdatedAt: now,
	}))
	uc := stock.NewMutationUseCase(store, store.Items(), store.Locations())
	return store, uc
}

func adjust(t *testing.T, uc *stock.MutationUseCase, qty int64, typ entity.AdjustmentType) (*entity.StockRecord, error) {
	t.Helper()
	return uc.Adjust(context.Background(), stock.AdjustInput{
		ItemID: itemLapiceros, LocationID: locCentral, Quantity: qty, Type: typ, Actor: actorBodega,
	})
}

// set 50 y luego remove 10 deja 40 (semántica por tipo de ajuste).
func TestAdjust_SetLuegoRemove(t *testing.T) {
	_, uc := newFixture(t)

	rec, err := adjust(t, uc, 50, entity.AdjustmentSet)
	require.NoError(t, err)
	assert.Equal(t, int64(50), rec.Quantity)

	rec, err = adjust(t, uc, 10, entity.AdjustmentRemove)
	require.NoError(t, err)
	assert.Equal(t, int64(40), rec.Quantity)
}

// remove por encima del disponible falla y no muta nada: la existencia y el
// historial quedan idénticos al estado previo a la llamada.
func TestAdjust_RemoveInsuficienteNoMuta(t *testing.T) {
	store, uc := newFixture(t)

	_, err := adjust(t, uc, 3, entity.AdjustmentSet)
	require.NoError(t, err)

	_, err = adjust(t, uc, 5, entity.AdjustmentRemove)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, itemLapiceros, shortage.ItemID)
	assert.Equal(t, int64(5), shortage.Requested)
	assert.Equal(t, int64(3), shortage.Available)

	rec, err := store.Stock().Get(itemLapiceros, locCentral)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Quantity, "la cantidad no debe cambiar tras el fallo")

	movs, err := store.Movements().ListByItem(itemLapiceros, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "el remove fallido no debe dejar entrada de historial")
}

// el primer ajuste sobre un par (ítem, ubicación) desconocido lo crea en 0
// antes de aplicar la operación.
func TestAdjust_PrimeraVezCreaRegistro(t *testing.T) {
	_, uc := newFixture(t)

	rec, err := adjust(t, uc, 5, entity.AdjustmentAdd)
	require.NoError(t, err)
	assert.Equal(t, int64(5), rec.Quantity)
}

func TestAdjust_Validaciones(t *testing.T) {
	_, uc := newFixture(t)

	_, err := adjust(t, uc, 10, entity.AdjustmentType("destroy"))
	assert.ErrorIs(t, err, domain.ErrInvalidAdjustmentType)

	_, err = adjust(t, uc, -1, entity.AdjustmentAdd)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	// cantidad 0 solo es válida para set
	_, err = adjust(t, uc, 0, entity.AdjustmentAdd)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = adjust(t, uc, 0, entity.AdjustmentRemove)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	rec, err := adjust(t, uc, 0, entity.AdjustmentSet)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Quantity)
}

func TestAdjust_ItemOUbicacionInexistente(t *testing.T) {
	_, uc := newFixture(t)

	_, err := uc.Adjust(context.Background(), stock.AdjustInput{
		ItemID: "item-fantasma", LocationID: locCentral, Quantity: 1, Type: entity.AdjustmentAdd, Actor: actorBodega,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Adjust(context.Background(), stock.AdjustInput{
		ItemID: itemLapiceros, LocationID: "loc-fantasma", Quantity: 1, Type: entity.AdjustmentAdd, Actor: actorBodega,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// con unit_cost el ajuste actualiza el costo y recalcula el valor total.
func TestAdjust_ActualizaCostoYValorTotal(t *testing.T) {
	_, uc := newFixture(t)

	cost := decimal.RequireFromString("3.20")
	rec, err := uc.Adjust(context.Background(), stock.AdjustInput{
		ItemID: itemLapiceros, LocationID: locCentral, Quantity: 10,
		Type: entity.AdjustmentAdd, UnitCost: &cost, Actor: actorBodega,
	})
	require.NoError(t, err)
	assert.True(t, rec.UnitCost.Equal(cost))
	assert.True(t, rec.TotalValue.Equal(decimal.RequireFromString("32")), "total = 10 * 3.20, fue %s", rec.TotalValue)

	// sin unit_cost el costo previo se conserva y el valor total sigue la cantidad
	rec, err = adjust(t, uc, 4, entity.AdjustmentRemove)
	require.NoError(t, err)
	assert.True(t, rec.UnitCost.Equal(cost))
	assert.True(t, rec.TotalValue.Equal(decimal.RequireFromString("19.2")), "total = 6 * 3.20, fue %s", rec.TotalValue)
}

// traslado feliz: debita origen, acredita destino y conserva el total del ítem.
func TestTransfer_ConservaElTotal(t *testing.T) {
	store, uc := newFixture(t)

	_, err := adjust(t, uc, 40, entity.AdjustmentSet)
	require.NoError(t, err)

	from, to, err := uc.Transfer(context.Background(), stock.TransferInput{
		ItemID: itemLapiceros, FromLocationID: locCentral, ToLocationID: locBodegaB,
		Quantity: 20, Actor: actorBodega,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), from.Quantity)
	assert.Equal(t, int64(20), to.Quantity)

	records, err := store.Stock().ListByItem(itemLapiceros)
	require.NoError(t, err)
	var total int64
	for _, r := range records {
		total += r.Quantity
	}
	assert.Equal(t, int64(40), total, "el traslado debe conservar el total entre ubicaciones")

	// dos entradas de historial con el mismo transaction_id
	movs, err := store.Movements().ListByItem(itemLapiceros, nil, nil, 100, 0)
	require.NoError(t, err)
	require.Len(t, movs, 3) // set inicial + dos patas del traslado
	assert.Equal(t, movs[0].TransactionID, movs[1].TransactionID)
}

func TestTransfer_MismaUbicacion(t *testing.T) {
	_, uc := newFixture(t)
	_, _, err := uc.Transfer(context.Background(), stock.TransferInput{
		ItemID: itemLapiceros, FromLocationID: locCentral, ToLocationID: locCentral,
		Quantity: 5, Actor: actorBodega,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
}

// traslado sin stock suficiente: todo-o-nada, ninguna de las dos existencias
// cambia.
func TestTransfer_InsuficienteNoMutaNingunLado(t *testing.T) {
	store, uc := newFixture(t)

	_, err := adjust(t, uc, 10, entity.AdjustmentSet)
	require.NoError(t, err)

	_, _, err = uc.Transfer(context.Background(), stock.TransferInput{
		ItemID: itemLapiceros, FromLocationID: locCentral, ToLocationID: locBodegaB,
		Quantity: 20, Actor: actorBodega,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	origin, err := store.Stock().Get(itemLapiceros, locCentral)
	require.NoError(t, err)
	assert.Equal(t, int64(10), origin.Quantity)

	dest, err := store.Stock().Get(itemLapiceros, locBodegaB)
	require.NoError(t, err)
	assert.Equal(t, int64(0), dest.Quantity)
}

func TestTransfer_CantidadInvalida(t *testing.T) {
	_, uc := newFixture(t)
	_, _, err := uc.Transfer(context.Background(), stock.TransferInput{
		ItemID: itemLapiceros, FromLocationID: locCentral, ToLocationID: locBodegaB,
		Quantity: 0, Actor: actorBodega,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// el costo unitario no se mueve con el traslado: cada ubicación conserva el suyo.
func TestTransfer_NoTocaCostos(t *testing.T) {
	_, uc := newFixture(t)

	costA := decimal.RequireFromString("2.00")
	_, err := uc.Adjust(context.Background(), stock.AdjustInput{
		ItemID: itemLapiceros, LocationID: locCentral, Quantity: 30,
		Type: entity.AdjustmentSet, UnitCost: &costA, Actor: actorBodega,
	})
	require.NoError(t, err)

	costB := decimal.RequireFromString("9.99")
	_, err = uc.Adjust(context.Background(), stock.AdjustInput{
		ItemID: itemLapiceros, LocationID: locBodegaB, Quantity: 1,
		Type: entity.AdjustmentSet, UnitCost: &costB, Actor: actorBodega,
	})
	require.NoError(t, err)

	from, to, err := uc.Transfer(context.Background(), stock.TransferInput{
		ItemID: itemLapiceros, FromLocationID: locCentral, ToLocationID: locBodegaB,
		Quantity: 10, Actor: actorBodega,
	})
	require.NoError(t, err)
	assert.True(t, from.UnitCost.Equal(costA))
	assert.True(t, to.UnitCost.Equal(costB))
}

// el historial exige un filtro: sin ítem ni ubicación la consulta es inválida.
func TestMovements_SinFiltroEsInvalido(t *testing.T) {
	store, uc := newFixture(t)
	q := stock.NewQueryUseCase(store.Stock(), store.Movements(), store.LowStock())

	_, err := adjust(t, uc, 5, entity.AdjustmentAdd)
	require.NoError(t, err)

	_, err = q.Movements("", "", nil, nil, 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// con cualquiera de los dos filtros la consulta procede
	byLocation, err := q.Movements("", locCentral, nil, nil, 20, 0)
	require.NoError(t, err)
	assert.Len(t, byLocation, 1)

	byItem, err := q.Movements(itemLapiceros, "", nil, nil, 20, 0)
	require.NoError(t, err)
	assert.Len(t, byItem, 1)
}
