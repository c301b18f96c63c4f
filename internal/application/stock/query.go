package stock

import (
	"time"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// QueryUseCase lecturas del ledger: existencias, historial y reporte de
// stock bajo. No abre transacciones; el estado se re-lee del Store en cada
// consulta (nunca se cachean cantidades fuera de una transacción).
type QueryUseCase struct {
	stockRepo    repository.StockRepository
	movementRepo repository.StockMovementRepository
	lowStockRepo repository.LowStockRepository
}

// NewQueryUseCase construye el caso de uso de lectura.
func NewQueryUseCase(
	stockRepo repository.StockRepository,
	movementRepo repository.StockMovementRepository,
	lowStockRepo repository.LowStockRepository,
) *QueryUseCase {
	return &QueryUseCase{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		lowStockRepo: lowStockRepo,
	}
}

// ListByLocation lista existencias de una ubicación con paginación.
func (uc *QueryUseCase) ListByLocation(locationID string, limit, offset int) ([]dto.StockRecordResponse, error) {
	records, err := uc.stockRepo.ListByLocation(locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToStockRecordResponse(r))
	}
	return out, nil
}

// ListByItem lista las existencias de un ítem en todas sus ubicaciones.
func (uc *QueryUseCase) ListByItem(itemID string) ([]dto.StockRecordResponse, error) {
	records, err := uc.stockRepo.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToStockRecordResponse(r))
	}
	return out, nil
}

// Movements lista el historial por ítem o por ubicación. Al menos uno de los
// dos filtros es obligatorio: sin filtro la consulta no identifica un ledger.
func (uc *QueryUseCase) Movements(itemID, locationID string, from, to *time.Time, limit, offset int) ([]dto.StockMovementResponse, error) {
	if itemID == "" && locationID == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		movements []*entity.StockMovement
		err       error
	)
	if itemID != "" {
		movements, err = uc.movementRepo.ListByItem(itemID, from, to, limit, offset)
	} else {
		movements, err = uc.movementRepo.ListByLocation(locationID, from, to, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:                m.ID,
			TransactionID:     m.TransactionID,
			ItemID:            m.ItemID,
			LocationID:        m.LocationID,
			Delta:             m.Delta,
			ResultingQuantity: m.ResultingQuantity,
			Actor:             m.Actor,
			Reason:            m.Reason,
			CreatedAt:         m.CreatedAt,
		})
	}
	return out, nil
}

// LowStock devuelve los ítems por debajo de su umbral de reorden en la
// ubicación indicada (vacía = todas), ordenados por mayor déficit.
func (uc *QueryUseCase) LowStock(locationID string) ([]dto.LowStockItemResponse, error) {
	rows, err := uc.lowStockRepo.ListBelowThreshold(locationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.LowStockItemResponse{
			ItemID:     r.ItemID,
			ItemName:   r.ItemName,
			Unit:       r.Unit,
			LocationID: r.LocationID,
			Quantity:   r.Quantity,
			Threshold:  r.Threshold,
			Deficit:    r.Threshold - r.Quantity,
		})
	}
	return out, nil
}

// ToStockRecordResponse mapea la entidad al DTO de respuesta.
func ToStockRecordResponse(r *entity.StockRecord) dto.StockRecordResponse {
	return dto.StockRecordResponse{
		ItemID:     r.ItemID,
		LocationID: r.LocationID,
		Quantity:   r.Quantity,
		UnitCost:   r.UnitCost,
		TotalValue: r.TotalValue,
		UpdatedAt:  r.UpdatedAt,
	}
}
