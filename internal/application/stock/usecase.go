package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// MutationUseCase es el único escritor de StockRecord.Quantity. Aplica
// ajustes (add/remove/set) y traslados entre ubicaciones de forma
// transaccional con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type MutationUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewMutationUseCase construye el caso de uso.
func NewMutationUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
) *MutationUseCase {
	return &MutationUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
	}
}

// AdjustInput entrada para un ajuste directo de stock en una ubicación.
type AdjustInput struct {
	ItemID     string
	LocationID string
	Quantity   int64
	Type       entity.AdjustmentType
	UnitCost   *decimal.Decimal
	Reason     string
	Actor      string // UserID que ejecuta el ajuste
}

// TransferInput entrada para un traslado atómico entre dos ubicaciones.
type TransferInput struct {
	ItemID         string
	FromLocationID string
	ToLocationID   string
	Quantity       int64
	Reason         string
	Actor          string
}

// Adjust aplica un ajuste add/remove/set sobre (ítem, ubicación) dentro de
// una transacción. Si el par no existe se crea con cantidad 0 antes de
// aplicar la operación. Devuelve la existencia resultante.
func (uc *MutationUseCase) Adjust(ctx context.Context, in AdjustInput) (*entity.StockRecord, error) {
	if !in.Type.Valid() {
		return nil, domain.ErrInvalidAdjustmentType
	}
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	// Cantidad 0 solo tiene sentido para set (fijar en cero).
	if in.Quantity == 0 && in.Type != entity.AdjustmentSet {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if err := uc.checkCatalog(in.ItemID, in.LocationID); err != nil {
		return nil, err
	}

	now := time.Now()
	txID := uuid.New().String()

	var result *entity.StockRecord
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Bloquea la fila (SELECT FOR UPDATE): el read-modify-write sobre esta
		// clave queda linealizado frente a cualquier otra mutación concurrente.
		record, err := stockRepo.GetForUpdate(in.ItemID, in.LocationID)
		if err != nil {
			return err
		}

		var newQty int64
		switch in.Type {
		case entity.AdjustmentAdd:
			newQty = record.Quantity + in.Quantity
		case entity.AdjustmentRemove:
			if record.Quantity < in.Quantity {
				return &domain.StockShortageError{
					ItemID:     in.ItemID,
					LocationID: in.LocationID,
					Requested:  in.Quantity,
					Available:  record.Quantity,
				}
			}
			newQty = record.Quantity - in.Quantity
		case entity.AdjustmentSet:
			newQty = in.Quantity
		}

		delta := newQty - record.Quantity
		record.Quantity = newQty
		if in.UnitCost != nil {
			record.UnitCost = *in.UnitCost
		}
		record.RecomputeValue()
		record.UpdatedAt = now
		if err := stockRepo.Upsert(record); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			TransactionID:     txID,
			ItemID:            in.ItemID,
			LocationID:        in.LocationID,
			Delta:             delta,
			ResultingQuantity: newQty,
			Actor:             in.Actor,
			Reason:            in.Reason,
			CreatedAt:         now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transfer debita Quantity de la ubicación origen y la acredita en la
// destino en una sola transacción. Las dos filas se bloquean en orden
// ascendente de LocationID para que dos traslados concurrentes sobre el
// mismo par en direcciones opuestas no se bloqueen mutuamente. El costo
// unitario de cada ubicación no se toca.
func (uc *MutationUseCase) Transfer(ctx context.Context, in TransferInput) (from, to *entity.StockRecord, err error) {
	if in.FromLocationID == in.ToLocationID {
		return nil, nil, domain.ErrInvalidTransfer
	}
	if in.Quantity <= 0 {
		return nil, nil, domain.ErrInvalidQuantity
	}
	if err := uc.checkCatalog(in.ItemID, in.FromLocationID); err != nil {
		return nil, nil, err
	}
	destLoc, err := uc.locationRepo.GetByID(in.ToLocationID)
	if err != nil {
		return nil, nil, err
	}
	if destLoc == nil {
		return nil, nil, domain.ErrNotFound
	}

	now := time.Now()
	txID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Orden global fijo de adquisición de locks: LocationID ascendente.
		first, second := in.FromLocationID, in.ToLocationID
		if second < first {
			first, second = second, first
		}
		locked := map[string]*entity.StockRecord{}
		for _, loc := range []string{first, second} {
			rec, err := stockRepo.GetForUpdate(in.ItemID, loc)
			if err != nil {
				return err
			}
			locked[loc] = rec
		}
		origin := locked[in.FromLocationID]
		dest := locked[in.ToLocationID]

		if origin.Quantity < in.Quantity {
			return &domain.StockShortageError{
				ItemID:     in.ItemID,
				LocationID: in.FromLocationID,
				Requested:  in.Quantity,
				Available:  origin.Quantity,
			}
		}

		origin.Quantity -= in.Quantity
		dest.Quantity += in.Quantity
		origin.RecomputeValue()
		dest.RecomputeValue()
		origin.UpdatedAt = now
		dest.UpdatedAt = now
		if err := stockRepo.Upsert(origin); err != nil {
			return err
		}
		if err := stockRepo.Upsert(dest); err != nil {
			return err
		}

		// Dos entradas de historial con el mismo TransactionID: salida en
		// origen y entrada en destino.
		outMov := &entity.StockMovement{
			TransactionID:     txID,
			ItemID:            in.ItemID,
			LocationID:        in.FromLocationID,
			Delta:             -in.Quantity,
			ResultingQuantity: origin.Quantity,
			Actor:             in.Actor,
			Reason:            in.Reason,
			CreatedAt:         now,
		}
		if err := movRepo.Create(outMov); err != nil {
			return err
		}
		inMov := &entity.StockMovement{
			TransactionID:     txID,
			ItemID:            in.ItemID,
			LocationID:        in.ToLocationID,
			Delta:             in.Quantity,
			ResultingQuantity: dest.Quantity,
			Actor:             in.Actor,
			Reason:            in.Reason,
			CreatedAt:         now,
		}
		if err := movRepo.Create(inMov); err != nil {
			return err
		}
		from, to = origin, dest
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// checkCatalog valida que el ítem y la ubicación existan antes de abrir la
// transacción. El catálogo es de solo lectura para el ledger.
func (uc *MutationUseCase) checkCatalog(itemID, locationID string) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	loc, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	return nil
}
