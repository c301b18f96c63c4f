package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/suministros-api/internal/application/requisition"
	"github.com/jhoicas/suministros-api/internal/application/stock"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner and requisition.TxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ requisition.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos de stock atados a la tx y
// hace Commit o Rollback. Ajustes y traslados corren siempre por aquí.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	movRepo := NewStockMovementRepository(tx)

	if err := fn(stockRepo, movRepo); err != nil {
		return mapContention(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapContention(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunRequisition inicia una transacción con los repos del workflow de
// requisiciones. Aprobación y cumplimiento comparten esta transacción: el
// débito de stock y el cambio de estado confirman juntos o se revierten juntos.
func (r *TxRunner) RunRequisition(ctx context.Context, fn func(
	reqRepo repository.RequisitionRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reqRepo := NewRequisitionRepository(tx)
	stockRepo := NewStockRepository(tx)
	movRepo := NewStockMovementRepository(tx)

	if err := fn(reqRepo, stockRepo, movRepo); err != nil {
		return mapContention(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapContention(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
