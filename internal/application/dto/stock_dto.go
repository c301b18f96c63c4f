package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body para POST /api/stock/adjust.
type AdjustStockRequest struct {
	ItemID     string           `json:"item_id" validate:"required"`
	LocationID string           `json:"location_id" validate:"required"`
	Quantity   int64            `json:"quantity" validate:"min=0"`
	Type       string           `json:"type" validate:"required,oneof=add remove set"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason     string           `json:"reason,omitempty"`
}

// TransferStockRequest body para POST /api/stock/transfer.
type TransferStockRequest struct {
	ItemID         string `json:"item_id" validate:"required"`
	FromLocationID string `json:"from_location_id" validate:"required"`
	ToLocationID   string `json:"to_location_id" validate:"required"`
	Quantity       int64  `json:"quantity" validate:"required,min=1"`
	Reason         string `json:"reason,omitempty"`
}

// StockRecordResponse existencia de un ítem en una ubicación.
type StockRecordResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	Quantity   int64           `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TotalValue decimal.Decimal `json:"total_value"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TransferResponse las dos existencias resultantes de un traslado.
type TransferResponse struct {
	From StockRecordResponse `json:"from"`
	To   StockRecordResponse `json:"to"`
}

// StockMovementResponse una entrada del historial de mutaciones.
type StockMovementResponse struct {
	ID                string    `json:"id"`
	TransactionID     string    `json:"transaction_id"`
	ItemID            string    `json:"item_id"`
	LocationID        string    `json:"location_id"`
	Delta             int64     `json:"delta"`
	ResultingQuantity int64     `json:"resulting_quantity"`
	Actor             string    `json:"actor"`
	Reason            string    `json:"reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// LowStockItemResponse un ítem por debajo de su umbral de reorden.
type LowStockItemResponse struct {
	ItemID     string `json:"item_id"`
	ItemName   string `json:"item_name"`
	Unit       string `json:"unit"`
	LocationID string `json:"location_id"`
	Quantity   int64  `json:"quantity"`
	Threshold  int64  `json:"threshold"`
	Deficit    int64  `json:"deficit"`
}
