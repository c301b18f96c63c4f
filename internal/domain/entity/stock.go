package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ajuste de stock (variante cerrada; nunca un string libre del cliente).
type AdjustmentType string

const (
	AdjustmentAdd    AdjustmentType = "add"    // suma al stock actual
	AdjustmentRemove AdjustmentType = "remove" // resta del stock actual
	AdjustmentSet    AdjustmentType = "set"    // fija la cantidad absoluta
)

// Valid indica si el tipo de ajuste pertenece a la variante cerrada.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentAdd, AdjustmentRemove, AdjustmentSet:
		return true
	}
	return false
}

// StockRecord representa la existencia de un ítem en una ubicación física.
// Clave compuesta (ItemID, LocationID). Quantity nunca es negativa y
// TotalValue siempre es Quantity * UnitCost tras cada mutación confirmada.
type StockRecord struct {
	ItemID     string
	LocationID string
	Quantity   int64
	UnitCost   decimal.Decimal
	TotalValue decimal.Decimal
	UpdatedAt  time.Time
}

// RecomputeValue recalcula TotalValue a partir de Quantity y UnitCost.
func (s *StockRecord) RecomputeValue() {
	s.TotalValue = decimal.NewFromInt(s.Quantity).Mul(s.UnitCost)
}
