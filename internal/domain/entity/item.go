package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un consumible del catálogo.
// ReorderThreshold se usa solo para clasificación de lectura (reporte de
// stock bajo); no participa en los invariantes del ledger.
type Item struct {
	ID               string
	Name             string
	Unit             string // unidad de medida: unidad, caja, litro...
	ReorderThreshold int64
	DefaultUnitCost  decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
