package entity

import "time"

// StockMovement es una entrada inmutable del historial de mutaciones de stock.
// Se agrega una fila por cada ajuste y dos por cada traslado (salida origen,
// entrada destino, mismo TransactionID). Nunca se actualiza ni se borra.
type StockMovement struct {
	ID                string
	TransactionID     string // agrupa las dos patas de un traslado o la requisición que debitó
	ItemID            string
	LocationID        string
	Delta             int64 // positivo entrada, negativo salida
	ResultingQuantity int64 // cantidad en la ubicación después de aplicar el delta
	Actor             string // UserID que ejecutó la mutación
	Reason            string
	CreatedAt         time.Time
}
