package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrInvalidQuantity       = errors.New("cantidad inválida")
	ErrInvalidAdjustmentType = errors.New("tipo de ajuste inválido")
	ErrInvalidTransfer       = errors.New("traslado inválido")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrEmptyRequisition      = errors.New("la requisición no tiene renglones")
	ErrInvalidState          = errors.New("transición de estado inválida")
	ErrContention            = errors.New("conflicto de concurrencia, reintente la operación")
)

// StockShortageError identifica el ítem y la ubicación sin stock suficiente.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando.
type StockShortageError struct {
	ItemID     string
	LocationID string
	Requested  int64
	Available  int64
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("stock insuficiente para el ítem %s en la ubicación %s: solicitado %d, disponible %d",
		e.ItemID, e.LocationID, e.Requested, e.Available)
}

func (e *StockShortageError) Unwrap() error { return ErrInsufficientStock }

// StateError identifica el estado actual de una requisición cuando una
// transición no es válida. Envuelve ErrInvalidState.
type StateError struct {
	RequisitionNo string
	Current       string
	Attempted     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("requisición %s: no se puede %s en estado %s",
		e.RequisitionNo, e.Attempted, e.Current)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }
