package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/stock"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// StockHandler maneja ajustes, traslados y consultas de existencias (protegido).
type StockHandler struct {
	mutation *stock.MutationUseCase
	query    *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(mutation *stock.MutationUseCase, query *stock.QueryUseCase) *StockHandler {
	return &StockHandler{mutation: mutation, query: query}
}

// Adjust godoc
// @Summary      Ajustar existencia de un ítem en una ubicación
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "item_id, location_id, type (add|remove|set), quantity, unit_cost opcional (entradas)"
// @Success      200   {object}  dto.StockRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rec, err := h.mutation.Adjust(c.Context(), stock.AdjustInput{
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Type:       entity.AdjustmentType(in.Type),
		UnitCost:   in.UnitCost,
		Reason:     in.Reason,
		Actor:      GetUserID(c),
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(stock.ToStockRecordResponse(rec))
}

// Transfer godoc
// @Summary      Trasladar stock entre dos ubicaciones
// @Description  Movimiento atómico: debita el origen y acredita el destino
//
//	en la misma transacción, o no muta nada.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferStockRequest  true  "item_id, from_location_id, to_location_id, quantity"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	from, to, err := h.mutation.Transfer(c.Context(), stock.TransferInput{
		ItemID:         in.ItemID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		Actor:          GetUserID(c),
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.TransferResponse{
		From: stock.ToStockRecordResponse(from),
		To:   stock.ToStockRecordResponse(to),
	})
}

// ListByLocation godoc
// @Summary      Existencias de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la ubicación"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.StockRecordResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/locations/{id} [get]
func (h *StockHandler) ListByLocation(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.query.ListByLocation(c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// ListByItem godoc
// @Summary      Existencias de un ítem en todas las ubicaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ítem"
// @Success      200  {array}   dto.StockRecordResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/items/{id} [get]
func (h *StockHandler) ListByItem(c *fiber.Ctx) error {
	list, err := h.query.ListByItem(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// Movements godoc
// @Summary      Historial de movimientos de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id      query  string  false  "Filtrar por ítem"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        from         query  string  false  "Desde (RFC3339)"
// @Param        to           query  string  false  "Hasta (RFC3339)"
// @Param        limit        query  int     false  "Tamaño de página (default 20)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	list, err := h.query.Movements(c.Query("item_id"), c.Query("location_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "debe indicar item_id o location_id"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// LowStock godoc
// @Summary      Ítems por debajo de su umbral de reorden
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación. Vacío = todas."
// @Success      200  {array}   dto.LowStockItemResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.query.LowStock(c.Query("location_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// stockError mapea los errores de dominio de stock a códigos HTTP.
func stockError(c *fiber.Ctx, err error) error {
	var shortage *domain.StockShortageError
	if errors.As(err, &shortage) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("stock insuficiente del ítem %s en %s: pedido %d, disponible %d",
				shortage.ItemID, shortage.LocationID, shortage.Requested, shortage.Available),
		})
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	if errors.Is(err, domain.ErrInvalidQuantity) || errors.Is(err, domain.ErrInvalidAdjustmentType) ||
		errors.Is(err, domain.ErrInvalidTransfer) || errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem o ubicación no encontrado"})
	}
	if errors.Is(err, domain.ErrContention) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONTENTION", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// parseTimeQuery lee un query param RFC3339 opcional.
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s debe ser RFC3339: %w", key, err)
	}
	return &t, nil
}
