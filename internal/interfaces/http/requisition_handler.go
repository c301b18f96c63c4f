package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/requisition"
	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// RequisitionHandler maneja el ciclo de vida de las requisiciones (protegido).
type RequisitionHandler struct {
	workflow *requisition.WorkflowUseCase
	slip     *requisition.SlipUseCase
}

// NewRequisitionHandler construye el handler.
func NewRequisitionHandler(workflow *requisition.WorkflowUseCase, slip *requisition.SlipUseCase) *RequisitionHandler {
	return &RequisitionHandler{workflow: workflow, slip: slip}
}

func actorFrom(c *fiber.Ctx) requisition.Actor {
	return requisition.Actor{UserID: GetUserID(c), DepartmentID: GetDepartmentID(c)}
}

// Create godoc
// @Summary      Crear requisición en borrador
// @Description  Asigna el consecutivo del año y congela el costo estimado
//
//	de cada renglón desde el catálogo.
//
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisitionRequest  true  "destino, motivo, urgencia y renglones"
// @Success      201   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	req, err := h.workflow.Create(c.Context(), actorFrom(c), requisition.CreateInput{
		RequestedForType:   in.RequestedForType,
		RequestedForUserID: in.RequestedForUserID,
		Purpose:            in.Purpose,
		Urgency:            entity.Urgency(in.Urgency),
		Items:              in.Items,
	})
	if err != nil {
		return requisitionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(requisition.ToResponse(req))
}

// UpdateItems godoc
// @Summary      Reemplazar los renglones de una requisición en borrador
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        no    path  string  true  "Número de requisición"
// @Param        body  body  dto.UpdateRequisitionItemsRequest  true  "renglones nuevos"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{no}/items [put]
func (h *RequisitionHandler) UpdateItems(c *fiber.Ctx) error {
	var in dto.UpdateRequisitionItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	req, err := h.workflow.UpdateItems(c.Context(), actorFrom(c), c.Params("no"), in.Items)
	if err != nil {
		return requisitionError(c, err)
	}
	return c.JSON(requisition.ToResponse(req))
}

// Submit godoc
// @Summary      Enviar la requisición a aprobación
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        no  path  string  true  "Número de requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{no}/submit [post]
func (h *RequisitionHandler) Submit(c *fiber.Ctx) error {
	req, err := h.workflow.Submit(c.Context(), actorFrom(c), c.Params("no"))
	if err != nil {
		return requisitionError(c, err)
	}
	return c.JSON(requisition.ToResponse(req))
}

// Approve godoc
// @Summary      Aprobar el nivel en curso
// @Description  Si la firma completa la cadena de aprobación, el despacho se
//
//	ejecuta en la misma transacción: o se debita todo el pedido
//	o la requisición queda pendiente sin cambios.
//
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        no  path  string  true  "Número de requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{no}/approve [post]
func (h *RequisitionHandler) Approve(c *fiber.Ctx) error {
	req, err := h.workflow.Approve(c.Context(), actorFrom(c), c.Params("no"))
	if err != nil {
		return requisitionError(c, err)
	}
	return c.JSON(requisition.ToResponse(req))
}

// Reject godoc
// @Summary      Rechazar la requisición
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        no    path  string  true  "Número de requisición"
// @Param        body  body  dto.RejectRequisitionRequest  false  "motivo opcional"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{no}/reject [post]
func (h *RequisitionHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequisitionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	req, err := h.workflow.Reject(c.Context(), actorFrom(c), c.Params("no"), in.Reason)
	if err != nil {
		return requisitionError(c, err)
	}
	return c.JSON(requisition.ToResponse(req))
}

// Cancel godoc
// @Summary      Cancelar la requisición (borrador o pendiente)
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        no  path  string  true  "Número de requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{no}/cancel [post]
func (h *RequisitionHandler) Cancel(c *fiber.Ctx) error {
	req, err := h.workflow.Cancel(c.Context(), actorFrom(c), c.Params("no"))
	if err != nil {
		return requisitionError(c, err)
	}
	return c.JSON(requisition.ToResponse(req))
}

// GetByNo godoc
// @Summary      Consultar una requisición por número
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        no  path  string  true  "Número de requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{no} [get]
func (h *RequisitionHandler) GetByNo(c *fiber.Ctx) error {
	req, err := h.workflow.GetByNo(c.Params("no"))
	if err != nil {
		return requisitionError(c, err)
	}
	return c.JSON(requisition.ToResponse(req))
}

// ListByDepartment godoc
// @Summary      Requisiciones del departamento del usuario
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Tamaño de página (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.RequisitionListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/requisitions [get]
func (h *RequisitionHandler) ListByDepartment(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.workflow.ListByDepartment(GetDepartmentID(c), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return requisitionError(c, err)
	}
	return c.JSON(toListResponse(list, page))
}

// ListMine godoc
// @Summary      Requisiciones creadas por el usuario autenticado
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.RequisitionListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/requisitions/mine [get]
func (h *RequisitionHandler) ListMine(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.workflow.ListByRequester(GetUserID(c), page.Limit, page.Offset)
	if err != nil {
		return requisitionError(c, err)
	}
	return c.JSON(toListResponse(list, page))
}

// Slip godoc
// @Summary      Papeleta PDF de la requisición
// @Tags         requisitions
// @Security     Bearer
// @Produce      application/pdf
// @Param        no  path  string  true  "Número de requisición"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{no}/pdf [get]
func (h *RequisitionHandler) Slip(c *fiber.Ctx) error {
	no := c.Params("no")
	pdf, err := h.slip.Generate(no)
	if err != nil {
		return requisitionError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+no+`.pdf"`)
	return c.Send(pdf)
}

func toListResponse(list []*entity.Requisition, page dto.PageRequest) dto.RequisitionListResponse {
	items := make([]dto.RequisitionResponse, 0, len(list))
	for _, req := range list {
		items = append(items, requisition.ToResponse(req))
	}
	return dto.RequisitionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}
}

// requisitionError mapea los errores del workflow a códigos HTTP.
func requisitionError(c *fiber.Ctx, err error) error {
	var shortage *domain.StockShortageError
	if errors.As(err, &shortage) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: shortage.Error()})
	}
	var state *domain.StateError
	if errors.As(err, &state) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: state.Error()})
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente para despachar"})
	}
	if errors.Is(err, domain.ErrInvalidState) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrEmptyRequisition) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_REQUISITION", Message: "la requisición no tiene renglones"})
	}
	if errors.Is(err, domain.ErrInvalidQuantity) || errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permiso sobre esta requisición"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "requisición no encontrada"})
	}
	if errors.Is(err, domain.ErrContention) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONTENTION", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
