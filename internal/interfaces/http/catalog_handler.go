package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/catalog"
	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/domain"
)

// CatalogHandler maneja el CRUD de ítems, ubicaciones y departamentos (protegido).
type CatalogHandler struct {
	items       *catalog.ItemUseCase
	locations   *catalog.LocationUseCase
	departments *catalog.DepartmentUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(items *catalog.ItemUseCase, locations *catalog.LocationUseCase, departments *catalog.DepartmentUseCase) *CatalogHandler {
	return &CatalogHandler{items: items, locations: locations, departments: departments}
}

// ── Ítems ──────────────────────────────────────────────────────────────────

// CreateItem godoc
// @Summary      Crear ítem del catálogo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "name, unit, reorder_threshold, default_unit_cost"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	item, err := h.items.Create(in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetItem godoc
// @Summary      Consultar un ítem
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.items.GetByID(c.Params("id"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(item)
}

// UpdateItem godoc
// @Summary      Actualizar un ítem (campos opcionales)
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.items.Update(c.Params("id"), in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(item)
}

// ListItems godoc
// @Summary      Listar el catálogo de ítems
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.ItemResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.items.List(page.Limit, page.Offset)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(list)
}

// ── Ubicaciones ────────────────────────────────────────────────────────────

// CreateLocation godoc
// @Summary      Crear ubicación física
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "name, type (central|department)"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	loc, err := h.locations.Create(in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(loc)
}

// GetLocation godoc
// @Summary      Consultar una ubicación
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *CatalogHandler) GetLocation(c *fiber.Ctx) error {
	loc, err := h.locations.GetByID(c.Params("id"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(loc)
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.LocationResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/locations [get]
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.locations.List(page.Limit, page.Offset)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(list)
}

// ── Departamentos ──────────────────────────────────────────────────────────

// CreateDepartment godoc
// @Summary      Crear departamento con su cadena de aprobación
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepartmentRequest  true  "name, default_location_id, aprobadores"
// @Success      201   {object}  dto.DepartmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/departments [post]
func (h *CatalogHandler) CreateDepartment(c *fiber.Ctx) error {
	var in dto.CreateDepartmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	dept, err := h.departments.Create(in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dept)
}

// GetDepartment godoc
// @Summary      Consultar un departamento
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del departamento"
// @Success      200  {object}  dto.DepartmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/departments/{id} [get]
func (h *CatalogHandler) GetDepartment(c *fiber.Ctx) error {
	dept, err := h.departments.GetByID(c.Params("id"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(dept)
}

// UpdateDepartment godoc
// @Summary      Actualizar un departamento (campos opcionales)
// @Description  Cambiar los aprobadores aquí cambia la política vigente para
//
//	las próximas transiciones de sus requisiciones.
//
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del departamento"
// @Param        body  body  dto.UpdateDepartmentRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.DepartmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/departments/{id} [put]
func (h *CatalogHandler) UpdateDepartment(c *fiber.Ctx) error {
	var in dto.UpdateDepartmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	dept, err := h.departments.Update(c.Params("id"), in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(dept)
}

// ListDepartments godoc
// @Summary      Listar departamentos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.DepartmentResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/departments [get]
func (h *CatalogHandler) ListDepartments(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.departments.List(page.Limit, page.Offset)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(list)
}

// catalogError mapea los errores del catálogo a códigos HTTP.
func catalogError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un recurso con ese nombre"})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
