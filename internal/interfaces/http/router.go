package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suministros-api/internal/application/auth"
	"github.com/jhoicas/suministros-api/internal/application/catalog"
	"github.com/jhoicas/suministros-api/internal/application/requisition"
	"github.com/jhoicas/suministros-api/internal/application/stock"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ItemUC        *catalog.ItemUseCase
	LocationUC    *catalog.LocationUseCase
	DepartmentUC  *catalog.DepartmentUseCase
	StockMutation *stock.MutationUseCase
	StockQuery    *stock.QueryUseCase
	WorkflowUC    *requisition.WorkflowUseCase
	SlipUC        *requisition.SlipUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// El stock solo lo mutan bodega y administración; el catálogo y los
	// departamentos, solo administración. Las lecturas son para cualquier
	// usuario autenticado.
	storekeeper := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Catálogo (protegido)
	catalogHandler := NewCatalogHandler(deps.ItemUC, deps.LocationUC, deps.DepartmentUC)

	items := protected.Group("/items")
	items.Post("/", storekeeper, catalogHandler.CreateItem)
	items.Get("/", catalogHandler.ListItems)
	items.Get("/:id", catalogHandler.GetItem)
	items.Put("/:id", storekeeper, catalogHandler.UpdateItem)

	locations := protected.Group("/locations")
	locations.Post("/", adminOnly, catalogHandler.CreateLocation)
	locations.Get("/", catalogHandler.ListLocations)
	locations.Get("/:id", catalogHandler.GetLocation)

	departments := protected.Group("/departments")
	departments.Post("/", adminOnly, catalogHandler.CreateDepartment)
	departments.Get("/", catalogHandler.ListDepartments)
	departments.Get("/:id", catalogHandler.GetDepartment)
	departments.Put("/:id", adminOnly, catalogHandler.UpdateDepartment)

	// Stock (protegido)
	stockHandler := NewStockHandler(deps.StockMutation, deps.StockQuery)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/adjust", storekeeper, stockHandler.Adjust)
	stockGroup.Post("/transfer", storekeeper, stockHandler.Transfer)
	stockGroup.Get("/movements", storekeeper, stockHandler.Movements)
	stockGroup.Get("/low", storekeeper, stockHandler.LowStock)
	stockGroup.Get("/locations/:id", stockHandler.ListByLocation)
	stockGroup.Get("/items/:id", stockHandler.ListByItem)

	// Requisiciones (protegido). Quién puede aprobar o rechazar cada nivel lo
	// decide la política del departamento dentro del caso de uso, no el rol.
	requisitionHandler := NewRequisitionHandler(deps.WorkflowUC, deps.SlipUC)
	reqGroup := protected.Group("/requisitions")
	reqGroup.Post("/", requisitionHandler.Create)
	reqGroup.Get("/", requisitionHandler.ListByDepartment)
	reqGroup.Get("/mine", requisitionHandler.ListMine)
	reqGroup.Get("/:no", requisitionHandler.GetByNo)
	reqGroup.Put("/:no/items", requisitionHandler.UpdateItems)
	reqGroup.Post("/:no/submit", requisitionHandler.Submit)
	reqGroup.Post("/:no/approve", requisitionHandler.Approve)
	reqGroup.Post("/:no/reject", requisitionHandler.Reject)
	reqGroup.Post("/:no/cancel", requisitionHandler.Cancel)
	reqGroup.Get("/:no/pdf", requisitionHandler.Slip)
}
