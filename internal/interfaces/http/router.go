package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/assistencia-api/internal/application/analytics"
	"github.com/jhoicas/assistencia-api/internal/application/inventory"
	"github.com/jhoicas/assistencia-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PartUC        *usecase.PartUseCase
	CustomerUC    *usecase.CustomerUseCase
	TechnicianUC  *usecase.TechnicianUseCase
	OrderUC       *usecase.OrderUseCase
	Movements     *inventory.RegisterMovementUseCase
	Replenishment *inventory.ReplenishmentUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
	JWTAudience   string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token de Supabase;
// los DELETE de catálogos quedan reservados al rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTAudience))
	adminOnly := RequireRole(RoleAdmin)

	// Parts + libro de stock
	parts := api.Group("/parts")
	partHandler := NewPartHandler(deps.PartUC)
	inventoryHandler := NewInventoryHandler(deps.Movements, deps.Replenishment)
	parts.Get("/replenishment", inventoryHandler.GetReplenishmentList)
	parts.Post("/", partHandler.Create)
	parts.Get("/", partHandler.List)
	parts.Get("/:id", partHandler.GetByID)
	parts.Put("/:id", partHandler.Update)
	parts.Delete("/:id", adminOnly, partHandler.Delete)
	parts.Post("/:id/stock", inventoryHandler.RegisterMovement)
	parts.Get("/:id/movements", inventoryHandler.ListMovements)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)

	// Technicians
	technicians := api.Group("/technicians")
	technicianHandler := NewTechnicianHandler(deps.TechnicianUC)
	technicians.Post("/", technicianHandler.Create)
	technicians.Get("/", technicianHandler.List)
	technicians.Get("/:id", technicianHandler.GetByID)
	technicians.Put("/:id", technicianHandler.Update)
	technicians.Delete("/:id", adminOnly, technicianHandler.Delete)

	// Service orders
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Delete("/:id", orderHandler.Delete)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
