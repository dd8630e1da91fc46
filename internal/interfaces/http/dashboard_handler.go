package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/assistencia-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de órdenes e inventario.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (orders_by_status, open_orders, monthly_revenue,
// low_stock_parts, inventory_value, date_label).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
