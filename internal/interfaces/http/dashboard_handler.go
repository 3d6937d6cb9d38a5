package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/billstock-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen del tenant.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (productos, stock bajo, valor de inventario, ventas,
// compras, saldo pendiente, nómina pagada, top 5 productos).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	summary, err := h.uc.GetSummary(c.UserContext(), tenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetTopProducts productos más vendidos.
// GET /api/dashboard/top-products?limit=10
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	tenantID, ok := requireTenant(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.GetTopProducts(c.UserContext(), tenantID, c.QueryInt("limit", 10))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
