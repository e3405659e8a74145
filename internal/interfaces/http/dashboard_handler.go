package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/lafuga/gestion-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero y los reportes.
type DashboardHandler struct {
	dashboard *appanalytics.DashboardUseCase
	reports   *appanalytics.ReportsUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(dashboard *appanalytics.DashboardUseCase, reports *appanalytics.ReportsUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, reports: reports}
}

// GetSummary devuelve las ventas del día y del mes, el margen bruto del mes,
// los 5 productos más vendidos y los contadores de alertas de stock.
// GET /api/dashboard
//
// @Summary      Resumen del tablero
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// Reports godoc
// @Summary      Valorización, rentabilidad, alertas de precio y categorías
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReportsDTO
// @Router       /api/reports [get]
func (h *DashboardHandler) Reports(c *fiber.Ctx) error {
	out, err := h.reports.Generate(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
