package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/inventory"
)

// InventoryHandler ajustes, movimientos, alertas y reposición.
type InventoryHandler struct {
	stock         *inventory.StockUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, replenishment: replenishment}
}

// Adjust godoc
// @Summary      Ajustar stock al conteo real
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "Cantidad real, tipo y motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.Adjust(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Initial godoc
// @Summary      Cargar stock inicial
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitialStockRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/initial [post]
func (h *InventoryHandler) Initial(c *fiber.Ctx) error {
	var in dto.InitialStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.stock.InitialStock(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Movements godoc
// @Summary      Movimientos de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        type        query  string  false  "Tipo de movimiento"
// @Param        from        query  string  false  "Desde (AAAA-MM-DD)"
// @Param        to          query  string  false  "Hasta (AAAA-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.Movements(c.UserContext(), dto.MovementListQuery{
		ProductID:   c.Query("product_id"),
		Type:        c.Query("type"),
		From:        from,
		To:          to,
		PageRequest: pageQuery(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Productos con stock bajo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockAlertsResponse
// @Router       /api/inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.stock.Alerts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reorder godoc
// @Summary      Sugerencias de reposición
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReorderSuggestion
// @Router       /api/inventory/reorder [get]
func (h *InventoryHandler) Reorder(c *fiber.Ctx) error {
	out, err := h.replenishment.Suggestions(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
