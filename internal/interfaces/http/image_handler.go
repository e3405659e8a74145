package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/internal/application/usecase"
)

// ImageHandler búsqueda y asignación de imágenes de producto.
type ImageHandler struct {
	uc *usecase.ImageUseCase
}

// NewImageHandler construye el handler.
func NewImageHandler(uc *usecase.ImageUseCase) *ImageHandler {
	return &ImageHandler{uc: uc}
}

// Search godoc
// @Summary      Buscar imagen del producto
// @Description  Devuelve la imagen guardada o la busca por código de barras (OpenFoodFacts) y por nombre (Google).
// @Tags         images
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Código del producto"
// @Success      200  {object}  dto.ProductImageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/image/search [post]
func (h *ImageHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Find(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetManual godoc
// @Summary      Asignar URL de imagen manual
// @Tags         images
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Código del producto"
// @Param        body  body  dto.SetImageRequest  true  "URL de la imagen"
// @Success      200   {object}  dto.ProductImageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/image [put]
func (h *ImageHandler) SetManual(c *fiber.Ctx) error {
	var in dto.SetImageRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetManual(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Quitar imagen
// @Tags         images
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Código del producto"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/products/{id}/image [delete]
func (h *ImageHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "imagen eliminada"})
}

// Sync godoc
// @Summary      Buscar imágenes de productos sin imagen
// @Tags         images
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad de productos"  default(10)
// @Success      200  {object}  dto.ImageSyncResponse
// @Router       /api/products/images/sync [post]
func (h *ImageHandler) Sync(c *fiber.Ctx) error {
	out, err := h.uc.Sync(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
