package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lafuga/gestion-api/internal/application/catalog"
	"github.com/lafuga/gestion-api/internal/application/dto"
	"github.com/lafuga/gestion-api/pkg/textnorm"
)

// CatalogHandler catálogos compartibles; Public* no requieren autenticación.
type CatalogHandler struct {
	uc *catalog.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Create godoc
// @Summary      Crear catálogo para un cliente
// @Tags         catalogs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCatalogRequest  true  "Cliente, descuentos, campos visibles e items"
// @Success      201   {object}  dto.CatalogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/catalogs [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCatalogRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar catálogos
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Param        include_expired  query  bool  false  "Incluir vencidos"
// @Param        limit            query  int   false  "Límite"  default(20)
// @Param        offset           query  int   false  "Offset"  default(0)
// @Success      200  {object}  dto.CatalogListResponse
// @Router       /api/catalogs [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.CatalogListQuery{
		IncludeExpired: c.QueryBool("include_expired"),
		PageRequest:    pageQuery(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener catálogo con precios finales
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del catálogo"
// @Success      200  {object}  dto.CatalogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalogs/{id} [get]
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar catálogo
// @Tags         catalogs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del catálogo"
// @Param        body  body  dto.UpdateCatalogRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.CatalogResponse
// @Router       /api/catalogs/{id} [patch]
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCatalogRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Renew godoc
// @Summary      Renovar enlace público
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del catálogo"
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/catalogs/{id}/renew [post]
func (h *CatalogHandler) Renew(c *fiber.Ctx) error {
	out, err := h.uc.Renew(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar catálogo
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del catálogo"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/catalogs/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "catálogo eliminado"})
}

// Share godoc
// @Summary      Enlace público y mensaje de WhatsApp
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del catálogo"
// @Success      200  {object}  dto.CatalogShareResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/catalogs/{id}/share [get]
func (h *CatalogHandler) Share(c *fiber.Ctx) error {
	out, err := h.uc.Share(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Catálogo en PDF
// @Tags         catalogs
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del catálogo"
// @Success      200  {file}  file
// @Router       /api/catalogs/{id}/pdf [get]
func (h *CatalogHandler) PDF(c *fiber.Ctx) error {
	data, customer, err := h.uc.PDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, catalogFilename(customer), data)
}

// Public godoc
// @Summary      Vista pública del catálogo
// @Tags         public
// @Produce      json
// @Param        token  path  string  true  "Token del enlace"
// @Success      200  {object}  dto.PublicCatalogResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /public/catalogs/{token} [get]
func (h *CatalogHandler) Public(c *fiber.Ctx) error {
	out, err := h.uc.Public(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PublicPDF godoc
// @Summary      PDF público del catálogo
// @Tags         public
// @Produce      application/pdf
// @Param        token  path  string  true  "Token del enlace"
// @Success      200  {file}  file
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /public/catalogs/{token}/pdf [get]
func (h *CatalogHandler) PublicPDF(c *fiber.Ctx) error {
	data, customer, err := h.uc.PublicPDF(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, catalogFilename(customer), data)
}

// catalogFilename "catalogo-juan-perez.pdf".
func catalogFilename(customer string) string {
	slug := textnorm.Slug(customer)
	if slug == "" {
		return "catalogo.pdf"
	}
	return "catalogo-" + slug + ".pdf"
}
