package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lafuga/gestion-api/internal/application/usecase"
)

// FileHandler importación de planillas, etiquetas y backup.
type FileHandler struct {
	importUC *usecase.ImportUseCase
	labelUC  *usecase.LabelUseCase
	backupUC *usecase.BackupUseCase
}

// NewFileHandler construye el handler.
func NewFileHandler(importUC *usecase.ImportUseCase, labelUC *usecase.LabelUseCase, backupUC *usecase.BackupUseCase) *FileHandler {
	return &FileHandler{importUC: importUC, labelUC: labelUC, backupUC: backupUC}
}

// Import godoc
// @Summary      Importar lista de precios (.csv o .xlsx)
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file  true   "Planilla"
// @Param        dry_run  query     bool  false  "Solo validar"
// @Success      200  {object}  dto.ImportReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *FileHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return validation(c, "falta el archivo (campo file)")
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	out, err := h.importUC.Import(c.UserContext(), GetActor(c), fh.Filename, f, c.QueryBool("dry_run"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Labels godoc
// @Summary      Etiquetas de góndola en PDF
// @Tags         products
// @Security     Bearer
// @Produce      application/pdf
// @Param        ids  query  string  true  "Códigos separados por coma"
// @Success      200  {file}  file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/labels.pdf [get]
func (h *FileHandler) Labels(c *fiber.Ctx) error {
	data, err := h.labelUC.PDF(c.UserContext(), listQuery(c, "ids"))
	if err != nil {
		return respondError(c, err)
	}
	return sendPDF(c, "etiquetas.pdf", data)
}

// Backup godoc
// @Summary      Backup de precios y ventas en Excel
// @Tags         backup
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/backup [get]
func (h *FileHandler) Backup(c *fiber.Ctx) error {
	data, filename, err := h.backupUC.Export(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
