package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
)

// CatalogHandler unidades permitidas por artículo.
type CatalogHandler struct {
	uc *inventory.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *inventory.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Upsert godoc
// @Summary      Definir unidades de un artículo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertCatalogItemRequest  true  "Artículo, unidades e índice por defecto"
// @Success      200   {object}  dto.CatalogItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/catalog [put]
func (h *CatalogHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertCatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Upsert(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar catálogo de unidades
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CatalogItemResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
