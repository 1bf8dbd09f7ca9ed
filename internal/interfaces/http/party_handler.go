package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
)

// PartyHandler unidades receptoras y donantes.
type PartyHandler struct {
	uc *inventory.PartyUseCase
}

// NewPartyHandler construye el handler.
func NewPartyHandler(uc *inventory.PartyUseCase) *PartyHandler {
	return &PartyHandler{uc: uc}
}

// CreateRecipient godoc
// @Summary      Registrar unidad receptora
// @Tags         recipients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Nombre y contacto"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/recipients [post]
func (h *PartyHandler) CreateRecipient(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateRecipient(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRecipients godoc
// @Summary      Listar unidades receptoras
// @Tags         recipients
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PartyResponse
// @Router       /api/recipients [get]
func (h *PartyHandler) ListRecipients(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	out, err := h.uc.ListRecipients(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateDonor godoc
// @Summary      Registrar donante
// @Tags         donors
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartyRequest  true  "Nombre y contacto"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/donors [post]
func (h *PartyHandler) CreateDonor(c *fiber.Ctx) error {
	var in dto.CreatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateDonor(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDonors godoc
// @Summary      Listar donantes
// @Tags         donors
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PartyResponse
// @Router       /api/donors [get]
func (h *PartyHandler) ListDonors(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	out, err := h.uc.ListDonors(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
