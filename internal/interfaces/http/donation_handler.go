package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
)

// DonationHandler donaciones recibidas.
type DonationHandler struct {
	coord   *inventory.Coordinator
	queries *inventory.BatchQueryUseCase
}

// NewDonationHandler construye el handler.
func NewDonationHandler(coord *inventory.Coordinator, queries *inventory.BatchQueryUseCase) *DonationHandler {
	return &DonationHandler{coord: coord, queries: queries}
}

// Create godoc
// @Summary      Registrar donación
// @Description  Crea el lote con consecutivo A#####. El stock sube al recibir cada línea.
// @Tags         donations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDonationRequest  true  "Donante y líneas"
// @Success      201   {object}  dto.DonationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/donations [post]
func (h *DonationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDonationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.CreateDonation(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// HandleItem godoc
// @Summary      Recibir línea de donación
// @Description  Suma la cantidad al stock una sola vez; repetir devuelve 409.
// @Tags         donations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.DonationLineItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/donations/items/{id}/handle [post]
func (h *DonationHandler) HandleItem(c *fiber.Ctx) error {
	out, err := h.coord.HandleDonationItem(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Anular donación
// @Description  Descuenta del stock solo las líneas ya recibidas.
// @Tags         donations
// @Security     Bearer
// @Param        id  path  string  true  "ID de la donación"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/donations/{id} [delete]
func (h *DonationHandler) Delete(c *fiber.Ctx) error {
	if err := h.coord.DeleteDonation(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener donación
// @Tags         donations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la donación"
// @Success      200  {object}  dto.DonationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/donations/{id} [get]
func (h *DonationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.queries.GetDonation(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar donaciones
// @Tags         donations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo 100"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.DonationListResponse
// @Router       /api/donations [get]
func (h *DonationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	out, err := h.queries.ListDonations(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
