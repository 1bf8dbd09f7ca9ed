package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
)

// DisbursementHandler entregas a unidades receptoras.
type DisbursementHandler struct {
	coord   *inventory.Coordinator
	queries *inventory.BatchQueryUseCase
}

// NewDisbursementHandler construye el handler.
func NewDisbursementHandler(coord *inventory.Coordinator, queries *inventory.BatchQueryUseCase) *DisbursementHandler {
	return &DisbursementHandler{coord: coord, queries: queries}
}

// Create godoc
// @Summary      Registrar entrega
// @Description  Todo o nada: si una línea no alcanza, no se descuenta nada.
// @Tags         disbursements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDisbursementRequest  true  "Unidad receptora y líneas"
// @Success      201   {object}  dto.DisbursementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/disbursements [post]
func (h *DisbursementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDisbursementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.CreateDisbursement(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Anular entrega
// @Description  Devuelve al stock las cantidades de cada línea.
// @Tags         disbursements
// @Security     Bearer
// @Param        id  path  string  true  "ID de la entrega"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/disbursements/{id} [delete]
func (h *DisbursementHandler) Delete(c *fiber.Ctx) error {
	if err := h.coord.DeleteDisbursement(c.UserContext(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener entrega
// @Tags         disbursements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la entrega"
// @Success      200  {object}  dto.DisbursementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/disbursements/{id} [get]
func (h *DisbursementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.queries.GetDisbursement(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar entregas
// @Tags         disbursements
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo 100"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.DisbursementListResponse
// @Router       /api/disbursements [get]
func (h *DisbursementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	out, err := h.queries.ListDisbursements(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
