package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

// StockHandler consultas de stock, vencimientos y reposición.
type StockHandler struct {
	stock         *inventory.StockUseCase
	expiry        *inventory.ExpiryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase, expiry *inventory.ExpiryUseCase, replenishment *inventory.ReplenishmentUseCase) *StockHandler {
	return &StockHandler{stock: stock, expiry: expiry, replenishment: replenishment}
}

// List godoc
// @Summary      Listar stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        name               query  string  false  "Subcadena del nombre"
// @Param        category           query  string  false  "Categoría exacta"
// @Param        only_insufficient  query  bool    false  "Solo por debajo del stock de seguridad"
// @Param        is_standard        query  bool    false  "Filtrar por artículo estándar"
// @Param        limit              query  int     false  "Máximo 100"
// @Param        offset             query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: "paginación inválida"})
	}
	filter := repository.StockFilter{
		Name:             c.Query("name"),
		Category:         c.Query("category"),
		OnlyInsufficient: c.QueryBool("only_insufficient", false),
		Limit:            page.Limit,
		Offset:           page.Offset,
	}
	if raw := c.Query("is_standard"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: "is_standard debe ser true o false"})
		}
		filter.IsStandard = &b
	}
	out, err := h.stock.GetStock(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener registro de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.stock.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings godoc
// @Summary      Cambiar unidad, stock de seguridad o estándar
// @Description  Nunca modifica total_stock; para eso están los ajustes.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del registro"
// @Param        body  body  dto.UpdateStockSettingsRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [patch]
func (h *StockHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.UpdateStockSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.stock.UpdateSettings(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Artículos por debajo del stock de seguridad con la cantidad sugerida; estándar primero.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestion
// @Router       /api/stock/replenishment [get]
func (h *StockHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// Expiry godoc
// @Summary      Reporte de vencimientos
// @Description  Artículos con stock cuyo vencimiento más próximo ya pasó o cae dentro de la ventana.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        detail  query  bool  false  "Incluir los lotes del día más próximo"
// @Success      200  {object}  dto.ExpiryReport
// @Router       /api/expiry [get]
func (h *StockHandler) Expiry(c *fiber.Ctx) error {
	out, err := h.expiry.Report(c.UserContext(), c.QueryBool("detail", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
