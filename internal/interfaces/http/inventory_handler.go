package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/domain/repository"
)

// InventoryHandler ajustes manuales, bitácora y consecutivos.
type InventoryHandler struct {
	coord   *inventory.Coordinator
	logs    *inventory.LogUseCase
	serials *inventory.SerialAllocator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(coord *inventory.Coordinator, logs *inventory.LogUseCase, serials *inventory.SerialAllocator) *InventoryHandler {
	return &InventoryHandler{coord: coord, logs: logs, serials: serials}
}

// RecordAdjustment godoc
// @Summary      Ajuste manual de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "stock_id, change_type (INCREASE|DECREASE), change_amount, reason"
// @Success      201   {object}  dto.InventoryLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RecordAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.RecordAdjustment(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// BatchAdjustments godoc
// @Summary      Conteo físico masivo
// @Description  Fija total_stock de varios registros. Un id inexistente cancela todo el lote.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchAdjustmentRequest  true  "Lista de stock_id y new_quantity"
// @Success      200   {object}  dto.BatchAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments/batch [post]
func (h *InventoryHandler) BatchAdjustments(c *fiber.Ctx) error {
	var in dto.BatchAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.BatchRecordAdjustments(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListLogs godoc
// @Summary      Bitácora de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        stock_id     query  string  false  "Registro de stock"
// @Param        change_type  query  string  false  "INCREASE | DECREASE"
// @Param        created_by   query  string  false  "Actor"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD inclusive o RFC3339)"
// @Param        limit        query  int     false  "Máximo 100"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.InventoryLogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/logs [get]
func (h *InventoryHandler) ListLogs(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	filter := repository.InventoryLogFilter{
		StockID:    c.Query("stock_id"),
		ChangeType: strings.ToUpper(c.Query("change_type")),
		CreatedBy:  c.Query("created_by"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	var err error
	if filter.From, err = parseTimeParam(c.Query("from"), false); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: "from inválido"})
	}
	if filter.To, err = parseTimeParam(c.Query("to"), true); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeValidation, Message: "to inválido"})
	}
	out, err := h.logs.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AllocateSerial godoc
// @Summary      Asignar consecutivo
// @Tags         serials
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "DONATION | DISBURSEMENT"
// @Success      201  {object}  dto.SerialResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/serials/{type} [post]
func (h *InventoryHandler) AllocateSerial(c *fiber.Ctx) error {
	serialType := strings.ToUpper(c.Params("type"))
	serial, err := h.serials.Allocate(c.UserContext(), serialType)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SerialResponse{Type: serialType, SerialNumber: serial})
}

// ReconcileSerial godoc
// @Summary      Reconciliar contador de consecutivos
// @Description  Sube el contador al consecutivo más alto ya registrado. Nunca lo baja.
// @Tags         serials
// @Security     Bearer
// @Produce      json
// @Param        type  path  string  true  "DONATION | DISBURSEMENT"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/serials/{type}/reconcile [post]
func (h *InventoryHandler) ReconcileSerial(c *fiber.Ctx) error {
	serialType := strings.ToUpper(c.Params("type"))
	value, err := h.serials.Reconcile(c.UserContext(), serialType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"type": serialType, "value": value})
}

// parseTimeParam acepta YYYY-MM-DD (UTC) o RFC3339. Con endOfDay, una fecha sola cubre el día completo.
func parseTimeParam(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
