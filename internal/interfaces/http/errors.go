package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/domain"
)

// writeError traduce errores de dominio a status y código. Los 500 no exponen el mensaje.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, dto.CodeInternal
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, dto.CodeValidation
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, dto.CodeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusBadRequest, dto.CodeInsufficientStock
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, dto.CodeDuplicate
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, dto.CodeConflict
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, dto.CodeForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, dto.CodeUnauthorized
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		msg = "error interno del servidor"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: dto.CodeInvalidBody, Message: "cuerpo inválido"})
}

// ErrorHandler para fiber.Config: errores no tratados por los handlers (404 de ruta, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: dto.CodeHTTP, Message: fe.Message})
	}
	return writeError(c, err)
}
