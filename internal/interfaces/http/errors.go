package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/crm-farma/internal/application/dto"
	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/pkg/logger"
)

// writeError traduce los errores de dominio a HTTP. Los 5xx se registran; el detalle interno
// no se devuelve al cliente.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", "error interno"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrConflict):
		status, code, msg = fiber.StatusConflict, "CONFLICT", "ya existe una asignación con esa clave"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = fiber.StatusForbidden, "FORBIDDEN", err.Error()
	case errors.Is(err, domain.ErrUnavailable):
		status, code, msg = fiber.StatusServiceUnavailable, "UNAVAILABLE", "base de datos no disponible, intente más tarde"
	}
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Int("status", status).Msg("petición fallida")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
