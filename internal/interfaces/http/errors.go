package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/domain"
)

// writeError traduce cualquier error de los casos de uso al cuerpo de error común.
func writeError(c *fiber.Ctx, err error) error {
	appErr := domain.AsAppError(err)
	if appErr.Status >= fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("tenant_id", GetTenantID(c)).
			Msg("error interno")
	}
	return c.Status(appErr.Status).JSON(dto.ErrorResponse{
		Error:     appErr.Message,
		Code:      appErr.Code,
		Status:    appErr.Status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Details:   appErr.Details,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return writeError(c, domain.NewValidation(msg))
}

// ErrorHandler handler de errores de Fiber: rutas inexistentes, cuerpos inválidos y panics recuperados
// salen con el mismo formato que los errores de los casos de uso.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := domain.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = domain.CodeNotFound
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = domain.CodeValidation
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return writeError(c, &domain.AppError{Code: code, Message: fe.Message, Status: fe.Code, Err: fe})
	}
	return writeError(c, err)
}

// requireTenant corta la petición si el token no trajo tenant.
func requireTenant(c *fiber.Ctx) (string, bool) {
	tenantID := GetTenantID(c)
	return tenantID, tenantID != ""
}

func unauthorized(c *fiber.Ctx) error {
	return writeAuthError(c, domain.CodeUnauthorized, "tenant_id not found in token")
}
