package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

// respond registra quién hizo la mutación y traduce el resultado a HTTP:
// redirección 303 en éxito con destino, 200 con el estado en éxito con mensaje,
// 422 validación, 404 no encontrado y 500 fallo del store.
func respond(c *fiber.Ctx, log *logger.Logger, res actions.Result) error {
	audit(c, log, res)
	switch res.Failure {
	case actions.FailureNone:
		if res.RedirectTo != "" {
			return c.Redirect(res.RedirectTo, fiber.StatusSeeOther)
		}
		return c.JSON(res.State)
	case actions.FailureValidation:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res.State)
	case actions.FailureNotFound:
		return c.Status(fiber.StatusNotFound).JSON(res.State)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(res.State)
	}
}

// audit deja constancia del usuario de sesión que ejecutó la mutación.
func audit(c *fiber.Ctx, log *logger.Logger, res actions.Result) {
	ev := log.Info()
	if res.Failure == actions.FailureStore {
		ev = log.Warn()
	}
	ev.Str("method", c.Method()).
		Str("path", c.Path()).
		Str("user_id", GetUserID(c)).
		Str("email", GetEmail(c)).
		Str("failure", string(res.Failure)).
		Strs("revalidated", res.Revalidated).
		Msg("mutación del dashboard")
}

// badForm respuesta para cuerpos que no se pueden leer como formulario.
func badForm(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "formulario inválido: " + err.Error()})
}

// ErrorHandler manejador de errores de Fiber: los errores que escapan de los handlers
// salen como dto.ErrorResponse.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	errCode := "INTERNAL"
	switch code {
	case fiber.StatusNotFound:
		errCode = "NOT_FOUND"
	case fiber.StatusRequestEntityTooLarge:
		errCode = "BODY_TOO_LARGE"
	case fiber.StatusMethodNotAllowed:
		errCode = "METHOD_NOT_ALLOWED"
	}
	return c.Status(code).JSON(dto.ErrorResponse{Code: errCode, Message: err.Error()})
}
