package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Dashboard-api/internal/application/auth"
	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

// AuthHandler maneja login y logout.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	secureCookie bool
	log          *logger.Logger
}

// NewAuthHandler construye el handler de auth. secureCookie marca la cookie de sesión como Secure.
func NewAuthHandler(uc *auth.AuthUseCase, secureCookie bool, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{uc: uc, secureCookie: secureCookie, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.AuthMessageResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, message, err := h.uc.Authenticate(c.Context(), in)
	if err != nil {
		h.log.Error().Err(err).Msg("login: error no relacionado con credenciales")
		return err
	}
	if session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthMessageResponse{Message: message})
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.LoginResponse{Token: session.Token, ExpiresAt: session.ExpiresAt, User: session.User})
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
