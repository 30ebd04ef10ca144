package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/application/dashboard"
	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

// CustomerHandler maneja la vista y las mutaciones de clientes (protegido).
type CustomerHandler struct {
	actions *actions.Service
	views   *dashboard.Service
	log     *logger.Logger
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(a *actions.Service, views *dashboard.Service, log *logger.Logger) *CustomerHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CustomerHandler{actions: a, views: views, log: log}
}

// List GET /dashboard/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	body, err := h.views.ListCustomers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Accept       mpfd
// @Produce      json
// @Param        name          formData  string  true  "Nombre"
// @Param        email         formData  string  true  "Email"
// @Param        profilePhoto  formData  file    true  "Foto de perfil (imagen)"
// @Success      303
// @Failure      422  {object}  dto.FormState
// @Failure      500  {object}  dto.FormState
// @Router       /dashboard/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	form, err := formFromRequest(c)
	if err != nil {
		return badForm(c, err)
	}
	return respond(c, h.log, h.actions.CreateCustomer(c.Context(), form))
}

// Update PUT|POST /dashboard/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	form, err := formFromRequest(c)
	if err != nil {
		return badForm(c, err)
	}
	return respond(c, h.log, h.actions.UpdateCustomer(c.Context(), c.Params("id"), form))
}

// Delete DELETE /dashboard/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	return respond(c, h.log, h.actions.DeleteCustomer(c.Context(), c.Params("id")))
}
