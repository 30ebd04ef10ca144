package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Dashboard-api/internal/application/dashboard"
	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

// APIHandler endpoints públicos de lectura del dashboard.
type APIHandler struct {
	views *dashboard.Service
	log   *logger.Logger
}

// NewAPIHandler construye el handler.
func NewAPIHandler(views *dashboard.Service, log *logger.Logger) *APIHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &APIHandler{views: views, log: log}
}

// GetCustomer godoc
// @Summary      Cliente por ID
// @Description  Devuelve null si el cliente no existe.
// @Tags         api
// @Produce      json
// @Param        id   path      string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      500  {object}  dto.APIError
// @Router       /api/customers/{id} [get]
func (h *APIHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.views.FetchCustomerByID(c.Context(), c.Params("id"))
	if err != nil {
		h.log.Error().Err(err).Str("customer_id", c.Params("id")).Msg("api: error consultando cliente")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIError{Error: "Failed to fetch customer"})
	}
	return c.JSON(customer)
}

// GetRevenue godoc
// @Summary      Ingresos mensuales
// @Tags         api
// @Produce      json
// @Success      200  {array}   dto.RevenueResponse
// @Failure      500  {object}  dto.APIError
// @Router       /api/revenue [get]
func (h *APIHandler) GetRevenue(c *fiber.Ctx) error {
	revenue, err := h.views.FetchRevenue(c.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("api: error consultando ingresos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIError{Error: "Failed to fetch revenue"})
	}
	return c.JSON(revenue)
}
