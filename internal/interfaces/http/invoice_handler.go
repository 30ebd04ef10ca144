package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/application/dashboard"
	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/internal/domain"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

// InvoiceHandler maneja la vista y las mutaciones de facturas (protegido).
type InvoiceHandler struct {
	actions *actions.Service
	views   *dashboard.Service
	log     *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(a *actions.Service, views *dashboard.Service, log *logger.Logger) *InvoiceHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceHandler{actions: a, views: views, log: log}
}

// List godoc
// @Summary      Listado de facturas
// @Tags         invoices
// @Produce      json
// @Success      200  {array}   dto.InvoiceRowResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /dashboard/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	body, err := h.views.ListInvoices(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

// Create godoc
// @Summary      Crear factura
// @Tags         invoices
// @Accept       x-www-form-urlencoded,mpfd
// @Produce      json
// @Param        customerId  formData  string  true   "ID del cliente"
// @Param        amount      formData  string  true   "Importe en unidades mayores"
// @Param        status      formData  string  true   "pending | paid"
// @Param        date        formData  string  false  "YYYY-MM-DD"
// @Success      303
// @Failure      422  {object}  dto.FormState
// @Failure      500  {object}  dto.FormState
// @Router       /dashboard/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	form, err := formFromRequest(c)
	if err != nil {
		return badForm(c, err)
	}
	return respond(c, h.log, h.actions.CreateInvoice(c.Context(), form))
}

// Update PUT|POST /dashboard/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	form, err := formFromRequest(c)
	if err != nil {
		return badForm(c, err)
	}
	return respond(c, h.log, h.actions.UpdateInvoice(c.Context(), c.Params("id"), form))
}

// Delete DELETE /dashboard/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	return respond(c, h.log, h.actions.DeleteInvoice(c.Context(), c.Params("id")))
}

// GetPDF genera y devuelve el comprobante PDF de la factura.
// GET /dashboard/invoices/:id/pdf
//
// Responde con Content-Type: application/pdf y Content-Disposition: attachment.
// ?inline=true muestra el PDF en el navegador en vez de descargarlo.
func (h *InvoiceHandler) GetPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.views.InvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Invoice not found."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	disposition := "attachment"
	if inline, _ := strconv.ParseBool(c.Query("inline")); inline {
		disposition = "inline"
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, disposition+`; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
