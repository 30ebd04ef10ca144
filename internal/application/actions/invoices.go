package actions

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jhoicas/Dashboard-api/internal/domain"
	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
)

const (
	actionCreateInvoice = "create_invoice"
	actionUpdateInvoice = "update_invoice"
	actionDeleteInvoice = "delete_invoice"
)

// CreateInvoice valida el formulario, convierte el importe a centavos y crea la factura.
func (s *Service) CreateInvoice(ctx context.Context, form Form) Result {
	in, errs := parseInvoice(form, s.policy, s.now())
	if errs != nil {
		return s.invalid(actionCreateInvoice, errs, "Missing Fields. Failed to Create Invoice.")
	}

	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		Amount:     in.AmountInCents,
		Status:     in.Status,
		Date:       in.Date,
	}
	s.log.Info().
		Str("invoice_id", inv.ID).
		Str("customer_id", inv.CustomerID).
		Int64("amount_cents", inv.Amount).
		Str("status", inv.Status).
		Str("date", inv.Date.Format(entity.DateLayout)).
		Msg("creando factura")

	if err := s.invoices.Create(ctx, inv); err != nil {
		return s.fail(actionCreateInvoice, FailureStore, "Database Error: Failed to Create Invoice. Error: %v", err)
	}
	return s.succeed(ctx, actionCreateInvoice, true, "", PathInvoices)
}

// UpdateInvoice valida y actualiza la factura id. Con DateAuto la fecha almacenada no cambia.
func (s *Service) UpdateInvoice(ctx context.Context, id string, form Form) Result {
	in, errs := parseInvoice(form, s.policy, s.now())
	if errs != nil {
		return s.invalid(actionUpdateInvoice, errs, "Missing Fields. Failed to Update Invoice.")
	}

	inv := &entity.Invoice{
		ID:         id,
		CustomerID: in.CustomerID,
		Amount:     in.AmountInCents,
		Status:     in.Status,
		Date:       in.Date,
	}
	withDate := s.policy.DateMode != DateAuto
	s.log.Info().
		Str("invoice_id", id).
		Str("customer_id", inv.CustomerID).
		Int64("amount_cents", inv.Amount).
		Str("status", inv.Status).
		Bool("with_date", withDate).
		Msg("actualizando factura")

	if err := s.invoices.Update(ctx, inv, withDate); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.fail(actionUpdateInvoice, FailureNotFound, "Invoice not found.")
		}
		return s.fail(actionUpdateInvoice, FailureStore, "Database Error: Failed to Update Invoice. Error: %v", err)
	}
	return s.succeed(ctx, actionUpdateInvoice, true, "", PathInvoices)
}

// DeleteInvoice elimina la factura id. No redirige.
func (s *Service) DeleteInvoice(ctx context.Context, id string) Result {
	s.log.Info().Str("invoice_id", id).Msg("eliminando factura")

	if err := s.invoices.Delete(ctx, id); err != nil {
		return s.fail(actionDeleteInvoice, FailureStore, "Database Error: Failed to Delete Invoice. Error: %v", err)
	}
	return s.succeed(ctx, actionDeleteInvoice, false, "Deleted Invoice.", PathInvoices)
}
