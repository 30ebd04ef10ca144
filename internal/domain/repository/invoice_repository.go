package repository

import (
	"context"

	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update actualiza customer_id, amount y status; si withDate también la fecha.
	// Devuelve domain.ErrNotFound si ninguna fila coincide con el ID.
	Update(ctx context.Context, invoice *entity.Invoice, withDate bool) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.InvoiceWithCustomer, error)
	Delete(ctx context.Context, id string) error
	// DeleteByCustomer elimina todas las facturas del cliente y devuelve cuántas borró.
	DeleteByCustomer(ctx context.Context, customerID string) (int64, error)
}
