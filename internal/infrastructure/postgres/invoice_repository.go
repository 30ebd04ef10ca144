package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Dashboard-api/internal/domain"
	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
	"github.com/jhoicas/Dashboard-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la factura.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (id, customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CustomerID, invoice.Amount, invoice.Status, invoice.Date,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update actualiza customer_id, amount y status (y date si withDate).
// Devuelve domain.ErrNotFound si ninguna fila coincide.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice, withDate bool) error {
	query := `UPDATE invoices SET customer_id = $2, amount = $3, status = $4 WHERE id = $1`
	args := []any{invoice.ID, invoice.CustomerID, invoice.Amount, invoice.Status}
	if withDate {
		query = `UPDATE invoices SET customer_id = $2, amount = $3, status = $4, date = $5 WHERE id = $1`
		args = append(args, invoice.Date)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una factura por ID; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT id, customer_id, amount, status, date FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &inv.Status, &inv.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// List lista las facturas con nombre, email e imagen del cliente, de la más reciente a la más antigua.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.InvoiceWithCustomer, error) {
	query := `
		SELECT i.id, i.customer_id, i.amount, i.status, i.date,
		       COALESCE(c.name, ''), COALESCE(c.email, ''), COALESCE(c.image_url, '')
		FROM invoices i
		LEFT JOIN customers c ON c.id = i.customer_id
		ORDER BY i.date DESC, i.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InvoiceWithCustomer, 0)
	for rows.Next() {
		var row entity.InvoiceWithCustomer
		if err := rows.Scan(
			&row.ID, &row.CustomerID, &row.Amount, &row.Status, &row.Date,
			&row.CustomerName, &row.CustomerEmail, &row.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// Delete elimina una factura por ID.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// DeleteByCustomer elimina todas las facturas del cliente.
func (r *InvoiceRepo) DeleteByCustomer(ctx context.Context, customerID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE customer_id = $1`, customerID)
	if err != nil {
		return 0, fmt.Errorf("delete customer invoices: %w", err)
	}
	return tag.RowsAffected(), nil
}
