package entity

import "time"

// Estados válidos de una factura.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// DateLayout formato de fecha calendario (ISO) usado en formularios y en la columna date.
const DateLayout = "2006-01-02"

// Invoice representa una factura de un cliente.
// Amount se guarda en centavos (unidades menores de la moneda).
type Invoice struct {
	ID         string
	CustomerID string
	Amount     int64
	Status     string
	Date       time.Time
}

// InvoiceWithCustomer fila de listado: factura más datos visibles del cliente.
type InvoiceWithCustomer struct {
	Invoice
	CustomerName  string
	CustomerEmail string
	ImageURL      string
}
