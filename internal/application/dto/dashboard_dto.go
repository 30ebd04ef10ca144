package dto

import "time"

// CustomerResponse cliente tal como lo consume la capa de presentación.
type CustomerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// InvoiceRowResponse fila del listado de facturas con los datos del cliente.
// Amount en centavos; AmountFormatted en unidades mayores ("$1,234.56").
type InvoiceRowResponse struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ImageURL        string    `json:"image_url"`
	Amount          int64     `json:"amount"`
	AmountFormatted string    `json:"amount_formatted"`
	Status          string    `json:"status"`
	Date            time.Time `json:"date"`
}

// RevenueResponse punto mensual de la serie de ingresos ({"month":"Jan","revenue":2000}).
type RevenueResponse struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}
