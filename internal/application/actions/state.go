package actions

import "github.com/jhoicas/Dashboard-api/internal/application/dto"

// Rutas de las vistas del dashboard; son a la vez destino de redirección y clave de caché.
const (
	PathInvoices  = "/dashboard/invoices"
	PathCustomers = "/dashboard/customers"
)

// Failure tipo de fallo de una operación.
type Failure string

const (
	FailureNone       Failure = ""
	FailureValidation Failure = "validation"
	FailureNotFound   Failure = "not_found"
	FailureStore      Failure = "store"
)

// Result resultado de una mutación. En éxito State solo lleva mensaje (borrados) o
// RedirectTo indica a dónde navegar (altas y ediciones).
type Result struct {
	State       dto.FormState
	Failure     Failure
	Revalidated []string
	RedirectTo  string
}

// OK indica si la operación terminó sin fallo.
func (r Result) OK() bool {
	return r.Failure == FailureNone
}
