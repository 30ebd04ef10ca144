package dashboard

import (
	"context"

	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
)

// ViewCache caché del render de una vista, indexada por su ruta. La señal de
// invalidación de las mutaciones elimina la misma entrada.
type ViewCache interface {
	Get(ctx context.Context, path string) ([]byte, bool, error)
	// Generation cuenta las invalidaciones de path.
	Generation(ctx context.Context, path string) (int64, error)
	// Set guarda data solo si path sigue en la generación gen; si hubo una invalidación
	// entre medio la vista calculada ya es vieja y se descarta.
	Set(ctx context.Context, path string, gen int64, data []byte) error
}

// InvoicePDFGenerator genera el comprobante PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, customer *entity.Customer) ([]byte, error)
}
