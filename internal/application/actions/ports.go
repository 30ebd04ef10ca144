package actions

import (
	"context"
	"io"

	"github.com/jhoicas/Dashboard-api/internal/domain/repository"
)

// BlobStore almacenamiento de archivos públicos (fotos de perfil) direccionado por URL.
type BlobStore interface {
	// Put sube el contenido bajo key y devuelve su URL pública.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete elimina el objeto referenciado por su URL pública.
	Delete(ctx context.Context, url string) error
}

// Invalidator señal de invalidación de la caché de una vista.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// TxRunner ejecuta fn dentro de una transacción con repos ligados a ella.
// Si fn retorna error se hace rollback.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(customers repository.CustomerRepository, invoices repository.InvoiceRepository) error) error
}

// Observer recibe el resultado de cada operación y las compensaciones ejecutadas.
type Observer interface {
	ActionCompleted(action string, f Failure)
	Compensated(action, step string, err error)
}

type nopObserver struct{}

func (nopObserver) ActionCompleted(string, Failure)    {}
func (nopObserver) Compensated(string, string, error) {}
