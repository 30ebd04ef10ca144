package actions

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
	"github.com/jhoicas/Dashboard-api/internal/domain/repository"
)

const (
	actionCreateCustomer = "create_customer"
	actionUpdateCustomer = "update_customer"
	actionDeleteCustomer = "delete_customer"
)

// BlobKey clave de almacenamiento de una foto de perfil: derivada de un UUID, nunca del
// nombre original, conservando solo la extensión.
func BlobKey(fileName string) string {
	return "customers/" + uuid.New().String() + strings.ToLower(filepath.Ext(fileName))
}

func (s *Service) upload(ctx context.Context, photo *FileUpload) (string, string, error) {
	key := BlobKey(photo.Name)
	if photo.Open == nil {
		return "", key, errors.New("archivo sin contenido")
	}
	rc, err := photo.Open()
	if err != nil {
		return "", key, err
	}
	defer rc.Close()
	url, err := s.blobs.Put(ctx, key, rc, photo.Size, photo.ContentType)
	return url, key, err
}

// compensate elimina un blob subido cuya fila no llegó a escribirse.
func (s *Service) compensate(ctx context.Context, action, url string) {
	err := s.blobs.Delete(ctx, url)
	s.observer.Compensated(action, "delete_uploaded_blob", err)
	if err != nil {
		s.log.Error().Err(err).Str("action", action).Str("url", url).Msg("no se pudo eliminar la imagen huérfana")
		return
	}
	s.log.Warn().Str("action", action).Str("url", url).Msg("imagen huérfana eliminada")
}

// CreateCustomer sube la foto y luego inserta el cliente con su URL pública.
// Si el insert falla se elimina la foto recién subida.
func (s *Service) CreateCustomer(ctx context.Context, form Form) Result {
	in, errs := parseCustomer(form, s.policy, true)
	if errs != nil {
		return s.invalid(actionCreateCustomer, errs, "Missing Fields. Failed to Create Customer.")
	}

	url, key, err := s.upload(ctx, in.Photo)
	if err != nil {
		return s.fail(actionCreateCustomer, FailureStore, "Failed to Upload Profile Image. Error: %v", err)
	}

	now := s.now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		ImageURL:  url,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.log.Info().
		Str("customer_id", customer.ID).
		Str("name", customer.Name).
		Str("email", customer.Email).
		Str("blob_key", key).
		Str("image_url", url).
		Msg("creando cliente")

	if err := s.customers.Create(ctx, customer); err != nil {
		s.compensate(ctx, actionCreateCustomer, url)
		return s.fail(actionCreateCustomer, FailureStore, "Database Error: Failed to Create Customer. Error: %v", err)
	}
	return s.succeed(ctx, actionCreateCustomer, true, "", PathCustomers)
}

// UpdateCustomer actualiza nombre y email del cliente id. Con PhotoReplacement y una foto
// no vacía borra la foto anterior, sube la nueva y guarda su URL, en ese orden.
func (s *Service) UpdateCustomer(ctx context.Context, id string, form Form) Result {
	in, errs := parseCustomer(form, s.policy, false)
	if errs != nil {
		return s.invalid(actionUpdateCustomer, errs, "Missing Fields. Failed to Update Customer.")
	}

	existing, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return s.fail(actionUpdateCustomer, FailureStore, "Database Error: Failed to Update Customer. Error: %v", err)
	}
	if existing == nil {
		return s.fail(actionUpdateCustomer, FailureNotFound, "Customer not found.")
	}

	updated := *existing
	updated.Name = in.Name
	updated.Email = in.Email
	updated.UpdatedAt = s.now()

	replace := s.policy.PhotoReplacement && in.Photo != nil && in.Photo.Size > 0
	s.log.Info().
		Str("customer_id", id).
		Str("name", updated.Name).
		Str("email", updated.Email).
		Bool("replace_photo", replace).
		Msg("actualizando cliente")

	if replace {
		if existing.ImageURL != "" {
			if err := s.blobs.Delete(ctx, existing.ImageURL); err != nil {
				return s.fail(actionUpdateCustomer, FailureStore, "Failed to Delete Old Profile Image. Error: %v", err)
			}
		}
		url, key, err := s.upload(ctx, in.Photo)
		if err != nil {
			return s.fail(actionUpdateCustomer, FailureStore, "Failed to Upload Profile Image. Error: %v", err)
		}
		s.log.Info().Str("customer_id", id).Str("blob_key", key).Str("image_url", url).Msg("nueva foto de perfil")
		updated.ImageURL = url
	}

	if err := s.customers.Update(ctx, &updated); err != nil {
		if replace {
			s.compensate(ctx, actionUpdateCustomer, updated.ImageURL)
			// La foto anterior ya no existe: la fila queda apuntando a un blob borrado.
			s.log.Error().Str("customer_id", id).Str("image_url", existing.ImageURL).Msg("referencia de imagen colgante")
		}
		return s.fail(actionUpdateCustomer, FailureStore, "Database Error: Failed to Update Customer. Error: %v", err)
	}
	return s.succeed(ctx, actionUpdateCustomer, true, "", PathCustomers, PathInvoices)
}

// deleteStepError identifica el paso de borrado que falló dentro de la transacción.
type deleteStepError struct {
	message string
	err     error
}

func (e *deleteStepError) Error() string { return fmt.Sprintf(e.message, e.err) }
func (e *deleteStepError) Unwrap() error { return e.err }

const (
	msgDeleteCustomer         = "Database Error: Failed to Delete Customer. Error: %v"
	msgDeleteCustomerInvoices = "Database Error: Failed to Delete Customer's Invoices. Error: %v"
	msgDeleteCustomerImage    = "Failed to Delete Customer's Profile Image. Error: %v"
)

// DeleteCustomer elimina el cliente id, sus facturas y su foto. Con
// TransactionalCustomerDelete facturas y cliente se borran en una transacción
// (primero las facturas); si no, cada paso se confirma por separado.
func (s *Service) DeleteCustomer(ctx context.Context, id string) Result {
	existing, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return s.fail(actionDeleteCustomer, FailureStore, msgDeleteCustomer, err)
	}
	if existing == nil {
		return s.fail(actionDeleteCustomer, FailureNotFound, "Customer not found.")
	}
	s.log.Info().
		Str("customer_id", id).
		Str("image_url", existing.ImageURL).
		Bool("transactional", s.policy.TransactionalCustomerDelete).
		Msg("eliminando cliente")

	if s.policy.TransactionalCustomerDelete {
		err = s.tx.RunInTx(ctx, func(customers repository.CustomerRepository, invoices repository.InvoiceRepository) error {
			n, err := invoices.DeleteByCustomer(ctx, id)
			if err != nil {
				return &deleteStepError{message: msgDeleteCustomerInvoices, err: err}
			}
			s.log.Debug().Str("customer_id", id).Int64("invoices", n).Msg("facturas del cliente eliminadas")
			if err := customers.Delete(ctx, id); err != nil {
				return &deleteStepError{message: msgDeleteCustomer, err: err}
			}
			return nil
		})
		if err != nil {
			var step *deleteStepError
			if errors.As(err, &step) {
				return s.fail(actionDeleteCustomer, FailureStore, step.message, step.err)
			}
			return s.fail(actionDeleteCustomer, FailureStore, msgDeleteCustomer, err)
		}
	} else {
		if err := s.customers.Delete(ctx, id); err != nil {
			return s.fail(actionDeleteCustomer, FailureStore, msgDeleteCustomer, err)
		}
		if _, err := s.invoices.DeleteByCustomer(ctx, id); err != nil {
			return s.fail(actionDeleteCustomer, FailureStore, msgDeleteCustomerInvoices, err)
		}
	}

	if existing.ImageURL != "" {
		if err := s.blobs.Delete(ctx, existing.ImageURL); err != nil {
			return s.fail(actionDeleteCustomer, FailureStore, msgDeleteCustomerImage, err)
		}
	}
	return s.succeed(ctx, actionDeleteCustomer, false, "Deleted Customer.", PathCustomers, PathInvoices)
}
