package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/internal/domain/repository"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

// Deps colaboradores del orquestador. Tx, Observer y Logger son opcionales.
type Deps struct {
	Customers   repository.CustomerRepository
	Invoices    repository.InvoiceRepository
	Blobs       BlobStore
	Invalidator Invalidator
	Tx          TxRunner
	Observer    Observer
	Logger      *logger.Logger
	Policy      Policy
}

// Service orquestador de mutaciones de facturas y clientes.
// Cada operación es una función pura de (id, formulario) a Result: valida, escribe en los
// almacenes en orden estricto e invalida la vista afectada solo tras el último paso exitoso.
type Service struct {
	customers   repository.CustomerRepository
	invoices    repository.InvoiceRepository
	blobs       BlobStore
	invalidator Invalidator
	tx          TxRunner
	observer    Observer
	log         *logger.Logger
	policy      Policy
	now         func() time.Time
}

// New construye el orquestador.
func New(d Deps) *Service {
	s := &Service{
		customers:   d.Customers,
		invoices:    d.Invoices,
		blobs:       d.Blobs,
		invalidator: d.Invalidator,
		tx:          d.Tx,
		observer:    d.Observer,
		log:         d.Logger,
		policy:      d.Policy,
		now:         time.Now,
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.tx == nil {
		s.policy.TransactionalCustomerDelete = false
	}
	return s
}

// WithClock reemplaza el reloj usado para la fecha automática de facturas.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Policy devuelve la política efectiva.
func (s *Service) Policy() Policy {
	return s.policy
}

func (s *Service) invalidate(ctx context.Context, path string) {
	if s.invalidator == nil {
		return
	}
	// Señal sin respuesta: un fallo no revierte la mutación ya aplicada.
	if err := s.invalidator.Invalidate(ctx, path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("no se pudo invalidar la vista")
	}
}

// succeed invalida cada vista de paths y arma el resultado exitoso. redirect indica si se
// navega a la primera.
func (s *Service) succeed(ctx context.Context, action string, redirect bool, message string, paths ...string) Result {
	for _, p := range paths {
		s.invalidate(ctx, p)
	}
	s.observer.ActionCompleted(action, FailureNone)
	res := Result{
		State:       dto.FormState{Message: message},
		Revalidated: paths,
	}
	if redirect && len(paths) > 0 {
		res.RedirectTo = paths[0]
	}
	return res
}

func (s *Service) invalid(action string, errs fieldErrors, message string) Result {
	s.observer.ActionCompleted(action, FailureValidation)
	return Result{
		State:   dto.FormState{Errors: errs, Message: message},
		Failure: FailureValidation,
	}
}

func (s *Service) fail(action string, f Failure, format string, args ...any) Result {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.observer.ActionCompleted(action, f)
	if f == FailureStore {
		s.log.Error().Str("action", action).Msg(msg)
	}
	return Result{
		State:   dto.FormState{Message: msg},
		Failure: f,
	}
}
