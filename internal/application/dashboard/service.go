package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/internal/domain"
	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
	"github.com/jhoicas/Dashboard-api/internal/domain/repository"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
	"github.com/jhoicas/Dashboard-api/pkg/money"
)

// RevenueMonths meses incluidos en la serie de ingresos (el actual y los 11 anteriores).
const RevenueMonths = 12

// Service API de lectura del dashboard.
type Service struct {
	customers repository.CustomerRepository
	invoices  repository.InvoiceRepository
	revenue   repository.RevenueRepository
	cache     ViewCache
	pdf       InvoicePDFGenerator
	log       *logger.Logger
	now       func() time.Time
}

// NewService construye el servicio. cache y pdf pueden ser nil.
func NewService(
	customers repository.CustomerRepository,
	invoices repository.InvoiceRepository,
	revenue repository.RevenueRepository,
	cache ViewCache,
	pdf InvoicePDFGenerator,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		customers: customers,
		invoices:  invoices,
		revenue:   revenue,
		cache:     cache,
		pdf:       pdf,
		log:       log,
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj usado para calcular el rango de ingresos.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// FetchCustomerByID devuelve el cliente o nil si no existe.
func (s *Service) FetchCustomerByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("dashboard: obtener cliente: %w", err)
	}
	if c == nil {
		return nil, nil
	}
	return toCustomerResponse(c), nil
}

// FetchRevenue devuelve los ingresos de los últimos RevenueMonths meses, en orden cronológico.
func (s *Service) FetchRevenue(ctx context.Context) ([]dto.RevenueResponse, error) {
	to := s.now().UTC()
	from := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(RevenueMonths - 1), 0)
	series, err := s.revenue.MonthlyRevenue(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard: obtener ingresos: %w", err)
	}
	out := make([]dto.RevenueResponse, 0, len(series))
	for _, r := range series {
		out = append(out, dto.RevenueResponse{Month: r.Month, Revenue: r.Revenue.InexactFloat64()})
	}
	return out, nil
}

// ListInvoices JSON del listado de facturas, servido desde la caché de la vista si existe.
func (s *Service) ListInvoices(ctx context.Context) ([]byte, error) {
	return s.cached(ctx, actions.PathInvoices, func() (any, error) {
		rows, err := s.invoices.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.InvoiceRowResponse, 0, len(rows))
		for _, r := range rows {
			out = append(out, dto.InvoiceRowResponse{
				ID:              r.ID,
				CustomerID:      r.CustomerID,
				Name:            r.CustomerName,
				Email:           r.CustomerEmail,
				ImageURL:        r.ImageURL,
				Amount:          r.Amount,
				AmountFormatted: money.FormatCents(r.Amount),
				Status:          r.Status,
				Date:            r.Date,
			})
		}
		return out, nil
	})
}

// ListCustomers JSON del listado de clientes, servido desde la caché de la vista si existe.
func (s *Service) ListCustomers(ctx context.Context) ([]byte, error) {
	return s.cached(ctx, actions.PathCustomers, func() (any, error) {
		rows, err := s.customers.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CustomerResponse, 0, len(rows))
		for _, c := range rows {
			out = append(out, *toCustomerResponse(c))
		}
		return out, nil
	})
}

func (s *Service) cached(ctx context.Context, path string, load func() (any, error)) ([]byte, error) {
	var (
		gen      int64
		storable bool
	)
	if s.cache != nil {
		data, ok, err := s.cache.Get(ctx, path)
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("caché de vista no disponible")
		} else if ok {
			return data, nil
		}
		// La generación se lee antes de cargar: una invalidación durante la carga la deja obsoleta.
		if gen, err = s.cache.Generation(ctx, path); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("no se pudo leer la generación de la vista")
		} else {
			storable = true
		}
	}

	v, err := load()
	if err != nil {
		return nil, fmt.Errorf("dashboard: listar %s: %w", path, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if storable {
		if err := s.cache.Set(ctx, path, gen, data); err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("no se pudo guardar la vista en caché")
		}
	}
	return data, nil
}

// InvoicePDF genera el comprobante de la factura id.
// Retorna domain.ErrNotFound si la factura o su cliente no existen.
func (s *Service) InvoicePDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	if s.pdf == nil {
		return nil, "", fmt.Errorf("dashboard: generador PDF no configurado")
	}
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	customer, err := s.customers.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, "", domain.ErrNotFound
	}

	pdfBytes, err = s.pdf.GenerateInvoicePDF(ctx, inv, customer)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("invoice_%s_%s.pdf", inv.Date.Format(entity.DateLayout), shortID(inv.ID)), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{ID: c.ID, Name: c.Name, Email: c.Email, ImageURL: c.ImageURL}
}
