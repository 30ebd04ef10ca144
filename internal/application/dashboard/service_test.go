package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Dashboard-api/internal/application/dashboard"
	"github.com/jhoicas/Dashboard-api/internal/application/dto"
	"github.com/jhoicas/Dashboard-api/internal/domain"
	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
	"github.com/jhoicas/Dashboard-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type mapCache struct {
	data map[string][]byte
	gens map[string]int64
	err  error

	// invalidateDuringLoad simula una mutación que invalida la ruta mientras se carga.
	invalidateDuringLoad bool
}

func (c *mapCache) Get(_ context.Context, path string) ([]byte, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	d, ok := c.data[path]
	return d, ok, nil
}

func (c *mapCache) Generation(_ context.Context, path string) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	gen := c.gens[path]
	if c.invalidateDuringLoad {
		c.gens[path]++
		delete(c.data, path)
	}
	return gen, nil
}

func (c *mapCache) Set(_ context.Context, path string, gen int64, data []byte) error {
	if c.gens[path] != gen {
		return nil
	}
	c.data[path] = data
	return nil
}

type fakePDF struct {
	inv      *entity.Invoice
	customer *entity.Customer
}

func (f *fakePDF) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice, c *entity.Customer) ([]byte, error) {
	f.inv, f.customer = inv, c
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	journal   *testutil.Journal
	customers *testutil.CustomerRepo
	invoices  *testutil.InvoiceRepo
	revenue   *testutil.RevenueRepo
	cache     *mapCache
	pdf       *fakePDF
	svc       *dashboard.Service
}

func newFixture() *fixture {
	j := &testutil.Journal{}
	f := &fixture{
		journal: j,
		customers: testutil.NewCustomerRepo(j,
			&entity.Customer{ID: "c1", Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "https://blob.test/c1.png"},
		),
		revenue: &testutil.RevenueRepo{},
		cache:   &mapCache{data: map[string][]byte{}, gens: map[string]int64{}},
		pdf:     &fakePDF{},
	}
	f.invoices = testutil.NewInvoiceRepo(j, f.customers,
		&entity.Invoice{ID: "i1", CustomerID: "c1", Amount: 123456, Status: "paid", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	)
	f.svc = dashboard.NewService(f.customers, f.invoices, f.revenue, f.cache, f.pdf, nil).
		WithClock(func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) })
	return f
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestFetchCustomerByID(t *testing.T) {
	f := newFixture()

	c, err := f.svc.FetchCustomerByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, &dto.CustomerResponse{ID: "c1", Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "https://blob.test/c1.png"}, c)

	missing, err := f.svc.FetchCustomerByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFetchCustomerByID_Error(t *testing.T) {
	f := newFixture()
	f.customers.ErrGet = errors.New("db down")

	_, err := f.svc.FetchCustomerByID(context.Background(), "c1")
	assert.Error(t, err)
}

func TestFetchRevenue_RangoDeDoceMeses(t *testing.T) {
	f := newFixture()
	f.revenue.Series = []entity.Revenue{
		{Month: "Apr", Revenue: decimal.NewFromInt(2000)},
		{Month: "May", Revenue: decimal.RequireFromString("1800.5")},
	}

	got, err := f.svc.FetchRevenue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []dto.RevenueResponse{{Month: "Apr", Revenue: 2000}, {Month: "May", Revenue: 1800.5}}, got)
	assert.Equal(t, time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), f.revenue.From)
	assert.Equal(t, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC), f.revenue.To)
}

func TestFetchRevenue_Error(t *testing.T) {
	f := newFixture()
	f.revenue.Err = errors.New("timeout")

	_, err := f.svc.FetchRevenue(context.Background())
	assert.Error(t, err)
}

func TestListInvoices_UsaCacheDeVista(t *testing.T) {
	f := newFixture()

	first, err := f.svc.ListInvoices(context.Background())
	require.NoError(t, err)
	second, err := f.svc.ListInvoices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.journal.Count("invoices.List"), "la segunda lectura sale de caché")

	var rows []dto.InvoiceRowResponse
	require.NoError(t, json.Unmarshal(first, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Delba de Oliveira", rows[0].Name)
	assert.Equal(t, "$1,234.56", rows[0].AmountFormatted)

	delete(f.cache.data, "/dashboard/invoices")
	_, err = f.svc.ListInvoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.journal.Count("invoices.List"), "tras invalidar se recalcula")
}

func TestListInvoices_InvalidacionDuranteCargaNoGuardaVista(t *testing.T) {
	f := newFixture()
	f.cache.invalidateDuringLoad = true

	_, err := f.svc.ListInvoices(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, f.cache.data, "/dashboard/invoices", "la carga vieja no pisa la invalidación")

	f.cache.invalidateDuringLoad = false
	_, err = f.svc.ListInvoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.journal.Count("invoices.List"))
	assert.Contains(t, f.cache.data, "/dashboard/invoices")
}

func TestListCustomers_CacheCaidaConsultaRepo(t *testing.T) {
	f := newFixture()
	f.cache.err = errors.New("redis down")

	data, err := f.svc.ListCustomers(context.Background())

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"c1","name":"Delba de Oliveira","email":"delba@oliveira.com","image_url":"https://blob.test/c1.png"}]`, string(data))
}

func TestInvoicePDF(t *testing.T) {
	f := newFixture()

	pdf, name, err := f.svc.InvoicePDF(context.Background(), "i1")

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "invoice_2024-01-02_i1.pdf", name)
	assert.Equal(t, "c1", f.pdf.customer.ID)

	_, _, err = f.svc.InvoicePDF(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
