// Package testutil dobles en memoria de los puertos de persistencia, blob store, caché y
// transacciones, compartidos por los tests de aplicación y de la capa HTTP.
package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Dashboard-api/internal/domain"
	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
	"github.com/jhoicas/Dashboard-api/internal/domain/repository"
)

// Journal registro ordenado de llamadas a los dobles ("customers.Delete c1", "blobs.Put k", ...).
type Journal struct {
	mu    sync.Mutex
	calls []string
}

func (j *Journal) record(format string, args ...any) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, fmt.Sprintf(format, args...))
}

// Calls devuelve una copia de las llamadas registradas.
func (j *Journal) Calls() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.calls...)
}

// Count cuenta las llamadas que empiezan por prefix.
func (j *Journal) Count(prefix string) int {
	n := 0
	for _, c := range j.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// ── Customers ──

// CustomerRepo implementación en memoria de repository.CustomerRepository.
type CustomerRepo struct {
	mu      sync.Mutex
	Journal *Journal
	Rows    map[string]*entity.Customer

	ErrCreate, ErrGet, ErrUpdate, ErrDelete, ErrList error
}

// NewCustomerRepo crea el repo con las filas dadas.
func NewCustomerRepo(j *Journal, rows ...*entity.Customer) *CustomerRepo {
	r := &CustomerRepo{Journal: j, Rows: map[string]*entity.Customer{}}
	for _, c := range rows {
		cp := *c
		r.Rows[c.ID] = &cp
	}
	return r
}

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.Journal.record("customers.Create %s", c.ID)
	if r.ErrCreate != nil {
		return r.ErrCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.Rows[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.Journal.record("customers.GetByID %s", id)
	if r.ErrGet != nil {
		return nil, r.ErrGet
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) List(_ context.Context) ([]*entity.Customer, error) {
	r.Journal.record("customers.List")
	if r.ErrList != nil {
		return nil, r.ErrList
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Customer, 0, len(r.Rows))
	for _, c := range r.Rows {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.Journal.record("customers.Update %s", c.ID)
	if r.ErrUpdate != nil {
		return r.ErrUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Rows[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.Rows[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	r.Journal.record("customers.Delete %s", id)
	if r.ErrDelete != nil {
		return r.ErrDelete
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Rows, id)
	return nil
}

// Get devuelve la fila guardada (nil si no existe), sin registrar llamada.
func (r *CustomerRepo) Get(id string) *entity.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Rows[id]
}

// ── Invoices ──

// InvoiceRepo implementación en memoria de repository.InvoiceRepository.
type InvoiceRepo struct {
	mu        sync.Mutex
	Journal   *Journal
	Rows      map[string]*entity.Invoice
	Customers *CustomerRepo

	ErrCreate, ErrUpdate, ErrGet, ErrList, ErrDelete, ErrDeleteByCustomer error
}

// NewInvoiceRepo crea el repo con las filas dadas. customers se usa para el listado.
func NewInvoiceRepo(j *Journal, customers *CustomerRepo, rows ...*entity.Invoice) *InvoiceRepo {
	r := &InvoiceRepo{Journal: j, Rows: map[string]*entity.Invoice{}, Customers: customers}
	for _, inv := range rows {
		cp := *inv
		r.Rows[inv.ID] = &cp
	}
	return r
}

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.Journal.record("invoices.Create %s", inv.ID)
	if r.ErrCreate != nil {
		return r.ErrCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	r.Rows[inv.ID] = &cp
	return nil
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice, withDate bool) error {
	r.Journal.record("invoices.Update %s", inv.ID)
	if r.ErrUpdate != nil {
		return r.ErrUpdate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.Rows[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.CustomerID = inv.CustomerID
	cur.Amount = inv.Amount
	cur.Status = inv.Status
	if withDate {
		cur.Date = inv.Date
	}
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.Journal.record("invoices.GetByID %s", id)
	if r.ErrGet != nil {
		return nil, r.ErrGet
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.Rows[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *InvoiceRepo) List(_ context.Context) ([]*entity.InvoiceWithCustomer, error) {
	r.Journal.record("invoices.List")
	if r.ErrList != nil {
		return nil, r.ErrList
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.InvoiceWithCustomer, 0, len(r.Rows))
	for _, inv := range r.Rows {
		row := &entity.InvoiceWithCustomer{Invoice: *inv}
		if r.Customers != nil {
			if c := r.Customers.Get(inv.CustomerID); c != nil {
				row.CustomerName, row.CustomerEmail, row.ImageURL = c.Name, c.Email, c.ImageURL
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	r.Journal.record("invoices.Delete %s", id)
	if r.ErrDelete != nil {
		return r.ErrDelete
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Rows, id)
	return nil
}

func (r *InvoiceRepo) DeleteByCustomer(_ context.Context, customerID string) (int64, error) {
	r.Journal.record("invoices.DeleteByCustomer %s", customerID)
	if r.ErrDeleteByCustomer != nil {
		return 0, r.ErrDeleteByCustomer
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, inv := range r.Rows {
		if inv.CustomerID == customerID {
			delete(r.Rows, id)
			n++
		}
	}
	return n, nil
}

// Get devuelve la fila guardada (nil si no existe), sin registrar llamada.
func (r *InvoiceRepo) Get(id string) *entity.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Rows[id]
}

// CountByCustomer número de facturas guardadas del cliente.
func (r *InvoiceRepo) CountByCustomer(customerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, inv := range r.Rows {
		if inv.CustomerID == customerID {
			n++
		}
	}
	return n
}

// ── Transacciones ──

// TxRunner ejecuta fn sobre los repos en memoria y restaura su contenido si fn falla.
type TxRunner struct {
	Journal   *Journal
	Customers *CustomerRepo
	Invoices  *InvoiceRepo
}

// RunInTx implementa actions.TxRunner.
func (t *TxRunner) RunInTx(ctx context.Context, fn func(repository.CustomerRepository, repository.InvoiceRepository) error) error {
	t.Journal.record("tx.Begin")
	customers := snapshotCustomers(t.Customers)
	invoices := snapshotInvoices(t.Invoices)
	if err := fn(t.Customers, t.Invoices); err != nil {
		t.Customers.mu.Lock()
		t.Customers.Rows = customers
		t.Customers.mu.Unlock()
		t.Invoices.mu.Lock()
		t.Invoices.Rows = invoices
		t.Invoices.mu.Unlock()
		t.Journal.record("tx.Rollback")
		return err
	}
	t.Journal.record("tx.Commit")
	return nil
}

func snapshotCustomers(r *CustomerRepo) map[string]*entity.Customer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*entity.Customer, len(r.Rows))
	for k, v := range r.Rows {
		cp := *v
		out[k] = &cp
	}
	return out
}

func snapshotInvoices(r *InvoiceRepo) map[string]*entity.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*entity.Invoice, len(r.Rows))
	for k, v := range r.Rows {
		cp := *v
		out[k] = &cp
	}
	return out
}

// ── Blob store ──

// BlobStore blob store en memoria; las URLs son BaseURL + "/" + key.
type BlobStore struct {
	mu      sync.Mutex
	Journal *Journal
	BaseURL string
	Objects map[string][]byte

	ErrPut    error
	ErrDelete error
	// DeleteErrs errores de Delete por URL; tienen prioridad sobre ErrDelete.
	DeleteErrs map[string]error
}

// NewBlobStore crea un blob store vacío.
func NewBlobStore(j *Journal) *BlobStore {
	return &BlobStore{Journal: j, BaseURL: "https://blob.test/profile-photos", Objects: map[string][]byte{}, DeleteErrs: map[string]error{}}
}

func (b *BlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	b.Journal.record("blobs.Put %s", key)
	if b.ErrPut != nil {
		return "", b.ErrPut
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := b.BaseURL + "/" + key
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Objects[url] = data
	return url, nil
}

func (b *BlobStore) Delete(_ context.Context, url string) error {
	b.Journal.record("blobs.Delete %s", url)
	if err := b.DeleteErrs[url]; err != nil {
		return err
	}
	if b.ErrDelete != nil {
		return b.ErrDelete
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Objects, url)
	return nil
}

// Has indica si existe un objeto con esa URL.
func (b *BlobStore) Has(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.Objects[url]
	return ok
}

// Len número de objetos guardados.
func (b *BlobStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Objects)
}

// ── Invalidación ──

// Invalidator registra las rutas invalidadas.
type Invalidator struct {
	mu      sync.Mutex
	Journal *Journal
	Paths   []string
	Err     error
}

func (i *Invalidator) Invalidate(_ context.Context, path string) error {
	i.Journal.record("invalidate %s", path)
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Paths = append(i.Paths, path)
	return i.Err
}

// Invalidated copia de las rutas invalidadas.
func (i *Invalidator) Invalidated() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.Paths...)
}

// ── Usuarios e ingresos ──

// UserRepo implementación en memoria de repository.UserRepository indexada por email.
type UserRepo struct {
	mu    sync.Mutex
	Users map[string]*entity.User
	Err   error
}

var _ repository.UserRepository = (*UserRepo)(nil)

// NewUserRepo crea el repo con los usuarios dados.
func NewUserRepo(users ...*entity.User) *UserRepo {
	r := &UserRepo{Users: map[string]*entity.User{}}
	for _, u := range users {
		cp := *u
		r.Users[u.Email] = &cp
	}
	return r
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) Upsert(_ context.Context, u *entity.User) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.Users[u.Email] = &cp
	return nil
}

// RevenueRepo devuelve una serie fija o un error y guarda el último rango pedido.
type RevenueRepo struct {
	Series   []entity.Revenue
	Err      error
	From, To time.Time
}

var _ repository.RevenueRepository = (*RevenueRepo)(nil)

func (r *RevenueRepo) MonthlyRevenue(_ context.Context, from, to time.Time) ([]entity.Revenue, error) {
	r.From, r.To = from, to
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Series, nil
}
