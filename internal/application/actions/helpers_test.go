package actions_test

import (
	"time"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
	"github.com/jhoicas/Dashboard-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

type harness struct {
	journal     *testutil.Journal
	customers   *testutil.CustomerRepo
	invoices    *testutil.InvoiceRepo
	blobs       *testutil.BlobStore
	invalidator *testutil.Invalidator
	observer    *recordingObserver
	svc         *actions.Service
}

type recordingObserver struct {
	completed   []string
	compensated []string
}

func (o *recordingObserver) ActionCompleted(action string, f actions.Failure) {
	o.completed = append(o.completed, action+":"+string(f))
}

func (o *recordingObserver) Compensated(action, step string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.compensated = append(o.compensated, action+":"+step+":"+status)
}

// newHarness arma el orquestador sobre dobles en memoria con los clientes dados.
func newHarness(policy actions.Policy, customers ...*entity.Customer) *harness {
	j := &testutil.Journal{}
	h := &harness{
		journal:     j,
		customers:   testutil.NewCustomerRepo(j, customers...),
		blobs:       testutil.NewBlobStore(j),
		invalidator: &testutil.Invalidator{Journal: j},
		observer:    &recordingObserver{},
	}
	h.invoices = testutil.NewInvoiceRepo(j, h.customers)
	h.svc = actions.New(actions.Deps{
		Customers:   h.customers,
		Invoices:    h.invoices,
		Blobs:       h.blobs,
		Invalidator: h.invalidator,
		Tx:          &testutil.TxRunner{Journal: j, Customers: h.customers, Invoices: h.invoices},
		Observer:    h.observer,
		Policy:      policy,
	}).WithClock(func() time.Time { return fixedNow })
	return h
}

// storeCalls llamadas de escritura o lectura a repos y blob store (excluye invalidación).
func (h *harness) storeCalls() int {
	return h.journal.Count("customers.") + h.journal.Count("invoices.") + h.journal.Count("blobs.") + h.journal.Count("tx.")
}

func invoiceForm(customerID, amount, status, date string) actions.Form {
	return actions.NewForm(map[string]string{
		"customerId": customerID,
		"amount":     amount,
		"status":     status,
		"date":       date,
	}, nil)
}

func customerForm(name, email string, photo *actions.FileUpload) actions.Form {
	var files map[string]*actions.FileUpload
	if photo != nil {
		files = map[string]*actions.FileUpload{"profilePhoto": photo}
	}
	return actions.NewForm(map[string]string{"name": name, "email": email}, files)
}

// onlyInvoice devuelve la única factura guardada.
func (h *harness) onlyInvoice() *entity.Invoice {
	for _, inv := range h.invoices.Rows {
		return inv
	}
	return nil
}
