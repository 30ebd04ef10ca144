package actions_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
	"github.com/jhoicas/Dashboard-api/internal/testutil"
)

const oldImage = "https://blob.test/profile-photos/customers/old.png"

func existingCustomer(id string) *entity.Customer {
	return &entity.Customer{ID: id, Name: "Old Name", Email: "old@x.com", ImageURL: oldImage}
}

// ── Validación ──

func TestCustomerEmail(t *testing.T) {
	valid := []string{"jane@x.com", "a.b+c@sub.example.org", "delba@oliveira.com"}
	invalid := []string{"jane", "jane@", "@x.com", "jane x@x.com", "jane@@x.com"}

	for _, email := range valid {
		t.Run("valido_"+email, func(t *testing.T) {
			h := newHarness(actions.DefaultPolicy())
			res := h.svc.CreateCustomer(context.Background(), customerForm("Jane", email, testutil.Photo("a.png", "image/png", []byte("png"))))
			assert.True(t, res.OK(), res.State.Message)
		})
	}
	for _, email := range invalid {
		t.Run("invalido_"+email, func(t *testing.T) {
			h := newHarness(actions.DefaultPolicy())
			res := h.svc.CreateCustomer(context.Background(), customerForm("Jane", email, testutil.Photo("a.png", "image/png", []byte("png"))))
			assert.Equal(t, actions.FailureValidation, res.Failure)
			assert.Equal(t, []string{"Please enter a valid email address."}, res.State.Errors["email"])
			assert.Zero(t, h.storeCalls())
		})
	}
}

func TestCreateCustomer_CamposFaltantes(t *testing.T) {
	h := newHarness(actions.DefaultPolicy())

	res := h.svc.CreateCustomer(context.Background(), customerForm("", "", nil))

	assert.Equal(t, actions.FailureValidation, res.Failure)
	assert.Equal(t, "Missing Fields. Failed to Create Customer.", res.State.Message)
	assert.Equal(t, []string{"Please enter a name."}, res.State.Errors["name"])
	assert.Equal(t, []string{"Please enter an email."}, res.State.Errors["email"])
	assert.Equal(t, []string{"Please upload a profile file.", "Please upload an image file."}, res.State.Errors["profilePhoto"])
	assert.Zero(t, h.storeCalls())
}

func TestCreateCustomer_TamanoDeFoto(t *testing.T) {
	maxBytes := actions.DefaultPolicy().MaxPhotoBytes
	limit := int64(maxBytes)
	cases := []struct {
		name string
		size int64
		want []string
	}{
		{"vacia", 0, []string{"Please upload a profile file."}},
		{"un_byte", 1, nil},
		{"bajo_el_limite", limit, nil},
		{"en_el_limite", limit + 1, []string{"Please upload a profile file smaller than 4.9MB."}},
		{"cinco_mb", 5 * 1024 * 1024, []string{"Please upload a profile file smaller than 4.9MB."}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(actions.DefaultPolicy())

			res := h.svc.CreateCustomer(context.Background(), customerForm("Jane", "jane@x.com", testutil.SizedPhoto("a.jpg", "image/jpeg", tc.size)))

			if tc.want == nil {
				assert.True(t, res.OK(), res.State.Message)
				return
			}
			assert.Equal(t, actions.FailureValidation, res.Failure)
			assert.Equal(t, tc.want, res.State.Errors["profilePhoto"])
			assert.Zero(t, h.storeCalls())
		})
	}
}

func TestCreateCustomer_LimiteDeFotoConfigurado(t *testing.T) {
	policy := actions.DefaultPolicy()
	policy.MaxPhotoBytes = 1024 * 1024
	h := newHarness(policy)

	res := h.svc.CreateCustomer(context.Background(), customerForm("Delba", "delba@oliveira.com", testutil.SizedPhoto("a.png", "image/png", 2*1024*1024)))
	assert.Equal(t, actions.FailureValidation, res.Failure)
	assert.Equal(t, []string{"Please upload a profile file smaller than 1MB."}, res.State.Errors["profilePhoto"])

	res = h.svc.CreateCustomer(context.Background(), customerForm("Delba", "delba@oliveira.com", testutil.SizedPhoto("a.png", "image/png", 512*1024)))
	assert.True(t, res.OK(), res.State.Message)
}

func TestCreateCustomer_TipoDeFoto(t *testing.T) {
	t.Run("estricto_rechaza_no_imagen", func(t *testing.T) {
		h := newHarness(actions.DefaultPolicy())
		res := h.svc.CreateCustomer(context.Background(), customerForm("Jane", "jane@x.com", testutil.Photo("cv.pdf", "application/pdf", []byte("%PDF"))))
		assert.Equal(t, actions.FailureValidation, res.Failure)
		assert.Equal(t, []string{"Please upload an image file."}, res.State.Errors["profilePhoto"])
	})
	t.Run("laxo_acepta_no_imagen", func(t *testing.T) {
		policy := actions.DefaultPolicy()
		policy.StrictPhoto = false
		h := newHarness(policy)
		res := h.svc.CreateCustomer(context.Background(), customerForm("Jane", "jane@x.com", testutil.Photo("cv.pdf", "application/pdf", []byte("%PDF"))))
		assert.True(t, res.OK(), res.State.Message)
	})
}

// ── CreateCustomer ──

func TestCreateCustomer_SubeYLuegoInserta(t *testing.T) {
	h := newHarness(actions.DefaultPolicy())

	res := h.svc.CreateCustomer(context.Background(), customerForm("Jane", "jane@x.com", testutil.Photo("My Photo.PNG", "image/png", []byte("png-bytes"))))

	require.True(t, res.OK(), res.State.Message)
	calls := h.journal.Calls()
	require.Len(t, calls, 3)
	assert.True(t, strings.HasPrefix(calls[0], "blobs.Put customers/"))
	assert.True(t, strings.HasSuffix(calls[0], ".png"))
	assert.NotContains(t, calls[0], "My Photo", "la clave no usa el nombre original")
	assert.True(t, strings.HasPrefix(calls[1], "customers.Create "))
	assert.Equal(t, "invalidate "+actions.PathCustomers, calls[2])

	require.Len(t, h.customers.Rows, 1)
	for _, c := range h.customers.Rows {
		assert.Equal(t, "Jane", c.Name)
		assert.Equal(t, "jane@x.com", c.Email)
		assert.True(t, h.blobs.Has(c.ImageURL))
	}
	assert.Equal(t, actions.PathCustomers, res.RedirectTo)
}

func TestCreateCustomer_ClavesDistintasParaElMismoNombre(t *testing.T) {
	h := newHarness(actions.DefaultPolicy())

	for i := 0; i < 2; i++ {
		res := h.svc.CreateCustomer(context.Background(), customerForm("Jane", "jane@x.com", testutil.Photo("avatar.png", "image/png", []byte("x"))))
		require.True(t, res.OK())
	}
	assert.Equal(t, 2, h.blobs.Len())
}

func TestCreateCustomer_FallaSubida(t *testing.T) {
	h := newHarness(actions.DefaultPolicy())
	h.blobs.ErrPut = errors.New("bucket unavailable")

	res := h.svc.CreateCustomer(context.Background(), customerForm("Jane", "jane@x.com", testutil.Photo("a.png", "image/png", []byte("x"))))

	assert.Equal(t, actions.FailureStore, res.Failure)
	assert.Equal(t, "Failed to Upload Profile Image. Error: bucket unavailable", res.State.Message)
	assert.Empty(t, h.customers.Rows, "sin fila parcial")
	assert.Zero(t, h.journal.Count("customers.Create"))
	assert.Empty(t, h.invalidator.Invalidated())
}

func TestCreateCustomer_FallaInsertCompensaBlob(t *testing.T) {
	h := newHarness(actions.DefaultPolicy())
	h.customers.ErrCreate = errors.New("duplicate key")

	res := h.svc.CreateCustomer(context.Background(), customerForm("Jane", "jane@x.com", testutil.Photo("a.png", "image/png", []byte("x"))))

	assert.Equal(t, actions.FailureStore, res.Failure)
	assert.Equal(t, "Database Error: Failed to Create Customer. Error: duplicate key", res.State.Message)
	assert.Zero(t, h.blobs.Len(), "la foto subida se elimina")
	assert.Equal(t, 1, h.journal.Count("blobs.Delete"))
	assert.Equal(t, []string{"create_customer:delete_uploaded_blob:ok"}, h.observer.compensated)
	assert.Empty(t, h.invalidator.Invalidated())
}

// ── UpdateCustomer ──

func TestUpdateCustomer_SinFotoConservaImagen(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u1"))

	res := h.svc.UpdateCustomer(context.Background(), "u1", customerForm("Jane", "jane@x.com", nil))

	require.True(t, res.OK(), res.State.Message)
	c := h.customers.Get("u1")
	assert.Equal(t, "Jane", c.Name)
	assert.Equal(t, "jane@x.com", c.Email)
	assert.Equal(t, oldImage, c.ImageURL)
	assert.Zero(t, h.journal.Count("blobs."), "sin llamadas al blob store")
	assert.Equal(t, actions.PathCustomers, res.RedirectTo)
	// el listado de facturas muestra nombre y email del cliente
	want := []string{actions.PathCustomers, actions.PathInvoices}
	assert.Equal(t, want, h.invalidator.Invalidated())
	assert.Equal(t, want, res.Revalidated)
}

func TestUpdateCustomer_FotoVaciaSeIgnora(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u1"))

	res := h.svc.UpdateCustomer(context.Background(), "u1", customerForm("Jane", "jane@x.com", testutil.Photo("", "application/octet-stream", nil)))

	require.True(t, res.OK(), res.State.Message)
	assert.Equal(t, oldImage, h.customers.Get("u1").ImageURL)
	assert.Zero(t, h.journal.Count("blobs."))
}

func TestUpdateCustomer_ReemplazaFoto(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u1"))
	h.blobs.Objects[oldImage] = []byte("old")

	res := h.svc.UpdateCustomer(context.Background(), "u1", customerForm("Jane", "jane@x.com", testutil.Photo("new.jpg", "image/jpeg", []byte("new"))))

	require.True(t, res.OK(), res.State.Message)
	calls := h.journal.Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, "customers.GetByID u1", calls[0])
	assert.Equal(t, "blobs.Delete "+oldImage, calls[1])
	assert.True(t, strings.HasPrefix(calls[2], "blobs.Put customers/"))
	assert.Equal(t, "customers.Update u1", calls[3])

	c := h.customers.Get("u1")
	assert.NotEqual(t, oldImage, c.ImageURL)
	assert.True(t, h.blobs.Has(c.ImageURL))
	assert.False(t, h.blobs.Has(oldImage))
	assert.Equal(t, 1, h.blobs.Len(), "una sola imagen viva por cliente")
}

func TestUpdateCustomer_FallaBorradoDeFotoAnterior(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u1"))
	h.blobs.DeleteErrs[oldImage] = errors.New("access denied")

	res := h.svc.UpdateCustomer(context.Background(), "u1", customerForm("Jane", "jane@x.com", testutil.Photo("new.jpg", "image/jpeg", []byte("new"))))

	assert.Equal(t, actions.FailureStore, res.Failure)
	assert.Equal(t, "Failed to Delete Old Profile Image. Error: access denied", res.State.Message)
	assert.Zero(t, h.journal.Count("blobs.Put"), "no se sube la nueva foto")
	assert.Zero(t, h.journal.Count("customers.Update"), "no se actualiza la fila")
	assert.Equal(t, "Old Name", h.customers.Get("u1").Name)
	assert.Empty(t, h.invalidator.Invalidated())
}

func TestUpdateCustomer_FallaUpdateCompensaNuevaFoto(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u1"))
	h.customers.ErrUpdate = errors.New("connection reset")

	res := h.svc.UpdateCustomer(context.Background(), "u1", customerForm("Jane", "jane@x.com", testutil.Photo("new.jpg", "image/jpeg", []byte("new"))))

	assert.Equal(t, actions.FailureStore, res.Failure)
	assert.Equal(t, "Database Error: Failed to Update Customer. Error: connection reset", res.State.Message)
	assert.Zero(t, h.blobs.Len(), "la foto nueva se elimina")
	assert.Equal(t, []string{"update_customer:delete_uploaded_blob:ok"}, h.observer.compensated)
}

func TestUpdateCustomer_SinReemplazoDeFoto(t *testing.T) {
	policy := actions.DefaultPolicy()
	policy.PhotoReplacement = false
	h := newHarness(policy, existingCustomer("u1"))

	res := h.svc.UpdateCustomer(context.Background(), "u1", customerForm("Jane", "jane@x.com", testutil.Photo("new.jpg", "image/jpeg", []byte("new"))))

	require.True(t, res.OK(), res.State.Message)
	assert.Equal(t, oldImage, h.customers.Get("u1").ImageURL)
	assert.Zero(t, h.journal.Count("blobs."))
}

func TestUpdateCustomer_NoExiste(t *testing.T) {
	h := newHarness(actions.DefaultPolicy())

	res := h.svc.UpdateCustomer(context.Background(), "ghost", customerForm("Jane", "jane@x.com", nil))

	assert.Equal(t, actions.FailureNotFound, res.Failure)
	assert.Equal(t, "Customer not found.", res.State.Message)
	assert.Nil(t, res.State.Errors)
	assert.Zero(t, h.journal.Count("customers.Update"))
	assert.Zero(t, h.journal.Count("blobs."))
}

func TestUpdateCustomer_FotoDemasiadoGrande(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u1"))

	res := h.svc.UpdateCustomer(context.Background(), "u1", customerForm("Jane", "jane@x.com", testutil.SizedPhoto("big.png", "image/png", 6*1024*1024)))

	assert.Equal(t, actions.FailureValidation, res.Failure)
	assert.Equal(t, "Missing Fields. Failed to Update Customer.", res.State.Message)
	assert.Equal(t, []string{"Please upload a profile file smaller than 4.9MB."}, res.State.Errors["profilePhoto"])
	assert.Zero(t, h.storeCalls())
}

// ── DeleteCustomer ──

func seedInvoices(h *harness, customerID string, ids ...string) {
	for _, id := range ids {
		h.invoices.Rows[id] = &entity.Invoice{ID: id, CustomerID: customerID, Amount: 100, Status: "paid"}
	}
}

func TestDeleteCustomer_NoExiste(t *testing.T) {
	h := newHarness(actions.DefaultPolicy())

	res := h.svc.DeleteCustomer(context.Background(), "ghost")

	assert.Equal(t, actions.FailureNotFound, res.Failure)
	assert.Equal(t, "Customer not found.", res.State.Message)
	assert.Zero(t, h.journal.Count("customers.Delete"))
	assert.Zero(t, h.journal.Count("invoices.DeleteByCustomer"))
	assert.Zero(t, h.journal.Count("blobs.Delete"))
	assert.Empty(t, h.invalidator.Invalidated())
}

func TestDeleteCustomer_EndToEnd(t *testing.T) {
	for _, transactional := range []bool{true, false} {
		name := "legacy"
		if transactional {
			name = "transaccional"
		}
		t.Run(name, func(t *testing.T) {
			policy := actions.DefaultPolicy()
			policy.TransactionalCustomerDelete = transactional
			h := newHarness(policy, existingCustomer("u2"), existingCustomer("other"))
			h.blobs.Objects[oldImage] = []byte("old")
			seedInvoices(h, "u2", "i1", "i2")
			seedInvoices(h, "other", "i3")

			res := h.svc.DeleteCustomer(context.Background(), "u2")

			require.True(t, res.OK(), res.State.Message)
			assert.Equal(t, "Deleted Customer.", res.State.Message)
			assert.Empty(t, res.RedirectTo)
			assert.Nil(t, h.customers.Get("u2"))
			assert.Zero(t, h.invoices.CountByCustomer("u2"))
			assert.Equal(t, 1, h.invoices.CountByCustomer("other"))
			assert.False(t, h.blobs.Has(oldImage))
			want := []string{actions.PathCustomers, actions.PathInvoices}
			assert.Equal(t, want, h.invalidator.Invalidated())
			assert.Equal(t, want, res.Revalidated)
		})
	}
}

func TestDeleteCustomer_TransaccionalBorraFacturasPrimero(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u2"))
	seedInvoices(h, "u2", "i1")

	res := h.svc.DeleteCustomer(context.Background(), "u2")

	require.True(t, res.OK())
	assert.Equal(t, []string{
		"customers.GetByID u2",
		"tx.Begin",
		"invoices.DeleteByCustomer u2",
		"customers.Delete u2",
		"tx.Commit",
		"blobs.Delete " + oldImage,
		"invalidate " + actions.PathCustomers,
	}, h.journal.Calls())
}

func TestDeleteCustomer_TransaccionalFallaFacturasNoBorraCliente(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u2"))
	seedInvoices(h, "u2", "i1", "i2")
	h.invoices.ErrDeleteByCustomer = errors.New("lock timeout")

	res := h.svc.DeleteCustomer(context.Background(), "u2")

	assert.Equal(t, actions.FailureStore, res.Failure)
	assert.Equal(t, "Database Error: Failed to Delete Customer's Invoices. Error: lock timeout", res.State.Message)
	assert.NotNil(t, h.customers.Get("u2"))
	assert.Equal(t, 2, h.invoices.CountByCustomer("u2"))
	assert.Zero(t, h.journal.Count("blobs.Delete"))
	assert.Empty(t, h.invalidator.Invalidated())
}

func TestDeleteCustomer_TransaccionalFallaClienteRevierteFacturas(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u2"))
	seedInvoices(h, "u2", "i1", "i2")
	h.customers.ErrDelete = errors.New("serialization failure")

	res := h.svc.DeleteCustomer(context.Background(), "u2")

	assert.Equal(t, "Database Error: Failed to Delete Customer. Error: serialization failure", res.State.Message)
	assert.Equal(t, 2, h.invoices.CountByCustomer("u2"), "rollback de las facturas")
	assert.Equal(t, 1, h.journal.Count("tx.Rollback"))
}

func TestDeleteCustomer_LegacyInconsistenciaAceptada(t *testing.T) {
	policy := actions.DefaultPolicy()
	policy.TransactionalCustomerDelete = false
	h := newHarness(policy, existingCustomer("u2"))
	seedInvoices(h, "u2", "i1", "i2")
	h.invoices.ErrDeleteByCustomer = errors.New("lock timeout")

	res := h.svc.DeleteCustomer(context.Background(), "u2")

	assert.Equal(t, actions.FailureStore, res.Failure)
	assert.Equal(t, "Database Error: Failed to Delete Customer's Invoices. Error: lock timeout", res.State.Message)
	assert.Nil(t, h.customers.Get("u2"), "el cliente ya fue borrado")
	assert.Equal(t, 2, h.invoices.CountByCustomer("u2"), "las facturas quedan")
	assert.Zero(t, h.journal.Count("blobs.Delete"))
	assert.Empty(t, h.invalidator.Invalidated())
}

func TestDeleteCustomer_FallaBorradoDeFoto(t *testing.T) {
	h := newHarness(actions.DefaultPolicy(), existingCustomer("u2"))
	h.blobs.ErrDelete = errors.New("no such bucket")

	res := h.svc.DeleteCustomer(context.Background(), "u2")

	assert.Equal(t, actions.FailureStore, res.Failure)
	assert.Equal(t, "Failed to Delete Customer's Profile Image. Error: no such bucket", res.State.Message)
	assert.Nil(t, h.customers.Get("u2"))
	assert.Empty(t, h.invalidator.Invalidated())
}

func TestNew_SinTxUsaBorradoNoTransaccional(t *testing.T) {
	j := &testutil.Journal{}
	customers := testutil.NewCustomerRepo(j, existingCustomer("u2"))
	svc := actions.New(actions.Deps{
		Customers: customers,
		Invoices:  testutil.NewInvoiceRepo(j, customers),
		Blobs:     testutil.NewBlobStore(j),
		Policy:    actions.DefaultPolicy(),
	})

	assert.False(t, svc.Policy().TransactionalCustomerDelete)
	res := svc.DeleteCustomer(context.Background(), "u2")
	assert.True(t, res.OK(), res.State.Message)
	assert.Zero(t, j.Count("tx."))
}
