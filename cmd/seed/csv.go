package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
)

// seedUser usuario del CSV con la contraseña en claro antes del hash.
type seedUser struct {
	entity.User
	password string
}

// readRows lee el CSV, valida la cabecera y devuelve las filas de datos sin espacios.
func readRows(r io.Reader, header ...string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv vacío")
		}
		return nil, err
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(first[i]), h) {
			return nil, fmt.Errorf("cabecera inválida: columna %d es %q, se esperaba %q", i+1, first[i], h)
		}
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return rows, nil
}

func readUsers(r io.Reader) ([]*seedUser, error) {
	rows, err := readRows(r, "name", "email", "password")
	if err != nil {
		return nil, err
	}
	users := make([]*seedUser, 0, len(rows))
	for i, row := range rows {
		if row[1] == "" || len(row[2]) < 6 {
			return nil, fmt.Errorf("fila %d: email requerido y password de al menos 6 caracteres", i+2)
		}
		users = append(users, &seedUser{
			User:     entity.User{Name: row[0], Email: strings.ToLower(row[1])},
			password: row[2],
		})
	}
	return users, nil
}

func readCustomers(r io.Reader) ([]*entity.Customer, error) {
	rows, err := readRows(r, "id", "name", "email", "image_url")
	if err != nil {
		return nil, err
	}
	customers := make([]*entity.Customer, 0, len(rows))
	for i, row := range rows {
		if row[0] == "" || row[1] == "" || row[3] == "" {
			return nil, fmt.Errorf("fila %d: id, name e image_url son requeridos", i+2)
		}
		customers = append(customers, &entity.Customer{ID: row[0], Name: row[1], Email: row[2], ImageURL: row[3]})
	}
	return customers, nil
}

func readInvoices(r io.Reader) ([]*entity.Invoice, error) {
	rows, err := readRows(r, "customer_id", "amount", "status", "date")
	if err != nil {
		return nil, err
	}
	invoices := make([]*entity.Invoice, 0, len(rows))
	for i, row := range rows {
		cents, ok := actions.ParseAmount(row[1])
		if !ok {
			return nil, fmt.Errorf("fila %d: amount inválido %q", i+2, row[1])
		}
		if row[2] != entity.InvoiceStatusPending && row[2] != entity.InvoiceStatusPaid {
			return nil, fmt.Errorf("fila %d: status inválido %q", i+2, row[2])
		}
		date, err := time.Parse(entity.DateLayout, row[3])
		if err != nil {
			return nil, fmt.Errorf("fila %d: date inválida %q", i+2, row[3])
		}
		invoices = append(invoices, &entity.Invoice{
			CustomerID: row[0],
			Amount:     cents,
			Status:     row[2],
			Date:       date,
		})
	}
	return invoices, nil
}
