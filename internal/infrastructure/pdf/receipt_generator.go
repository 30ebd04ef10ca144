// Package pdf genera el comprobante PDF de una factura del dashboard.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor              │  N° Comprobante + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Email                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Concepto | Estado | Importe                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  FOOTER: QR con la referencia de la factura                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Dashboard-api/internal/application/dashboard"
	"github.com/jhoicas/Dashboard-api/internal/domain/entity"
	"github.com/jhoicas/Dashboard-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorPaid    = &props.Color{Red: 22, Green: 163, Blue: 74}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ dashboard.InvoicePDFGenerator = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa dashboard.InvoicePDFGenerator usando Maroto v2.
type ReceiptGenerator struct {
	issuer  string
	linkURL string // prefijo del enlace codificado en el QR; vacío usa el ID
}

// NewReceiptGenerator construye el generador. issuer aparece en la cabecera.
func NewReceiptGenerator(issuer, linkURL string) *ReceiptGenerator {
	return &ReceiptGenerator{issuer: issuer, linkURL: strings.TrimRight(linkURL, "/")}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice, customer *entity.Customer) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.ID, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(detailRow(inv))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(inv))

	m.AddRows(row.New(3))
	m.AddRows(g.footerRow(inv))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptGenerator) headerRow(inv *entity.Invoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.issuer, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(ShortRef(inv.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+inv.Date.Format("Jan 2, 2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(c.Email, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Status", 3, align.Center),
		h("Amount", 3, align.Right),
	)
}

func detailRow(inv *entity.Invoice) core.Row {
	statusColor := colorGray
	if inv.Status == entity.InvoiceStatusPaid {
		statusColor = colorPaid
	}
	return row.New(7).Add(
		col.New(6).Add(text.New("Services "+inv.Date.Format("January 2006"), props.Text{
			Size: 8, Align: align.Left, Top: 1, Left: 1,
		})),
		col.New(3).Add(text.New(strings.ToUpper(inv.Status), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: statusColor,
		})),
		col.New(3).Add(text.New(money.FormatCents(inv.Amount), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

func totalRow(inv *entity.Invoice) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(money.FormatCents(inv.Amount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func (g *ReceiptGenerator) footerRow(inv *entity.Invoice) core.Row {
	ref := inv.ID
	if g.linkURL != "" {
		ref = g.linkURL + "/" + inv.ID
	}
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(ref, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Reference: "+inv.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
			text.New("Thank you for your business.", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 18, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// ShortRef número visible del comprobante: primeros 8 caracteres del ID en mayúsculas.
func ShortRef(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "#" + strings.ToUpper(id)
}
