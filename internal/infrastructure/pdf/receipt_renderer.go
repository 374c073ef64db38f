// Package pdf implementa la generación del bon de livraison / facture
// imprimible de un recibo, con el formato francés de los documentos
// escaneados que este sistema reemplaza.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: N° Facture + Date  │  Organe Emetteur              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENT: Nombre + dirección │ I.C.E / Réf Bon Commande      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Code | Désignation | Lot | Qté | PU | Montant        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total HT / TVA / Total TTC                         │
//	│  FOOTER: condiciones de pago + banco + accusé de réception   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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
	"github.com/shopspring/decimal"

	"github.com/medarrival/medarrival-api/internal/application/usecase"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// ReceiptRenderer implementa usecase.ReceiptRenderer usando Maroto v2.
type ReceiptRenderer struct{}

var _ usecase.ReceiptRenderer = (*ReceiptRenderer)(nil)

// NewReceiptRenderer construye el renderer.
func NewReceiptRenderer() *ReceiptRenderer { return &ReceiptRenderer{} }

// RenderReceipt genera el PDF del recibo y devuelve sus bytes.
func (g *ReceiptRenderer) RenderReceipt(receipt *entity.Receipt, client *entity.Client) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Facture "+receipt.ReceiptNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(receipt, client))
	m.AddRows(referencesRow(receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(receipt.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(receipt))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(receipt) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: N° de factura + fecha (izq) y organe émetteur (der).
func headerRow(receipt *entity.Receipt) core.Row {
	date := receipt.ReceiptDate.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("FACTURE", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+receipt.ReceiptNumber, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Organe Emetteur: "+nonEmpty(receipt.IssuingDepartment, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Date: "+date, props.Text{
				Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

// clientRow: destinatario del recibo.
func clientRow(receipt *entity.Receipt, client *entity.Client) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Adresse: %s   |   I.C.E: %s",
				nonEmpty(client.Address, "—"),
				nonEmpty(receipt.ICENumber, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// referencesRow: referencias de la entrega facturada.
func referencesRow(receipt *entity.Receipt) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("RÉFÉRENCES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Réf Bon Commande: %s   |   Bons de livraison: %s   |   Basé sur Livraison: %s",
				nonEmpty(receipt.ReferenceNumber, "—"),
				nonEmpty(receipt.DeliveryNoteNumbers, "—"),
				nonEmpty(receipt.DeliveryRef, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas con fondo azul simulado.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Code", 2, align.Left),
		h("Désignation", 4, align.Left),
		h("Lot", 2, align.Center),
		h("Qté", 1, align.Center),
		h("PU", 1, align.Right),
		h("Montant", 2, align.Right),
	)
}

// tableItemRows: una fila por línea del recibo.
func tableItemRows(items []*entity.ReceiptItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				nonEmpty(it.ArticleCode, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(it.LotNumber, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				it.Subtotal.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque Total HT / TVA / Total TTC alineado a la derecha.
func totalsRow(receipt *entity.Receipt) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	tva := fmt.Sprintf("TVA (%s%%):", receipt.TVAPercentage.StringFixed(0))

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Total HT:"),
			label(tva),
			grandLabel("TOTAL TTC:"),
		),
		col.New(3).Add(
			value(receipt.TotalHT.StringFixed(2)),
			value(receipt.TVAPercentage.Div(hundred).Mul(receipt.TotalHT).StringFixed(2)),
			grandValue(receipt.TotalTTC.StringFixed(2)),
		),
		col.New(3),
	)
}

// footerRows: condiciones de pago, datos bancarios y accusé de réception.
func footerRows(receipt *entity.Receipt) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CONDITIONS DE RÈGLEMENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(nonEmpty(receipt.PaymentTerms, "—"), props.Text{
				Size: 8, Top: 1, Left: 2, Color: colorGray,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Banque: %s   |   Compte: %s",
				nonEmpty(receipt.BankDetails, "—"),
				nonEmpty(receipt.BankAccount, "—"),
			), props.Text{Size: 8, Top: 1, Left: 2, Color: colorGray}),
		)),
	}

	accuse := "Accusé de réception: en attente"
	if receipt.DeliveryReceived {
		accuse = "Accusé de réception: reçu"
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(accuse, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

var hundred = decimal.NewFromInt(100)

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
