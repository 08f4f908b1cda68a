// Package seed genera y carga el juego de datos de demostración: 15 facturas, 200 ventas y 30 recibos.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-admin/internal/application/numbering"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/pricing"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
	"github.com/jhoicas/pos-admin/internal/domain/sequence"
)

const (
	InvoiceCount     = 15
	TransactionCount = 200
	ReceiptCount     = 30
	linkedReceipts   = 10
)

// Options parámetros de generación.
type Options struct {
	// Seed semilla del generador; el mismo valor produce los mismos datos.
	Seed uint64
	// Start y End acotan las fechas generadas (por defecto 2024-01-01 .. ahora).
	Start time.Time
	End   time.Time
}

// Dataset documentos generados, con números ya asignados.
type Dataset struct {
	Invoices     []*entity.Invoice
	Transactions []*entity.Transaction
	Receipts     []*entity.Receipt
}

var (
	invoiceStatuses = []entity.InvoiceStatus{
		entity.InvoiceStatusDraft, entity.InvoiceStatusSent, entity.InvoiceStatusPaid, entity.InvoiceStatusOverdue,
	}
	paymentMethods = []entity.PaymentMethod{
		entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodEWallet, entity.PaymentMethodOther,
	}
)

// Generate arma el dataset en memoria sin tocar el store.
func Generate(opts Options) Dataset {
	if opts.Start.IsZero() {
		opts.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if opts.End.IsZero() || !opts.End.After(opts.Start) {
		opts.End = time.Now().UTC()
	}
	g := &generator{rng: rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)), opts: opts}
	// created_at creciente para que el último número sea también el último creado.
	g.clock = opts.End

	var ds Dataset
	for i := 1; i <= InvoiceCount; i++ {
		ds.Invoices = append(ds.Invoices, g.invoice(i))
	}
	for i := 1; i <= TransactionCount; i++ {
		ds.Transactions = append(ds.Transactions, g.transaction(i))
	}
	for i := 1; i <= ReceiptCount; i++ {
		var related string
		if i <= linkedReceipts && i <= len(ds.Invoices) {
			related = ds.Invoices[i-1].ID
		}
		ds.Receipts = append(ds.Receipts, g.receipt(i, related))
	}
	return ds
}

// Load inserta el dataset en una sola transacción y alinea los contadores de numeración.
// El store debe estar vacío: números repetidos devuelven domain.ErrDuplicate.
func Load(ctx context.Context, runner repository.TxRunner, ds Dataset) error {
	return runner.RunInTx(ctx, func(repos repository.Repositories) error {
		for _, inv := range ds.Invoices {
			if err := repos.Invoices.Create(ctx, inv); err != nil {
				return fmt.Errorf("seed factura %s: %w", inv.InvoiceNumber, err)
			}
		}
		for _, t := range ds.Transactions {
			if err := repos.Transactions.Create(ctx, t); err != nil {
				return fmt.Errorf("seed venta %s: %w", t.ReceiptNumber, err)
			}
		}
		for _, r := range ds.Receipts {
			if err := repos.Receipts.Create(ctx, r); err != nil {
				return fmt.Errorf("seed recibo %s: %w", r.ReceiptNumber, err)
			}
		}
		return numbering.Reset(ctx, repos)
	})
}

type generator struct {
	rng   *rand.Rand
	opts  Options
	clock time.Time
}

func (g *generator) created() time.Time {
	g.clock = g.clock.Add(time.Second)
	return g.clock
}

func (g *generator) date() time.Time {
	span := g.opts.End.Sub(g.opts.Start)
	return g.opts.Start.Add(time.Duration(g.rng.Int64N(int64(span)))).Truncate(time.Millisecond)
}

// money valor aleatorio en [min, min+spread) con 2 decimales.
func (g *generator) money(min, spread int) decimal.Decimal {
	cents := int64(min*100) + g.rng.Int64N(int64(spread*100))
	return decimal.New(cents, -2)
}

func (g *generator) method() entity.PaymentMethod {
	return paymentMethods[g.rng.IntN(len(paymentMethods))]
}

func (g *generator) invoice(i int) *entity.Invoice {
	issue := g.date()
	due := issue.AddDate(0, 0, 30)
	status := invoiceStatuses[g.rng.IntN(len(invoiceStatuses))]
	if status == entity.InvoiceStatusSent && g.opts.End.After(due) {
		status = entity.InvoiceStatusOverdue
	}

	n := g.rng.IntN(4) + 1
	lines := make([]pricing.Line, n)
	for j := range lines {
		lines[j] = pricing.Line{Quantity: g.rng.IntN(5) + 1, UnitPrice: g.money(50, 200)}
	}
	totals := pricing.Compute(lines, pricing.DefaultInvoiceTaxRate)

	created := g.created()
	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		InvoiceNumber:   sequence.Format(sequence.KindInvoice, int64(i)),
		IssueDate:       issue,
		DueDate:         due,
		Status:          status,
		CustomerName:    fmt.Sprintf("Customer %d", i),
		CustomerEmail:   fmt.Sprintf("customer%d@example.com", i),
		CustomerAddress: fmt.Sprintf("%d Main Street, City, State 12345", i*10),
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	if i%3 == 0 {
		inv.Notes = "Thank you for your business!"
	}
	for j, l := range lines {
		inv.Items = append(inv.Items, entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Position:    j + 1,
			Description: fmt.Sprintf("Service %d - Professional consulting", j+1),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   totals.LineTotals[j],
		})
	}
	return inv
}

func (g *generator) transaction(i int) *entity.Transaction {
	status := entity.TransactionStatusCompleted
	if g.rng.Float64() > 0.95 {
		status = entity.TransactionStatusRefunded
	}
	n := g.rng.IntN(5) + 1
	lines := make([]pricing.Line, n)
	for j := range lines {
		lines[j] = pricing.Line{Quantity: g.rng.IntN(3) + 1, UnitPrice: g.money(10, 50)}
	}
	totals := pricing.Compute(lines, pricing.TransactionTaxRate)

	created := g.created()
	t := &entity.Transaction{
		ID:            uuid.New().String(),
		DateTime:      g.date(),
		GrossAmount:   totals.Total,
		NetAmount:     totals.Subtotal,
		TaxAmount:     totals.Tax,
		PaymentMethod: g.method(),
		Status:        status,
		ReceiptNumber: sequence.Format(sequence.KindTransaction, int64(i)),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	letter := string(rune('A' + (i-1)%26))
	for j, l := range lines {
		t.Items = append(t.Items, entity.TransactionItem{
			ID:            uuid.New().String(),
			TransactionID: t.ID,
			Position:      j + 1,
			ProductName:   fmt.Sprintf("Product %s%d", letter, j+1),
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			LineTotal:     totals.LineTotals[j],
		})
	}
	return t
}

func (g *generator) receipt(i int, relatedInvoiceID string) *entity.Receipt {
	source := entity.ReceiptSourceImported
	switch {
	case i <= 10:
		source = entity.ReceiptSourcePOS
	case i <= 20:
		source = entity.ReceiptSourceManual
	}
	created := g.created()
	r := &entity.Receipt{
		ID:               uuid.New().String(),
		ReceiptNumber:    sequence.Format(sequence.KindReceipt, int64(i)),
		DateTime:         g.date(),
		Amount:           g.money(50, 500),
		PaymentMethod:    g.method(),
		Source:           source,
		RelatedInvoiceID: relatedInvoiceID,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	if (i-1)%5 == 0 {
		r.Notes = "Payment received via bank transfer"
	}
	return r
}
