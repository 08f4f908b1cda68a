package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptSource origen del recibo de pago.
type ReceiptSource string

const (
	ReceiptSourcePOS      ReceiptSource = "POS"
	ReceiptSourceManual   ReceiptSource = "MANUAL"
	ReceiptSourceImported ReceiptSource = "IMPORTED"
)

// Valid indica si el origen pertenece al enumerado.
func (s ReceiptSource) Valid() bool {
	switch s {
	case ReceiptSourcePOS, ReceiptSourceManual, ReceiptSourceImported:
		return true
	}
	return false
}

// Receipt recibo de pago.
//
// RelatedInvoiceID es una referencia débil: no hay llave foránea ni cascada. Si la factura se
// elimina, el recibo conserva el ID y RelatedInvoice queda en nil al consultarlo.
type Receipt struct {
	ID               string
	ReceiptNumber    string // RCP-00001
	DateTime         time.Time
	Amount           decimal.Decimal
	PaymentMethod    PaymentMethod
	Source           ReceiptSource
	RelatedInvoiceID string
	RelatedInvoice   *InvoiceRef // solo lectura, resuelto por el repositorio
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
