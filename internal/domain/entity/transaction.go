package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago de una venta o recibo.
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "CASH"
	PaymentMethodCard    PaymentMethod = "CARD"
	PaymentMethodEWallet PaymentMethod = "E_WALLET"
	PaymentMethodOther   PaymentMethod = "OTHER"
)

// Valid indica si el medio de pago pertenece al enumerado.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodEWallet, PaymentMethodOther:
		return true
	}
	return false
}

// TransactionStatus estado de una venta POS.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusRefunded  TransactionStatus = "REFUNDED"
	TransactionStatusVoided    TransactionStatus = "VOIDED"
)

// Valid indica si el estado pertenece al enumerado.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusRefunded, TransactionStatusVoided:
		return true
	}
	return false
}

// Transaction venta registrada en el punto de venta. Invariante: GrossAmount == NetAmount + TaxAmount.
type Transaction struct {
	ID            string
	DateTime      time.Time
	GrossAmount   decimal.Decimal
	NetAmount     decimal.Decimal
	TaxAmount     decimal.Decimal
	PaymentMethod PaymentMethod
	Status        TransactionStatus
	ReceiptNumber string // R-000001
	Items         []TransactionItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransactionItem línea de una venta.
type TransactionItem struct {
	ID            string
	TransactionID string
	Position      int
	ProductName   string
	Quantity      int
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
}
