package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de cobro de una factura.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// Valid indica si el estado pertenece al enumerado.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice representa la cabecera de una factura.
// Subtotal, Tax y Total son derivados de Items (ver pricing.Compute); nunca se editan a mano.
type Invoice struct {
	ID              string
	InvoiceNumber   string // INV-0001
	IssueDate       time.Time
	DueDate         time.Time
	Status          InvoiceStatus
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string // opcional
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Notes           string // opcional
	Items           []InvoiceItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InvoiceItem línea de una factura. Pertenece exclusivamente a una Invoice.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// InvoiceRef referencia ligera a una factura (para recibos).
type InvoiceRef struct {
	ID            string
	InvoiceNumber string
	CustomerName  string
}
