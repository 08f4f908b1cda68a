package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id (reemplazo completo).
type InvoiceRequest struct {
	IssueDate       string               `json:"issueDate" validate:"required"`
	DueDate         string               `json:"dueDate" validate:"required"`
	Status          string               `json:"status,omitempty" validate:"omitempty,oneof=DRAFT SENT PAID OVERDUE CANCELLED"`
	CustomerName    string               `json:"customerName" validate:"required,max=200"`
	CustomerEmail   string               `json:"customerEmail" validate:"required,email"`
	CustomerAddress string               `json:"customerAddress,omitempty" validate:"max=500"`
	Notes           string               `json:"notes,omitempty"`
	TaxRate         *decimal.Decimal     `json:"taxRate,omitempty"` // nil = 0.10
	Items           []InvoiceItemRequest `json:"items" validate:"dive"`
}

// InvoiceItemRequest línea de factura. LineTotal es opcional: si se omite se calcula como
// round2(quantity × unitPrice); si se envía se respeta tal cual (redondeado a 2 decimales).
type InvoiceItemRequest struct {
	Description string           `json:"description" validate:"required"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	LineTotal   *decimal.Decimal `json:"lineTotal,omitempty"`
}

// InvoiceResponse factura con líneas (y recibos relacionados en el detalle).
type InvoiceResponse struct {
	ID              string                `json:"id"`
	InvoiceNumber   string                `json:"invoiceNumber"`
	IssueDate       time.Time             `json:"issueDate"`
	DueDate         time.Time             `json:"dueDate"`
	Status          string                `json:"status"`
	CustomerName    string                `json:"customerName"`
	CustomerEmail   string                `json:"customerEmail"`
	CustomerAddress string                `json:"customerAddress,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Tax             decimal.Decimal       `json:"tax"`
	Total           decimal.Decimal       `json:"total"`
	Notes           string                `json:"notes,omitempty"`
	Items           []InvoiceItemResponse `json:"items"`
	Receipts        []ReceiptResponse     `json:"receipts,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// InvoiceItemResponse línea de factura en la respuesta.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// InvoiceListQuery filtros de GET /api/invoices.
type InvoiceListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=ALL DRAFT SENT PAID OVERDUE CANCELLED"`
	Search string `query:"search"`
}

// ReceiptRequest body para POST /api/receipts y PUT /api/receipts/:id.
type ReceiptRequest struct {
	DateTime         string          `json:"dateTime" validate:"required"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"paymentMethod" validate:"required,oneof=CASH CARD E_WALLET OTHER"`
	Source           string          `json:"source" validate:"required,oneof=POS MANUAL IMPORTED"`
	RelatedInvoiceID string          `json:"relatedInvoiceId,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// ReceiptResponse recibo con la referencia resuelta a su factura (null si no existe).
type ReceiptResponse struct {
	ID               string           `json:"id"`
	ReceiptNumber    string           `json:"receiptNumber"`
	DateTime         time.Time        `json:"dateTime"`
	Amount           decimal.Decimal  `json:"amount"`
	PaymentMethod    string           `json:"paymentMethod"`
	Source           string           `json:"source"`
	RelatedInvoiceID string           `json:"relatedInvoiceId,omitempty"`
	RelatedInvoice   *InvoiceRefDTO   `json:"relatedInvoice"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// InvoiceRefDTO resumen de la factura relacionada.
type InvoiceRefDTO struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
	CustomerName  string `json:"customerName"`
}

// ReceiptListQuery filtros de GET /api/receipts.
type ReceiptListQuery struct {
	PageRequest
	From   string `query:"from"`
	To     string `query:"to"`
	Source string `query:"source" validate:"omitempty,oneof=POS MANUAL IMPORTED"`
	Search string `query:"search"`
}
