package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRequest body para POST /api/transactions y PUT /api/transactions/:id.
// Neto, impuesto (8 %) y bruto se calculan a partir de las líneas.
type TransactionRequest struct {
	DateTime      string                   `json:"dateTime,omitempty"` // vacío = ahora
	PaymentMethod string                   `json:"paymentMethod" validate:"required,oneof=CASH CARD E_WALLET OTHER"`
	Status        string                   `json:"status,omitempty" validate:"omitempty,oneof=COMPLETED REFUNDED VOIDED"`
	Items         []TransactionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TransactionItemRequest línea de venta.
type TransactionItemRequest struct {
	ProductName string           `json:"productName" validate:"required"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	LineTotal   *decimal.Decimal `json:"lineTotal,omitempty"`
}

// TransactionResponse venta con líneas.
type TransactionResponse struct {
	ID            string                    `json:"id"`
	DateTime      time.Time                 `json:"dateTime"`
	GrossAmount   decimal.Decimal           `json:"grossAmount"`
	NetAmount     decimal.Decimal           `json:"netAmount"`
	TaxAmount     decimal.Decimal           `json:"taxAmount"`
	PaymentMethod string                    `json:"paymentMethod"`
	Status        string                    `json:"status"`
	ReceiptNumber string                    `json:"receiptNumber"`
	Items         []TransactionItemResponse `json:"items"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

// TransactionItemResponse línea de venta en la respuesta.
type TransactionItemResponse struct {
	ID          string          `json:"id"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// TransactionFilterQuery filtros comunes de listado y exportación.
type TransactionFilterQuery struct {
	From          string `query:"from"`
	To            string `query:"to"`
	Search        string `query:"search"`
	Status        string `query:"status" validate:"omitempty,oneof=COMPLETED REFUNDED VOIDED"`
	PaymentMethod string `query:"paymentMethod" validate:"omitempty,oneof=CASH CARD E_WALLET OTHER"`
}

// TransactionListQuery filtros de GET /api/transactions.
type TransactionListQuery struct {
	PageRequest
	TransactionFilterQuery
}
