package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
)

// Page ventana de resultados (LIMIT/OFFSET).
type Page struct {
	Limit  int
	Offset int
}

// InvoiceFilter filtros del listado de facturas. Valores cero = sin filtro.
type InvoiceFilter struct {
	Status entity.InvoiceStatus
	// Search busca por subcadena en número de factura, nombre y email del cliente.
	Search string
}

// ReceiptFilter filtros del listado de recibos.
type ReceiptFilter struct {
	From   *time.Time
	To     *time.Time
	Source entity.ReceiptSource
	// Search busca por subcadena en el número de recibo; si MinAmount no es nil,
	// también coinciden los recibos con Amount >= MinAmount.
	Search    string
	MinAmount *decimal.Decimal
}

// TransactionFilter filtros del listado y la exportación de ventas.
type TransactionFilter struct {
	From          *time.Time
	To            *time.Time
	Status        entity.TransactionStatus
	PaymentMethod entity.PaymentMethod
	// Search busca por subcadena en el número de recibo; si MinGross no es nil,
	// también coinciden las ventas con GrossAmount >= MinGross.
	Search   string
	MinGross *decimal.Decimal
}
