package billing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/pricing"
)

// Config parámetros de facturación (BILLING_* en la configuración).
type Config struct {
	InvoiceTaxRate decimal.Decimal // tasa cuando la factura no envía taxRate
	DueDays        int             // vencimiento de las facturas duplicadas
	CompanyName    string          // emisor en PDF y XML
}

// DefaultConfig valores por defecto: 10 % de impuesto y 30 días de plazo.
func DefaultConfig() Config {
	return Config{
		InvoiceTaxRate: pricing.DefaultInvoiceTaxRate,
		DueDays:        30,
		CompanyName:    "pos-admin",
	}
}

// InvoicePDFGenerator puerto de salida para la representación gráfica de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, issuer string, invoice *entity.Invoice) ([]byte, error)
}

// InvoiceXMLBuilder puerto de salida para el documento XML canónico de la factura.
type InvoiceXMLBuilder interface {
	BuildInvoiceXML(issuer string, invoice *entity.Invoice) ([]byte, error)
}
