// Package pricing calcula totales de facturas y ventas con redondeo por etapas.
//
// El redondeo (mitad alejándose de cero, 2 decimales) se aplica por separado a cada línea,
// al impuesto y al total. No equivale a redondear una sola vez al final.
package pricing

import "github.com/shopspring/decimal"

var (
	// DefaultInvoiceTaxRate tasa por defecto cuando la factura no especifica una.
	DefaultInvoiceTaxRate = decimal.RequireFromString("0.10")
	// TransactionTaxRate tasa fija de las ventas POS.
	TransactionTaxRate = decimal.RequireFromString("0.08")
)

// Round2 redondea a 2 decimales, mitad alejándose de cero (decimal.Round).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal = round2(cantidad × precio unitario).
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return Round2(decimal.NewFromInt(int64(quantity)).Mul(unitPrice))
}

// Line entrada de cálculo. Si Supplied no es nil, el total de línea enviado por el cliente es el
// autoritativo (solo se redondea a 2 decimales); si es nil se calcula con LineTotal.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
	Supplied  *decimal.Decimal
}

// Resolve devuelve el total de la línea.
func (l Line) Resolve() decimal.Decimal {
	if l.Supplied != nil {
		return Round2(*l.Supplied)
	}
	return LineTotal(l.Quantity, l.UnitPrice)
}

// Totals resultado del cálculo.
type Totals struct {
	LineTotals []decimal.Decimal
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
}

// Compute aplica: subtotal = Σ líneas; tax = round2(subtotal × rate); total = round2(subtotal + tax).
func Compute(lines []Line, taxRate decimal.Decimal) Totals {
	out := Totals{LineTotals: make([]decimal.Decimal, len(lines))}
	subtotal := decimal.Zero
	for i, l := range lines {
		lt := l.Resolve()
		out.LineTotals[i] = lt
		subtotal = subtotal.Add(lt)
	}
	out.Subtotal = Round2(subtotal)
	out.Tax = Round2(subtotal.Mul(taxRate))
	out.Total = Round2(subtotal.Add(out.Tax))
	return out
}
