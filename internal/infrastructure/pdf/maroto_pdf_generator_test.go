package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-admin/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "$0.00",
		"999.5":      "$999.50",
		"1234.567":   "$1,234.57",
		"1234567.5":  "$1,234,567.50",
		"-1000":      "-$1,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	issue := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		InvoiceNumber: "INV-0007",
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, 30),
		Status:        entity.InvoiceStatusSent,
		CustomerName:  "Acme",
		CustomerEmail: "billing@acme.test",
		Subtotal:      decimal.RequireFromString("100.00"),
		Tax:           decimal.RequireFromString("10.00"),
		Total:         decimal.RequireFromString("110.00"),
		Items: []entity.InvoiceItem{
			{Position: 1, Description: "Servicio", Quantity: 2, UnitPrice: decimal.RequireFromString("50"), LineTotal: decimal.RequireFromString("100.00")},
		},
	}

	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), "Tienda", inv)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_Nil(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), "Tienda", nil)
	assert.Error(t, err)
}
