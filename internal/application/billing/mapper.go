package billing

import (
	"strconv"
	"strings"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/pricing"
)

func toInvoiceResponse(inv *entity.Invoice, receipts []*entity.Receipt) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	out := dto.InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		Status:          string(inv.Status),
		CustomerName:    inv.CustomerName,
		CustomerEmail:   inv.CustomerEmail,
		CustomerAddress: inv.CustomerAddress,
		Subtotal:        inv.Subtotal,
		Tax:             inv.Tax,
		Total:           inv.Total,
		Notes:           inv.Notes,
		Items:           items,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
	for _, r := range receipts {
		out.Receipts = append(out.Receipts, toReceiptResponse(r))
	}
	return out
}

func toReceiptResponse(r *entity.Receipt) dto.ReceiptResponse {
	out := dto.ReceiptResponse{
		ID:               r.ID,
		ReceiptNumber:    r.ReceiptNumber,
		DateTime:         r.DateTime,
		Amount:           r.Amount,
		PaymentMethod:    string(r.PaymentMethod),
		Source:           string(r.Source),
		RelatedInvoiceID: r.RelatedInvoiceID,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.RelatedInvoice != nil {
		out.RelatedInvoice = &dto.InvoiceRefDTO{
			ID:            r.RelatedInvoice.ID,
			InvoiceNumber: r.RelatedInvoice.InvoiceNumber,
			CustomerName:  r.RelatedInvoice.CustomerName,
		}
	}
	return out
}

// invoiceLines valida las líneas de la petición y las convierte a entrada de pricing.
func invoiceLines(items []dto.InvoiceItemRequest) ([]pricing.Line, error) {
	lines := make([]pricing.Line, 0, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.Description) == "" {
			return nil, domain.NewValidationError(itemField(i, "description"), "es obligatorio")
		}
		if it.Quantity <= 0 {
			return nil, domain.NewValidationError(itemField(i, "quantity"), "debe ser un entero positivo")
		}
		if it.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError(itemField(i, "unitPrice"), "no puede ser negativo")
		}
		if it.LineTotal != nil && it.LineTotal.IsNegative() {
			return nil, domain.NewValidationError(itemField(i, "lineTotal"), "no puede ser negativo")
		}
		lines = append(lines, pricing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Supplied: it.LineTotal})
	}
	return lines, nil
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}
