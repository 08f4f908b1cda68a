package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/domain"
)

func TestReceipt_CreateResuelveFacturaYSobreviveAlBorrado(t *testing.T) {
	invoices, s, _ := newInvoiceUC(t)
	receipts := NewReceiptUseCase(s, s.Repositories().Receipts, nil)
	ctx := context.Background()

	inv, err := invoices.Create(ctx, sampleInvoice())
	require.NoError(t, err)

	rc, err := receipts.Create(ctx, dto.ReceiptRequest{
		DateTime:         "2024-03-02T09:30:00Z",
		Amount:           dec("50.09"),
		PaymentMethod:    "CARD",
		Source:           "POS",
		RelatedInvoiceID: inv.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP-00001", rc.ReceiptNumber)
	require.NotNil(t, rc.RelatedInvoice)
	assert.Equal(t, inv.InvoiceNumber, rc.RelatedInvoice.InvoiceNumber)
	assert.Equal(t, "Acme Corp", rc.RelatedInvoice.CustomerName)

	detail, err := invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, detail.Receipts, 1)
	assert.Equal(t, rc.ID, detail.Receipts[0].ID)

	require.NoError(t, invoices.Delete(ctx, inv.ID))

	got, err := receipts.Get(ctx, rc.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.RelatedInvoiceID)
	assert.Nil(t, got.RelatedInvoice)
}

func TestReceipt_UpdateConservaNumero(t *testing.T) {
	_, s, _ := newInvoiceUC(t)
	uc := NewReceiptUseCase(s, s.Repositories().Receipts, nil)
	ctx := context.Background()
	req := dto.ReceiptRequest{DateTime: "2024-03-02", Amount: dec("10"), PaymentMethod: "CASH", Source: "MANUAL"}
	rc, err := uc.Create(ctx, req)
	require.NoError(t, err)

	req.Amount = dec("12.505")
	req.Source = "IMPORTED"
	updated, err := uc.Update(ctx, rc.ID, req)
	require.NoError(t, err)
	assert.Equal(t, rc.ReceiptNumber, updated.ReceiptNumber)
	assert.Equal(t, "IMPORTED", updated.Source)
	assert.True(t, updated.Amount.Equal(dec("12.51")))

	_, err = uc.Update(ctx, "nope", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, uc.Delete(ctx, rc.ID))
	assert.ErrorIs(t, uc.Delete(ctx, rc.ID), domain.ErrNotFound)
}

func TestReceipt_ListFiltros(t *testing.T) {
	_, s, _ := newInvoiceUC(t)
	uc := NewReceiptUseCase(s, s.Repositories().Receipts, nil)
	ctx := context.Background()
	for _, r := range []dto.ReceiptRequest{
		{DateTime: "2024-01-10", Amount: dec("20"), PaymentMethod: "CASH", Source: "POS"},
		{DateTime: "2024-02-10", Amount: dec("200"), PaymentMethod: "CARD", Source: "MANUAL"},
		{DateTime: "2024-03-10", Amount: dec("75"), PaymentMethod: "OTHER", Source: "MANUAL"},
	} {
		_, err := uc.Create(ctx, r)
		require.NoError(t, err)
	}
	page := dto.PageRequest{Page: 1, Limit: 20}

	got, err := uc.List(ctx, dto.ReceiptListQuery{PageRequest: page, Source: "MANUAL"})
	require.NoError(t, err)
	require.Len(t, got.Data, 2)
	assert.Equal(t, "RCP-00003", got.Data[0].ReceiptNumber)

	got, err = uc.List(ctx, dto.ReceiptListQuery{PageRequest: page, From: "2024-02-01", To: "2024-02-10"})
	require.NoError(t, err)
	require.Len(t, got.Data, 1, "un to sin hora incluye todo el día")

	got, err = uc.List(ctx, dto.ReceiptListQuery{PageRequest: page, Search: "75"})
	require.NoError(t, err)
	assert.Len(t, got.Data, 2, "búsqueda numérica: monto >= 75")

	_, err = uc.List(ctx, dto.ReceiptListQuery{PageRequest: page, From: "mañana"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceipt_CreateValidaEnums(t *testing.T) {
	_, s, _ := newInvoiceUC(t)
	uc := NewReceiptUseCase(s, s.Repositories().Receipts, nil)
	_, err := uc.Create(context.Background(), dto.ReceiptRequest{
		DateTime: "2024-03-02", Amount: dec("1"), PaymentMethod: "BITCOIN", Source: "POS",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "paymentMethod", verr.Field)
}
