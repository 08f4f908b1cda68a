package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/infrastructure/memory"
)

type countingRecorder struct {
	created map[string]int
}

func (r *countingRecorder) DocumentCreated(kind string) {
	if r.created == nil {
		r.created = map[string]int{}
	}
	r.created[kind]++
}

func (r *countingRecorder) DashboardCache(bool) {}

func newInvoiceUC(t *testing.T) (*InvoiceUseCase, *memory.Store, *countingRecorder) {
	t.Helper()
	s := memory.New()
	repos := s.Repositories()
	rec := &countingRecorder{}
	return NewInvoiceUseCase(s, repos.Invoices, repos.Receipts, rec, DefaultConfig()), s, rec
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleInvoice() dto.InvoiceRequest {
	return dto.InvoiceRequest{
		IssueDate:     "2024-03-01",
		DueDate:       "2024-03-31",
		CustomerName:  "Acme Corp",
		CustomerEmail: "billing@acme.test",
		Items: []dto.InvoiceItemRequest{
			{Description: "Consultoría", Quantity: 3, UnitPrice: dec("12.345")},
			{Description: "Soporte", Quantity: 1, UnitPrice: dec("8.50")},
		},
	}
}

func TestInvoiceCreate_CalculaTotalesYNumera(t *testing.T) {
	uc, _, rec := newInvoiceUC(t)
	ctx := context.Background()

	got, err := uc.Create(ctx, sampleInvoice())
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", got.InvoiceNumber)
	assert.Equal(t, "DRAFT", got.Status)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].LineTotal.Equal(dec("37.04")), got.Items[0].LineTotal.String())
	assert.True(t, got.Subtotal.Equal(dec("45.54")))
	assert.True(t, got.Tax.Equal(dec("4.55")))
	assert.True(t, got.Total.Equal(dec("50.09")))
	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax).Round(2)))
	assert.Equal(t, 1, rec.created["invoice"])

	second, err := uc.Create(ctx, sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", second.InvoiceNumber)
}

func TestInvoiceCreate_TasaExplicitaCeroSeRespeta(t *testing.T) {
	uc, _, _ := newInvoiceUC(t)
	req := sampleInvoice()
	zero := decimal.Zero
	req.TaxRate = &zero

	got, err := uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.Equal(got.Subtotal))
}

func TestInvoiceCreate_Validaciones(t *testing.T) {
	uc, _, _ := newInvoiceUC(t)
	cases := map[string]func(r *dto.InvoiceRequest){
		"issueDate":         func(r *dto.InvoiceRequest) { r.IssueDate = "ayer" },
		"customerName":      func(r *dto.InvoiceRequest) { r.CustomerName = " " },
		"status":            func(r *dto.InvoiceRequest) { r.Status = "ARCHIVED" },
		"items[0].quantity": func(r *dto.InvoiceRequest) { r.Items[0].Quantity = 0 },
		"items[1].unitPrice": func(r *dto.InvoiceRequest) {
			r.Items[1].UnitPrice = dec("-1")
		},
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			req := sampleInvoice()
			mutate(&req)
			_, err := uc.Create(context.Background(), req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestInvoiceUpdate_ReemplazaLineasYConservaNumero(t *testing.T) {
	uc, _, _ := newInvoiceUC(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, sampleInvoice())
	require.NoError(t, err)

	req := sampleInvoice()
	req.Status = "SENT"
	req.Items = []dto.InvoiceItemRequest{{Description: "Licencia", Quantity: 2, UnitPrice: dec("100")}}
	updated, err := uc.Update(ctx, created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, created.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, "SENT", updated.Status)
	require.Len(t, updated.Items, 1)
	assert.True(t, updated.Subtotal.Equal(dec("200")))
	assert.True(t, updated.Total.Equal(dec("220")))

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Licencia", got.Items[0].Description)
}

func TestInvoiceUpdateDeleteGet_NoExiste(t *testing.T) {
	uc, _, _ := newInvoiceUC(t)
	ctx := context.Background()
	_, err := uc.Update(ctx, "nope", sampleInvoice())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "nope"), domain.ErrNotFound)
	_, err = uc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Duplicate(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceDuplicate_CopiaLineasYReiniciaEstado(t *testing.T) {
	uc, _, _ := newInvoiceUC(t)
	ctx := context.Background()
	req := sampleInvoice()
	req.Status = "PAID"
	req.Notes = "gracias"
	src, err := uc.Create(ctx, req)
	require.NoError(t, err)

	before := time.Now().UTC().Add(-time.Second)
	dup, err := uc.Duplicate(ctx, src.ID)
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, "INV-0002", dup.InvoiceNumber)
	assert.Equal(t, "DRAFT", dup.Status)
	assert.Equal(t, src.CustomerName, dup.CustomerName)
	assert.Equal(t, "gracias", dup.Notes)
	assert.True(t, dup.Total.Equal(src.Total))
	require.Len(t, dup.Items, len(src.Items))
	for i := range src.Items {
		assert.Equal(t, src.Items[i].Description, dup.Items[i].Description)
		assert.True(t, src.Items[i].LineTotal.Equal(dup.Items[i].LineTotal))
		assert.NotEqual(t, src.Items[i].ID, dup.Items[i].ID)
	}
	assert.True(t, dup.IssueDate.After(before))
	assert.True(t, dup.DueDate.Equal(dup.IssueDate.AddDate(0, 0, 30)))
}

func TestInvoiceList_PaginacionYFiltro(t *testing.T) {
	uc, _, _ := newInvoiceUC(t)
	ctx := context.Background()
	for i := 0; i < 45; i++ {
		_, err := uc.Create(ctx, sampleInvoice())
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, dto.InvoiceListQuery{PageRequest: dto.PageRequest{Page: 3, Limit: 20}})
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 45, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	page, err = uc.List(ctx, dto.InvoiceListQuery{PageRequest: dto.PageRequest{Page: 1, Limit: 20}, Status: "PAID"})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Pagination.TotalPages)

	page, err = uc.List(ctx, dto.InvoiceListQuery{PageRequest: dto.PageRequest{Page: 1, Limit: 20}, Status: "ALL", Search: "INV-0045"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)

	_, err = uc.List(ctx, dto.InvoiceListQuery{PageRequest: dto.PageRequest{Page: 0, Limit: 20}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
