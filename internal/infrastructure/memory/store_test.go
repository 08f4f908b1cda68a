package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
	"github.com/jhoicas/pos-admin/internal/domain/sequence"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC)
}

func TestRunInTx_RollbackDescartaCambios(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunInTx(ctx, func(repos repository.Repositories) error {
		require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{ID: "a", InvoiceNumber: "INV-0001"}))
		require.NoError(t, repos.Sequences.Set(ctx, sequence.KindInvoice, 1))
		return boom
	})
	require.ErrorIs(t, err, boom)

	inv, err := s.Repositories().Invoices.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, inv)
	_, found, err := s.Repositories().Sequences.Increment(ctx, sequence.KindInvoice)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRunInTx_CommitPublicaCambios(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.RunInTx(ctx, func(repos repository.Repositories) error {
		return repos.Invoices.Create(ctx, &entity.Invoice{ID: "a", InvoiceNumber: "INV-0001"})
	}))
	inv, err := s.Repositories().Invoices.GetByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
}

func TestInvoiceRepo_NumeroDuplicado(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{ID: "a", InvoiceNumber: "INV-0001"}))
	err := repos.Invoices.Create(ctx, &entity.Invoice{ID: "b", InvoiceNumber: "INV-0001"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestInvoiceRepo_UpdateYDeleteInexistente(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	assert.ErrorIs(t, repos.Invoices.Update(ctx, &entity.Invoice{ID: "x"}), domain.ErrNotFound)
	assert.ErrorIs(t, repos.Invoices.Delete(ctx, "x"), domain.ErrNotFound)
}

func TestInvoiceRepo_ListFiltraYPagina(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	for i, c := range []struct{ name, status string }{
		{"Acme Corp", "PAID"}, {"Globex", "DRAFT"}, {"acme labs", "DRAFT"},
	} {
		require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{
			ID:            string(rune('a' + i)),
			InvoiceNumber: sequence.Format(sequence.KindInvoice, int64(i+1)),
			IssueDate:     day(i + 1),
			CustomerName:  c.name,
			Status:        entity.InvoiceStatus(c.status),
		}))
	}

	list, err := repos.Invoices.List(ctx, repository.InvoiceFilter{Search: "ACME"}, repository.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "INV-0003", list[0].InvoiceNumber, "orden por fecha de emisión descendente")

	n, err := repos.Invoices.Count(ctx, repository.InvoiceFilter{Status: entity.InvoiceStatusDraft})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	page, err := repos.Invoices.List(ctx, repository.InvoiceFilter{}, repository.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "INV-0001", page[0].InvoiceNumber)
}

func TestReceiptRepo_ReferenciaDebil(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{ID: "inv", InvoiceNumber: "INV-0001", CustomerName: "Acme"}))
	require.NoError(t, repos.Receipts.Create(ctx, &entity.Receipt{
		ID: "r1", ReceiptNumber: "RCP-00001", DateTime: day(1), RelatedInvoiceID: "inv",
	}))

	r, err := repos.Receipts.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, r.RelatedInvoice)
	assert.Equal(t, "INV-0001", r.RelatedInvoice.InvoiceNumber)

	require.NoError(t, repos.Invoices.Delete(ctx, "inv"))

	r, err = repos.Receipts.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, r, "borrar la factura no borra el recibo")
	assert.Equal(t, "inv", r.RelatedInvoiceID)
	assert.Nil(t, r.RelatedInvoice)
}

func TestTransactionRepo_BusquedaNumerica(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	for i, gross := range []string{"5.00", "50.00", "500.00"} {
		require.NoError(t, repos.Transactions.Create(ctx, &entity.Transaction{
			ID:            string(rune('a' + i)),
			ReceiptNumber: sequence.Format(sequence.KindTransaction, int64(i+1)),
			DateTime:      day(i + 1),
			GrossAmount:   decimal.RequireFromString(gross),
			Status:        entity.TransactionStatusCompleted,
		}))
	}
	minGross := decimal.NewFromInt(50)
	list, err := repos.Transactions.ListAll(ctx, repository.TransactionFilter{Search: "50", MinGross: &minGross})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "R-000003", list[0].ReceiptNumber)

	list, err = repos.Transactions.ListAll(ctx, repository.TransactionFilter{Search: "000001"})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestTransactionRepo_ListInRangeAscendente(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	for i, d := range []int{5, 1, 3, 9} {
		require.NoError(t, repos.Transactions.Create(ctx, &entity.Transaction{
			ID:            string(rune('a' + i)),
			ReceiptNumber: sequence.Format(sequence.KindTransaction, int64(i+1)),
			DateTime:      day(d),
		}))
	}
	list, err := repos.Transactions.ListInRange(ctx, day(1), day(5))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, day(1), list[0].DateTime)
	assert.Equal(t, day(5), list[2].DateTime)
}

func TestSequenceRepo_SeedNoPisaContador(t *testing.T) {
	repos := New().Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Sequences.Seed(ctx, sequence.KindReceipt, 7))
	require.NoError(t, repos.Sequences.Seed(ctx, sequence.KindReceipt, 100))
	n, found, err := repos.Sequences.Increment(ctx, sequence.KindReceipt)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(8), n)
}

func TestPaginate_OffsetFueraDeRango(t *testing.T) {
	list := []int{1, 2, 3}
	assert.Empty(t, paginate(list, repository.Page{Limit: 2, Offset: -10}))
	assert.Empty(t, paginate(list, repository.Page{Limit: 2, Offset: 3}))
	assert.Equal(t, []int{3}, paginate(list, repository.Page{Limit: 2, Offset: 2}))
}
