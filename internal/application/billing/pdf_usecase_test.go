package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
)

type fakeRenderer struct {
	issuer string
}

func (f *fakeRenderer) GenerateInvoicePDF(_ context.Context, issuer string, inv *entity.Invoice) ([]byte, error) {
	f.issuer = issuer
	return []byte("%PDF " + inv.InvoiceNumber), nil
}

func (f *fakeRenderer) BuildInvoiceXML(issuer string, inv *entity.Invoice) ([]byte, error) {
	return []byte("<Invoice>" + inv.InvoiceNumber + "</Invoice>"), nil
}

func TestDocumentUseCase_PDFyXML(t *testing.T) {
	invoices, s, _ := newInvoiceUC(t)
	ctx := context.Background()
	inv, err := invoices.Create(ctx, sampleInvoice())
	require.NoError(t, err)

	fake := &fakeRenderer{}
	cfg := DefaultConfig()
	cfg.CompanyName = "Tienda Central"
	uc := NewDocumentUseCase(s.Repositories().Invoices, fake, fake, cfg)

	pdf, filename, err := uc.DownloadInvoicePDF(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001.pdf", filename)
	assert.Equal(t, "%PDF INV-0001", string(pdf))
	assert.Equal(t, "Tienda Central", fake.issuer)

	first, err := uc.DownloadInvoiceXML(ctx, inv.ID)
	require.NoError(t, err)
	second, err := uc.DownloadInvoiceXML(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001.xml", first.Filename)
	assert.Equal(t, first.ETag, second.ETag)
	assert.Len(t, first.ETag, 66)

	_, _, err = uc.DownloadInvoicePDF(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.DownloadInvoiceXML(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
