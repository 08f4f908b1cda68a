package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
)

// ReceiptRepo implementa repository.ReceiptRepository.
type ReceiptRepo struct {
	a accessor
}

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// resolve copia el recibo y resuelve la referencia débil a su factura (nil si ya no existe).
func resolve(st *state, in *entity.Receipt) *entity.Receipt {
	out := *in
	out.RelatedInvoice = nil
	if inv, ok := st.invoices[in.RelatedInvoiceID]; ok && in.RelatedInvoiceID != "" {
		out.RelatedInvoice = &entity.InvoiceRef{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
		}
	}
	return &out
}

func (r *ReceiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.receipts[rc.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range st.receipts {
		if other.ReceiptNumber == rc.ReceiptNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *rc
	cp.RelatedInvoice = nil
	st.receipts[rc.ID] = &cp
	return nil
}

func (r *ReceiptRepo) Update(_ context.Context, rc *entity.Receipt) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.receipts[rc.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *rc
	cp.RelatedInvoice = nil
	st.receipts[rc.ID] = &cp
	return nil
}

func (r *ReceiptRepo) Delete(_ context.Context, id string) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.receipts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.receipts, id)
	return nil
}

func (r *ReceiptRepo) GetByID(_ context.Context, id string) (*entity.Receipt, error) {
	st, unlock := r.a.read()
	defer unlock()
	rc, ok := st.receipts[id]
	if !ok {
		return nil, nil
	}
	return resolve(st, rc), nil
}

func (r *ReceiptRepo) List(_ context.Context, filter repository.ReceiptFilter, page repository.Page) ([]*entity.Receipt, error) {
	st, unlock := r.a.read()
	defer unlock()
	return paginate(filterReceipts(st, filter), page), nil
}

func (r *ReceiptRepo) Count(_ context.Context, filter repository.ReceiptFilter) (int, error) {
	st, unlock := r.a.read()
	defer unlock()
	return len(filterReceipts(st, filter)), nil
}

func (r *ReceiptRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Receipt, error) {
	st, unlock := r.a.read()
	defer unlock()
	out := make([]*entity.Receipt, 0)
	for _, rc := range st.receipts {
		if rc.RelatedInvoiceID == invoiceID {
			out = append(out, resolve(st, rc))
		}
	}
	sortReceipts(out)
	return out, nil
}

func (r *ReceiptRepo) LastNumber(_ context.Context) (string, error) {
	st, unlock := r.a.read()
	defer unlock()
	list := make([]*entity.Receipt, 0, len(st.receipts))
	for _, rc := range st.receipts {
		list = append(list, rc)
	}
	return lastBy(list,
		func(rc *entity.Receipt) int64 { return rc.CreatedAt.UnixNano() },
		func(rc *entity.Receipt) string { return rc.ReceiptNumber },
	), nil
}

func filterReceipts(st *state, f repository.ReceiptFilter) []*entity.Receipt {
	out := make([]*entity.Receipt, 0)
	for _, rc := range st.receipts {
		if f.From != nil && rc.DateTime.Before(*f.From) {
			continue
		}
		if f.To != nil && rc.DateTime.After(*f.To) {
			continue
		}
		if f.Source != "" && rc.Source != f.Source {
			continue
		}
		if f.Search != "" {
			byAmount := f.MinAmount != nil && rc.Amount.GreaterThanOrEqual(*f.MinAmount)
			if !containsFold(rc.ReceiptNumber, f.Search) && !byAmount {
				continue
			}
		}
		out = append(out, resolve(st, rc))
	}
	sortReceipts(out)
	return out
}

func sortReceipts(list []*entity.Receipt) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DateTime.Equal(list[j].DateTime) {
			return list[i].DateTime.After(list[j].DateTime)
		}
		return list[i].ReceiptNumber > list[j].ReceiptNumber
	})
}
