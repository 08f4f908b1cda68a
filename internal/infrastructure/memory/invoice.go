package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
)

// InvoiceRepo implementa repository.InvoiceRepository.
type InvoiceRepo struct {
	a accessor
}

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

func cloneInvoice(in *entity.Invoice) *entity.Invoice {
	out := *in
	out.Items = append([]entity.InvoiceItem(nil), in.Items...)
	return &out
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.invoices[inv.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range st.invoices {
		if other.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	st.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	st.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.invoices, id)
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	st, unlock := r.a.read()
	defer unlock()
	inv, ok := st.invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepo) List(_ context.Context, filter repository.InvoiceFilter, page repository.Page) ([]*entity.Invoice, error) {
	st, unlock := r.a.read()
	defer unlock()
	return paginate(filterInvoices(st, filter), page), nil
}

func (r *InvoiceRepo) Count(_ context.Context, filter repository.InvoiceFilter) (int, error) {
	st, unlock := r.a.read()
	defer unlock()
	return len(filterInvoices(st, filter)), nil
}

func (r *InvoiceRepo) LastNumber(_ context.Context) (string, error) {
	st, unlock := r.a.read()
	defer unlock()
	list := make([]*entity.Invoice, 0, len(st.invoices))
	for _, inv := range st.invoices {
		list = append(list, inv)
	}
	return lastBy(list,
		func(i *entity.Invoice) int64 { return i.CreatedAt.UnixNano() },
		func(i *entity.Invoice) string { return i.InvoiceNumber },
	), nil
}

func filterInvoices(st *state, f repository.InvoiceFilter) []*entity.Invoice {
	out := make([]*entity.Invoice, 0)
	for _, inv := range st.invoices {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.Search != "" &&
			!containsFold(inv.InvoiceNumber, f.Search) &&
			!containsFold(inv.CustomerName, f.Search) &&
			!containsFold(inv.CustomerEmail, f.Search) {
			continue
		}
		out = append(out, cloneInvoice(inv))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.After(out[j].IssueDate)
		}
		return out[i].InvoiceNumber > out[j].InvoiceNumber
	})
	return out
}
