package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
)

// TransactionRepo implementa repository.TransactionRepository.
type TransactionRepo struct {
	a accessor
}

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

func cloneTransaction(in *entity.Transaction, withItems bool) *entity.Transaction {
	out := *in
	out.Items = nil
	if withItems {
		out.Items = append([]entity.TransactionItem(nil), in.Items...)
	}
	return &out
}

func (r *TransactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.transactions[t.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range st.transactions {
		if other.ReceiptNumber == t.ReceiptNumber {
			return domain.ErrDuplicate
		}
	}
	st.transactions[t.ID] = cloneTransaction(t, true)
	return nil
}

func (r *TransactionRepo) Update(_ context.Context, t *entity.Transaction) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.transactions[t.ID]; !ok {
		return domain.ErrNotFound
	}
	st.transactions[t.ID] = cloneTransaction(t, true)
	return nil
}

func (r *TransactionRepo) Delete(_ context.Context, id string) error {
	st, unlock := r.a.write()
	defer unlock()
	if _, ok := st.transactions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(st.transactions, id)
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	st, unlock := r.a.read()
	defer unlock()
	t, ok := st.transactions[id]
	if !ok {
		return nil, nil
	}
	return cloneTransaction(t, true), nil
}

func (r *TransactionRepo) List(_ context.Context, filter repository.TransactionFilter, page repository.Page) ([]*entity.Transaction, error) {
	st, unlock := r.a.read()
	defer unlock()
	return paginate(filterTransactions(st, filter, true), page), nil
}

func (r *TransactionRepo) Count(_ context.Context, filter repository.TransactionFilter) (int, error) {
	st, unlock := r.a.read()
	defer unlock()
	return len(filterTransactions(st, filter, false)), nil
}

func (r *TransactionRepo) ListAll(_ context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	st, unlock := r.a.read()
	defer unlock()
	return filterTransactions(st, filter, false), nil
}

func (r *TransactionRepo) ListInRange(_ context.Context, from, to time.Time) ([]*entity.Transaction, error) {
	st, unlock := r.a.read()
	defer unlock()
	out := make([]*entity.Transaction, 0)
	for _, t := range st.transactions {
		if t.DateTime.Before(from) || t.DateTime.After(to) {
			continue
		}
		out = append(out, cloneTransaction(t, true))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.Before(out[j].DateTime)
		}
		return out[i].ReceiptNumber < out[j].ReceiptNumber
	})
	return out, nil
}

func (r *TransactionRepo) LastNumber(_ context.Context) (string, error) {
	st, unlock := r.a.read()
	defer unlock()
	list := make([]*entity.Transaction, 0, len(st.transactions))
	for _, t := range st.transactions {
		list = append(list, t)
	}
	return lastBy(list,
		func(t *entity.Transaction) int64 { return t.CreatedAt.UnixNano() },
		func(t *entity.Transaction) string { return t.ReceiptNumber },
	), nil
}

func filterTransactions(st *state, f repository.TransactionFilter, withItems bool) []*entity.Transaction {
	out := make([]*entity.Transaction, 0)
	for _, t := range st.transactions {
		if f.From != nil && t.DateTime.Before(*f.From) {
			continue
		}
		if f.To != nil && t.DateTime.After(*f.To) {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.PaymentMethod != "" && t.PaymentMethod != f.PaymentMethod {
			continue
		}
		if f.Search != "" {
			byAmount := f.MinGross != nil && t.GrossAmount.GreaterThanOrEqual(*f.MinGross)
			if !containsFold(t.ReceiptNumber, f.Search) && !byAmount {
				continue
			}
		}
		out = append(out, cloneTransaction(t, withItems))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateTime.Equal(out[j].DateTime) {
			return out[i].DateTime.After(out[j].DateTime)
		}
		return out[i].ReceiptNumber > out[j].ReceiptNumber
	})
	return out
}
