package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `
	id, date_time, gross_amount, net_amount, tax_amount,
	payment_method, status, receipt_number, created_at, updated_at`

func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.DateTime, t.GrossAmount, t.NetAmount, t.TaxAmount,
		t.PaymentMethod, t.Status, t.ReceiptNumber, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return storeErr("insert transaction", err)
	}
	return r.insertItems(ctx, t)
}

func (r *TransactionRepo) insertItems(ctx context.Context, t *entity.Transaction) error {
	const query = `
		INSERT INTO transaction_items (id, transaction_id, position, product_name, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, it := range t.Items {
		if _, err := r.q.Exec(ctx, query,
			it.ID, t.ID, it.Position, it.ProductName, it.Quantity, it.UnitPrice, it.LineTotal,
		); err != nil {
			return storeErr("insert transaction item", err)
		}
	}
	return nil
}

func (r *TransactionRepo) Update(ctx context.Context, t *entity.Transaction) error {
	const query = `
		UPDATE transactions
		SET date_time = $2, gross_amount = $3, net_amount = $4, tax_amount = $5,
		    payment_method = $6, status = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		t.ID, t.DateTime, t.GrossAmount, t.NetAmount, t.TaxAmount,
		t.PaymentMethod, t.Status, t.UpdatedAt,
	)
	if err != nil {
		return storeErr("update transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id = $1`, t.ID); err != nil {
		return storeErr("delete transaction items", err)
	}
	return r.insertItems(ctx, t)
}

func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get transaction", err)
	}
	if err := r.loadItems(ctx, []*entity.Transaction{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter, page repository.Page) ([]*entity.Transaction, error) {
	w := transactionWhere(filter)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + w.sql() +
		` ORDER BY date_time DESC, receipt_number DESC` + w.page(page.Limit, page.Offset)
	list, err := r.query(ctx, "list transactions", query, w.args...)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TransactionRepo) Count(ctx context.Context, filter repository.TransactionFilter) (int, error) {
	w := transactionWhere(filter)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, storeErr("count transactions", err)
	}
	return n, nil
}

func (r *TransactionRepo) ListAll(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	w := transactionWhere(filter)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + w.sql() + ` ORDER BY date_time DESC, receipt_number DESC`
	return r.query(ctx, "export transactions", query, w.args...)
}

func (r *TransactionRepo) ListInRange(ctx context.Context, from, to time.Time) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE date_time >= $1 AND date_time <= $2
		ORDER BY date_time ASC, receipt_number ASC`
	list, err := r.query(ctx, "transactions in range", query, from, to)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TransactionRepo) LastNumber(ctx context.Context) (string, error) {
	var number string
	err := r.q.QueryRow(ctx,
		`SELECT receipt_number FROM transactions ORDER BY created_at DESC, receipt_number DESC LIMIT 1`,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", storeErr("last transaction number", err)
	}
	return number, nil
}

func (r *TransactionRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()
	list := make([]*entity.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return list, nil
}

// loadItems completa Items de cada venta con una sola consulta.
func (r *TransactionRepo) loadItems(ctx context.Context, list []*entity.Transaction) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Transaction, len(list))
	ids := make([]string, 0, len(list))
	for _, t := range list {
		t.Items = []entity.TransactionItem{}
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, transaction_id, position, product_name, quantity, unit_price, line_total
		FROM transaction_items WHERE transaction_id = ANY($1) ORDER BY transaction_id, position`, ids)
	if err != nil {
		return storeErr("list transaction items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.TransactionItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.Position, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return storeErr("scan transaction item", err)
		}
		if t, ok := byID[it.TransactionID]; ok {
			t.Items = append(t.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return storeErr("list transaction items", err)
	}
	return nil
}

func transactionWhere(f repository.TransactionFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.From != nil {
		w.add("date_time >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date_time <= ?", *f.To)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.PaymentMethod != "" {
		w.add("payment_method = ?", f.PaymentMethod)
	}
	if f.Search != "" {
		if f.MinGross != nil {
			w.add("(strpos(lower(receipt_number), lower(?)) > 0 OR gross_amount >= ?)", f.Search, *f.MinGross)
		} else {
			w.add("strpos(lower(receipt_number), lower(?)) > 0", f.Search)
		}
	}
	return w
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	if err := row.Scan(
		&t.ID, &t.DateTime, &t.GrossAmount, &t.NetAmount, &t.TaxAmount,
		&t.PaymentMethod, &t.Status, &t.ReceiptNumber, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.DateTime = t.DateTime.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
