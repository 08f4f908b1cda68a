package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implementación de ReceiptRepository. related_invoice_id no tiene FK: la factura
// se resuelve con LEFT JOIN y queda en NULL si fue eliminada.
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

const receiptSelect = `
	SELECT r.id, r.receipt_number, r.date_time, r.amount, r.payment_method, r.source,
	       r.related_invoice_id, r.notes, r.created_at, r.updated_at,
	       i.id, i.invoice_number, i.customer_name
	FROM receipts r
	LEFT JOIN invoices i ON i.id = r.related_invoice_id`

func (r *ReceiptRepo) Create(ctx context.Context, rc *entity.Receipt) error {
	const query = `
		INSERT INTO receipts (id, receipt_number, date_time, amount, payment_method, source,
		                      related_invoice_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		rc.ID, rc.ReceiptNumber, rc.DateTime, rc.Amount, rc.PaymentMethod, rc.Source,
		nullIfEmpty(rc.RelatedInvoiceID), nullIfEmpty(rc.Notes), rc.CreatedAt, rc.UpdatedAt,
	)
	if err != nil {
		return storeErr("insert receipt", err)
	}
	return nil
}

func (r *ReceiptRepo) Update(ctx context.Context, rc *entity.Receipt) error {
	const query = `
		UPDATE receipts
		SET date_time = $2, amount = $3, payment_method = $4, source = $5,
		    related_invoice_id = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		rc.ID, rc.DateTime, rc.Amount, rc.PaymentMethod, rc.Source,
		nullIfEmpty(rc.RelatedInvoiceID), nullIfEmpty(rc.Notes), rc.UpdatedAt,
	)
	if err != nil {
		return storeErr("update receipt", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReceiptRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM receipts WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete receipt", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	rc, err := scanReceipt(r.q.QueryRow(ctx, receiptSelect+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get receipt", err)
	}
	return rc, nil
}

func (r *ReceiptRepo) List(ctx context.Context, filter repository.ReceiptFilter, page repository.Page) ([]*entity.Receipt, error) {
	w := receiptWhere(filter)
	query := receiptSelect + w.sql() + ` ORDER BY r.date_time DESC, r.receipt_number DESC` + w.page(page.Limit, page.Offset)
	return r.query(ctx, "list receipts", query, w.args...)
}

func (r *ReceiptRepo) Count(ctx context.Context, filter repository.ReceiptFilter) (int, error) {
	w := receiptWhere(filter)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM receipts r`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, storeErr("count receipts", err)
	}
	return n, nil
}

func (r *ReceiptRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Receipt, error) {
	query := receiptSelect + ` WHERE r.related_invoice_id = $1 ORDER BY r.date_time DESC, r.receipt_number DESC`
	return r.query(ctx, "list receipts by invoice", query, invoiceID)
}

func (r *ReceiptRepo) LastNumber(ctx context.Context) (string, error) {
	var number string
	err := r.q.QueryRow(ctx,
		`SELECT receipt_number FROM receipts ORDER BY created_at DESC, receipt_number DESC LIMIT 1`,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", storeErr("last receipt number", err)
	}
	return number, nil
}

func (r *ReceiptRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Receipt, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()
	list := make([]*entity.Receipt, 0)
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		list = append(list, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return list, nil
}

func receiptWhere(f repository.ReceiptFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.From != nil {
		w.add("r.date_time >= ?", *f.From)
	}
	if f.To != nil {
		w.add("r.date_time <= ?", *f.To)
	}
	if f.Source != "" {
		w.add("r.source = ?", f.Source)
	}
	if f.Search != "" {
		if f.MinAmount != nil {
			w.add("(strpos(lower(r.receipt_number), lower(?)) > 0 OR r.amount >= ?)", f.Search, *f.MinAmount)
		} else {
			w.add("strpos(lower(r.receipt_number), lower(?)) > 0", f.Search)
		}
	}
	return w
}

func scanReceipt(row pgx.Row) (*entity.Receipt, error) {
	var rc entity.Receipt
	var related, notes, invID, invNumber, invCustomer *string
	if err := row.Scan(
		&rc.ID, &rc.ReceiptNumber, &rc.DateTime, &rc.Amount, &rc.PaymentMethod, &rc.Source,
		&related, &notes, &rc.CreatedAt, &rc.UpdatedAt,
		&invID, &invNumber, &invCustomer,
	); err != nil {
		return nil, err
	}
	rc.RelatedInvoiceID = derefStr(related)
	rc.Notes = derefStr(notes)
	rc.DateTime = rc.DateTime.UTC()
	rc.CreatedAt = rc.CreatedAt.UTC()
	rc.UpdatedAt = rc.UpdatedAt.UTC()
	if invID != nil {
		rc.RelatedInvoice = &entity.InvoiceRef{
			ID:            *invID,
			InvoiceNumber: derefStr(invNumber),
			CustomerName:  derefStr(invCustomer),
		}
	}
	return &rc, nil
}
