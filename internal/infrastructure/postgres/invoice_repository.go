package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, invoice_number, issue_date, due_date, status,
	customer_name, customer_email, customer_address,
	subtotal, tax, total, notes, created_at, updated_at`

// Create persiste la cabecera y las líneas. Debe llamarse dentro de una tx para que sea atómico.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate, inv.Status,
		inv.CustomerName, inv.CustomerEmail, nullIfEmpty(inv.CustomerAddress),
		inv.Subtotal, inv.Tax, inv.Total, nullIfEmpty(inv.Notes),
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return storeErr("insert invoice", err)
	}
	return r.insertItems(ctx, inv)
}

func (r *InvoiceRepo) insertItems(ctx context.Context, inv *entity.Invoice) error {
	const query = `
		INSERT INTO invoice_items (id, invoice_id, position, description, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, it := range inv.Items {
		if _, err := r.q.Exec(ctx, query,
			it.ID, inv.ID, it.Position, it.Description, it.Quantity, it.UnitPrice, it.LineTotal,
		); err != nil {
			return storeErr("insert invoice item", err)
		}
	}
	return nil
}

// Update reemplaza la cabecera y recrea todas las líneas.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET issue_date       = $2,
		    due_date         = $3,
		    status           = $4,
		    customer_name    = $5,
		    customer_email   = $6,
		    customer_address = $7,
		    subtotal         = $8,
		    tax              = $9,
		    total            = $10,
		    notes            = $11,
		    updated_at       = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.IssueDate, inv.DueDate, inv.Status,
		inv.CustomerName, inv.CustomerEmail, nullIfEmpty(inv.CustomerAddress),
		inv.Subtotal, inv.Tax, inv.Total, nullIfEmpty(inv.Notes), inv.UpdatedAt,
	)
	if err != nil {
		return storeErr("update invoice", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return storeErr("delete invoice items", err)
	}
	return r.insertItems(ctx, inv)
}

// Delete elimina la factura; las líneas caen por ON DELETE CASCADE. Los recibos no tienen FK.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete invoice", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get invoice", err)
	}
	if err := r.loadItems(ctx, []*entity.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

// List página de facturas con sus líneas, por fecha de emisión descendente.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter, page repository.Page) ([]*entity.Invoice, error) {
	w := invoiceWhere(filter)
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + w.sql() +
		` ORDER BY issue_date DESC, invoice_number DESC` + w.page(page.Limit, page.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, storeErr("list invoices", err)
	}
	defer rows.Close()

	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, storeErr("scan invoice", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list invoices", err)
	}
	rows.Close()
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *InvoiceRepo) Count(ctx context.Context, filter repository.InvoiceFilter) (int, error) {
	w := invoiceWhere(filter)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, storeErr("count invoices", err)
	}
	return n, nil
}

func (r *InvoiceRepo) LastNumber(ctx context.Context) (string, error) {
	var number string
	err := r.q.QueryRow(ctx,
		`SELECT invoice_number FROM invoices ORDER BY created_at DESC, invoice_number DESC LIMIT 1`,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", storeErr("last invoice number", err)
	}
	return number, nil
}

// loadItems completa Items de cada factura con una sola consulta.
func (r *InvoiceRepo) loadItems(ctx context.Context, list []*entity.Invoice) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Invoice, len(list))
	ids := make([]string, 0, len(list))
	for _, inv := range list {
		inv.Items = []entity.InvoiceItem{}
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, position, description, quantity, unit_price, line_total
		FROM invoice_items WHERE invoice_id = ANY($1) ORDER BY invoice_id, position`, ids)
	if err != nil {
		return storeErr("list invoice items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Position, &it.Description, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return storeErr("scan invoice item", err)
		}
		if inv, ok := byID[it.InvoiceID]; ok {
			inv.Items = append(inv.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return storeErr("list invoice items", err)
	}
	return nil
}

func invoiceWhere(f repository.InvoiceFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		w.add(`(strpos(lower(invoice_number), lower(?)) > 0
			OR strpos(lower(customer_name), lower(?)) > 0
			OR strpos(lower(customer_email), lower(?)) > 0)`, f.Search, f.Search, f.Search)
	}
	return w
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var address, notes *string
	if err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.IssueDate, &inv.DueDate, &inv.Status,
		&inv.CustomerName, &inv.CustomerEmail, &address,
		&inv.Subtotal, &inv.Tax, &inv.Total, &notes, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.CustomerAddress = derefStr(address)
	inv.Notes = derefStr(notes)
	inv.IssueDate = inv.IssueDate.UTC()
	inv.DueDate = inv.DueDate.UTC()
	inv.CreatedAt = inv.CreatedAt.UTC()
	inv.UpdatedAt = inv.UpdatedAt.UTC()
	return &inv, nil
}
