package postgres

import (
	"context"
	"fmt"
)

// Truncate vacía todas las tablas de documentos y los contadores de numeración.
// Lo usa el comando seed antes de cargar los datos de ejemplo.
func Truncate(ctx context.Context, q Querier) error {
	const stmt = `TRUNCATE TABLE invoice_items, invoices, transaction_items, transactions, receipts, document_sequences`
	if _, err := q.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}
