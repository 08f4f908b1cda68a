package repository

import (
	"context"

	"github.com/jhoicas/pos-admin/internal/domain/sequence"
)

// SequenceRepository contador atómico por tipo de documento (tabla document_sequences).
// Debe usarse dentro de la misma transacción que inserta el documento numerado.
type SequenceRepository interface {
	// Increment suma 1 al contador y devuelve el nuevo valor. found=false si el contador no existe aún.
	Increment(ctx context.Context, kind sequence.Kind) (value int64, found bool, err error)
	// Seed crea el contador con lastValue; si ya existe no lo modifica.
	Seed(ctx context.Context, kind sequence.Kind, lastValue int64) error
	// Set fija el contador (seed de datos de ejemplo).
	Set(ctx context.Context, kind sequence.Kind, lastValue int64) error
}

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Invoices     InvoiceRepository
	Receipts     ReceiptRepository
	Transactions TransactionRepository
	Sequences    SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(repos Repositories) error) error
}
